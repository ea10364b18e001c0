package standings

import "testing"

func TestNewRecord_GoalDiffFromGoals(t *testing.T) {
	t.Parallel()

	rec := NewRecord(1, "Arsenal", 10, 8, 1, 1, 25, IntPtr(99), IntPtr(24), IntPtr(7), "WWDWW")
	if rec.GoalDiff != 17 {
		t.Fatalf("expected goal diff 17, got %d", rec.GoalDiff)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestNewRecord_ProvidedGoalDiffWithoutGoals(t *testing.T) {
	t.Parallel()

	rec := NewRecord(2, "Chelsea", 10, 7, 2, 1, 23, IntPtr(9), nil, nil, "")
	if rec.GoalDiff != 9 {
		t.Fatalf("expected goal diff 9, got %d", rec.GoalDiff)
	}
	if rec.GoalsFor != nil || rec.GoalsAgainst != nil {
		t.Fatalf("expected goals to stay absent")
	}
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	if err := (Record{Position: 3}).Validate(); err == nil {
		t.Fatalf("expected error for missing team")
	}

	bad := Record{Team: "Spurs", GoalDiff: 1, GoalsFor: IntPtr(3), GoalsAgainst: IntPtr(3)}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected goal difference mismatch")
	}
}

func TestValidSeason(t *testing.T) {
	t.Parallel()

	for _, season := range []string{"", "2024", "2024/2025", "2024-25", "23614"} {
		if !ValidSeason(season) {
			t.Fatalf("expected %q to be valid", season)
		}
	}
	for _, season := range []string{"current", "24/25/26", "2024/", "abc", "2024 2025"} {
		if ValidSeason(season) {
			t.Fatalf("expected %q to be invalid", season)
		}
	}
}

func TestSeasonStartYear(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		year int
		ok   bool
	}{
		"2024":      {2024, true},
		" 2024 ":    {2024, true},
		"2024/2025": {2024, true},
		"2024-25":   {2024, true},
		"1999-00":   {1999, true},
		"2024/2026": {0, false},
		"2024-23":   {0, false},
		"23614":     {0, false},
		"24":        {0, false},
		"":          {0, false},
	}
	for season, want := range cases {
		year, ok := SeasonStartYear(season)
		if year != want.year || ok != want.ok {
			t.Fatalf("SeasonStartYear(%q) = %d, %v; want %d, %v", season, year, ok, want.year, want.ok)
		}
	}
}
