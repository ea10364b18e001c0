package allsports

import (
	"fmt"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

func overallRowFixture(position int, team string, gf, ga, pts int) map[string]any {
	return map[string]any{
		"overall_league_position": fmt.Sprint(position),
		"team_name":               team,
		"overall_league_payed":    "10",
		"overall_league_W":        "6",
		"overall_league_D":        "2",
		"overall_league_L":        "2",
		"overall_league_GF":       fmt.Sprint(gf),
		"overall_league_GA":       ga,
		"overall_league_PTS":      pts,
		"league_name":             "Premier League",
		"league_season":           "2024/2025",
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := jsoniter.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return raw
}

func TestNormalize_OverallListCoercesStrings(t *testing.T) {
	t.Parallel()

	payload := mustJSON(t, map[string]any{
		"success": 1,
		"result": []any{
			overallRowFixture(1, "Liverpool", 25, 8, 20),
			overallRowFixture(2, "Arsenal", "", 9, 18),
		},
	})

	got, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := standings.Result{
		League: "Premier League",
		Season: "2024/2025",
		Standings: []standings.Record{
			{Position: 1, Team: "Liverpool", Played: 10, Wins: 6, Draws: 2, Losses: 2, Points: 20, GoalDiff: 17, GoalsFor: standings.IntPtr(25), GoalsAgainst: standings.IntPtr(8)},
			{Position: 2, Team: "Arsenal", Played: 10, Wins: 6, Draws: 2, Losses: 2, Points: 18, GoalDiff: 0, GoalsFor: nil, GoalsAgainst: standings.IntPtr(9)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestNormalize_TotalTablePreservesOrderAndGoalDiff(t *testing.T) {
	t.Parallel()

	row := func(place int, team string, gf, ga, gd int) map[string]any {
		return map[string]any{
			"standing_place": place, "standing_team": team,
			"standing_P": 3, "standing_W": 2, "standing_D": 1, "standing_L": 0,
			"standing_F": gf, "standing_A": ga, "standing_GD": gd, "standing_PTS": 7,
		}
	}
	payload := mustJSON(t, map[string]any{
		"success": 1,
		"result": map[string]any{
			"total": []any{row(2, "Girona", 7, 3, 99), row(1, "Real Madrid", 9, 1, 8)},
			"home":  []any{row(1, "Home Only", 1, 0, 1)},
		},
	})

	got, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(got.Standings) != 2 {
		t.Fatalf("expected total table only, got %d rows", len(got.Standings))
	}
	if got.Standings[0].Team != "Girona" || got.Standings[1].Team != "Real Madrid" {
		t.Fatalf("expected provider order preserved, got %+v", got.Standings)
	}
	for _, rec := range got.Standings {
		if rec.GoalDiff != *rec.GoalsFor-*rec.GoalsAgainst {
			t.Fatalf("goal difference invariant broken for %s: %d", rec.Team, rec.GoalDiff)
		}
	}

	again, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize again: %v", err)
	}
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("normalize is not deterministic:\n%s", diff)
	}
}

func TestNormalize_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload any
		want    error
	}{
		{"error field", map[string]any{"error": "1", "result": []any{map[string]any{"msg": "Wrong login credentials"}}}, usecase.ErrMalformedResponse},
		{"success zero", map[string]any{"success": 0, "result": []any{}}, usecase.ErrMalformedResponse},
		{"missing result", map[string]any{"success": 1}, usecase.ErrMalformedResponse},
		{"empty list", map[string]any{"success": 1, "result": []any{}}, usecase.ErrEmptyStandings},
		{"missing total", map[string]any{"success": 1, "result": map[string]any{"home": []any{}}}, usecase.ErrEmptyStandings},
		{"scalar result", map[string]any{"success": 1, "result": "nope"}, usecase.ErrMalformedResponse},
	}

	for _, tc := range cases {
		_, err := Normalize(mustJSON(t, tc.payload))
		if !crerr.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
