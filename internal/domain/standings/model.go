package standings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CurrentSeason is the cache key segment used when no season is requested.
const CurrentSeason = "current"

// seasonPattern accepts a start year, a year span like 2024/2025 or 2024-25, or a numeric
// provider season id.
var seasonPattern = regexp.MustCompile(`^\d+([/-]\d{2,4})?$`)

var seasonYearPattern = regexp.MustCompile(`^(\d{4})(?:[/-](\d{2}|\d{4}))?$`)

// Record is one team's row in a league table.
type Record struct {
	Position     int    `json:"position"`
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	Points       int    `json:"points"`
	GoalDiff     int    `json:"goal_diff"`
	GoalsFor     *int   `json:"goals_for,omitempty"`
	GoalsAgainst *int   `json:"goals_against,omitempty"`
	Form         string `json:"form,omitempty"`
}

// Result is the normalized table for one league and season. It is the unit that gets cached.
type Result struct {
	League    string   `json:"league"`
	Season    string   `json:"season,omitempty"`
	Standings []Record `json:"standings"`
}

// NewRecord builds a record, deriving goal difference from goals for and against when the
// provider does not send it.
func NewRecord(position int, team string, played, wins, draws, losses, points int, goalDiff *int, goalsFor, goalsAgainst *int, form string) Record {
	rec := Record{
		Position:     position,
		Team:         team,
		Played:       played,
		Wins:         wins,
		Draws:        draws,
		Losses:       losses,
		Points:       points,
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Form:         form,
	}
	switch {
	case goalsFor != nil && goalsAgainst != nil:
		rec.GoalDiff = *goalsFor - *goalsAgainst
	case goalDiff != nil:
		rec.GoalDiff = *goalDiff
	}
	return rec
}

func (r Record) Validate() error {
	if r.Team == "" {
		return fmt.Errorf("team name is required at position %d", r.Position)
	}
	if r.GoalsFor != nil && r.GoalsAgainst != nil && r.GoalDiff != *r.GoalsFor-*r.GoalsAgainst {
		return fmt.Errorf("goal difference mismatch for %s", r.Team)
	}
	return nil
}

// Len reports the number of rows.
func (r Result) Len() int {
	return len(r.Standings)
}

// ValidSeason reports whether season is empty or in an accepted form.
func ValidSeason(season string) bool {
	season = strings.TrimSpace(season)
	return season == "" || seasonPattern.MatchString(season)
}

// SeasonStartYear reduces a season to its starting year: 2024, 2024/2025 and 2024-25 all
// give 2024. It reports false for provider season ids and for spans whose end is not the
// following year.
func SeasonStartYear(season string) (int, bool) {
	m := seasonYearPattern.FindStringSubmatch(strings.TrimSpace(season))
	if m == nil {
		return 0, false
	}
	start, _ := strconv.Atoi(m[1])
	if m[2] == "" {
		return start, true
	}
	end, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		end += start / 100 * 100
		if end < start {
			end += 100
		}
	}
	if end != start+1 {
		return 0, false
	}
	return start, true
}

// IntPtr is a small helper for optional counters.
func IntPtr(v int) *int {
	return &v
}
