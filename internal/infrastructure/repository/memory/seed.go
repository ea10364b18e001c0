package memory

import "github.com/riskibarqy/league-standings/internal/domain/league"

const (
	LeagueKeyEngland = "england"
	LeagueKeySpain   = "spain"
)

// SeedLeagues returns the supported league descriptors.
func SeedLeagues() []league.Descriptor {
	return []league.Descriptor{
		{
			Key:                LeagueKeyEngland,
			Name:               "Premier League",
			Country:            "England",
			AllSportsID:        152,
			AllSportsCountryID: 44,
			FootballDataCode:   "PL",
			APIFootballID:      39,
			SportMonksLeagueID: 8,
		},
		{
			Key:                LeagueKeySpain,
			Name:               "La Liga",
			Country:            "Spain",
			AllSportsID:        302,
			AllSportsCountryID: 6,
			FootballDataCode:   "PD",
			APIFootballID:      140,
			SportMonksLeagueID: 564,
		},
	}
}
