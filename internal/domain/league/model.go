package league

import (
	"fmt"
	"strings"
)

// Descriptor maps a canonical league key onto the identifiers each provider uses.
type Descriptor struct {
	Key                string
	Name               string
	Country            string
	AllSportsID        int64
	AllSportsCountryID int64
	FootballDataCode   string
	APIFootballID      int64
	SportMonksLeagueID int64
}

// NormalizeKey lower-cases and trims a league key before lookup.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (d Descriptor) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("league key is required")
	}
	if d.Key != NormalizeKey(d.Key) {
		return fmt.Errorf("league key %q must be lower-case", d.Key)
	}
	if d.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if d.Country == "" {
		return fmt.Errorf("league country is required")
	}

	return nil
}
