package footballdata

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/external/upstream"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

const totalTableType = "TOTAL"

type standingsEnvelope struct {
	ErrorCode   upstream.FlexInt    `json:"errorCode"`
	Message     upstream.FlexString `json:"message"`
	Competition struct {
		Name upstream.FlexString `json:"name"`
	} `json:"competition"`
	Season struct {
		StartDate upstream.FlexString `json:"startDate"`
	} `json:"season"`
	Standings []standingsTable `json:"standings"`
}

type standingsTable struct {
	Type  upstream.FlexString `json:"type"`
	Table []tableRow          `json:"table"`
}

type tableRow struct {
	Position upstream.FlexInt `json:"position"`
	Team     struct {
		Name      upstream.FlexString `json:"name"`
		ShortName upstream.FlexString `json:"shortName"`
	} `json:"team"`
	PlayedGames    upstream.FlexInt    `json:"playedGames"`
	Form           upstream.FlexString `json:"form"`
	Won            upstream.FlexInt    `json:"won"`
	Draw           upstream.FlexInt    `json:"draw"`
	Lost           upstream.FlexInt    `json:"lost"`
	Points         upstream.FlexInt    `json:"points"`
	GoalsFor       upstream.FlexInt    `json:"goalsFor"`
	GoalsAgainst   upstream.FlexInt    `json:"goalsAgainst"`
	GoalDifference upstream.FlexInt    `json:"goalDifference"`
}

func (c *Client) Normalize(payload []byte) (standings.Result, error) {
	return Normalize(payload)
}

func Normalize(payload []byte) (standings.Result, error) {
	var envelope standingsEnvelope
	if err := upstream.Decode(ProviderName, payload, &envelope); err != nil {
		return standings.Result{}, err
	}
	if envelope.ErrorCode.Set {
		return standings.Result{}, crerr.Wrapf(usecase.ErrMalformedResponse, "football-data errorCode=%d message=%s", envelope.ErrorCode.Int(), envelope.Message)
	}

	table, ok := selectTable(envelope.Standings)
	if !ok || len(table.Table) == 0 {
		return standings.Result{}, crerr.Wrap(usecase.ErrEmptyStandings, "football-data returned no standings table")
	}

	out := standings.Result{
		League:    envelope.Competition.Name.String(),
		Season:    seasonYear(envelope.Season.StartDate.String()),
		Standings: make([]standings.Record, 0, len(table.Table)),
	}
	for _, row := range table.Table {
		team := row.Team.Name.String()
		if team == "" {
			team = row.Team.ShortName.String()
		}
		out.Standings = append(out.Standings, standings.NewRecord(
			row.Position.Int(), team,
			row.PlayedGames.Int(), row.Won.Int(), row.Draw.Int(), row.Lost.Int(), row.Points.Int(),
			row.GoalDifference.Ptr(), row.GoalsFor.Ptr(), row.GoalsAgainst.Ptr(),
			compactForm(row.Form.String()),
		))
	}
	return out, nil
}

// selectTable picks the first TOTAL table, falling back to the first table.
func selectTable(tables []standingsTable) (standingsTable, bool) {
	for _, table := range tables {
		if strings.EqualFold(table.Type.String(), totalTableType) {
			return table, true
		}
	}
	if len(tables) == 0 {
		return standingsTable{}, false
	}
	return tables[0], true
}

func seasonYear(startDate string) string {
	if len(startDate) >= 4 {
		return startDate[:4]
	}
	return startDate
}

func compactForm(form string) string {
	return strings.ToUpper(strings.NewReplacer(",", "", " ", "").Replace(form))
}
