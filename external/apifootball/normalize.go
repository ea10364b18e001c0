package apifootball

import (
	"bytes"
	"encoding/json"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/external/upstream"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

type standingsEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response *[]responseItem `json:"response"`
}

type responseItem struct {
	League struct {
		Name      upstream.FlexString `json:"name"`
		Season    upstream.FlexInt    `json:"season"`
		Standings [][]tableRow        `json:"standings"`
	} `json:"league"`
}

type tableRow struct {
	Rank upstream.FlexInt `json:"rank"`
	Team struct {
		Name upstream.FlexString `json:"name"`
	} `json:"team"`
	Points    upstream.FlexInt    `json:"points"`
	GoalsDiff upstream.FlexInt    `json:"goalsDiff"`
	Form      upstream.FlexString `json:"form"`
	All       struct {
		Played upstream.FlexInt `json:"played"`
		Win    upstream.FlexInt `json:"win"`
		Draw   upstream.FlexInt `json:"draw"`
		Lose   upstream.FlexInt `json:"lose"`
		Goals  struct {
			For     upstream.FlexInt `json:"for"`
			Against upstream.FlexInt `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

func (c *Client) Normalize(payload []byte) (standings.Result, error) {
	return Normalize(payload)
}

func Normalize(payload []byte) (standings.Result, error) {
	var envelope standingsEnvelope
	if err := upstream.Decode(ProviderName, payload, &envelope); err != nil {
		return standings.Result{}, err
	}
	if hasErrors(envelope.Errors) {
		return standings.Result{}, crerr.Wrapf(usecase.ErrMalformedResponse, "api-football errors=%s", bytes.TrimSpace(envelope.Errors))
	}
	if envelope.Response == nil {
		return standings.Result{}, crerr.Wrap(usecase.ErrMalformedResponse, "api-football payload has no response list")
	}

	items := *envelope.Response
	if len(items) == 0 || len(items[0].League.Standings) == 0 || len(items[0].League.Standings[0]) == 0 {
		return standings.Result{}, crerr.Wrap(usecase.ErrEmptyStandings, "api-football returned no standings group")
	}

	item := items[0]
	group := item.League.Standings[0]
	out := standings.Result{
		League:    item.League.Name.String(),
		Standings: make([]standings.Record, 0, len(group)),
	}
	if item.League.Season.Set {
		out.Season = strconv.Itoa(item.League.Season.Int())
	}

	for _, row := range group {
		out.Standings = append(out.Standings, standings.NewRecord(
			row.Rank.Int(), row.Team.Name.String(),
			row.All.Played.Int(), row.All.Win.Int(), row.All.Draw.Int(), row.All.Lose.Int(), row.Points.Int(),
			row.GoalsDiff.Ptr(), row.All.Goals.For.Ptr(), row.All.Goals.Against.Ptr(),
			row.Form.String(),
		))
	}
	return out, nil
}

// hasErrors treats null, [] and {} as no errors.
func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return false
	default:
		return true
	}
}
