package allsports

import (
	"bytes"
	"encoding/json"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/external/upstream"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

type standingsEnvelope struct {
	Success upstream.FlexInt    `json:"success"`
	Error   upstream.FlexString `json:"error"`
	Result  json.RawMessage     `json:"result"`
}

type errorItem struct {
	Msg upstream.FlexString `json:"msg"`
}

// tableResult is the current shape: separate total, home and away tables.
type tableResult struct {
	Total []tableRow `json:"total"`
}

type tableRow struct {
	Place        upstream.FlexInt    `json:"standing_place"`
	Team         upstream.FlexString `json:"standing_team"`
	Played       upstream.FlexInt    `json:"standing_P"`
	Wins         upstream.FlexInt    `json:"standing_W"`
	Draws        upstream.FlexInt    `json:"standing_D"`
	Losses       upstream.FlexInt    `json:"standing_L"`
	GoalsFor     upstream.FlexInt    `json:"standing_F"`
	GoalsAgainst upstream.FlexInt    `json:"standing_A"`
	GoalDiff     upstream.FlexInt    `json:"standing_GD"`
	Points       upstream.FlexInt    `json:"standing_PTS"`
	LeagueName   upstream.FlexString `json:"league_name"`
	Season       upstream.FlexString `json:"league_season"`
}

// overallRow is the older flat list shape.
type overallRow struct {
	Position     upstream.FlexInt    `json:"overall_league_position"`
	Team         upstream.FlexString `json:"team_name"`
	Played       upstream.FlexInt    `json:"overall_league_payed"`
	Wins         upstream.FlexInt    `json:"overall_league_W"`
	Draws        upstream.FlexInt    `json:"overall_league_D"`
	Losses       upstream.FlexInt    `json:"overall_league_L"`
	GoalsFor     upstream.FlexInt    `json:"overall_league_GF"`
	GoalsAgainst upstream.FlexInt    `json:"overall_league_GA"`
	Points       upstream.FlexInt    `json:"overall_league_PTS"`
	LeagueName   upstream.FlexString `json:"league_name"`
	Season       upstream.FlexString `json:"league_season"`
}

func (c *Client) Normalize(payload []byte) (standings.Result, error) {
	return Normalize(payload)
}

func Normalize(payload []byte) (standings.Result, error) {
	var envelope standingsEnvelope
	if err := upstream.Decode(ProviderName, payload, &envelope); err != nil {
		return standings.Result{}, err
	}

	result := bytes.TrimSpace(envelope.Result)
	if hasError(envelope.Success, envelope.Error) {
		return standings.Result{}, crerr.Wrapf(usecase.ErrMalformedResponse, "allsports error=%s message=%s", envelope.Error, errorMessage(result))
	}
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return standings.Result{}, crerr.Wrap(usecase.ErrMalformedResponse, "allsports payload has no result")
	}

	var out standings.Result
	switch result[0] {
	case '[':
		var rows []overallRow
		if err := upstream.Decode(ProviderName, result, &rows); err != nil {
			return standings.Result{}, err
		}
		out.Standings = make([]standings.Record, 0, len(rows))
		for _, row := range rows {
			out.Standings = append(out.Standings, standings.NewRecord(
				row.Position.Int(), row.Team.String(),
				row.Played.Int(), row.Wins.Int(), row.Draws.Int(), row.Losses.Int(), row.Points.Int(),
				nil, row.GoalsFor.Ptr(), row.GoalsAgainst.Ptr(), "",
			))
		}
		if len(rows) > 0 {
			out.League, out.Season = rows[0].LeagueName.String(), rows[0].Season.String()
		}
	case '{':
		var tables tableResult
		if err := upstream.Decode(ProviderName, result, &tables); err != nil {
			return standings.Result{}, err
		}
		out.Standings = make([]standings.Record, 0, len(tables.Total))
		for _, row := range tables.Total {
			out.Standings = append(out.Standings, standings.NewRecord(
				row.Place.Int(), row.Team.String(),
				row.Played.Int(), row.Wins.Int(), row.Draws.Int(), row.Losses.Int(), row.Points.Int(),
				row.GoalDiff.Ptr(), row.GoalsFor.Ptr(), row.GoalsAgainst.Ptr(), "",
			))
		}
		if len(tables.Total) > 0 {
			out.League, out.Season = tables.Total[0].LeagueName.String(), tables.Total[0].Season.String()
		}
	default:
		return standings.Result{}, crerr.Wrap(usecase.ErrMalformedResponse, "allsports result is neither a list nor an object")
	}

	if len(out.Standings) == 0 {
		return standings.Result{}, crerr.Wrap(usecase.ErrEmptyStandings, "allsports total table has no rows")
	}
	return out, nil
}

func errorMessage(result []byte) string {
	var items []errorItem
	if len(result) == 0 || result[0] != '[' {
		return ""
	}
	if err := upstream.Decode(ProviderName, result, &items); err != nil || len(items) == 0 {
		return ""
	}
	return items[0].Msg.String()
}
