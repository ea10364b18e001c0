package commands

import (
	"fmt"
	"io"

	sonic "github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, payload any) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func renderStandingsTable(w io.Writer, result standings.Result) {
	t := newTable(w)
	title := result.League
	if result.Season != "" {
		title = fmt.Sprintf("%s %s", result.League, result.Season)
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts", "Form"})
	for _, r := range result.Standings {
		t.AppendRow(table.Row{
			r.Position, r.Team, r.Played, r.Wins, r.Draws, r.Losses,
			optionalInt(r.GoalsFor), optionalInt(r.GoalsAgainst), signed(r.GoalDiff), r.Points, r.Form,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft},
		{Number: 11, Align: text.AlignLeft},
	})
	t.Render()
}

func renderLeaguesTable(w io.Writer, provider string, items []league.Descriptor) {
	t := newTable(w)
	t.SetTitle("Provider: " + provider)
	t.AppendHeader(table.Row{"Key", "Name", "Country"})
	for _, item := range items {
		t.AppendRow(table.Row{item.Key, item.Name, item.Country})
	}
	t.Render()
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func signed(v int) string {
	if v > 0 {
		return "+" + fmt.Sprint(v)
	}
	return fmt.Sprint(v)
}
