package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func newStandingsCmd(rt *runtime) *cobra.Command {
	var leagueKey, season, output string

	cmd := &cobra.Command{
		Use:   "standings --league <key> [--season <season>] [--output table|json]",
		Short: "Prints the standings table of a supported league.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			if format != outputTable && format != outputJSON {
				return fmt.Errorf("unknown output format %q", output)
			}

			result, err := rt.app.Standings.GetStandings(cmd.Context(), leagueKey, season)
			if err != nil {
				return err
			}

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderStandingsTable(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&leagueKey, "league", "", "League key, e.g. england or spain.")
	cmd.Flags().StringVar(&season, "season", "", "Season to request. Empty means the current season.")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json.")
	_ = cmd.MarkFlagRequired("league")

	return cmd
}
