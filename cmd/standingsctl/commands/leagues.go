package commands

import (
	"github.com/spf13/cobra"
)

func newLeaguesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "Lists the supported league keys.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := rt.app.Standings.ListLeagues(cmd.Context())
			if err != nil {
				return err
			}
			renderLeaguesTable(cmd.OutOrStdout(), rt.app.Standings.ProviderName(), items)
			return nil
		},
	}
}
