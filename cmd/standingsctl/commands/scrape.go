package commands

import (
	"github.com/spf13/cobra"
)

func newScrapeCmd(rt *runtime) *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "scrape --url <url>",
		Short: "Renders a page in headless Chromium and prints the row-like text it contains.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := rt.app.Scraper.Scrape(cmd.Context(), pageURL)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "Page to render.")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
