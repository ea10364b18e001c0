package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/riskibarqy/league-standings/internal/app"
	"github.com/riskibarqy/league-standings/internal/config"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/spf13/cobra"
)

// runtime is built once per invocation by the root command's pre-run hook.
type runtime struct {
	newApp   func(config.Config, *logging.Logger) (*app.App, error)
	logLevel string
	app      *app.App
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:   logging.ParseLevel(rt.logLevel),
		Output:  cmd.ErrOrStderr(),
		Service: "standingsctl",
		Version: cfg.ServiceVersion,
	})
	logging.SetDefault(logger)

	application, err := rt.newApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	rt.app = application
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	rt.app.Close()
	_ = rt.app.Logger.Sync()
	rt.app = nil
}

func newRootCmd(newApp func(config.Config, *logging.Logger) (*app.App, error)) (*cobra.Command, *runtime) {
	rt := &runtime{newApp: newApp}

	root := &cobra.Command{
		Use:           "standingsctl",
		Short:         "standingsctl fetches normalized league standings from the configured provider.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return rt.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "warn", "Log level written to stderr (debug, info, warn, error).")

	root.AddCommand(newStandingsCmd(rt), newLeaguesCmd(rt), newScrapeCmd(rt))
	return root, rt
}

// execute runs root and releases the app afterwards, including when the command fails.
func execute(ctx context.Context, root *cobra.Command, rt *runtime) error {
	defer rt.close()
	return root.ExecuteContext(ctx)
}

func ExecuteContext(ctx context.Context) {
	root, rt := newRootCmd(app.New)
	if err := execute(ctx, root, rt); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
