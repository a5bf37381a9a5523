package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flatconf/flatconf/pkg/config"
)

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the source whenever it changes",
		Long: `Load the source, then reload it every time a file under it changes,
printing the number of parameters after each load. Runs until interrupted.

Combine with --metrics-addr to expose load metrics while watching.`,
		Example: `  flatconf watch -s ./config --metrics-addr :9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := a.newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			rt.serveMetrics(ctx)

			out := cmd.OutOrStdout()
			report := func(cfg *config.Config) {
				fmt.Fprintf(out, "%s: %d parameters\n", cfg.Source(), cfg.Len())
			}

			report(rt.load(ctx))
			return config.Watch(ctx, rt.loader, rt.settings.Source, report)
		},
	}

	return cmd
}
