package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrAbsent is returned by commands that report a missing parameter through
// the exit status. It is never printed.
var ErrAbsent = errors.New("parameter absent")

// app carries the state shared by the root command and its subcommands.
type app struct {
	version string
	flags   *Settings
	// environ replaces the process environment when set.
	environ map[string]string
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(&app{version: version, flags: &Settings{}}, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(a *app, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flatconf",
		Short: "flatconf - read nested configuration files as flat parameters",
		Long: `flatconf loads a YAML, JSON or TOML file, or a whole directory of them,
and exposes every leaf value under a dotted path such as "server.port".

Every flag can also be set through a FLATCONF_* environment variable,
for example FLATCONF_SOURCE or FLATCONF_LOG_LEVEL.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", a.version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags available to all commands
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.flags.Source, "source", "s", "", `configuration file or directory (default ".")`)
	flags.StringVar(&a.flags.LogLevel, "log-level", "", `log level: trace, debug, info, warn, error, disabled (default "info")`)
	flags.StringVar(&a.flags.LogFormat, "log-format", "", `log format: console or json (default "console")`)
	flags.StringVar(&a.flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.StringVar(&a.flags.TraceExporter, "trace-exporter", "", `trace exporter: none, stdout or otlp (default "none")`)
	flags.StringVar(&a.flags.TraceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint, e.g. localhost:4317")
	flags.BoolVar(&a.flags.IgnoreHidden, "ignore-hidden", false, "skip dot-files and dot-directories")
	flags.DurationVar(&a.flags.WatchDebounce, "watch-debounce", 0, "delay before reloading after a change (default 500ms)")

	// Add subcommands
	rootCmd.AddCommand(newGetCommand(a))
	rootCmd.AddCommand(newExistsCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newWatchCommand(a))

	return rootCmd
}
