package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/flatconf/flatconf/pkg/config"
	"github.com/flatconf/flatconf/pkg/loader"
	"github.com/flatconf/flatconf/pkg/telemetry"
)

// runtime is what a subcommand needs to do its work, built from the
// resolved settings.
type runtime struct {
	settings  *Settings
	telemetry *telemetry.Telemetry
	logger    zerolog.Logger
	loader    *loader.Loader
}

// newRuntime resolves settings and builds telemetry and the loader. Logs go
// to the command's error stream.
func (a *app) newRuntime(cmd *cobra.Command) (*runtime, error) {
	builder := newSettingsBuilder()
	builder.environ = a.environ
	settings, err := builder.withFlags(a.flags).withEnv().withDefaults().build()
	if err != nil {
		return nil, err
	}

	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = a.version
	cfg.Logging.Level = settings.LogLevel
	cfg.Logging.Format = settings.LogFormat
	if settings.MetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = settings.MetricsAddr
	}
	if settings.TraceExporter != "none" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = settings.TraceExporter
		cfg.Tracing.Endpoint = settings.TraceEndpoint
	}

	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		return nil, err
	}
	tel.Logger = telemetry.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logging)

	l := loader.NewLoader(tel.Logger,
		loader.WithMetrics(tel.Metrics),
		loader.WithTracer(tel.Tracer),
		loader.WithSettings(loader.Settings{
			WatchDebounce: settings.WatchDebounce,
			IgnoreHidden:  settings.IgnoreHidden,
		}),
	)

	return &runtime{
		settings:  settings,
		telemetry: tel,
		logger:    tel.Logger,
		loader:    l,
	}, nil
}

// load loads the configured source.
func (r *runtime) load(ctx context.Context) *config.Config {
	return config.Load(ctx, r.loader, r.settings.Source)
}

// serveMetrics exposes metrics in the background when enabled.
func (r *runtime) serveMetrics(ctx context.Context) {
	if r.settings.MetricsAddr == "" {
		return
	}
	go func() {
		if err := r.telemetry.Metrics.Serve(ctx, r.logger); err != nil {
			r.logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
}

func (r *runtime) close(ctx context.Context) error {
	if err := r.telemetry.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
