package commands

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// envPrefix namespaces every environment variable read by the CLI.
const envPrefix = "FLATCONF_"

// Settings holds everything the CLI can be configured with. Each field can
// come from a flag, a FLATCONF_* environment variable or its default, in
// that order of precedence.
type Settings struct {
	Source        string        `env:"SOURCE" validate:"required"`
	LogLevel      string        `env:"LOG_LEVEL" validate:"oneof=trace debug info warn error fatal disabled"`
	LogFormat     string        `env:"LOG_FORMAT" validate:"oneof=console json"`
	MetricsAddr   string        `env:"METRICS_ADDR" validate:"omitempty,hostname_port|startswith=:"`
	TraceExporter string        `env:"TRACE_EXPORTER" validate:"oneof=none stdout otlp"`
	TraceEndpoint string        `env:"TRACE_ENDPOINT" validate:"required_if=TraceExporter otlp"`
	IgnoreHidden  bool          `env:"IGNORE_HIDDEN"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" validate:"gte=0"`
}

func defaultSettings() *Settings {
	return &Settings{
		Source:        ".",
		LogLevel:      "info",
		LogFormat:     "console",
		TraceExporter: "none",
		WatchDebounce: 500 * time.Millisecond,
	}
}

func (s *Settings) validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// settingsBuilder merges layers of settings. Earlier layers win; later
// layers only fill fields that are still zero.
type settingsBuilder struct {
	layers  []*Settings
	environ map[string]string
	err     error
}

func newSettingsBuilder() *settingsBuilder {
	return &settingsBuilder{layers: make([]*Settings, 0, 3)}
}

func (b *settingsBuilder) withFlags(flags *Settings) *settingsBuilder {
	copied := *flags
	b.layers = append(b.layers, &copied)
	return b
}

func (b *settingsBuilder) withEnv() *settingsBuilder {
	envSettings := &Settings{}
	opts := env.Options{Prefix: envPrefix}
	if b.environ != nil {
		opts.Environment = b.environ
	}
	if err := env.ParseWithOptions(envSettings, opts); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error getting env settings: %w", err))
		return b
	}
	b.layers = append(b.layers, envSettings)
	return b
}

func (b *settingsBuilder) withDefaults() *settingsBuilder {
	b.layers = append(b.layers, defaultSettings())
	return b
}

func (b *settingsBuilder) build() (*Settings, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building settings: %w", b.err)
	}

	settings := new(Settings)
	for _, layer := range b.layers {
		if err := mergo.Merge(settings, layer); err != nil {
			return nil, fmt.Errorf("error merging settings: %w", err)
		}
	}

	return settings, settings.validate()
}
