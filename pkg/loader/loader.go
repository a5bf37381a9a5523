package loader

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flatconf/flatconf/pkg/document"
	"github.com/flatconf/flatconf/pkg/flatten"
	"github.com/flatconf/flatconf/pkg/telemetry"
	"github.com/flatconf/flatconf/pkg/value"
)

// Load outcomes reported to metrics.
const (
	statusOK      = "ok"
	statusMissing = "missing"
)

// Result is the outcome of loading one source.
type Result struct {
	// Source is the path that was loaded.
	Source string
	// LoadID identifies this load in logs and traces.
	LoadID string
	// Entries maps dotted paths to leaf values. Never nil.
	Entries map[string]value.Value
	// Files is the number of files that were decoded and merged.
	Files int
	// Skipped is the number of files left out because they could not be
	// read or decoded.
	Skipped int
	// Rejected is the number of mapping keys dropped while flattening.
	Rejected int
}

// Loader reads configuration files from disk and flattens them.
// A Loader holds no state between loads and may be shared.
type Loader struct {
	logger   zerolog.Logger
	registry *document.Registry
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
	settings Settings
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry sets the decoder registry used to parse files.
func WithRegistry(r *document.Registry) Option {
	return func(l *Loader) {
		if r != nil {
			l.registry = r
		}
	}
}

// WithMetrics records load metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithTracer records a span per load.
func WithTracer(t *telemetry.Tracer) Option {
	return func(l *Loader) { l.tracer = t }
}

// WithSettings overrides the default settings. Invalid settings are logged
// and replaced by DefaultSettings.
func WithSettings(s Settings) Option {
	return func(l *Loader) { l.settings = s }
}

// NewLoader creates a new configuration loader.
func NewLoader(logger zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		logger:   telemetry.NewComponentLogger(logger, "loader"),
		registry: document.NewRegistry(),
	}
	for _, opt := range opts {
		opt(l)
	}

	settings, err := l.settings.resolve()
	if err != nil {
		l.logger.Warn().Err(err).Msg("Falling back to default loader settings")
	}
	l.settings = settings

	return l
}

// Settings returns the effective settings.
func (l *Loader) Settings() Settings {
	return l.settings
}

// Load reads source, which may be a file or a directory, and returns every
// parameter found in it. Problems are logged and the affected file, directory
// or key is left out; Load itself never fails. ctx only carries the trace.
//
// Directories are walked recursively. Files merge in traversal order, so a
// path defined by two files takes the value of the one visited last.
func (l *Loader) Load(ctx context.Context, source string) Result {
	timer := telemetry.NewTimer()
	loadID := uuid.NewString()

	_, span := l.tracer.Start(ctx, "loader.load",
		telemetry.AttrSource.String(source),
		telemetry.AttrLoadID.String(loadID),
	)
	defer span.End()

	run := &loadRun{
		loader: l,
		logger: l.logger.With().Str("load_id", loadID).Str("source", source).Logger(),
		result: Result{
			Source:  source,
			LoadID:  loadID,
			Entries: make(map[string]value.Value),
		},
		visited: make(map[string]bool),
	}

	status := statusOK
	info, err := os.Stat(source)
	switch {
	case err != nil:
		status = statusMissing
		if errors.Is(err, fs.ErrNotExist) {
			run.logger.Error().Err(err).Msg("Configuration source does not exist")
		} else {
			run.logger.Error().Err(err).Msg("Failed to stat configuration source")
		}
		telemetry.RecordError(span, err)
	case info.IsDir():
		run.loadDirectory(source)
	default:
		run.loadFile(source)
	}

	res := run.result
	run.logger.Info().
		Int("files", res.Files).
		Int("skipped", res.Skipped).
		Int("rejected", res.Rejected).
		Dur("duration", timer.Duration()).
		Msg(summary(len(res.Entries)))

	span.SetAttributes(
		telemetry.AttrParameters.Int(len(res.Entries)),
		telemetry.AttrFiles.Int(res.Files),
		telemetry.AttrSkipped.Int(res.Skipped),
		telemetry.AttrRejected.Int(res.Rejected),
	)
	if status == statusOK {
		telemetry.RecordSuccess(span)
	}
	l.metrics.RecordLoad(status, len(res.Entries), timer.Duration())

	return res
}

// summary renders the parameter count the way it is reported after a load.
func summary(n int) string {
	switch n {
	case 0:
		return "No parameters have been parsed"
	case 1:
		return "1 parameter has been parsed"
	default:
		return strconv.Itoa(n) + " parameters have been parsed"
	}
}

// loadRun holds the state of a single Load call.
type loadRun struct {
	loader  *Loader
	logger  zerolog.Logger
	result  Result
	visited map[string]bool
}

// loadDirectory loads every file below dir, depth first, in the order
// os.ReadDir returns them.
func (r *loadRun) loadDirectory(dir string) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if r.visited[resolved] {
			r.logger.Debug().Str("path", dir).Msg("Directory already visited, skipping")
			return
		}
		r.visited[resolved] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", dir).Msg("Failed to read configuration directory")
		return
	}

	for _, entry := range entries {
		if r.loader.settings.IgnoreHidden && isHidden(entry.Name()) {
			r.logger.Debug().Str("path", filepath.Join(dir, entry.Name())).Msg("Ignoring hidden entry")
			continue
		}

		path := filepath.Join(dir, entry.Name())

		// Follow symlinks to decide between file and directory.
		info, err := os.Stat(path)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat configuration entry")
			r.skip()
			continue
		}

		if info.IsDir() {
			r.loadDirectory(path)
			continue
		}
		r.loadFile(path)
	}
}

// loadFile decodes, flattens and merges one file.
func (r *loadRun) loadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn().Err(err).Str("file", path).Msg("Failed to read configuration file")
		r.skip()
		return
	}

	doc, err := r.loader.registry.Decode(path, data)
	if err != nil {
		r.logger.Warn().Err(err).Str("file", path).Msg("Failed to parse configuration file")
		r.skip()
		return
	}

	flat := flatten.Flatten(doc)
	for _, d := range flat.Diagnostics {
		r.logger.Warn().
			Err(d).
			Str("file", path).
			Str("path", d.Path).
			Str("reason", string(d.Reason)).
			Msg("Skipping invalid key")
		r.loader.metrics.RecordRejectedKey(string(d.Reason))
	}

	maps.Copy(r.result.Entries, flat.Entries)
	r.result.Files++
	r.result.Rejected += len(flat.Diagnostics)
	r.loader.metrics.RecordFile(telemetry.FileLoaded)

	r.logger.Debug().
		Str("file", path).
		Int("parameters", len(flat.Entries)).
		Msg("Configuration file loaded")
}

func (r *loadRun) skip() {
	r.result.Skipped++
	r.loader.metrics.RecordFile(telemetry.FileSkipped)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
