package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// File outcomes recorded by RecordFile.
const (
	FileLoaded  = "loaded"
	FileSkipped = "skipped"
)

// Metrics provides Prometheus metrics for configuration loading. A nil
// *Metrics and a disabled one both accept every Record call.
type Metrics struct {
	config MetricsConfig

	loads        *prometheus.CounterVec
	files        *prometheus.CounterVec
	rejectedKeys *prometheus.CounterVec
	parameters   prometheus.Gauge
	loadDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of configuration loads by outcome",
			},
			[]string{"status"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Total number of configuration files visited by outcome",
			},
			[]string{"status"},
		),
		rejectedKeys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_keys_total",
				Help:      "Total number of mapping keys dropped while flattening",
			},
			[]string{"reason"},
		),
		parameters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "parameters",
				Help:      "Number of parameters produced by the most recent load",
			},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Duration of configuration loads in seconds",
				Buckets:   buckets,
			},
		),
	}

	registry.MustRegister(
		m.loads,
		m.files,
		m.rejectedKeys,
		m.parameters,
		m.loadDuration,
	)

	return m, nil
}

func (m *Metrics) enabled() bool {
	return m != nil && m.registry != nil
}

// RecordLoad records a finished load: its outcome, how many parameters it
// produced and how long it took.
func (m *Metrics) RecordLoad(status string, parameters int, duration time.Duration) {
	if !m.enabled() {
		return
	}
	m.loads.WithLabelValues(status).Inc()
	m.parameters.Set(float64(parameters))
	m.loadDuration.Observe(duration.Seconds())
}

// RecordFile records one visited file with its outcome.
func (m *Metrics) RecordFile(status string) {
	if !m.enabled() {
		return
	}
	m.files.WithLabelValues(status).Inc()
}

// RecordRejectedKey records a key dropped while flattening.
func (m *Metrics) RecordRejectedKey(reason string) {
	if !m.enabled() {
		return
	}
	m.rejectedKeys.WithLabelValues(reason).Inc()
}

// Registry returns the private registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes the metrics endpoint until ctx is cancelled. It returns
// immediately when metrics are disabled.
func (m *Metrics) Serve(ctx context.Context, logger zerolog.Logger) error {
	if !m.enabled() {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}()

	logger.Info().
		Str("address", m.config.ListenAddress).
		Str("path", m.config.Path).
		Msg("Serving metrics")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
