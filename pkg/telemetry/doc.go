// Package telemetry wires logging, tracing and metrics for flatconf.
//
// Logging uses zerolog, tracing uses OpenTelemetry with stdout or OTLP gRPC
// exporters, and metrics are Prometheus collectors on a private registry.
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.Enabled = true
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	go tel.Metrics.Serve(ctx, tel.Logger)
//
// A nil *Metrics and a nil *Tracer are both usable, so library code can accept
// them as optional dependencies.
package telemetry
