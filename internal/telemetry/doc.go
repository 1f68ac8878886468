// Package telemetry sets up OpenTelemetry tracing and metrics for
// entitystats.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (gRPC or HTTP) to the configured collector. Exporter failures do
// not stop extraction: the instance is marked degraded and falls back to
// the global no-op providers.
//
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer("entitystats").Start(ctx, "extract.hashtag")
//	defer span.End()
//
// NewTestTelemetry records spans and metrics in memory for tests.
package telemetry
