// Package logging provides structured logging for entitystats.
//
// Logger wraps Zap with:
//   - a Trace level below Debug
//   - stderr output, JSON or console, with an optional OpenTelemetry core
//   - context fields for trace correlation, run ID, job and entity
//   - level-aware sampling where errors are never dropped
//
// Usage:
//
//	cfg, err := logging.NewConfig("info", "json")
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx, _ = logging.WithNewRunID(ctx)
//	logger.Info(ctx, "extraction finished", zap.Int("matches", n))
//
// Every line logged with ctx carries run.id, and trace_id/span_id when ctx
// holds a recording span.
//
// Tests use NewTestLogger, which records entries in memory through
// zaptest/observer.
package logging
