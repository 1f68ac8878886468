// Package service runs named extractions with logging, tracing and metrics
// around the extraction engine.
package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/entitystats/internal/extract"
	"github.com/fyrsmithlabs/entitystats/internal/logging"
	"github.com/fyrsmithlabs/entitystats/internal/metrics"
	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
	"github.com/fyrsmithlabs/entitystats/internal/telemetry"
)

const instrumentationName = "github.com/fyrsmithlabs/entitystats/internal/service"

// Request selects an extraction by entity name.
type Request struct {
	Entity string
	Params Params
}

// Options configures a Service. Nil fields get working defaults: a default
// engine, a no-op logger, the global OTEL providers, no Prometheus metrics
// and the built-in registry.
type Options struct {
	Engine    *extract.Engine
	Registry  *Registry
	Logger    *logging.Logger
	Telemetry *telemetry.Telemetry
	Metrics   *metrics.Metrics
}

// Service dispatches extraction requests.
type Service struct {
	engine   *extract.Engine
	registry *Registry
	logger   *logging.Logger
	prom     *metrics.Metrics

	tracer  trace.Tracer
	calls   metric.Int64Counter
	matches metric.Int64Counter
}

// New creates a Service.
func New(opts Options) (*Service, error) {
	s := &Service{
		engine:   opts.Engine,
		registry: opts.Registry,
		logger:   opts.Logger,
		prom:     opts.Metrics,
	}
	if s.engine == nil {
		s.engine = extract.New()
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	s.tracer = opts.Telemetry.Tracer(instrumentationName)
	meter := opts.Telemetry.Meter(instrumentationName)

	var err error
	s.calls, err = meter.Int64Counter(
		"entitystats.extract.calls",
		metric.WithDescription("Number of extractions run"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls counter: %w", err)
	}
	s.matches, err = meter.Int64Counter(
		"entitystats.extract.matches",
		metric.WithDescription("Number of entity occurrences found"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating matches counter: %w", err)
	}
	return s, nil
}

// Entities returns the entity names Run accepts.
func (s *Service) Entities() []string {
	return s.registry.Names()
}

// Run executes the extraction named by req over corpus.
func (s *Service) Run(ctx context.Context, corpus []string, req Request) (*summary.Summary, error) {
	ctx = logging.WithEntity(ctx, req.Entity)
	ctx, span := s.tracer.Start(ctx, "extract."+req.Entity,
		trace.WithAttributes(
			attribute.String("entity", req.Entity),
			attribute.Int("documents", len(corpus)),
		),
	)
	defer span.End()

	start := time.Now()
	sum, err := s.run(ctx, corpus, req)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", req.Entity),
			attribute.String("status", metrics.StatusError),
		))
		if s.prom != nil {
			s.prom.RecordFailure(req.Entity, elapsed.Seconds())
		}
		s.logger.Warn(ctx, "extraction failed",
			zap.Int("documents", len(corpus)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	ov := sum.Overview
	span.SetAttributes(
		attribute.String("label", sum.Label),
		attribute.Int("matches", ov.Matches),
		attribute.Int("unique", ov.Unique),
	)
	attrs := metric.WithAttributes(attribute.String("entity", req.Entity))
	s.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", req.Entity),
		attribute.String("status", metrics.StatusOK),
	))
	s.matches.Add(ctx, int64(ov.Matches), attrs)
	if s.prom != nil {
		s.prom.RecordExtraction(req.Entity, ov.Documents, ov.Matches, elapsed.Seconds())
		s.prom.SetPatternCacheSize(patterns.CacheLen())
	}
	s.logger.Info(ctx, "extraction finished",
		zap.String("label", sum.Label),
		zap.Int("documents", ov.Documents),
		zap.Int("matches", ov.Matches),
		zap.Int("unique", ov.Unique),
		zap.Duration("duration", elapsed),
	)
	return sum, nil
}

func (s *Service) run(ctx context.Context, corpus []string, req Request) (*summary.Summary, error) {
	build, err := s.registry.Lookup(req.Entity)
	if err != nil {
		return nil, err
	}
	return build(ctx, s.engine, corpus, req.Params)
}
