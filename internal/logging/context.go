package logging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from ctx.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}

	if id := RunIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("run.id", id))
	}
	if job := JobFromContext(ctx); job != "" {
		fields = append(fields, zap.String("job", job))
	}
	if entity := EntityFromContext(ctx); entity != "" {
		fields = append(fields, zap.String("entity", entity))
	}

	return fields
}

type runIDCtxKey struct{}
type jobCtxKey struct{}
type entityCtxKey struct{}

// WithRunID adds a run ID to ctx. Panics if id is not a UUID.
func WithRunID(ctx context.Context, id string) context.Context {
	if _, err := uuid.Parse(id); err != nil {
		panic(fmt.Sprintf("logging: run ID %q: %v", id, err))
	}
	return context.WithValue(ctx, runIDCtxKey{}, id)
}

// WithNewRunID adds a fresh random run ID to ctx and returns it.
func WithNewRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, runIDCtxKey{}, id), id
}

// RunIDFromContext returns the run ID, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// WithJob adds the name of the batch job being run.
func WithJob(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, jobCtxKey{}, name)
}

// JobFromContext returns the job name, or "".
func JobFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(jobCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithEntity adds the entity being extracted.
func WithEntity(ctx context.Context, entity string) context.Context {
	return context.WithValue(ctx, entityCtxKey{}, entity)
}

// EntityFromContext returns the entity, or "".
func EntityFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(entityCtxKey{}).(string); ok {
		return s
	}
	return ""
}

type loggerCtxKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
