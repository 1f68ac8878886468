package job

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/entitystats/internal/corpus"
	"github.com/fyrsmithlabs/entitystats/internal/logging"
	"github.com/fyrsmithlabs/entitystats/internal/service"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Result is the outcome of one step.
type Result struct {
	Step    Step
	Summary *summary.Summary
	Err     error
}

// ProgressFunc is called after each step with the number of steps done.
type ProgressFunc func(done, total int)

// Runner executes jobs through a Service.
type Runner struct {
	svc      *service.Service
	defaults service.Params
	logger   *logging.Logger
	progress ProgressFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProgress registers a step progress callback.
func WithProgress(fn ProgressFunc) RunnerOption {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner creates a Runner. defaults fill step arguments left unset.
func NewRunner(svc *service.Service, defaults service.Params, opts ...RunnerOption) *Runner {
	r := &Runner{svc: svc, defaults: defaults, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the job's corpus and runs every step in order. A failed step
// does not stop later steps; its error is kept on its Result and joined
// into the returned error. Cancellation stops the run.
func (r *Runner) Run(ctx context.Context, j *Job) ([]Result, error) {
	if err := j.Validate(r.svc.Entities()); err != nil {
		return nil, err
	}

	ctx = logging.WithJob(ctx, j.Name)
	if logging.RunIDFromContext(ctx) == "" {
		ctx, _ = logging.WithNewRunID(ctx)
	}

	docs, err := corpus.Load(j.CorpusPath(), corpus.Options{Format: j.Corpus.Format, Field: j.Corpus.Field})
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	r.logger.Debug(ctx, "corpus loaded", zap.Int("documents", len(docs)), zap.Int("steps", len(j.Steps)))

	results := make([]Result, 0, len(j.Steps))
	var errs []error
	for i, step := range j.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		sum, err := r.svc.Run(ctx, docs, service.Request{
			Entity: step.Entity,
			Params: step.Params(r.defaults),
		})
		results = append(results, Result{Step: step, Summary: sum, Err: err})
		if err != nil {
			errs = append(errs, fmt.Errorf("extract[%d] %s: %w", i, step.Key(), err))
		}
		if r.progress != nil {
			r.progress(i+1, len(j.Steps))
		}
	}

	failed := len(errs)
	r.logger.Info(ctx, "job finished",
		zap.Int("steps", len(j.Steps)),
		zap.Int("failed", failed),
	)
	return results, errors.Join(errs...)
}
