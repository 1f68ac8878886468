package extract

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Engine runs extractions. The zero value is not usable; use New.
type Engine struct {
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of documents scanned at once. Values below
// one are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Engine. By default it scans GOMAXPROCS documents at once.
func New(opts ...Option) *Engine {
	e := &Engine{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the scan concurrency.
func (e *Engine) Workers() int {
	return e.workers
}

// Extract applies p to every lower-cased document of corpus and summarizes
// the matches under label.
func (e *Engine) Extract(ctx context.Context, corpus []string, p *patterns.Pattern, label string) (*summary.Summary, error) {
	if err := check(corpus, label); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil pattern", ErrConfiguration)
	}

	matches, err := e.scan(ctx, corpus, true, p.FindAll)
	if err != nil {
		return nil, err
	}
	return summary.Aggregate(matches, label)
}

// ExtractExpr is like Extract for a raw expression reporting its whole
// match. The expression is compiled once and reused by later calls.
func (e *Engine) ExtractExpr(ctx context.Context, corpus []string, expr, label string) (*summary.Summary, error) {
	if err := check(corpus, label); err != nil {
		return nil, err
	}
	p, err := compileCached(expr, 0)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, corpus, p, label)
}

// Summarize summarizes matches computed by the caller. matches must hold
// one entry per document of corpus.
func (e *Engine) Summarize(corpus []string, matches [][]string, label string) (*summary.Summary, error) {
	if err := check(corpus, label); err != nil {
		return nil, err
	}
	if len(matches) != len(corpus) {
		return nil, fmt.Errorf("%w: %d match lists for %d documents", ErrConfiguration, len(matches), len(corpus))
	}
	return summary.Aggregate(matches, label)
}

func check(corpus []string, label string) error {
	if err := summary.ValidateLabel(label); err != nil {
		return err
	}
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	return nil
}

// scan calls find for every document, lower-cased when fold is set, and
// returns the results in corpus order. The context is checked between
// documents.
func (e *Engine) scan(ctx context.Context, corpus []string, fold bool, find func(string) ([]string, error)) ([][]string, error) {
	out := make([][]string, len(corpus))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, doc := range corpus {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text := doc
			if fold {
				text = cases.Lower(language.Und).String(doc)
			}
			found, err := find(text)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			out[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// compileCached compiles expr through the shared expression cache, mapping
// compilation failures to ErrConfiguration.
func compileCached(expr string, group int) (*patterns.Pattern, error) {
	p, err := patterns.Cached(expr, group)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return p, nil
}

// lookup fetches a registered pattern and its name resolver.
func lookup(key patterns.Key) (*patterns.Pattern, patterns.NameResolver, error) {
	p, names, err := patterns.Lookup(key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return p, names, nil
}

// resolve maps every match to its display name, keeping the per-document
// shape.
func resolve(matches [][]string, names patterns.NameResolver) [][]string {
	out := make([][]string, len(matches))
	for i, doc := range matches {
		out[i] = make([]string, len(doc))
		for j, m := range doc {
			out[i][j] = names(m)
		}
	}
	return out
}
