package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fyrsmithlabs/entitystats/internal/config"
	"github.com/fyrsmithlabs/entitystats/internal/extract"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Entity names accepted by Run.
const (
	EntityHashtag     = "hashtag"
	EntityMention     = "mention"
	EntityCurrency    = "currency"
	EntityNumber      = "number"
	EntityQuestion    = "question"
	EntityExclamation = "exclamation"
	EntityIntenseWord = "intense_word"
	EntityURL         = "url"
	EntityWord        = "word"
	EntityCustom      = "custom"
)

// DefaultCustomLabel labels custom expression matches when Params.Label is
// empty.
const DefaultCustomLabel = "match"

// Params carries the extractor arguments. Each extractor reads only the
// fields it needs.
type Params struct {
	Left       int
	Right      int
	Separators []string
	MinReps    int
	Words      []string
	WholeWord  bool
	Expr       string
	Label      string
}

// DefaultParams returns the extractor arguments configured in cfg.
func DefaultParams(cfg config.ExtractConfig) Params {
	return Params{
		Left:       cfg.Left,
		Right:      cfg.Right,
		Separators: append([]string(nil), cfg.Separators...),
		MinReps:    cfg.MinReps,
		WholeWord:  true,
	}
}

// Builder runs one kind of extraction.
type Builder func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error)

// Registry maps entity names to builders. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry holding the built-in entities.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	for name, b := range builtins() {
		r.builders[name] = b
	}
	return r
}

// Register adds or replaces the builder for name.
func (r *Registry) Register(name string, b Builder) error {
	if name == "" || b == nil {
		return fmt.Errorf("%w: entity name and builder are required", extract.ErrConfiguration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
	return nil
}

// Lookup returns the builder for name.
func (r *Registry) Lookup(name string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return b, nil
}

// Names returns the registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtins() map[string]Builder {
	return map[string]Builder{
		EntityHashtag: func(ctx context.Context, e *extract.Engine, corpus []string, _ Params) (*summary.Summary, error) {
			return e.Hashtags(ctx, corpus)
		},
		EntityMention: func(ctx context.Context, e *extract.Engine, corpus []string, _ Params) (*summary.Summary, error) {
			return e.Mentions(ctx, corpus)
		},
		EntityCurrency: func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error) {
			return e.Currency(ctx, corpus, p.Left, p.Right)
		},
		EntityNumber: func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error) {
			return e.Numbers(ctx, corpus, p.Separators)
		},
		EntityQuestion: func(ctx context.Context, e *extract.Engine, corpus []string, _ Params) (*summary.Summary, error) {
			return e.Questions(ctx, corpus)
		},
		EntityExclamation: func(ctx context.Context, e *extract.Engine, corpus []string, _ Params) (*summary.Summary, error) {
			return e.Exclamations(ctx, corpus)
		},
		EntityIntenseWord: func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error) {
			return e.IntenseWords(ctx, corpus, p.MinReps)
		},
		EntityURL: func(ctx context.Context, e *extract.Engine, corpus []string, _ Params) (*summary.Summary, error) {
			return e.URLs(ctx, corpus)
		},
		EntityWord: func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error) {
			return e.Words(ctx, corpus, p.Words, p.WholeWord)
		},
		EntityCustom: func(ctx context.Context, e *extract.Engine, corpus []string, p Params) (*summary.Summary, error) {
			if p.Expr == "" {
				return nil, fmt.Errorf("%w: custom extraction needs an expression", extract.ErrConfiguration)
			}
			label := p.Label
			if label == "" {
				label = DefaultCustomLabel
			}
			return e.ExtractExpr(ctx, corpus, p.Expr, label)
		},
	}
}
