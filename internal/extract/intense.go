package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// DefaultMinReps is the repetition count used when the caller has no
// preference.
const DefaultMinReps = 3

const intenseCacheSize = 32

var (
	intenseOnce  sync.Once
	intenseCache *lru.Cache[int, *patterns.Pattern]
)

// intensePattern returns the pattern for tokens holding a word character
// repeated at least minReps times. Groups are the prefix, the repeated
// character and the rest of the token.
func intensePattern(minReps int) (*patterns.Pattern, error) {
	intenseOnce.Do(func() {
		intenseCache, _ = lru.New[int, *patterns.Pattern](intenseCacheSize)
	})

	if p, ok := intenseCache.Get(minReps); ok {
		return p, nil
	}
	p, err := patterns.Compile(fmt.Sprintf(`(\S*?)(\w)(\2{%d,}\S*)`, minReps-1), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	intenseCache.Add(minReps, p)
	return p, nil
}

// IntenseWords extracts tokens where some word character repeats at least
// minReps times in a row, such as "looooove".
func (e *Engine) IntenseWords(ctx context.Context, corpus []string, minReps int) (*summary.Summary, error) {
	if minReps < 2 {
		return nil, fmt.Errorf("%w: min reps %d is below 2", ErrConfiguration, minReps)
	}
	if err := check(corpus, LabelIntenseWord); err != nil {
		return nil, err
	}

	p, err := intensePattern(minReps)
	if err != nil {
		return nil, err
	}

	matches, err := e.scan(ctx, corpus, true, func(doc string) ([]string, error) {
		groups, err := p.FindAllGroups(doc)
		if err != nil {
			return nil, err
		}
		words := make([]string, len(groups))
		for i, g := range groups {
			words[i] = strings.Join(g, "")
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}

	return e.Summarize(corpus, matches, LabelIntenseWord)
}
