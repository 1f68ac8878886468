package extract

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Words extracts target words. With wholeWord set only the targets
// themselves match, so "rain" does not match inside "raining"; otherwise
// the whole token containing a target is reported.
func (e *Engine) Words(ctx context.Context, corpus []string, targets []string, wholeWord bool) (*summary.Summary, error) {
	expr, err := wordsExpr(targets, wholeWord)
	if err != nil {
		return nil, err
	}
	p, err := compileCached(expr, 0)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, corpus, p, LabelWord)
}

func wordsExpr(targets []string, wholeWord bool) (string, error) {
	if len(targets) == 0 {
		return "", fmt.Errorf("%w: no target words", ErrConfiguration)
	}

	lower := cases.Lower(language.Und)
	alts := make([]string, len(targets))
	for i, t := range targets {
		if t == "" {
			return "", fmt.Errorf("%w: empty target word", ErrConfiguration)
		}
		quoted := patterns.Escape(lower.String(t))
		if wholeWord {
			alts[i] = `\b` + quoted + `\b`
		} else {
			alts[i] = `\S*` + quoted + `\S*`
		}
	}
	return strings.Join(alts, "|"), nil
}
