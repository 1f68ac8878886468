package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/entitystats/internal/patterns"
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Labels of the entity extractors.
const (
	LabelHashtag         = "hashtag"
	LabelMention         = "mention"
	LabelCurrency        = "currency_symbol"
	LabelNumber          = "number"
	LabelQuestionMark    = "question_mark"
	LabelExclamationMark = "exclamation_mark"
	LabelIntenseWord     = "intense_word"
	LabelURL             = "url"
	LabelWord            = "word"
)

// Extra field names.
const (
	FieldCurrencyNames    = "currency_symbol_names"
	FieldSurroundingText  = "surrounding_text"
	FieldQuestionNames    = "question_mark_names"
	FieldQuestionText     = "question_text"
	FieldExclamationNames = "exclamation_mark_names"
	FieldExclamationText  = "exclamation_text"
	FieldDomains          = "domains"
	FieldTLDs             = "tlds"
	FieldTopDomains       = "top_domains"
	FieldTopTLDs          = "top_tlds"
)

// DefaultSeparators are the number separators used when the caller has no
// preference.
var DefaultSeparators = []string{".", ",", "-"}

// Hashtags extracts hashtags such as "#blue".
func (e *Engine) Hashtags(ctx context.Context, corpus []string) (*summary.Summary, error) {
	return e.registered(ctx, corpus, patterns.Hashtag, LabelHashtag)
}

// Mentions extracts mentions such as "@john".
func (e *Engine) Mentions(ctx context.Context, corpus []string) (*summary.Summary, error) {
	return e.registered(ctx, corpus, patterns.Mention, LabelMention)
}

func (e *Engine) registered(ctx context.Context, corpus []string, key patterns.Key, label string) (*summary.Summary, error) {
	p, _, err := lookup(key)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, corpus, p, label)
}

// Currency extracts currency glyphs with their names. The surrounding text
// field holds each glyph with up to left characters before and right
// characters after it, taken from the original text.
func (e *Engine) Currency(ctx context.Context, corpus []string, left, right int) (*summary.Summary, error) {
	if left < 0 || right < 0 {
		return nil, fmt.Errorf("%w: negative window %d/%d", ErrConfiguration, left, right)
	}

	p, names, err := lookup(patterns.Currency)
	if err != nil {
		return nil, err
	}
	s, err := e.Extract(ctx, corpus, p, LabelCurrency)
	if err != nil {
		return nil, err
	}

	window, err := compileCached(fmt.Sprintf(`.{0,%d}%s.{0,%d}`, left, p.String(), right), 0)
	if err != nil {
		return nil, err
	}
	surrounding, err := e.scan(ctx, corpus, false, window.FindAll)
	if err != nil {
		return nil, err
	}

	s.SetExtra(FieldCurrencyNames, resolve(s.Matches, names))
	s.SetExtra(FieldSurroundingText, surrounding)
	return s, nil
}

// Numbers extracts digit runs, optionally joined by single separators, so
// "123,456" is one number. With no separators only bare digit runs match.
func (e *Engine) Numbers(ctx context.Context, corpus []string, separators []string) (*summary.Summary, error) {
	expr, err := numberExpr(separators)
	if err != nil {
		return nil, err
	}
	p, err := compileCached(expr, 0)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, corpus, p, LabelNumber)
}

func numberExpr(separators []string) (string, error) {
	if len(separators) == 0 {
		return `\d+`, nil
	}
	for _, sep := range separators {
		r, size := utf8.DecodeRuneInString(sep)
		if size == 0 || size != len(sep) || !(unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return "", fmt.Errorf("%w: separator %q must be one punctuation or symbol character", ErrConfiguration, sep)
		}
	}
	return `(?:\d+` + patterns.Class(strings.Join(separators, "")) + `)*\d+`, nil
}

// Questions extracts question marks with their names, and the question
// clauses of the original text.
func (e *Engine) Questions(ctx context.Context, corpus []string) (*summary.Summary, error) {
	return e.marks(ctx, corpus, marksSpec{
		marks:  patterns.QuestionMark,
		clause: patterns.Question,
		label:  LabelQuestionMark,
		names:  FieldQuestionNames,
		text:   FieldQuestionText,
	})
}

// Exclamations extracts exclamation marks with their names, and the
// exclamation clauses of the original text.
func (e *Engine) Exclamations(ctx context.Context, corpus []string) (*summary.Summary, error) {
	return e.marks(ctx, corpus, marksSpec{
		marks:  patterns.ExclamationMark,
		clause: patterns.Exclamation,
		label:  LabelExclamationMark,
		names:  FieldExclamationNames,
		text:   FieldExclamationText,
	})
}

type marksSpec struct {
	marks, clause patterns.Key
	label         string
	names, text   string
}

func (e *Engine) marks(ctx context.Context, corpus []string, spec marksSpec) (*summary.Summary, error) {
	p, names, err := lookup(spec.marks)
	if err != nil {
		return nil, err
	}
	clause, _, err := lookup(spec.clause)
	if err != nil {
		return nil, err
	}

	s, err := e.Extract(ctx, corpus, p, spec.label)
	if err != nil {
		return nil, err
	}
	clauses, err := e.scan(ctx, corpus, false, clause.FindAll)
	if err != nil {
		return nil, err
	}

	s.SetExtra(spec.names, resolve(s.Matches, names))
	s.SetExtra(spec.text, clauses)
	return s, nil
}
