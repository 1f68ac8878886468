package patterns

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// Key identifies a registered entity pattern.
type Key string

// Registered keys.
const (
	Hashtag         Key = "hashtag"
	Mention         Key = "mention"
	Currency        Key = "currency"
	QuestionMark    Key = "question_mark"
	ExclamationMark Key = "exclamation_mark"
	Question        Key = "question"
	Exclamation     Key = "exclamation"
	URL             Key = "url"
)

// NameResolver maps a matched glyph to a display name.
type NameResolver func(glyph string) string

// ResolveName returns the lower-cased Unicode name of the first rune of
// glyph, or "" when the rune has no name.
func ResolveName(glyph string) string {
	r, size := utf8.DecodeRuneInString(glyph)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return strings.ToLower(runenames.Name(r))
}

type entry struct {
	expr  string
	group int
	names NameResolver
}

// definitions is the source of the frozen registry.
var definitions = map[Key]entry{
	// Not preceded by a word character; either hashtag sign.
	Hashtag: {expr: `(?<!\w)([＃#]\w+)`, group: 1},

	// Not preceded by a word character; either at sign; ASCII handle.
	Mention: {expr: `(?i)(?<!\w)([@＠][a-z0-9_]+)\b`, group: 1},

	Currency:        {expr: Class(CurrencyChars), names: ResolveName},
	QuestionMark:    {expr: Class(QuestionChars), names: ResolveName},
	ExclamationMark: {expr: Class(ExclamationChars), names: ResolveName},

	Question:    {expr: clauseExpr(InvertedQuestion, QuestionChars), group: 1},
	Exclamation: {expr: clauseExpr(InvertedExclamation, ExclamationChars), group: 1},

	// Scheme or www./ftp. prefix, then URL characters; parenthesised runs
	// are kept whole and the last character cannot be trailing punctuation.
	URL: {expr: `(?i)\b(?:(?:https?|ftp|file)://|www\.|ftp\.)` +
		`(?:\([-A-Z0-9+&@#/%=~_|$?!:,.]*\)|[-A-Z0-9+&@#/%=~_|$?!:,.])*` +
		`(?:\([-A-Z0-9+&@#/%=~_|$?!:,.]*\)|[A-Z0-9+&@#/%=~_|$])`},
}

// clauseExpr builds the pattern for a clause ending in marks: it starts at
// the beginning of the text, after a sentence terminator followed by
// optional quotes and whitespace, or at an inverted opening mark. The body
// holds no terminators and the clause ends with one of marks followed by
// any run of question or exclamation marks, so "??" and "?!" stay whole.
func clauseExpr(inverted, marks string) string {
	trailing := without(QuestionChars+ExclamationChars, InvertedQuestion+InvertedExclamation)
	return fmt.Sprintf(`(?:(?:(?<=%s)%s*\s+|^)|(?=%s))(%s?%s+?%s%s*)`,
		Class(SentenceEndChars),
		Class(QuoteChars),
		inverted,
		inverted,
		NegatedClass(SentenceEndChars),
		Class(without(marks, inverted)),
		Class(trailing),
	)
}

type compiled struct {
	pattern *Pattern
	names   NameResolver
}

var (
	registryOnce sync.Once
	registry     map[Key]compiled
	registryErr  error
)

func load() {
	registryOnce.Do(func() {
		table := make(map[Key]compiled, len(definitions))
		for key, def := range definitions {
			p, err := Compile(def.expr, def.group)
			if err != nil {
				registryErr = fmt.Errorf("registry %s: %w", key, err)
				return
			}
			table[key] = compiled{pattern: p, names: def.names}
		}
		registry = table
	})
}

// Lookup returns the compiled pattern for key and its name resolver. The
// resolver is nil for entities that are tokens rather than single glyphs.
func Lookup(key Key) (*Pattern, NameResolver, error) {
	load()
	if registryErr != nil {
		return nil, nil, registryErr
	}

	c, ok := registry[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.pattern, c.names, nil
}

// MustLookup is like Lookup but panics on error.
func MustLookup(key Key) *Pattern {
	p, _, err := Lookup(key)
	if err != nil {
		panic(err)
	}
	return p
}

// Keys returns every registered key in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(definitions))
	for key := range definitions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
