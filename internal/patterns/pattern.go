package patterns

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single match attempt.
const DefaultMatchTimeout = 5 * time.Second

// Pattern is an immutable compiled matcher.
//
// Group selects what FindAll reports for each match: 0 for the whole match,
// or the number of a capture group.
type Pattern struct {
	expr  string
	group int
	re    *regexp2.Regexp
}

// Compile compiles expr into a Pattern reporting the given capture group.
func Compile(expr string, group int) (*Pattern, error) {
	if group < 0 {
		return nil, fmt.Errorf("%w: negative group %d", ErrInvalidPattern, group)
	}

	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, expr, err)
	}
	re.MatchTimeout = DefaultMatchTimeout

	if n := len(re.GetGroupNumbers()); group >= n {
		return nil, fmt.Errorf("%w: %q has no group %d", ErrInvalidPattern, expr, group)
	}

	return &Pattern{expr: expr, group: group, re: re}, nil
}

// Escape quotes every metacharacter in s.
func Escape(s string) string {
	return regexp2.Escape(s)
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string, group int) *Pattern {
	p, err := Compile(expr, group)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// Group returns the reported capture group.
func (p *Pattern) Group() int {
	return p.group
}

// FindAll returns the reported text of every non-overlapping match in text,
// in order of appearance. A group that did not participate reports "".
func (p *Pattern) FindAll(text string) ([]string, error) {
	found := make([]string, 0)

	m, err := p.re.FindStringMatch(text)
	for m != nil {
		found = append(found, p.reported(m))
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", p.expr, err)
	}

	return found, nil
}

// FindAllGroups returns, for every match in text, the text of each capture
// group from 1 upwards.
func (p *Pattern) FindAllGroups(text string) ([][]string, error) {
	found := make([][]string, 0)

	m, err := p.re.FindStringMatch(text)
	for m != nil {
		groups := m.Groups()
		row := make([]string, 0, len(groups)-1)
		for _, g := range groups[1:] {
			row = append(row, g.String())
		}
		found = append(found, row)
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", p.expr, err)
	}

	return found, nil
}

func (p *Pattern) reported(m *regexp2.Match) string {
	if p.group == 0 {
		return m.String()
	}
	g := m.GroupByNumber(p.group)
	if g == nil {
		return ""
	}
	return g.String()
}
