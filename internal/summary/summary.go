package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var labelPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateLabel reports whether label can name the output fields.
func ValidateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("%w: label %q must be a lowercase identifier", ErrConfiguration, label)
	}
	return nil
}

// Bin is one entry of the frequency distribution: the number of documents
// that had Count matches.
type Bin struct {
	Count     int
	Documents int
}

// MarshalJSON renders the bin as [count, documents].
func (b Bin) MarshalJSON() ([]byte, error) {
	return marshal([2]int{b.Count, b.Documents})
}

// Ranked is a value with its total occurrence count.
type Ranked struct {
	Value string
	Count int
}

// MarshalJSON renders the pair as [value, count].
func (r Ranked) MarshalJSON() ([]byte, error) {
	return marshal([2]any{r.Value, r.Count})
}

// Ratio is a quotient that always renders with a fractional part, so a
// whole ratio of one is written as 1.0.
type Ratio float64

// MarshalJSON renders r in plain decimal notation.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported ratio %v", f)
	}
	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if !bytes.ContainsRune(b, '.') {
		b = append(b, ".0"...)
	}
	return b, nil
}

// Overview holds the corpus-wide ratios.
type Overview struct {
	Documents          int
	Matches            int
	MatchesPerDocument Ratio
	Unique             int
}

// Field is a named entity specific value.
type Field struct {
	Key   string
	Value any
}

// Summary is the result of one extraction call.
type Summary struct {
	Label     string
	Matches   [][]string
	Flat      []string
	Counts    []int
	Frequency []Bin
	Top       []Ranked
	Overview  Overview

	extras *orderedmap.OrderedMap[string, any]
}

// SetExtra attaches an entity specific field. Setting an existing key
// replaces its value and keeps its position.
func (s *Summary) SetExtra(key string, value any) {
	if s.extras == nil {
		s.extras = orderedmap.New[string, any]()
	}
	s.extras.Set(key, value)
}

// Extra returns the field stored under key.
func (s *Summary) Extra(key string) (any, bool) {
	if s.extras == nil {
		return nil, false
	}
	return s.extras.Get(key)
}

// ExtraMatches returns a per-document field such as resolved names or
// surrounding text, or nil when key holds something else.
func (s *Summary) ExtraMatches(key string) [][]string {
	v, _ := s.Extra(key)
	m, _ := v.([][]string)
	return m
}

// ExtraRanked returns a ranked field such as top domains, or nil when key
// holds something else.
func (s *Summary) ExtraRanked(key string) []Ranked {
	v, _ := s.Extra(key)
	r, _ := v.([]Ranked)
	return r
}

// Extras returns the entity specific fields in insertion order.
func (s *Summary) Extras() []Field {
	if s.extras == nil {
		return nil
	}
	fields := make([]Field, 0, s.extras.Len())
	for pair := s.extras.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Key: pair.Key, Value: pair.Value})
	}
	return fields
}

// Keys returns the output field names derived from the label, in rendering
// order.
func (s *Summary) Keys() []string {
	l := s.Label
	return []string{l + "s", l + "s_flat", l + "_counts", l + "_freq", "top_" + l + "s", "overview"}
}

// MarshalJSON renders the summary with label-derived keys followed by the
// extras in insertion order.
func (s *Summary) MarshalJSON() ([]byte, error) {
	l := s.Label
	keys := s.Keys()

	overview, err := MarshalFields([]Field{
		{Key: "num_documents", Value: s.Overview.Documents},
		{Key: "num_" + l + "s", Value: s.Overview.Matches},
		{Key: l + "s_per_document", Value: s.Overview.MatchesPerDocument},
		{Key: "unique_" + l + "s", Value: s.Overview.Unique},
	})
	if err != nil {
		return nil, err
	}

	fields := []Field{
		{Key: keys[0], Value: s.Matches},
		{Key: keys[1], Value: s.Flat},
		{Key: keys[2], Value: s.Counts},
		{Key: keys[3], Value: s.Frequency},
		{Key: keys[4], Value: s.Top},
		{Key: keys[5], Value: json.RawMessage(overview)},
	}
	return MarshalFields(append(fields, s.Extras()...))
}

// MarshalFields renders fields as one JSON object in the given order.
// Characters such as '&' in URLs are written as is.
func MarshalFields(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Aggregate computes the base fields of a Summary from per-document matches.
// The outer slice must have one entry per document; a nil entry counts as a
// document without matches.
func Aggregate(matches [][]string, label string) (*Summary, error) {
	if err := ValidateLabel(label); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrEmptyCorpus
	}

	aligned := make([][]string, len(matches))
	counts := make([]int, len(matches))
	flat := make([]string, 0)
	for i, doc := range matches {
		if doc == nil {
			doc = []string{}
		}
		aligned[i] = doc
		counts[i] = len(doc)
		flat = append(flat, doc...)
	}

	tally := tallyOf(flat)

	return &Summary{
		Label:     label,
		Matches:   aligned,
		Flat:      flat,
		Counts:    counts,
		Frequency: distribution(counts),
		Top:       rank(tally),
		Overview: Overview{
			Documents:          len(aligned),
			Matches:            len(flat),
			MatchesPerDocument: Ratio(float64(len(flat)) / float64(len(aligned))),
			Unique:             tally.Len(),
		},
	}, nil
}

// Rank tallies values and returns them by count descending, ties in
// first-seen order.
func Rank(values []string) []Ranked {
	return rank(tallyOf(values))
}

func tallyOf(values []string) *orderedmap.OrderedMap[string, int] {
	tally := orderedmap.New[string, int]()
	for _, v := range values {
		n, _ := tally.Get(v)
		tally.Set(v, n+1)
	}
	return tally
}

func rank(tally *orderedmap.OrderedMap[string, int]) []Ranked {
	ranked := make([]Ranked, 0, tally.Len())
	for pair := tally.Oldest(); pair != nil; pair = pair.Next() {
		ranked = append(ranked, Ranked{Value: pair.Key, Count: pair.Value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

func distribution(counts []int) []Bin {
	docs := make(map[int]int)
	for _, c := range counts {
		docs[c]++
	}

	bins := make([]Bin, 0, len(docs))
	for c, n := range docs {
		bins = append(bins, Bin{Count: c, Documents: n})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Count < bins[j].Count })
	return bins
}
