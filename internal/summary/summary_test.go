package summary

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashtagMatches() [][]string {
	return [][]string{{"#blue"}, {"#green", "#blue"}, {}}
}

func TestAggregate(t *testing.T) {
	s, err := Aggregate(hashtagMatches(), "hashtag")
	require.NoError(t, err)

	assert.Equal(t, "hashtag", s.Label)
	assert.Equal(t, [][]string{{"#blue"}, {"#green", "#blue"}, {}}, s.Matches)
	assert.Equal(t, []string{"#blue", "#green", "#blue"}, s.Flat)
	assert.Equal(t, []int{1, 2, 0}, s.Counts)
	assert.Equal(t, []Bin{{0, 1}, {1, 1}, {2, 1}}, s.Frequency)
	assert.Equal(t, []Ranked{{"#blue", 2}, {"#green", 1}}, s.Top)
	assert.Equal(t, Overview{Documents: 3, Matches: 3, MatchesPerDocument: 1.0, Unique: 2}, s.Overview)
}

func TestAggregate_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		matches [][]string
	}{
		{"no matches", [][]string{{}, {}, {}}},
		{"nil documents", [][]string{nil, {"a"}, nil}},
		{"single document", [][]string{{"a", "a", "b"}}},
		{"repeated counts", [][]string{{"x"}, {"y"}, {"x", "y"}, {}, {"z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Aggregate(tt.matches, "x")
			require.NoError(t, err)

			assert.Len(t, s.Matches, len(tt.matches))
			for _, m := range s.Matches {
				assert.NotNil(t, m)
			}

			total := 0
			for _, c := range s.Counts {
				total += c
			}
			assert.Equal(t, len(s.Flat), total)

			docs := 0
			for i, b := range s.Frequency {
				docs += b.Documents
				if i > 0 {
					assert.Less(t, s.Frequency[i-1].Count, b.Count)
				}
			}
			assert.Equal(t, len(tt.matches), docs)

			unique := make(map[string]struct{})
			for _, v := range s.Flat {
				unique[v] = struct{}{}
			}
			assert.Equal(t, len(tt.matches), s.Overview.Documents)
			assert.Equal(t, len(unique), s.Overview.Unique)
			assert.InDelta(t, float64(len(s.Flat))/float64(len(tt.matches)), float64(s.Overview.MatchesPerDocument), 1e-9)
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	t.Run("empty corpus", func(t *testing.T) {
		_, err := Aggregate([][]string{}, "x")
		assert.ErrorIs(t, err, ErrEmptyCorpus)

		_, err = Aggregate(nil, "x")
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})

	for _, label := range []string{"", "Hashtag", "1st", "has space", "dash-ed"} {
		t.Run("label "+label, func(t *testing.T) {
			_, err := Aggregate([][]string{{}}, label)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestRank(t *testing.T) {
	t.Run("ties keep first seen order", func(t *testing.T) {
		got := Rank([]string{"c", "a", "b", "a", "b", "c"})
		assert.Equal(t, []Ranked{{"c", 2}, {"a", 2}, {"b", 2}}, got)
	})

	t.Run("higher counts first", func(t *testing.T) {
		got := Rank([]string{"a", "b", "b", "c", "c", "c"})
		assert.Equal(t, []Ranked{{"c", 3}, {"b", 2}, {"a", 1}}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got := Rank(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("reproducible", func(t *testing.T) {
		values := []string{"q", "w", "e", "r", "t", "y", "w", "q"}
		first := Rank(values)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, Rank(values))
		}
	})
}

func TestSummary_Extras(t *testing.T) {
	s, err := Aggregate([][]string{{"$"}}, "currency_symbol")
	require.NoError(t, err)

	assert.Empty(t, s.Extras())
	_, ok := s.Extra("missing")
	assert.False(t, ok)

	s.SetExtra("currency_symbol_names", [][]string{{"dollar sign"}})
	s.SetExtra("top_names", []Ranked{{"dollar sign", 1}})
	s.SetExtra("currency_symbol_names", [][]string{{"dollar"}})

	fields := s.Extras()
	require.Len(t, fields, 2)
	assert.Equal(t, "currency_symbol_names", fields[0].Key)
	assert.Equal(t, "top_names", fields[1].Key)

	assert.Equal(t, [][]string{{"dollar"}}, s.ExtraMatches("currency_symbol_names"))
	assert.Equal(t, []Ranked{{"dollar sign", 1}}, s.ExtraRanked("top_names"))
	assert.Nil(t, s.ExtraRanked("currency_symbol_names"))
}

func TestSummary_MarshalJSON(t *testing.T) {
	s, err := Aggregate(hashtagMatches(), "hashtag")
	require.NoError(t, err)
	s.SetExtra("extra_field", []Ranked{{"v", 1}})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	want := `{` +
		`"hashtags":[["#blue"],["#green","#blue"],[]],` +
		`"hashtags_flat":["#blue","#green","#blue"],` +
		`"hashtag_counts":[1,2,0],` +
		`"hashtag_freq":[[0,1],[1,1],[2,1]],` +
		`"top_hashtags":[["#blue",2],["#green",1]],` +
		`"overview":{"num_documents":3,"num_hashtags":3,"hashtags_per_document":1.0,"unique_hashtags":2},` +
		`"extra_field":[["v",1]]` +
		`}`
	assert.JSONEq(t, want, string(data))

	assert.Contains(t, string(data), `"hashtags_per_document":1.0,`)

	// JSONEq ignores key order, so check it separately.
	keys := append(s.Keys(), "extra_field")
	last := -1
	for _, k := range keys {
		idx := strings.Index(string(data), `"`+k+`":`)
		require.GreaterOrEqual(t, idx, 0, k)
		assert.Greater(t, idx, last, k)
		last = idx
	}
}


func TestSummary_MarshalJSON_KeepsURLCharacters(t *testing.T) {
	s, err := Aggregate([][]string{{"http://a.com/?x=1&y=<2>"}}, "url")
	require.NoError(t, err)
	s.SetExtra("top_domains", Rank([]string{"a.com&b"}))

	data, err := s.MarshalJSON()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"urls_flat":["http://a.com/?x=1&y=<2>"]`)
	assert.Contains(t, string(data), `"top_urls":[["http://a.com/?x=1&y=<2>",1]]`)
	assert.Contains(t, string(data), `"top_domains":[["a.com&b",1]]`)
	assert.NotContains(t, string(data), `\u0026`)
	assert.True(t, json.Valid(data))
}

func TestRatio_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   Ratio
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{12, "12.0"},
		{0.5, "0.5"},
		{2.0 / 3.0, "0.6666666666666666"},
		{1e21, "1000000000000000000000.0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := tt.in.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestMarshalFields(t *testing.T) {
	data, err := MarshalFields([]Field{
		{Key: "b", Value: 1},
		{Key: "a", Value: []string{"x&y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":["x&y"]}`, string(data))

	data, err = MarshalFields(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	_, err = MarshalFields([]Field{{Key: "bad", Value: make(chan int)}})
	assert.Error(t, err)
}
