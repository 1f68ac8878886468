package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  []string
	}{
		{"lines", "i like #blue\r\n\nlast", Options{Format: FormatLines}, []string{"i like #blue", "", "last"}},
		{"lines empty", "", Options{}, []string{}},
		{"json array", `["a", "b c"]`, Options{Format: FormatJSON}, []string{"a", "b c"}},
		{"json path", `{"posts":[{"body":"x"},{"body":"y"}]}`, Options{Format: FormatJSON, Field: "posts.#.body"}, []string{"x", "y"}},
		{"jsonl string", "\"one\"\n\n\"two\"\n", Options{Format: FormatJSONL}, []string{"one", "two"}},
		{"jsonl field", `{"text":"hi @ana"}` + "\n" + `{"text":"#go","id":2}`, Options{Format: FormatJSONL, Field: "text"}, []string{"hi @ana", "#go"}},
		{"csv single column", "body\nfirst\n\"with, comma\"\n", Options{Format: FormatCSV}, []string{"first", "with, comma"}},
		{"csv text column", "id,text\n1,hello\n2,world\n", Options{Format: FormatCSV}, []string{"hello", "world"}},
		{"csv named", "id,tweet\n1,a\n2,b\n", Options{Format: FormatCSV, Field: "tweet"}, []string{"a", "b"}},
		{"csv index", "id,tweet\n1,a\n", Options{Format: FormatCSV, Field: "0"}, []string{"1"}},
		{"csv short row", "id,tweet\n1\n", Options{Format: FormatCSV, Field: "tweet"}, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  error
	}{
		{"unknown format", "x", Options{Format: "xml"}, ErrFormat},
		{"invalid json", "[", Options{Format: FormatJSON}, ErrFormat},
		{"json object", `{"a":1}`, Options{Format: FormatJSON}, ErrFormat},
		{"json number element", `["a", 2]`, Options{Format: FormatJSON}, ErrFormat},
		{"json missing path", `{"a":[]}`, Options{Format: FormatJSON, Field: "b"}, ErrField},
		{"jsonl invalid", "{\n", Options{Format: FormatJSONL}, ErrFormat},
		{"jsonl missing field", `{"a":"x"}`, Options{Format: FormatJSONL, Field: "text"}, ErrField},
		{"jsonl number", `{"text":5}`, Options{Format: FormatJSONL, Field: "text"}, ErrFormat},
		{"csv empty", "", Options{Format: FormatCSV}, ErrFormat},
		{"csv missing column", "a,b\n1,2\n", Options{Format: FormatCSV, Field: "text"}, ErrField},
		{"csv bad quote", "text\n\"open\n", Options{Format: FormatCSV}, ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("tweets.JSON"))
	assert.Equal(t, FormatJSONL, DetectFormat("tweets.ndjson"))
	assert.Equal(t, FormatCSV, DetectFormat("a/b.csv"))
	assert.Equal(t, FormatLines, DetectFormat("notes.txt"))
	assert.Equal(t, FormatLines, DetectFormat("-"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(path, []byte("text\n#a\n#b\n"), 0o600))

	docs, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"#a", "#b"}, docs)

	_, err = Load(filepath.Join(dir, "missing.txt"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(path, Options{Field: "body"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"lines", "json", "jsonl", "csv"}, Formats())
}
