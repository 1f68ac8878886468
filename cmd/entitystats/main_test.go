package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with isolated config and captured output.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd, a := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	require.NoError(t, a.teardown(context.Background()))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtract_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "posts.txt", "i like #blue\ni like #green and #blue\ni like all\n")

	out, _, err := run(t, "", "extract", "hashtag", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{"#blue", "#green", "#blue"}, got["hashtags_flat"])

	overview, ok := got["overview"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.0, overview["num_documents"])
	assert.Equal(t, 1.0, overview["hashtags_per_document"])
}

func TestExtract_FlagsOverrideDefaults(t *testing.T) {
	dir := t.TempDir()

	t.Run("currency window", func(t *testing.T) {
		path := writeFile(t, dir, "c.txt", "today ₿1 is around $4k\n")
		out, _, err := run(t, "", "extract", "currency", path, "--left", "0", "--right", "3")
		require.NoError(t, err)
		assert.Contains(t, out, `"₿1 i"`)
	})

	t.Run("csv column and separators", func(t *testing.T) {
		path := writeFile(t, dir, "n.csv", "id,body\n1,call 333-444\n")
		out, _, err := run(t, "", "extract", "number", path, "--column", "body", "--separators", "/")
		require.NoError(t, err)
		assert.Contains(t, out, `"333"`)
		assert.NotContains(t, out, `"333-444"`)
	})

	t.Run("comma separator", func(t *testing.T) {
		out, _, err := run(t, "123,456 and 7.8\n", "extract", "number", "--separators", ",")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []any{[]any{"123,456", "7", "8"}}, got["numbers"])
	})

	t.Run("several separators and none", func(t *testing.T) {
		out, _, err := run(t, "1.5-2,3\n", "extract", "number", "--separators", ".-")
		require.NoError(t, err)
		assert.Contains(t, out, `"1.5-2"`)
		assert.Contains(t, out, `"3"`)

		out, _, err = run(t, "1.5-2,3\n", "extract", "number", "--separators", "")
		require.NoError(t, err)
		assert.Contains(t, out, `"numbers_flat": [
    "1",
    "5",
    "2",
    "3"
  ]`)
	})

	t.Run("words substring", func(t *testing.T) {
		path := writeFile(t, dir, "w.txt", "there is rain, it is raining\n")
		out, _, err := run(t, "", "extract", "word", path, "--word", "rain", "--whole-word=false")
		require.NoError(t, err)
		assert.Contains(t, out, `"raining"`)
	})

	t.Run("custom expression from json", func(t *testing.T) {
		path := writeFile(t, dir, "p.json", `[{"text":"born 1999"},{"text":"in 2024"}]`)
		out, _, err := run(t, "", "extract", "custom", path, "--field", "#.text", "--expr", `\b\d{4}\b`, "--label", "year")
		require.NoError(t, err)
		assert.Contains(t, out, `"years_flat"`)
	})
}

func TestExtract_Stdin(t *testing.T) {
	out, _, err := run(t, "hi @ana\nhey @bo\n", "extract", "mention")
	require.NoError(t, err)
	assert.Contains(t, out, `"@ana"`)
	assert.Contains(t, out, `"@bo"`)
}

func TestExtract_Table(t *testing.T) {
	path := writeFile(t, t.TempDir(), "u.txt", "see http://a.com\nand www.b.org\n")
	out, _, err := run(t, "", "extract", "url", path, "--output", "table", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Top domains")
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "text\n")

	t.Run("unknown entity", func(t *testing.T) {
		_, stderr, err := run(t, "", "extract", "emoji", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown entity")
		assert.Contains(t, stderr, "extraction failed")
	})

	t.Run("empty corpus", func(t *testing.T) {
		empty := writeFile(t, dir, "empty.txt", "")
		_, _, err := run(t, "", "extract", "hashtag", empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty corpus")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "extract", "hashtag", filepath.Join(dir, "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := run(t, "", "--log-level", "loud", "extract", "hashtag", path)
		assert.Error(t, err)
	})

	t.Run("bad output", func(t *testing.T) {
		_, _, err := run(t, "", "extract", "hashtag", path, "--output", "xml")
		assert.Error(t, err)
	})
}

func TestRun_Job(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs.txt", "#go costs $5\n@ana likes #go\n")
	jobPath := writeFile(t, dir, "weekly.toml", `
[corpus]
path = "docs.txt"

[[extract]]
entity = "hashtag"

[[extract]]
entity = "mention"
`)
	metricsPath := filepath.Join(dir, "entitystats.prom")

	out, _, err := run(t, "", "--metrics-file", metricsPath, "run", jobPath)
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "hashtag")
	assert.Contains(t, got, "mention")
	assert.Less(t, strings.Index(out, `"hashtag"`), strings.Index(out, `"mention"`))

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "entitystats_extractions_total")
}

func TestRun_JobStepFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs.txt", "#go\n")
	jobPath := writeFile(t, dir, "j.toml", `
[corpus]
path = "docs.txt"

[[extract]]
entity = "intense_word"
min_reps = 1

[[extract]]
entity = "hashtag"
`)

	out, _, err := run(t, "", "run", jobPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract[0] intense_word")
	assert.Contains(t, out, `"hashtags"`, "successful steps are still reported")
}

func TestEntities(t *testing.T) {
	out, _, err := run(t, "", "entities")
	require.NoError(t, err)

	names := strings.Fields(out)
	assert.Contains(t, names, "hashtag")
	assert.Contains(t, names, "intense_word")
	assert.Contains(t, names, "custom")
	assert.IsIncreasing(t, names)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "extract:\n  left: 0\n  right: 1\nlogging:\n  level: info\n  format: json\n")
	path := writeFile(t, dir, "c.txt", "pay $4k\n")

	out, stderr, err := run(t, "", "--config", cfgPath, "extract", "currency", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"$4"`)
	assert.Contains(t, stderr, `"msg":"extraction finished"`)
}

func TestExecute_Help(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.NoError(t, execute(context.Background(), []string{"--help"}))
}

func TestSplitSeparators(t *testing.T) {
	assert.Nil(t, splitSeparators(""))
	assert.Equal(t, []string{","}, splitSeparators(","))
	assert.Equal(t, []string{".", ",", "-"}, splitSeparators(".,-"))
	assert.Equal(t, []string{"·", "'"}, splitSeparators("·'"))
}
