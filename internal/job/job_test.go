package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/entitystats/internal/config"
	"github.com/fyrsmithlabs/entitystats/internal/extract"
	"github.com/fyrsmithlabs/entitystats/internal/logging"
	"github.com/fyrsmithlabs/entitystats/internal/service"
)

const weeklyJob = `
name = "weekly"

[corpus]
path = "posts.csv"
field = "body"

[[extract]]
entity = "hashtag"

[[extract]]
entity = "currency"
left = 0
right = 2

[[extract]]
entity = "number"
separators = []

[[extract]]
entity = "custom"
expr = '\b(?:19|20)\d{2}\b'
label = "year"
`

const posts = `id,body
1,"#go in 2024 costs $5,000"
2,"#go #rust since 1999"
3,nothing here
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{"weekly.toml": weeklyJob})

	j, err := Load(filepath.Join(dir, "weekly.toml"))
	require.NoError(t, err)

	assert.Equal(t, "weekly", j.Name)
	assert.Equal(t, filepath.Join(dir, "posts.csv"), j.CorpusPath())
	require.Len(t, j.Steps, 4)

	assert.Equal(t, "hashtag", j.Steps[0].Entity)
	assert.Nil(t, j.Steps[0].Left)
	require.NotNil(t, j.Steps[1].Left)
	assert.Equal(t, 0, *j.Steps[1].Left)
	require.NotNil(t, j.Steps[2].Separators)
	assert.Empty(t, *j.Steps[2].Separators)
	assert.Equal(t, "year", j.Steps[3].Key())
	assert.Equal(t, "currency", j.Steps[1].Key())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"bad.toml": "name = "})
		_, err := Load(filepath.Join(dir, "bad.toml"))
		assert.ErrorIs(t, err, ErrInvalidTOML)
	})

	t.Run("unknown key", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"typo.toml": "[[extract]]\nentity = \"url\"\nlfet = 2\n"})
		_, err := Load(filepath.Join(dir, "typo.toml"))
		require.ErrorIs(t, err, ErrInvalidTOML)
		assert.Contains(t, err.Error(), "lfet")
	})

	t.Run("name from file", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"daily.toml": "[corpus]\npath = \"x\"\n"})
		j, err := Load(filepath.Join(dir, "daily.toml"))
		require.NoError(t, err)
		assert.Equal(t, "daily", j.Name)
	})
}

func TestJob_Validate(t *testing.T) {
	entities := service.NewRegistry().Names()
	valid := func() *Job {
		return &Job{
			Corpus: CorpusSpec{Path: "x.txt"},
			Steps:  []Step{{Entity: "url"}},
		}
	}
	require.NoError(t, valid().Validate(entities))

	tests := []struct {
		name   string
		mutate func(*Job)
		errMsg string
	}{
		{"no corpus", func(j *Job) { j.Corpus.Path = "" }, "corpus.path"},
		{"bad format", func(j *Job) { j.Corpus.Format = "xml" }, "corpus.format"},
		{"no steps", func(j *Job) { j.Steps = nil }, "no [[extract]]"},
		{"unknown entity", func(j *Job) { j.Steps[0].Entity = "emoji" }, "emoji"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := valid()
			tt.mutate(j)
			err := j.Validate(entities)
			require.ErrorIs(t, err, ErrInvalidJob)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestStep_Params(t *testing.T) {
	defaults := service.DefaultParams(config.Default().Extract)

	assert.Equal(t, defaults, Step{Entity: "hashtag"}.Params(defaults))

	left, reps, whole := 1, 4, false
	seps := []string{"/"}
	p := Step{
		Left:       &left,
		MinReps:    &reps,
		WholeWord:  &whole,
		Separators: &seps,
		Words:      []string{"go"},
		Expr:       `\d`,
		Label:      "digit",
	}.Params(defaults)

	assert.Equal(t, 1, p.Left)
	assert.Equal(t, defaults.Right, p.Right)
	assert.Equal(t, 4, p.MinReps)
	assert.False(t, p.WholeWord)
	assert.Equal(t, []string{"/"}, p.Separators)
	assert.Equal(t, []string{"go"}, p.Words)
	assert.Equal(t, `\d`, p.Expr)
	assert.Equal(t, "digit", p.Label)
}

func newRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()
	svc, err := service.New(service.Options{Engine: extract.New(extract.WithWorkers(2))})
	require.NoError(t, err)
	return NewRunner(svc, service.DefaultParams(config.Default().Extract), opts...)
}

func TestRunner_Run(t *testing.T) {
	dir := writeFiles(t, map[string]string{"weekly.toml": weeklyJob, "posts.csv": posts})
	j, err := Load(filepath.Join(dir, "weekly.toml"))
	require.NoError(t, err)

	var progress []int
	logs := logging.NewTestLogger()
	r := newRunner(t,
		WithLogger(logs.Logger),
		WithProgress(func(done, total int) {
			assert.Equal(t, 4, total)
			progress = append(progress, done)
		}),
	)

	results, err := r.Run(context.Background(), j)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	hashtags := results[0].Summary
	assert.Equal(t, [][]string{{"#go"}, {"#go", "#rust"}, {}}, hashtags.Matches)

	currency := results[1].Summary
	assert.Equal(t, [][]string{{"$5,"}, {}, {}}, currency.ExtraMatches(extract.FieldSurroundingText))

	numbers := results[2].Summary
	assert.Equal(t, [][]string{{"2024", "5", "000"}, {"1999"}, {}}, numbers.Matches)

	years := results[3].Summary
	assert.Equal(t, "year", years.Label)
	assert.Equal(t, []string{"2024", "1999"}, years.Flat)

	logs.AssertLogged(t, zapcore.InfoLevel, "job finished")
	logs.AssertField(t, "job finished", "job", "weekly")
	logs.AssertField(t, "job finished", "failed", int64(0))
}

func TestRunner_Run_StepFailureContinues(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"j.toml":   "[corpus]\npath = \"docs.txt\"\n\n[[extract]]\nentity = \"custom\"\nexpr = \"(\"\n\n[[extract]]\nentity = \"mention\"\n",
		"docs.txt": "hi @ana\n",
	})
	j, err := Load(filepath.Join(dir, "j.toml"))
	require.NoError(t, err)

	results, err := newRunner(t).Run(context.Background(), j)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrConfiguration)
	assert.Contains(t, err.Error(), "extract[0] custom")

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Summary)
	require.NoError(t, results[1].Err)
	assert.Equal(t, []string{"@ana"}, results[1].Summary.Flat)
}

func TestRunner_Run_Errors(t *testing.T) {
	t.Run("invalid job", func(t *testing.T) {
		_, err := newRunner(t).Run(context.Background(), &Job{})
		assert.ErrorIs(t, err, ErrInvalidJob)
	})

	t.Run("missing corpus", func(t *testing.T) {
		j := &Job{Corpus: CorpusSpec{Path: filepath.Join(t.TempDir(), "gone.txt")}, Steps: []Step{{Entity: "url"}}}
		_, err := newRunner(t).Run(context.Background(), j)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"docs.txt": "a\n"})
		j := &Job{Corpus: CorpusSpec{Path: filepath.Join(dir, "docs.txt")}, Steps: []Step{{Entity: "url"}}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results, err := newRunner(t).Run(ctx, j)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, results)
	})
}
