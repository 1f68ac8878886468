// Package job runs batches of extractions described in TOML files.
//
// A job names one corpus and any number of extractions over it:
//
//	name = "weekly"
//
//	[corpus]
//	path = "tweets.csv"   # relative to the job file
//	field = "text"
//
//	[[extract]]
//	entity = "hashtag"
//
//	[[extract]]
//	entity = "currency"
//	left = 3
//
//	[[extract]]
//	entity = "custom"
//	expr = '\b(?:19|20)\d{2}\b'
//	label = "year"
//
// Extractor arguments left out of a step fall back to the configured
// defaults.
package job

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fyrsmithlabs/entitystats/internal/corpus"
	"github.com/fyrsmithlabs/entitystats/internal/service"
)

var (
	// ErrInvalidTOML is returned when a job file does not parse.
	ErrInvalidTOML = errors.New("invalid job file")
	// ErrInvalidJob is returned when a parsed job is incomplete.
	ErrInvalidJob = errors.New("invalid job")
)

// Job is a parsed job file.
type Job struct {
	Name   string     `toml:"name"`
	Corpus CorpusSpec `toml:"corpus"`
	Steps  []Step     `toml:"extract"`

	dir string
}

// CorpusSpec locates the documents.
type CorpusSpec struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
	Field  string `toml:"field"`
}

// Step is one extraction. Nil fields take the defaults.
type Step struct {
	Entity     string    `toml:"entity"`
	Left       *int      `toml:"left"`
	Right      *int      `toml:"right"`
	Separators *[]string `toml:"separators"`
	MinReps    *int      `toml:"min_reps"`
	Words      []string  `toml:"words"`
	WholeWord  *bool     `toml:"whole_word"`
	Expr       string    `toml:"expr"`
	Label      string    `toml:"label"`
}

// Load parses the job file at path. Unknown keys are rejected. A job
// without a name is named after its file.
func Load(path string) (*Job, error) {
	var j Job
	md, err := toml.DecodeFile(path, &j)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidTOML, path, strings.Join(keys, ", "))
	}

	if j.Name == "" {
		j.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	j.dir = filepath.Dir(path)
	return &j, nil
}

// Validate checks the job against the entity names a service accepts.
func (j *Job) Validate(entities []string) error {
	if j.Corpus.Path == "" {
		return fmt.Errorf("%w: corpus.path is required", ErrInvalidJob)
	}
	if j.Corpus.Format != "" && !slices.Contains(corpus.Formats(), j.Corpus.Format) {
		return fmt.Errorf("%w: corpus.format %q", ErrInvalidJob, j.Corpus.Format)
	}
	if len(j.Steps) == 0 {
		return fmt.Errorf("%w: no [[extract]] steps", ErrInvalidJob)
	}
	for i, s := range j.Steps {
		if !slices.Contains(entities, s.Entity) {
			return fmt.Errorf("%w: extract[%d]: unknown entity %q", ErrInvalidJob, i, s.Entity)
		}
	}
	return nil
}

// CorpusPath resolves the corpus path against the job file directory.
func (j *Job) CorpusPath() string {
	p := j.Corpus.Path
	if p == "-" || filepath.IsAbs(p) || j.dir == "" {
		return p
	}
	return filepath.Join(j.dir, p)
}

// Params overlays the step's arguments on defaults.
func (s Step) Params(defaults service.Params) service.Params {
	p := defaults
	if s.Left != nil {
		p.Left = *s.Left
	}
	if s.Right != nil {
		p.Right = *s.Right
	}
	if s.Separators != nil {
		p.Separators = *s.Separators
	}
	if s.MinReps != nil {
		p.MinReps = *s.MinReps
	}
	if len(s.Words) > 0 {
		p.Words = s.Words
	}
	if s.WholeWord != nil {
		p.WholeWord = *s.WholeWord
	}
	if s.Expr != "" {
		p.Expr = s.Expr
	}
	if s.Label != "" {
		p.Label = s.Label
	}
	return p
}

// Key names the step's output: the label for custom steps, else the entity.
func (s Step) Key() string {
	if s.Entity == service.EntityCustom && s.Label != "" {
		return s.Label
	}
	return s.Entity
}
