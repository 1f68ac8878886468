package corpus

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Formats.
const (
	FormatLines = "lines"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// MaxLineSize bounds a single line in the lines and jsonl formats.
const MaxLineSize = 1024 * 1024

var (
	// ErrFormat is returned for an unknown format or malformed input.
	ErrFormat = errors.New("corpus format")
	// ErrField is returned when the selected field or column is missing.
	ErrField = errors.New("corpus field")
)

// Options selects how input is parsed.
type Options struct {
	// Format is one of the Format constants. Empty means detect from the
	// file extension, falling back to lines.
	Format string
	// Field is a gjson path for json and jsonl, and a header name or
	// zero-based index for csv.
	Field string
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatLines, FormatJSON, FormatJSONL, FormatCSV}
}

// DetectFormat maps a file extension to a format.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".csv":
		return FormatCSV
	default:
		return FormatLines
	}
}

// Load reads the corpus stored at path. A path of "-" reads stdin.
func Load(path string, opts Options) ([]string, error) {
	if opts.Format == "" {
		opts.Format = DetectFormat(path)
	}
	if path == "-" {
		return Read(os.Stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	docs, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Read parses a corpus from r.
func Read(r io.Reader, opts Options) ([]string, error) {
	switch opts.Format {
	case FormatLines, "":
		return readLines(r)
	case FormatJSON:
		return readJSON(r, opts.Field)
	case FormatJSONL:
		return readJSONL(r, opts.Field)
	case FormatCSV:
		return readCSV(r, opts.Field)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrFormat, opts.Format)
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return sc
}

func readLines(r io.Reader) ([]string, error) {
	docs := make([]string, 0)
	sc := newScanner(r)
	for sc.Scan() {
		docs = append(docs, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return docs, nil
}

func readJSON(r io.Reader, field string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrFormat)
	}

	res := gjson.ParseBytes(data)
	if field != "" {
		res = res.Get(field)
		if !res.Exists() {
			return nil, fmt.Errorf("%w: path %q not found", ErrField, field)
		}
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of strings", ErrFormat)
	}

	docs := make([]string, 0)
	var bad error
	res.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			bad = fmt.Errorf("%w: element %d is %s, not a string", ErrFormat, len(docs), v.Type)
			return false
		}
		docs = append(docs, v.Str)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return docs, nil
}

func readJSONL(r io.Reader, field string) ([]string, error) {
	docs := make([]string, 0)
	sc := newScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("%w: line %d is not valid json", ErrFormat, line)
		}

		v := gjson.Parse(text)
		if field != "" {
			v = v.Get(field)
		}
		switch {
		case !v.Exists():
			return nil, fmt.Errorf("%w: line %d has no %q", ErrField, line, field)
		case v.Type != gjson.String:
			return nil, fmt.Errorf("%w: line %d value is %s, not a string", ErrFormat, line, v.Type)
		}
		docs = append(docs, v.Str)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading jsonl: %w", err)
	}
	return docs, nil
}

func readCSV(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv has no header row", ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	idx, err := columnIndex(header, column)
	if err != nil {
		return nil, err
	}

	docs := make([]string, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if idx >= len(rec) {
			docs = append(docs, "")
			continue
		}
		docs = append(docs, rec[idx])
	}
	return docs, nil
}

// columnIndex resolves a header name, then a zero-based index. An empty
// column selects the only column, or a column named "text".
func columnIndex(header []string, column string) (int, error) {
	if column == "" {
		if len(header) == 1 {
			return 0, nil
		}
		column = "text"
	}
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(column); err == nil && n >= 0 && n < len(header) {
		return n, nil
	}
	return 0, fmt.Errorf("%w: column %q not in header %v", ErrField, column, header)
}
