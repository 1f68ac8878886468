// Package report renders extraction summaries as JSON or text tables.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// ErrFormat is returned for an unknown output format.
var ErrFormat = errors.New("unknown report format")

// Entry is one named summary.
type Entry struct {
	Name    string
	Summary *summary.Summary
}

// Options controls rendering.
type Options struct {
	Format string
	// TopN limits ranked rows in tables; 0 shows all.
	TopN int
}

// Formats returns the supported output formats.
func Formats() []string {
	return []string{FormatJSON, FormatTable}
}

// Write renders entries to w. A single JSON entry is written as its summary
// object; several are keyed by name in order.
func Write(w io.Writer, entries []Entry, opts Options) error {
	switch opts.Format {
	case FormatJSON, "":
		return writeJSON(w, entries)
	case FormatTable:
		return writeTables(w, entries, opts.TopN)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, opts.Format)
	}
}

func writeJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if len(entries) == 1 {
		return enc.Encode(entries[0].Summary)
	}

	fields := make([]summary.Field, len(entries))
	for i, e := range entries {
		fields[i] = summary.Field{Key: e.Name, Value: e.Summary}
	}
	out, err := summary.MarshalFields(fields)
	if err != nil {
		return err
	}
	return enc.Encode(json.RawMessage(out))
}

func writeTables(w io.Writer, entries []Entry, topN int) error {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		renderSummary(&b, e, topN)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderSummary(b *strings.Builder, e Entry, topN int) {
	s := e.Summary
	ov := s.Overview

	title := e.Name
	if title != s.Label {
		title = fmt.Sprintf("%s (%s)", e.Name, s.Label)
	}

	section(b, renderTable(title,
		[]string{"Documents", "Matches", "Per document", "Unique"},
		[][]string{{
			humanize.Comma(int64(ov.Documents)),
			humanize.Comma(int64(ov.Matches)),
			humanize.CommafWithDigits(float64(ov.MatchesPerDocument), 2),
			humanize.Comma(int64(ov.Unique)),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))

	section(b, rankedTable("Top "+s.Label+"s", s.Top, topN))

	freq := make([][]string, len(s.Frequency))
	for i, bin := range s.Frequency {
		freq[i] = []string{strconv.Itoa(bin.Count), humanize.Comma(int64(bin.Documents))}
	}
	section(b, renderTable("Frequency",
		[]string{"Matches", "Documents"},
		freq,
		[]columnAlignment{alignRight, alignRight},
	))

	for _, f := range s.Extras() {
		if ranked, ok := f.Value.([]summary.Ranked); ok {
			section(b, rankedTable(humanTitle(f.Key), ranked, topN))
		}
	}
}

func rankedTable(title string, ranked []summary.Ranked, topN int) string {
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{strconv.Itoa(i + 1), r.Value, humanize.Comma(int64(r.Count))}
	}
	return renderTable(title,
		[]string{"#", "Value", "Count"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight},
	)
}

func section(b *strings.Builder, rendered string) {
	if rendered == "" {
		return
	}
	b.WriteString(rendered)
	b.WriteString("\n")
}

// humanTitle turns top_domains into "Top domains".
func humanTitle(key string) string {
	words := strings.ReplaceAll(key, "_", " ")
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
