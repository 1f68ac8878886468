package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/entitystats/internal/corpus"
	"github.com/fyrsmithlabs/entitystats/internal/report"
	"github.com/fyrsmithlabs/entitystats/internal/service"
)

type extractOptions struct {
	format     string
	field      string
	output     string
	top        int
	left       int
	right      int
	separators string
	minReps    int
	words      []string
	wholeWord  bool
	expr       string
	label      string
}

func newExtractCmd(a *app) *cobra.Command {
	o := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <entity> [file]",
		Short: "Extract one entity from a corpus",
		Long: `Extract one entity from a corpus file, or from stdin when the file is
omitted or "-".

Entities: ` + strings.Join(service.NewRegistry().Names(), ", ") + `

Examples:
  # Currency symbols with three characters of context on each side
  entitystats extract currency posts.txt --left 3 --right 3

  # Numbers grouped by commas only
  entitystats extract number posts.txt --separators ,

  # Words containing "rain"
  entitystats extract word posts.txt --word rain --whole-word=false

  # A custom expression from a JSON array of objects
  entitystats extract custom posts.json --field '#.text' --expr '\b\d{4}\b' --label year`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.format, "format", "", "input format: "+strings.Join(corpus.Formats(), ", ")+" (default: from file extension)")
	f.StringVar(&o.field, "field", "", "JSON path for json/jsonl, or column name or index for csv")
	f.StringVar(&o.field, "column", "", "alias for --field")
	f.StringVar(&o.output, "output", report.FormatJSON, "output format: "+strings.Join(report.Formats(), ", "))
	f.IntVar(&o.top, "top", 0, "ranked rows shown in table output (default: extract.top_n)")
	f.IntVar(&o.left, "left", 0, "currency: characters of context before the symbol")
	f.IntVar(&o.right, "right", 0, "currency: characters of context after the symbol")
	f.StringVar(&o.separators, "separators", "", `number: digit group separator characters, e.g. ".,-" ("" for bare digit runs)`)
	f.IntVar(&o.minReps, "min-reps", 0, "intense_word: minimum repetitions of a character")
	f.StringArrayVar(&o.words, "word", nil, "word: target word (repeatable)")
	f.BoolVar(&o.wholeWord, "whole-word", true, "word: match whole words only")
	f.StringVar(&o.expr, "expr", "", "custom: regular expression")
	f.StringVar(&o.label, "label", "", "custom: output label")
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, o *extractOptions, args []string) error {
	entity := args[0]
	path := "-"
	if len(args) == 2 {
		path = args[1]
	}

	opts := corpus.Options{Format: o.format, Field: o.field}
	var (
		docs []string
		err  error
	)
	if path == "-" {
		docs, err = corpus.Read(cmd.InOrStdin(), opts)
	} else {
		docs, err = corpus.Load(path, opts)
	}
	if err != nil {
		return err
	}

	params := o.params(cmd, a.defaults())
	sum, err := a.svc.Run(cmd.Context(), docs, service.Request{Entity: entity, Params: params})
	if err != nil {
		return err
	}

	top := a.cfg.Extract.TopN
	if cmd.Flags().Changed("top") {
		top = o.top
	}
	entry := report.Entry{Name: entity, Summary: sum}
	if err := report.Write(cmd.OutOrStdout(), []report.Entry{entry}, report.Options{Format: o.output, TopN: top}); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// params overlays the flags the user set on the configured defaults.
func (o *extractOptions) params(cmd *cobra.Command, p service.Params) service.Params {
	f := cmd.Flags()
	if f.Changed("left") {
		p.Left = o.left
	}
	if f.Changed("right") {
		p.Right = o.right
	}
	if f.Changed("separators") {
		p.Separators = splitSeparators(o.separators)
	}
	if f.Changed("min-reps") {
		p.MinReps = o.minReps
	}
	if f.Changed("whole-word") {
		p.WholeWord = o.wholeWord
	}
	p.Words = o.words
	p.Expr = o.expr
	p.Label = o.label
	return p
}

// splitSeparators turns every character of s into one separator.
func splitSeparators(s string) []string {
	if s == "" {
		return nil
	}
	seps := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		seps = append(seps, string(r))
	}
	return seps
}
