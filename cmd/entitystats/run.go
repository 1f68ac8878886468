package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/entitystats/internal/job"
	"github.com/fyrsmithlabs/entitystats/internal/report"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		output string
		top    int
	)

	cmd := &cobra.Command{
		Use:   "run <job.toml>",
		Short: "Run the extractions described in a job file",
		Long: `Run every [[extract]] step of a TOML job file over the job's corpus and
report all summaries together. A failing step is reported and the remaining
steps still run.

Example job:
  name = "weekly"

  [corpus]
  path = "tweets.csv"
  field = "text"

  [[extract]]
  entity = "hashtag"

  [[extract]]
  entity = "url"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := job.Load(args[0])
			if err != nil {
				return err
			}

			opts := []job.RunnerOption{job.WithLogger(a.logger)}
			if bar := newProgressBar(cmd.ErrOrStderr(), len(j.Steps), j.Name); bar != nil {
				opts = append(opts, job.WithProgress(func(done, _ int) { _ = bar.Set(done) }))
				defer func() { _ = bar.Finish() }()
			}

			results, runErr := job.NewRunner(a.svc, a.defaults(), opts...).Run(cmd.Context(), j)

			entries := make([]report.Entry, 0, len(results))
			for _, r := range results {
				if r.Err == nil {
					entries = append(entries, report.Entry{Name: r.Step.Key(), Summary: r.Summary})
				}
			}
			if len(entries) > 0 {
				if !cmd.Flags().Changed("top") {
					top = a.cfg.Extract.TopN
				}
				if err := report.Write(cmd.OutOrStdout(), entries, report.Options{Format: output, TopN: top}); err != nil {
					return errors.Join(runErr, fmt.Errorf("writing report: %w", err))
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&output, "output", report.FormatJSON, "output format: json, table")
	cmd.Flags().IntVar(&top, "top", 0, "ranked rows shown in table output (default: extract.top_n)")
	return cmd
}

// newProgressBar returns nil unless w is a terminal.
func newProgressBar(w io.Writer, steps int, name string) *progressbar.ProgressBar {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
