package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/entitystats/internal/config"
	"github.com/fyrsmithlabs/entitystats/internal/extract"
	"github.com/fyrsmithlabs/entitystats/internal/logging"
	"github.com/fyrsmithlabs/entitystats/internal/metrics"
	"github.com/fyrsmithlabs/entitystats/internal/service"
	"github.com/fyrsmithlabs/entitystats/internal/telemetry"
)

// app holds what the subcommands share. It is filled by the root
// command's PersistentPreRunE.
type app struct {
	configPath  string
	logLevel    string
	metricsFile string

	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	prom   *metrics.Metrics
	svc    *service.Service
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "entitystats",
		Short: "Extract and summarize entities in short texts",
		Long: `entitystats extracts entities such as hashtags, mentions, currency symbols,
numbers, questions, exclamations, intense words, URLs and chosen words from a
corpus of short documents, and reports per-document matches, frequency
distributions, top occurrences and overview ratios.

Examples:
  # Hashtags in a file with one post per line
  entitystats extract hashtag posts.txt

  # URLs in the "text" column of a CSV, as tables
  entitystats extract url tweets.csv --output table

  # Several extractions described in a job file
  entitystats run weekly.toml`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: <user config dir>/entitystats/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newEntitiesCmd(a))
	return cmd, a
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.metricsFile != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	a.tel, err = telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry))
	if err != nil {
		return err
	}

	logCfg, err := logging.NewConfig(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logCfg.Writer = cmd.ErrOrStderr()
	a.logger, err = logging.NewLogger(logCfg, a.tel.LoggerProvider())
	if err != nil {
		return err
	}

	if h := a.tel.Health(); h.Degraded {
		a.logger.Warn(ctx, "telemetry degraded", zap.Error(h.Err))
	}

	if cfg.Metrics.Enabled {
		a.prom = metrics.NewMetrics()
	}

	a.svc, err = service.New(service.Options{
		Engine:    extract.New(extract.WithWorkers(cfg.Extract.EffectiveWorkers())),
		Logger:    a.logger,
		Telemetry: a.tel,
		Metrics:   a.prom,
	})
	if err != nil {
		return err
	}

	ctx, runID := logging.WithNewRunID(ctx)
	cmd.SetContext(logging.WithLogger(ctx, a.logger))
	a.logger.Debug(ctx, "starting", zap.String("command", cmd.Name()), zap.String("run_id", runID))
	return nil
}

// teardown is safe to call when setup never ran.
func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile, prometheus.DefaultGatherer); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.tel.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if a.logger != nil {
		if err := a.logger.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// defaults returns the extractor arguments from configuration.
func (a *app) defaults() service.Params {
	return service.DefaultParams(a.cfg.Extract)
}
