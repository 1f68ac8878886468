// Package config loads entitystats settings from defaults, a YAML file and
// ENTITYSTATS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the complete entitystats configuration.
type Config struct {
	Extract   ExtractConfig   `koanf:"extract"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ExtractConfig holds the engine settings and the defaults applied to
// extractor parameters the caller leaves unset.
type ExtractConfig struct {
	Workers    int      `koanf:"workers"` // 0 means GOMAXPROCS
	Left       int      `koanf:"left"`
	Right      int      `koanf:"right"`
	Separators []string `koanf:"separators"`
	MinReps    int      `koanf:"min_reps"`
	TopN       int      `koanf:"top_n"` // rows shown in table reports, 0 for all
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Endpoint        string   `koanf:"endpoint"`
	Protocol        string   `koanf:"protocol"`
	Insecure        bool     `koanf:"insecure"`
	ServiceName     string   `koanf:"service_name"`
	ServiceVersion  string   `koanf:"service_version"`
	SampleRate      float64  `koanf:"sample_rate"`
	ExportInterval  Duration `koanf:"export_interval"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig controls Prometheus collection.
type MetricsConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Textfile string `koanf:"textfile"` // node-exporter textfile written on exit
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Workers:    0,
			Left:       5,
			Right:      5,
			Separators: []string{".", ",", "-"},
			MinReps:    3,
			TopN:       10,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Enabled:         false,
			Endpoint:        "localhost:4317",
			Protocol:        "grpc",
			Insecure:        true,
			ServiceName:     "entitystats",
			ServiceVersion:  "0.1.0",
			SampleRate:      1.0,
			ExportInterval:  Duration(15 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// EffectiveWorkers returns the scan concurrency, resolving 0 to GOMAXPROCS.
func (c ExtractConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate returns the first problem found.
func (c *Config) Validate() error {
	e := c.Extract
	if e.Workers < 0 {
		return fmt.Errorf("%w: extract.workers must be >= 0, got %d", ErrInvalid, e.Workers)
	}
	if e.Left < 0 || e.Right < 0 {
		return fmt.Errorf("%w: extract.left and extract.right must be >= 0", ErrInvalid)
	}
	if e.MinReps < 2 {
		return fmt.Errorf("%w: extract.min_reps must be >= 2, got %d", ErrInvalid, e.MinReps)
	}
	if e.TopN < 0 {
		return fmt.Errorf("%w: extract.top_n must be >= 0, got %d", ErrInvalid, e.TopN)
	}
	for _, sep := range e.Separators {
		r, size := utf8.DecodeRuneInString(sep)
		if size == 0 || size != len(sep) || !(unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return fmt.Errorf("%w: extract.separators entry %q is not one punctuation or symbol character", ErrInvalid, sep)
		}
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("%w: logging.format must be 'json' or 'console', got %q", ErrInvalid, c.Logging.Format)
	}

	if t := c.Telemetry; t.Enabled {
		if t.Endpoint == "" {
			return fmt.Errorf("%w: telemetry.endpoint is required when telemetry is enabled", ErrInvalid)
		}
		if t.Protocol != "grpc" && t.Protocol != "http" {
			return fmt.Errorf("%w: telemetry.protocol must be 'grpc' or 'http', got %q", ErrInvalid, t.Protocol)
		}
		if t.ServiceName == "" {
			return fmt.Errorf("%w: telemetry.service_name is required when telemetry is enabled", ErrInvalid)
		}
		if t.SampleRate < 0 || t.SampleRate > 1 {
			return fmt.Errorf("%w: telemetry.sample_rate must be between 0 and 1, got %f", ErrInvalid, t.SampleRate)
		}
		if t.ExportInterval.Duration() <= 0 || t.ShutdownTimeout.Duration() <= 0 {
			return fmt.Errorf("%w: telemetry intervals must be positive", ErrInvalid)
		}
	}

	if c.Metrics.Textfile != "" && !c.Metrics.Enabled {
		return fmt.Errorf("%w: metrics.textfile requires metrics.enabled", ErrInvalid)
	}

	return nil
}
