package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/naming"
)

// Settings configures the stopwatch command.
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text or json.
	LogFormat string
	// Metrics enables OpenTelemetry metrics.
	Metrics bool
	// Tracing enables OpenTelemetry spans.
	Tracing bool
	// Workers is the number of goroutines the run command starts.
	Workers int
	// Laps is the number of laps each worker records.
	Laps int
	// LapInterval is how long a worker waits between laps.
	LapInterval time.Duration
	// Prefix is prepended to generated stopwatch ids.
	Prefix string
	// IDPattern names each worker's stopwatch. It may use ${prefix} and
	// must use ${worker}.
	IDPattern string
	// ExportPath is the SQLite report database. Empty disables export.
	ExportPath string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:    "info",
		LogFormat:   "text",
		Workers:     4,
		Laps:        3,
		LapInterval: 10 * time.Millisecond,
		Prefix:      "worker",
		IDPattern:   naming.DefaultPattern,
	}
}

// FromConfig reads Settings from cfg, falling back to DefaultSettings.
func FromConfig(cfg Config) Settings {
	d := DefaultSettings()
	return Settings{
		LogLevel:    strings.ToLower(cfg.String("log_level", d.LogLevel)),
		LogFormat:   strings.ToLower(cfg.String("log_format", d.LogFormat)),
		Metrics:     cfg.Bool("metrics", d.Metrics),
		Tracing:     cfg.Bool("tracing", d.Tracing),
		Workers:     cfg.Int("workers", d.Workers),
		Laps:        cfg.Int("laps", d.Laps),
		LapInterval: cfg.Duration("lap_interval", d.LapInterval),
		Prefix:      cfg.String("prefix", d.Prefix),
		IDPattern:   cfg.String("id_pattern", d.IDPattern),
		ExportPath:  cfg.String("export_path", d.ExportPath),
	}
}

// LoadSettings builds Settings from an optional config file and the
// environment. Later sources win: defaults, file, .env, process environment.
func LoadSettings(path string) (Settings, error) {
	cfg := New(nil)
	if path != "" {
		var err error
		cfg, err = FromFile(path)
		if err != nil {
			return Settings{}, err
		}
	}

	if err := LoadDotEnv(); err != nil {
		return Settings{}, err
	}
	cfg = cfg.Merge(FromEnv(EnvPrefix, os.Environ()))

	s := FromConfig(cfg)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if _, err := s.Level(); err != nil {
		return err
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want text or json", s.LogFormat)
	}
	if s.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", s.Workers)
	}
	if s.Laps < 0 {
		return fmt.Errorf("invalid laps %d: must not be negative", s.Laps)
	}
	if s.LapInterval < 0 {
		return fmt.Errorf("invalid lap_interval %s: must not be negative", s.LapInterval)
	}
	if s.Prefix == "" {
		return fmt.Errorf("invalid prefix: must not be empty")
	}
	if _, err := s.Pattern(); err != nil {
		return err
	}
	return nil
}

// Pattern parses IDPattern. Every worker must get a distinct id, so the
// pattern has to reference ${worker}.
func (s Settings) Pattern() (*naming.Pattern, error) {
	p, err := naming.Parse(s.IDPattern, "prefix", "worker")
	if err != nil {
		return nil, fmt.Errorf("invalid id_pattern %q: %w", s.IDPattern, err)
	}
	if !p.Uses("worker") {
		return nil, fmt.Errorf("invalid id_pattern %q: must use ${worker}", s.IDPattern)
	}
	return p, nil
}

// Level returns the slog level for LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	return level, nil
}
