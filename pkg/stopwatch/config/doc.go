/*
Package config provides type-safe configuration extraction and the settings
of the stopwatch command.

# Overview

Config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
Accessors also parse strings, so values read from the environment work the
same as values read from YAML.

	cfg := config.New(map[string]any{
	    "lap_interval": "250ms",
	    "workers":      8,
	    "metrics":      "true",
	})

	interval := cfg.Duration("lap_interval", time.Second) // 250ms
	workers := cfg.Int("workers", 4)                     // 8
	metrics := cfg.Bool("metrics", false)                // true

# Settings

LoadSettings layers, from lowest to highest precedence: DefaultSettings, a
YAML or JSON file, a ./.env file, and STOPWATCH_* process environment
variables:

	s, err := config.LoadSettings("stopwatch.yaml")
	if err != nil {
	    log.Fatal(err)
	}

Recognised keys: log_level, log_format, metrics, tracing, workers, laps,
lap_interval, prefix, export_path.

# Thread Safety

Config is safe for concurrent read access. Merge returns a new Config and
never modifies its receiver.
*/
package config
