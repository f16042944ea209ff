package main

import (
	"errors"
)

// Config validation errors
var (
	ErrInvalidMetricsAddr   = errors.New("metrics_addr cannot be empty")
	ErrInvalidMode          = errors.New("mode must be 'arena' or 'heap'")
	ErrInvalidWorkers       = errors.New("workers must be positive")
	ErrInvalidRounds        = errors.New("rounds must be positive")
	ErrInvalidObjectsPerRnd = errors.New("objects_per_round must be positive")
	ErrInvalidLogFormat     = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel      = errors.New("log_level must be debug, info, warn, or error")
)

// Config holds every knob of the benchmark run. Values come from the
// environment with the ARENABENCH prefix, optionally seeded by a .env
// file in the working directory.
type Config struct {
	MetricsAddr string `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090"`

	// Mode selects the allocation strategy under measurement: "arena"
	// runs phase-scoped arenas, "heap" runs the same load on plain Go
	// allocations as the comparison baseline.
	Mode string `envconfig:"MODE" default:"arena"`

	Workers         int  `envconfig:"WORKERS" default:"4"`
	Rounds          int  `envconfig:"ROUNDS" default:"200"`
	ObjectsPerRound int  `envconfig:"OBJECTS_PER_ROUND" default:"131072"`
	InitialCapacity uint `envconfig:"INITIAL_CAPACITY" default:"0"` // 0 means default chunk size
	AllocationLimit uint `envconfig:"ALLOCATION_LIMIT" default:"0"` // 0 means unlimited

	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.MetricsAddr == "" {
		return ErrInvalidMetricsAddr
	}
	if cfg.Mode != "arena" && cfg.Mode != "heap" {
		return ErrInvalidMode
	}
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if cfg.Rounds <= 0 {
		return ErrInvalidRounds
	}
	if cfg.ObjectsPerRound <= 0 {
		return ErrInvalidObjectsPerRnd
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	return nil
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		MetricsAddr:     "0.0.0.0:9090",
		Mode:            "arena",
		Workers:         4,
		Rounds:          200,
		ObjectsPerRound: 131072,
		LogFormat:       "json",
		LogLevel:        "info",
	}
}
