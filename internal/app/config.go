package app

import (
	"errors"
	"fmt"
)

// DefaultStorePath is the graph library used when none is configured.
const DefaultStorePath = "bpscript.db"

// Config holds all the necessary configuration for an App instance to run.
// Which fields a use-case reads depends on the use-case.
type Config struct {
	GraphPath    string // graph document, or "store:<id>" for a stored graph
	NodePackPath string // .hcl node packs, file or directory
	OutputPath   string // empty writes to the app's output
	ClassName    string
	EntryPoint   string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	BusURL       string
	BusNamespace string
	StorePath    string

	MaxDepth       int
	Strict         bool
	WatchNodePacks bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.MaxDepth < 0 {
		return nil, errors.New("max-depth cannot be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck-port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.WatchNodePacks && cfg.NodePackPath == "" {
		return nil, errors.New("watching node packs requires a node pack path")
	}
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStorePath
	}

	return &cfg, nil
}
