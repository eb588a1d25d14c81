package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Supported values of the string-typed settings.
var (
	LogFormats    = []string{"text", "json", "pretty"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	OutputFormats = []string{"text", "json", "yaml"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root            string   // workspace root
	RuleClassPaths  []string // hcl files or directories with rule class manifests
	DeletedPackages []string // package patterns treated as deleted
	BuildFileNames  []string // build file names in lookup order; empty means the default

	LogFormat string
	LogLevel  string
	Workers   int
	Output    string
}

// NewConfig validates cfg and fills in defaults. All problems are reported
// together.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	if cfg.Root == "" {
		errs = append(errs, errors.New("Root is a required configuration field and cannot be empty"))
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be one of %s", cfg.LogFormat, strings.Join(LogFormats, ", ")))
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be one of %s", cfg.LogLevel, strings.Join(LogLevels, ", ")))
	}

	cfg.Output = strings.ToLower(cfg.Output)
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	if !slices.Contains(OutputFormats, cfg.Output) {
		errs = append(errs, fmt.Errorf("invalid output %q: must be one of %s", cfg.Output, strings.Join(OutputFormats, ", ")))
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid workers %d: must not be negative", cfg.Workers))
	}
	if cfg.Workers == 0 {
		cfg.Workers = 10
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
