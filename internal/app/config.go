package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/runbookgo/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourcePath   string // .action file or directory
	EntityConfig string // .hcl, .yaml or .yml file; empty for the default entity
	Entity       string // entity name; may be empty when the config declares one
	Action       string // compiled or declared action name to render; empty for all

	Format     string
	OutputPath string // empty writes to the app's output writer

	LogFormat   string
	LogLevel    string
	Concurrency int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourcePath == "" {
		return nil, errors.New("SourcePath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = render.FormatYAML
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "yml" {
		cfg.Format = render.FormatYAML
	}
	if !slices.Contains(render.Formats(), cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %s", cfg.Format, strings.Join(render.Formats(), ", "))
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency cannot be negative, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}
