package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/vk/playtraversal/internal/loop"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	OutputDir  string // backdrops, saved latents
	PlayPath   string // .hcl play file for plan
	PromptPath string // prompt json for run

	// WebRoot is served as-is. When empty, PluginDir's web version is
	// resolved instead.
	WebRoot   string
	PluginDir string
	HTTPAddr  string

	LogFormat string
	LogLevel  string

	LatentPolicy string
	JournalPath  string
	NotifyURL    string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("OutputDir is a required configuration field and cannot be empty")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat(os.Stdout)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if _, err := loop.ParseLatentPolicy(cfg.LatentPolicy); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultLogFormat is text on a terminal and json otherwise.
func DefaultLogFormat(f *os.File) string {
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "text"
	}
	return "json"
}
