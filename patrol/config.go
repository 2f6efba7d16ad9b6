package patrol

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds tunables shared by sessions, the search and the CLI.
type Config struct {
	Workers        int    `json:"workers" yaml:"workers"`                   // 0 = one per CPU
	EventBuffer    int    `json:"event_buffer" yaml:"event_buffer"`         // session event channel size
	ProgressEvery  int    `json:"progress_every" yaml:"progress_every"`     // trials between progress events, 0 = off
	RenderMaxLines int    `json:"render_max_lines" yaml:"render_max_lines"` // 0 = unlimited
	LogLevel       string `json:"log_level" yaml:"log_level"`               // "debug", "info", "warn", "error"
	LogFormat      string `json:"log_format" yaml:"log_format"`             // "text" or "json"

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        0,
		EventBuffer:    256,
		ProgressEvery:  1000,
		RenderMaxLines: 200,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig. A
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &ConfigurationError{PatrolError: PatrolError{Message: "read config file", Cause: err}}
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ConfigurationError{PatrolError: PatrolError{Message: "parse config file", Cause: err}}
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no component can honour.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return configErr("workers must be >= 0, got %d", c.Workers)
	case c.EventBuffer < 0:
		return configErr("event_buffer must be >= 0, got %d", c.EventBuffer)
	case c.ProgressEvery < 0:
		return configErr("progress_every must be >= 0, got %d", c.ProgressEvery)
	case c.RenderMaxLines < 0:
		return configErr("render_max_lines must be >= 0, got %d", c.RenderMaxLines)
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return configErr("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// EffectiveWorkers resolves Workers == 0 to the CPU count.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func configErr(format string, args ...any) error {
	return &ConfigurationError{PatrolError: PatrolError{Message: fmt.Sprintf(format, args...)}}
}
