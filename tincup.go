// Package tincup configures the operation framework in package cpo and
// provides small helpers built on it: boolean and string dispatch,
// composition of operations, and terminal-aware reporting of diagnostics.
//
// Operations themselves live in package cpo.
package tincup

import (
	"errors"
	"log/slog"
	"os"

	"github.com/tincup-go/tincup/cpo"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-candidate lookup logging.
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// Option configures Configure.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	loggerSet bool
	diag      cpo.DiagnosticConfig
	noEnv     bool
	err       error
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
		c.loggerSet = true
	}
}

// WithDiagnosticLevel selects how many check categories are active, from
// 0 (none) to 3 (all).
func WithDiagnosticLevel(level int) Option {
	return func(c *config) { c.diag.Level = level }
}

// WithDiagnostics replaces the diagnostic configuration built so far.
func WithDiagnostics(d cpo.DiagnosticConfig) Option {
	return func(c *config) { c.diag = d }
}

// WithConfigFile overlays a YAML configuration file. See LoadConfig.
func WithConfigFile(path string) Option {
	return func(c *config) {
		d, err := ApplyConfigFile(c.diag, path)
		if err != nil {
			c.err = errors.Join(c.err, err)
			return
		}
		c.diag = d
	}
}

// WithoutEnv skips the TINCUP_* environment overlay.
func WithoutEnv() Option {
	return func(c *config) { c.noEnv = true }
}

// Configure sets the process-wide diagnostic configuration and logger.
// Options apply in order on top of the defaults; the TINCUP_* environment
// variables are applied last.
//
// Operations read the configuration when first used, so Configure belongs
// at program start, before any operation is called or implemented.
//
// Example:
//
//	err := tincup.Configure(
//	    tincup.WithConfigFile("tincup.yaml"),
//	    tincup.WithLogger(slog.Default()),
//	)
func Configure(opts ...Option) error {
	cfg := config{diag: cpo.DefaultDiagnosticConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return cfg.err
	}
	if !cfg.noEnv {
		d, err := cfg.diag.ApplyEnv(os.Getenv)
		if err != nil {
			return err
		}
		cfg.diag = d
	}
	if err := cpo.SetDiagnosticConfig(cfg.diag); err != nil {
		return err
	}
	if cfg.loggerSet {
		cpo.SetLogger(cfg.logger)
	}
	return nil
}
