package cpo

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tincup-go/tincup/internal/diagnose"
	"github.com/tincup-go/tincup/internal/types"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvDiagnosticLevel = "TINCUP_DIAGNOSTIC_LEVEL"
	EnvDisablePointer  = "TINCUP_DISABLE_POINTER_DIAGNOSTICS"
	EnvDisableConst    = "TINCUP_DISABLE_CONST_DIAGNOSTICS"
	EnvDisableOrder    = "TINCUP_DISABLE_ORDER_DIAGNOSTICS"
	EnvDisableArity    = "TINCUP_DISABLE_ARITY_DIAGNOSTICS"
	EnvDisableAll      = "TINCUP_DISABLE_ALL_DIAGNOSTICS"
	EnvMinimal         = "TINCUP_MINIMAL_DIAGNOSTICS"
)

const maxDiagnosticLevel = 3

// ColorMode selects coloured rendering of diagnostics.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q", s)
}

// PatternRule is a structural rule evaluated when no check explains a
// failure. When is an expression over arity, pointer_count, const_count,
// lvalue_count, rvalue_count and value_count.
type PatternRule struct {
	Name    string
	When    string
	Message string
}

// DiagnosticConfig controls the diagnostic engine.
type DiagnosticConfig struct {
	// Level selects the active check categories:
	//   - 0: none
	//   - 1: pointer and const
	//   - 2: pointer, const and order
	//   - 3: all (default)
	Level int

	DisablePointer bool
	DisableConst   bool
	DisableOrder   bool
	DisableArity   bool

	// Ignore lists classification codes that are never reported.
	// Supports glob patterns (e.g., "needs-*").
	Ignore []string

	// Rules are evaluated after the built-in structural rules.
	Rules []PatternRule

	Color ColorMode
}

// DefaultDiagnosticConfig returns the configuration with every check
// enabled.
func DefaultDiagnosticConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: maxDiagnosticLevel}
}

// MinimalDiagnosticConfig disables every check. Failures are still
// classified by the structural rules.
func MinimalDiagnosticConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: 0}
}

// Enabled reports whether a check category is active.
func (c DiagnosticConfig) Enabled(category string) bool {
	lv := min(max(c.Level, 0), maxDiagnosticLevel)
	switch category {
	case diagnose.CategoryPointer:
		return lv >= 1 && !c.DisablePointer
	case diagnose.CategoryConst:
		return lv >= 1 && !c.DisableConst
	case diagnose.CategoryOrder:
		return lv >= 2 && !c.DisableOrder
	case diagnose.CategoryArity:
		return lv >= 3 && !c.DisableArity
	case diagnose.CategoryLookup, diagnose.CategoryPattern:
		return true
	}
	return false
}

// Validate compiles the configured rules.
func (c DiagnosticConfig) Validate() error {
	_, err := c.compileRules()
	return err
}

func (c DiagnosticConfig) compileRules() ([]*diagnose.Rule, error) {
	rules := make([]*diagnose.Rule, 0, len(c.Rules))
	for _, pr := range c.Rules {
		r, err := diagnose.NewRule(pr.Name, pr.When, pr.Message)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (c DiagnosticConfig) settings(log *types.Logger) diagnose.Settings {
	rules, err := c.compileRules()
	if err != nil {
		log.Log(slog.LevelWarn, "ignoring diagnostic rules", slog.String("error", err.Error()))
		rules = nil
	}
	return diagnose.Settings{
		Pointer: c.Enabled(diagnose.CategoryPointer),
		Const:   c.Enabled(diagnose.CategoryConst),
		Order:   c.Enabled(diagnose.CategoryOrder),
		Arity:   c.Enabled(diagnose.CategoryArity),
		Ignore:  c.Ignore,
		Rules:   rules,
		Logger:  log,
	}
}

// ApplyEnv overlays the TINCUP_* environment variables on c. An invalid or
// out-of-range level is reported and leaves the level unchanged.
func (c DiagnosticConfig) ApplyEnv(getenv func(string) string) (DiagnosticConfig, error) {
	var err error
	if s := getenv(EnvDiagnosticLevel); s != "" {
		lv, perr := strconv.Atoi(strings.TrimSpace(s))
		switch {
		case perr != nil:
			err = fmt.Errorf("%s: %w", EnvDiagnosticLevel, perr)
		case lv < 0 || lv > maxDiagnosticLevel:
			err = fmt.Errorf("%s: level %d out of range 0-%d", EnvDiagnosticLevel, lv, maxDiagnosticLevel)
		default:
			c.Level = lv
		}
	}
	if envSet(getenv(EnvDisableAll)) || envSet(getenv(EnvMinimal)) {
		c.DisablePointer, c.DisableConst, c.DisableOrder, c.DisableArity = true, true, true, true
	}
	c.DisablePointer = c.DisablePointer || envSet(getenv(EnvDisablePointer))
	c.DisableConst = c.DisableConst || envSet(getenv(EnvDisableConst))
	c.DisableOrder = c.DisableOrder || envSet(getenv(EnvDisableOrder))
	c.DisableArity = c.DisableArity || envSet(getenv(EnvDisableArity))
	return c, err
}

// ConfigFromEnv returns the default configuration with the environment
// applied. A nil getenv reads the process environment.
func ConfigFromEnv(getenv func(string) string) DiagnosticConfig {
	if getenv == nil {
		getenv = os.Getenv
	}
	c, _ := DefaultDiagnosticConfig().ApplyEnv(getenv)
	return c
}

func envSet(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// global holds the process-wide configuration. gen moves on every change;
// operations re-derive their settings when they see a new generation.
var global = struct {
	once sync.Once
	mu   sync.RWMutex
	cfg  DiagnosticConfig
	log  *slog.Logger
	gen  atomic.Uint64
}{}

func globalInit() {
	global.once.Do(func() {
		global.cfg = ConfigFromEnv(nil)
	})
}

// SetDiagnosticConfig replaces the process-wide configuration. Operations
// with a Diagnostics hook keep their own.
func SetDiagnosticConfig(c DiagnosticConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	globalInit()
	global.mu.Lock()
	global.cfg = c
	global.gen.Add(1)
	global.mu.Unlock()
	return nil
}

// CurrentDiagnosticConfig returns the process-wide configuration.
func CurrentDiagnosticConfig() DiagnosticConfig {
	globalInit()
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.cfg
}

// SetLogger sets the logger used by lookups, diagnostics and registries.
// A nil logger disables logging.
func SetLogger(l *slog.Logger) {
	global.mu.Lock()
	global.log = l
	global.gen.Add(1)
	global.mu.Unlock()
}

func logger(component string) *types.Logger {
	global.mu.RLock()
	l := global.log
	global.mu.RUnlock()
	return (&types.Logger{L: l}).Component(component)
}
