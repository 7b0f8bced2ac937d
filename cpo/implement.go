package cpo

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/tincup-go/tincup/internal/resolver"
	"github.com/tincup-go/tincup/internal/types"
)

// ImplOption configures an implementation added with Implement.
type ImplOption func(*implConfig)

type implConfig struct {
	label            string
	guards           []func([]ArgType) bool
	unlessRegistered bool
}

// When restricts an implementation to argument lists accepted by pred.
// The predicate sees descriptors only; it must not depend on values.
func When(pred func(args []ArgType) bool) ImplOption {
	return func(c *implConfig) { c.guards = append(c.guards, pred) }
}

// UnlessRegistered withdraws a generic implementation whenever the
// operation's registry has an entry for the first argument's type, so the
// entry is used instead.
func UnlessRegistered() ImplOption {
	return func(c *implConfig) { c.unlessRegistered = true }
}

// Label names the implementation in diagnostics.
func Label(s string) ImplOption {
	return func(c *implConfig) { c.label = s }
}

// Implement adds fn to the operation scope of D. fn is any function whose
// results are (), (R), (error) or (R, error).
func Implement[D any](fn any, opts ...ImplOption) error {
	t, err := tableFor[D]()
	if err != nil {
		return err
	}
	var cfg implConfig
	for _, o := range opts {
		o(&cfg)
	}
	label := cfg.label
	if label == "" {
		label = t.name.String()
	}
	c, err := resolver.NewCandidate(reflect.ValueOf(fn), resolver.SourceOperation, label)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImplementation, err)
	}
	if cfg.unlessRegistered {
		cfg.guards = append(cfg.guards, func(args []ArgType) bool {
			if len(args) == 0 || args[0].Core == nil {
				return true
			}
			_, ok := t.registry.candidate(t.op, args[0].Core)
			return !ok
		})
	}
	if len(cfg.guards) > 0 {
		guards := cfg.guards
		c.Guard = func(args []types.Arg) bool {
			for _, g := range guards {
				if !g(args) {
					return false
				}
			}
			return true
		}
	}
	t.add(c)
	t.config().log.Log(slog.LevelDebug, "implementation added",
		slog.String("operation", t.name.String()),
		slog.String("signature", c.Signature()))
	return nil
}

// MustImplement is like Implement but panics on error. It is meant for
// package initialisation.
func MustImplement[D any](fn any, opts ...ImplOption) {
	if err := Implement[D](fn, opts...); err != nil {
		panic(err)
	}
}
