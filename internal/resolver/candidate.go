package resolver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/tincup-go/tincup/internal/types"
)

// ErrInvalidFunc is returned by NewCandidate for values that cannot serve
// as implementations.
var ErrInvalidFunc = errors.New("invalid implementation function")

var errorType = reflect.TypeFor[error]()

// Source identifies the lookup scope a candidate came from.
type Source uint8

const (
	// SourceOperation is an implementation attached to the operation.
	SourceOperation Source = iota
	// SourceMethod is a method on one of the argument types.
	SourceMethod
	// SourceRegistry is an entry in an extension registry.
	SourceRegistry
)

func (s Source) String() string {
	switch s {
	case SourceOperation:
		return "operation"
	case SourceMethod:
		return "method"
	case SourceRegistry:
		return "registry"
	default:
		return "unknown"
	}
}

// Candidate is one implementation considered by resolution.
type Candidate struct {
	Fn     reflect.Value
	Params []types.Arg
	// Variadic describes the element of a trailing variadic parameter.
	Variadic *types.Arg
	// Return is the non-error result type, nil for no result.
	Return reflect.Type
	// Throws is set when the last result is an error.
	Throws bool
	Source Source
	Label  string
	// Key identifies the implementation for de-duplication. Candidates
	// with an empty key are never merged.
	Key string
	// Guard, when set, must accept the arguments for the candidate to be
	// viable.
	Guard func([]types.Arg) bool
}

// NewCandidate builds a candidate from a function value. Accepted result
// shapes are (), (R), (error) and (R, error).
func NewCandidate(fn reflect.Value, src Source, label string) (*Candidate, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a function", ErrInvalidFunc, label)
	}
	if fn.IsNil() {
		return nil, fmt.Errorf("%w: %s is nil", ErrInvalidFunc, label)
	}
	ft := fn.Type()
	c := &Candidate{Fn: fn, Source: src, Label: label}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			c.Throws = true
		} else {
			c.Return = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType || ft.Out(0) == errorType {
			return nil, fmt.Errorf("%w: %s must return (R, error), got %s", ErrInvalidFunc, label, ft)
		}
		c.Return, c.Throws = ft.Out(0), true
	default:
		return nil, fmt.Errorf("%w: %s has %d results", ErrInvalidFunc, label, ft.NumOut())
	}

	n := ft.NumIn()
	if ft.IsVariadic() {
		n--
		v := types.Of(ft.In(n).Elem())
		c.Variadic = &v
	}
	c.Params = make([]types.Arg, n)
	for i := range n {
		c.Params[i] = types.Of(ft.In(i))
	}
	return c, nil
}

// IsVariadic reports whether the candidate takes a variadic tail.
func (c *Candidate) IsVariadic() bool { return c.Variadic != nil }

// Match checks viability against args and returns the per-position ranks.
func (c *Candidate) Match(args []types.Arg) ([]types.Rank, bool) {
	if len(args) < len(c.Params) || (c.Variadic == nil && len(args) != len(c.Params)) {
		return nil, false
	}
	if c.Guard != nil && !c.Guard(args) {
		return nil, false
	}
	ranks := make([]types.Rank, len(args))
	for i, a := range args {
		if i < len(c.Params) {
			r, ok := types.Bind(c.Params[i], a)
			if !ok {
				return nil, false
			}
			ranks[i] = r
			continue
		}
		if _, ok := types.Bind(*c.Variadic, a); !ok {
			return nil, false
		}
		ranks[i] = types.RankVariadic
	}
	return ranks, true
}

// Prepare converts argument values to the candidate's parameter types.
func (c *Candidate) Prepare(args []any) ([]reflect.Value, error) {
	ft := c.Fn.Type()
	in := make([]reflect.Value, len(args))
	for i, v := range args {
		var pt reflect.Type
		if i < len(c.Params) {
			pt = ft.In(i)
		} else {
			pt = ft.In(len(c.Params)).Elem()
		}
		rv, err := types.Convert(v, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = rv
	}
	return in, nil
}

// Call invokes the candidate with prepared arguments. A void
// implementation yields a nil result.
func (c *Candidate) Call(in []reflect.Value) (any, error) {
	out := c.Fn.Call(in)
	var err error
	if c.Throws {
		if e := out[len(out)-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, err
	}
	return out[0].Interface(), err
}

// Signature renders the parameter and result list.
func (c *Candidate) Signature() string {
	parts := make([]string, 0, len(c.Params)+1)
	for _, p := range c.Params {
		parts = append(parts, p.String())
	}
	if c.Variadic != nil {
		parts = append(parts, "..."+c.Variadic.String())
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	switch {
	case c.Return != nil && c.Throws:
		s += " (" + types.TypeName(c.Return) + ", error)"
	case c.Return != nil:
		s += " " + types.TypeName(c.Return)
	case c.Throws:
		s += " error"
	}
	return s
}

func (c *Candidate) String() string {
	if c.Label == "" {
		return c.Signature()
	}
	return c.Label + c.Signature()
}

// Unique drops candidates whose key was already seen, keeping order.
func Unique(cands []*Candidate) []*Candidate {
	seen := make(map[string]bool, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if c.Key != "" {
			if seen[c.Key] {
				continue
			}
			seen[c.Key] = true
		}
		out = append(out, c)
	}
	return out
}
