package cpo

import (
	"reflect"

	"github.com/tincup-go/tincup/internal/resolver"
	"github.com/tincup-go/tincup/internal/types"
)

// Result is the outcome of resolving an operation for argument types. It
// is recomputed on every query and never runs an implementation.
type Result struct {
	Operation Name
	Args      []ArgType
	Invocable bool
	// Nothrow is set when the implementation has no error result.
	Nothrow bool
	// Return is the implementation's value result, nil for none.
	Return reflect.Type
	// Implementation describes the selected implementation.
	Implementation string
	// Source is "operation", "method" or "registry".
	Source string
	// Ambiguous lists the tied implementations when several match
	// equally well.
	Ambiguous []string
	// Viable counts the implementations that accept the arguments.
	Viable int
}

func (t *table) resolve(args []types.Arg) (Result, resolver.Outcome) {
	out := t.lookup(args)
	r := Result{Operation: t.name, Args: args, Viable: out.Viable}
	if out.OK() {
		r.Invocable = true
		r.Nothrow = !out.Best.Throws
		r.Return = out.Best.Return
		r.Implementation = out.Best.String()
		r.Source = out.Best.Source.String()
	}
	for _, c := range out.Tied {
		r.Ambiguous = append(r.Ambiguous, c.Source.String()+" "+c.String())
	}
	return r, out
}

// Resolve resolves operation D for argument types ts. A nil entry stands
// for an untyped nil argument.
func Resolve[D any](ts ...reflect.Type) (Result, error) {
	t, err := tableFor[D]()
	if err != nil {
		return Result{}, err
	}
	r, _ := t.resolve(ArgTypesOf(ts...))
	return r, nil
}

// ResolveArgs is like Resolve with descriptors built by the caller.
func ResolveArgs[D any](args ...ArgType) (Result, error) {
	t, err := tableFor[D]()
	if err != nil {
		return Result{}, err
	}
	r, _ := t.resolve(args)
	return r, nil
}

// Invocable reports whether D resolves for ts.
func Invocable[D any](ts ...reflect.Type) bool {
	r, err := Resolve[D](ts...)
	return err == nil && r.Invocable
}

// NothrowInvocable reports whether D resolves for ts to an implementation
// without an error result.
func NothrowInvocable[D any](ts ...reflect.Type) bool {
	r, err := Resolve[D](ts...)
	return err == nil && r.Invocable && r.Nothrow
}

// ReturnType returns the value result type of the implementation D
// resolves to for ts. It is nil for no value or no implementation.
func ReturnType[D any](ts ...reflect.Type) reflect.Type {
	r, _ := Resolve[D](ts...)
	return r.Return
}

// Check returns nil if D resolves for ts and the *Diagnostic explaining
// the failure otherwise.
func Check[D any](ts ...reflect.Type) error {
	t, err := tableFor[D]()
	if err != nil {
		return err
	}
	args := ArgTypesOf(ts...)
	if _, out := t.resolve(args); !out.OK() {
		return t.diagnose(args, out)
	}
	return nil
}

// MustCheck panics with the diagnostic if D does not resolve for ts. Used
// from package initialisation it stops a program that could not make the
// call.
func MustCheck[D any](ts ...reflect.Type) {
	if err := Check[D](ts...); err != nil {
		panic(err)
	}
}
