package cpo

import "reflect"

// Tag is implemented by every operation type.
type Tag interface {
	Name() Name
}

// Optional hooks an operation type may implement:
//
//	MethodName() string                     method looked up on argument types
//	Variadic() bool                         reported by Traits.Variadic
//	ClassifyArgs([]ArgType) []Flags         replaces structural classification
//	ExtensionRegistry() *Registry           registry consulted instead of DefaultRegistry
//	Diagnostics() DiagnosticConfig          replaces the process-wide configuration

// Base supplies the call surface of operation D. Embed it in a zero-size
// struct that also implements Tag:
//
//	type describe struct{ cpo.Base[describe] }
//
//	func (describe) Name() cpo.Name { return cpo.MustName("describe") }
//
//	var Describe describe
//
// Methods never look at the receiver, so the zero value is the operation.
type Base[D any] struct{}

// Call invokes the implementation selected for args. When none accepts
// them nothing runs and the error is a *Diagnostic.
func (Base[D]) Call(args ...any) (any, error) { return Invoke[D](args...) }

// MustCall is like Call but panics on error.
func (Base[D]) MustCall(args ...any) any { return MustInvoke[D](args...) }

// Resolve resolves the operation for argument types.
func (Base[D]) Resolve(ts ...reflect.Type) (Result, error) { return Resolve[D](ts...) }

// Traits returns the traits of the operation for argument types.
func (Base[D]) Traits(ts ...reflect.Type) (Traits, error) { return TraitsOf[D](ts...) }

// Invocable reports whether the operation resolves for argument types.
func (Base[D]) Invocable(ts ...reflect.Type) bool { return Invocable[D](ts...) }

// Check returns the *Diagnostic for argument types that do not resolve.
func (Base[D]) Check(ts ...reflect.Type) error { return Check[D](ts...) }

// MustCheck panics if the operation does not resolve for argument types.
func (Base[D]) MustCheck(ts ...reflect.Type) { MustCheck[D](ts...) }
