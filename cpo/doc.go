// Package cpo provides operation objects: named, stateless values that
// dispatch a call to an implementation chosen from the argument types.
//
// An operation does not declare which types it supports. Implementations
// are found in three places, in order:
//
//  1. functions attached to the operation with Implement
//  2. methods of the argument types named after the operation
//  3. entries of an extension Registry keyed by (operation, type)
//
// The most specific implementation wins; see Resolve for the ranking. When
// nothing fits, no implementation runs and the returned error is a
// *Diagnostic that names the likely mistake (a pointer that needs
// dereferencing, a read-only argument, swapped arguments, a wrong argument
// count, and so on).
//
// # Qualifiers
//
// Go has no const or reference types, so argument and parameter types may
// be wrapped:
//
//	Const[T]   read-only
//	Ref[T]     mutable reference to a caller's variable
//	Moved[T]   ownership handed to the callee
//
// A plain T parameter accepts any of them.
//
// # Usage
//
//	type describe struct{ cpo.Base[describe] }
//
//	func (describe) Name() cpo.Name { return cpo.MustName("describe") }
//
//	var Describe describe
//
//	func init() {
//	    cpo.MustImplement[describe](func(int) string { return "int" })
//	}
//
//	s, err := cpo.Call[describe, string](5)
//
// # Configuration
//
// The diagnostic engine is configured with SetDiagnosticConfig or the
// TINCUP_* environment variables. Changes reach operations that are
// already in use, including those implemented during package
// initialisation. An operation with a Diagnostics hook keeps its own
// configuration.
package cpo
