package tincup

import (
	"github.com/tincup-go/tincup/cpo"
)

// Func is a dynamically typed callable. Bind turns an operation into one.
type Func func(args ...any) (any, error)

// Bind returns op as a Func.
func Bind[D cpo.Tag](op D) Func {
	return func(args ...any) (any, error) { return cpo.Invoke[D](args...) }
}

// Compose chains functions left to right: Compose(f, g)(x) is g(f(x)).
// The chain stops at the first error.
func Compose(first Func, rest ...Func) Func {
	return func(args ...any) (any, error) {
		v, err := first(args...)
		for _, f := range rest {
			if err != nil {
				return nil, err
			}
			v, err = f(v)
		}
		return v, err
	}
}

// Pipe is the statically typed form of Compose for two functions.
func Pipe[A, B, C any](f func(A) B, g func(B) C) func(A) C {
	return func(a A) C { return g(f(a)) }
}
