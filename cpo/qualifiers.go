package cpo

import (
	"reflect"

	"github.com/tincup-go/tincup/internal/types"
)

// Const is a read-only argument or parameter. An implementation taking a
// Const[T] accepts any T; one taking a plain Ref[T] rejects a Const[T].
type Const[T any] struct {
	v T
}

// AsConst marks v read-only.
func AsConst[T any](v T) Const[T] { return Const[T]{v: v} }

// Get returns the wrapped value.
func (c Const[T]) Get() T { return c.v }

func (Const[T]) Qualifier() types.Qualifier { return types.QualConst }
func (Const[T]) ElemType() reflect.Type     { return reflect.TypeFor[T]() }
func (c Const[T]) Inner() reflect.Value     { return reflect.ValueOf(&c.v).Elem() }

func (Const[T]) Wrap(inner reflect.Value) reflect.Value {
	var c Const[T]
	reflect.ValueOf(&c.v).Elem().Set(inner)
	return reflect.ValueOf(c)
}

// Ref is a mutable reference to an existing variable. Implementations
// taking a Ref[T] may modify the caller's variable.
type Ref[T any] struct {
	p *T
}

// RefOf references the variable p points to.
func RefOf[T any](p *T) Ref[T] { return Ref[T]{p: p} }

// Get returns the referenced value.
func (r Ref[T]) Get() T { return *r.p }

// Set stores v in the referenced variable.
func (r Ref[T]) Set(v T) { *r.p = v }

// Ptr returns the pointer to the referenced variable.
func (r Ref[T]) Ptr() *T { return r.p }

func (Ref[T]) Qualifier() types.Qualifier { return types.QualRef }
func (Ref[T]) ElemType() reflect.Type     { return reflect.TypeFor[T]() }
func (r Ref[T]) Inner() reflect.Value     { return reflect.ValueOf(r.p) }

func (Ref[T]) Wrap(inner reflect.Value) reflect.Value {
	return reflect.ValueOf(Ref[T]{p: inner.Interface().(*T)})
}

// Moved hands ownership of a value to the implementation. A Moved[T]
// argument does not bind to a Ref[T] parameter.
type Moved[T any] struct {
	v T
}

// Move marks v as handed over.
func Move[T any](v T) Moved[T] { return Moved[T]{v: v} }

// Take returns the wrapped value.
func (m Moved[T]) Take() T { return m.v }

func (Moved[T]) Qualifier() types.Qualifier { return types.QualMoved }
func (Moved[T]) ElemType() reflect.Type     { return reflect.TypeFor[T]() }
func (m Moved[T]) Inner() reflect.Value     { return reflect.ValueOf(&m.v).Elem() }

func (Moved[T]) Wrap(inner reflect.Value) reflect.Value {
	var m Moved[T]
	reflect.ValueOf(&m.v).Elem().Set(inner)
	return reflect.ValueOf(m)
}
