package types

import (
	"reflect"
	"strings"
)

// Qualifier identifies a qualifier wrapper layer.
type Qualifier uint8

const (
	QualConst Qualifier = iota + 1
	QualRef
	QualMoved
)

func (q Qualifier) String() string {
	switch q {
	case QualConst:
		return "Const"
	case QualRef:
		return "Ref"
	case QualMoved:
		return "Moved"
	default:
		return "?"
	}
}

// Qualified is implemented by the public qualifier wrappers. Methods must
// work on zero values: descriptors are derived from types, not values.
type Qualified interface {
	Qualifier() Qualifier
	// ElemType is the wrapped type.
	ElemType() reflect.Type
	// Inner returns the wrapped value. For a reference it returns the
	// pointer to the referenced variable.
	Inner() reflect.Value
	// Wrap builds a wrapper of the receiver's type around inner. For a
	// reference inner must be a pointer to the element type.
	Wrap(inner reflect.Value) reflect.Value
}

var qualifiedType = reflect.TypeFor[Qualified]()

// QualifierOf returns the wrapper interface for t, if t is a qualifier
// wrapper.
func QualifierOf(t reflect.Type) (Qualified, bool) {
	if t == nil || t.Kind() == reflect.Interface || t.Kind() == reflect.Pointer || !t.Implements(qualifiedType) {
		return nil, false
	}
	q, ok := reflect.Zero(t).Interface().(Qualified)
	return q, ok
}

// Arg describes one argument or parameter position.
type Arg struct {
	// Type is the Go type as written, wrappers included. It is nil for an
	// untyped nil and for descriptors produced by a transform.
	Type reflect.Type
	// Core is the type with every qualifier wrapper removed.
	Core     reflect.Type
	Const    bool
	Category Category
}

// Of derives the descriptor of a Go type. The outermost category wrapper
// wins when several are nested.
func Of(t reflect.Type) Arg {
	a := Arg{Type: t}
	categorized := false
	for {
		q, ok := QualifierOf(t)
		if !ok {
			break
		}
		switch q.Qualifier() {
		case QualConst:
			a.Const = true
		case QualRef:
			if !categorized {
				a.Category = LValue
				categorized = true
			}
		case QualMoved:
			if !categorized {
				a.Category = RValue
				categorized = true
			}
		}
		t = q.ElemType()
	}
	a.Core = t
	return a
}

// OfValue derives the descriptor of a runtime value.
func OfValue(v any) Arg {
	if v == nil {
		return Arg{}
	}
	return Of(reflect.TypeOf(v))
}

// IsNil reports whether the descriptor is an untyped nil.
func (a Arg) IsNil() bool { return a.Core == nil }

// Pointee returns the descriptor obtained by dereferencing a, if a is
// pointer-like: a Go pointer, or a type with a Deref method taking no
// arguments and returning one value.
func (a Arg) Pointee() (Arg, bool) {
	if a.Core == nil {
		return Arg{}, false
	}
	if a.Core.Kind() == reflect.Pointer {
		p := Of(a.Core.Elem())
		if p.Category == Value {
			p.Category = LValue
		}
		return p, true
	}
	m, ok := a.Core.MethodByName("Deref")
	if !ok {
		return Arg{}, false
	}
	in := m.Type.NumIn()
	if a.Core.Kind() != reflect.Interface {
		in-- // receiver
	}
	if in != 0 || m.Type.NumOut() != 1 {
		return Arg{}, false
	}
	return Of(m.Type.Out(0)), true
}

// PointerLike reports whether a supports a dereference operation.
func (a Arg) PointerLike() bool {
	_, ok := a.Pointee()
	return ok
}

// Flags classifies a. A pointer-like argument is const-qualified when its
// pointee is.
func (a Arg) Flags() Flags {
	var f Flags
	p, ptr := a.Pointee()
	if ptr {
		f |= FlagPointer
	}
	switch a.Category {
	case LValue:
		f |= FlagLValue
	case RValue:
		f |= FlagRValue
	default:
		if !ptr {
			f |= FlagValue
		}
	}
	if a.Const || (ptr && p.Const) {
		f |= FlagConst
	}
	return f
}

// Decayed returns the core type (reference and const qualification
// removed).
func (a Arg) Decayed() reflect.Type { return a.Core }

// Raw returns the core type with every level of pointer indirection
// removed.
func (a Arg) Raw() reflect.Type {
	t := a.Core
	for t != nil && t.Kind() == reflect.Pointer {
		t = Of(t.Elem()).Core
	}
	return t
}

// Same reports whether two descriptors are structurally identical.
func (a Arg) Same(b Arg) bool {
	return a.Core == b.Core && a.Const == b.Const && a.Category == b.Category
}

// String renders the canonical form: category outside, const inside.
func (a Arg) String() string {
	s := TypeName(a.Core)
	if a.Core != nil && a.Core.Kind() == reflect.Pointer {
		s = "*" + Of(a.Core.Elem()).String()
	}
	if a.Const {
		s = "Const[" + s + "]"
	}
	switch a.Category {
	case LValue:
		s = "Ref[" + s + "]"
	case RValue:
		s = "Moved[" + s + "]"
	}
	return s
}

// TypeName renders t as Go source would write it: the empty interface as
// any, and no import paths inside type arguments.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	s := strings.ReplaceAll(t.String(), "interface {}", "any")
	if i := strings.IndexByte(s, '['); i >= 0 && t.Kind() != reflect.Array && t.Kind() != reflect.Slice && t.Kind() != reflect.Map {
		return s[:i] + "[" + trimPaths(s[i+1:])
	}
	return s
}

// trimPaths shortens "github.com/x/y.T" to "y.T" inside a type argument list.
func trimPaths(s string) string {
	var b strings.Builder
	start := 0
	flush := func(end int) {
		seg := s[start:end]
		if j := strings.LastIndexByte(seg, '/'); j >= 0 {
			// keep any leading punctuation like '*' or "[]"
			k := 0
			for k < len(seg) && (seg[k] == '*' || seg[k] == '[' || seg[k] == ']') {
				k++
			}
			seg = seg[:k] + seg[j+1:]
		}
		b.WriteString(seg)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',', ']', '[', ' ':
			flush(i)
			b.WriteByte(s[i])
			start = i + 1
		}
	}
	flush(len(s))
	return b.String()
}

// List renders a parenthesised argument list.
func List(args []Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
