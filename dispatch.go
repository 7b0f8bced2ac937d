package tincup

import "strconv"

// Bool is a runtime boolean that selects between two continuations.
type Bool struct{ v bool }

// NewBool wraps v.
func NewBool(v bool) Bool { return Bool{v: v} }

// Value returns the wrapped boolean.
func (b Bool) Value() bool { return b.v }

func (b Bool) Not() Bool       { return Bool{v: !b.v} }
func (b Bool) And(o Bool) Bool { return Bool{v: b.v && o.v} }
func (b Bool) Or(o Bool) Bool  { return Bool{v: b.v || o.v} }
func (b Bool) Xor(o Bool) Bool { return Bool{v: b.v != o.v} }
func (b Bool) String() string  { return strconv.FormatBool(b.v) }

// True and False mark the branch a continuation was selected for.
type (
	True  struct{}
	False struct{}
)

// DispatchBool calls onTrue when b holds true and onFalse otherwise.
func DispatchBool[R any](b Bool, onTrue func(True) R, onFalse func(False) R) R {
	if b.v {
		return onTrue(True{})
	}
	return onFalse(False{})
}

// StringDispatch matches a runtime string against a fixed option list.
type StringDispatch struct {
	value   string
	options []string
}

// NewStringDispatch returns a dispatcher for value over options. The
// options are copied.
func NewStringDispatch(value string, options ...string) StringDispatch {
	return StringDispatch{value: value, options: append([]string(nil), options...)}
}

// Options returns the option list.
func (d StringDispatch) Options() []string { return append([]string(nil), d.options...) }

// Index returns the position of the first option equal to the value, or
// the not-found sentinel len(options).
func (d StringDispatch) Index() Index {
	for i, o := range d.options {
		if o == d.value {
			return Index{i: i, n: len(d.options)}
		}
	}
	return Index{i: len(d.options), n: len(d.options)}
}

// Index is the outcome of a string dispatch.
type Index struct{ i, n int }

// Value returns the matched position, or the number of options when
// nothing matched.
func (x Index) Value() int { return x.i }

// Found reports whether an option matched.
func (x Index) Found() bool { return x.i < x.n }

func (x Index) String() string {
	if !x.Found() {
		return "not-found"
	}
	return strconv.Itoa(x.i)
}

// DispatchString calls f with the index of the first option equal to the
// dispatcher's value, or with the not-found sentinel.
func DispatchString[R any](d StringDispatch, f func(Index) R) R {
	return f(d.Index())
}
