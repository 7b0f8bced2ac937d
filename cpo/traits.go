package cpo

import (
	"reflect"

	"github.com/tincup-go/tincup/internal/typelist"
	"github.com/tincup-go/tincup/internal/types"
)

// Traits summarises an operation's lookup for argument types together
// with structural facts about the arguments. Every field is well defined
// for zero arguments.
type Traits struct {
	Operation Name
	Args      []ArgType
	// Flags holds the classification of each position, after any
	// ClassifyArgs hook of the operation.
	Flags     []Flags
	Invocable bool
	Nothrow   bool
	Return    reflect.Type
	Arity     int
	// Variadic reports the operation's Variadic hook.
	Variadic bool

	// UniqueDecayed counts distinct argument types ignoring qualifiers.
	UniqueDecayed int
	// UniqueRaw counts distinct argument types after also removing every
	// level of pointer indirection.
	UniqueRaw int

	// Bit i of a mask is set when position i has the property.
	ValuesMask      uint64
	PointersMask    uint64
	LValueMask      uint64
	RValueMask      uint64
	ConstMask       uint64
	LValueConstMask uint64
}

// TraitsOf computes the traits of D for argument types ts.
func TraitsOf[D any](ts ...reflect.Type) (Traits, error) {
	t, err := tableFor[D]()
	if err != nil {
		return Traits{}, err
	}
	return t.traits(ArgTypesOf(ts...)), nil
}

func (t *table) traits(args []types.Arg) Traits {
	r, _ := t.resolve(args)
	tr := Traits{
		Operation: t.name,
		Args:      args,
		Flags:     t.flags(args),
		Invocable: r.Invocable,
		Nothrow:   r.Nothrow,
		Return:    r.Return,
		Arity:     len(args),
		Variadic:  t.variadic,
	}

	decayed := make([]reflect.Type, len(args))
	raw := make([]reflect.Type, len(args))
	for i, a := range args {
		decayed[i] = a.Decayed()
		raw[i] = a.Raw()
	}
	tr.UniqueDecayed = typelist.Unique(decayed...).Len()
	tr.UniqueRaw = typelist.Unique(raw...).Len()

	for i, f := range tr.Flags {
		if i >= 64 {
			break
		}
		bit := uint64(1) << i
		if f.Has(FlagValue) {
			tr.ValuesMask |= bit
		}
		if f.Has(FlagPointer) {
			tr.PointersMask |= bit
		}
		if f.Has(FlagLValue) {
			tr.LValueMask |= bit
		}
		if f.Has(FlagRValue) {
			tr.RValueMask |= bit
		}
		if f.Has(FlagConst) {
			tr.ConstMask |= bit
		}
		if f.Has(FlagLValue | FlagConst) {
			tr.LValueConstMask |= bit
		}
	}
	return tr
}

// Arg returns the descriptor of position i.
func (t Traits) Arg(i int) ArgType { return t.Args[i] }

// ArgsUniqueDecayed reports whether no two arguments share a type once
// qualifiers are removed, so arguments can be bound by type.
func (t Traits) ArgsUniqueDecayed() bool { return t.UniqueDecayed == t.Arity }

// ArgsUniqueRaw is like ArgsUniqueDecayed with pointers also removed.
func (t Traits) ArgsUniqueRaw() bool { return t.UniqueRaw == t.Arity }

// AllRefs reports whether every argument is a Ref or Moved.
func (t Traits) AllRefs() bool {
	for _, a := range t.Args {
		if a.Category == Value {
			return false
		}
	}
	return true
}

// AllConst reports whether every argument is read-only.
func (t Traits) AllConst() bool {
	for _, f := range t.Flags {
		if !f.Has(FlagConst) {
			return false
		}
	}
	return true
}

// Void reports whether the resolved implementation has no value result.
// It is also true when the operation does not resolve.
func (t Traits) Void() bool { return t.Return == nil }

// SignatureHint returns a placeholder signature for the arity.
func (t Traits) SignatureHint() string {
	switch t.Arity {
	case 0:
		return "()"
	case 1:
		return "(T)"
	case 2:
		return "(T, U)"
	default:
		return "(T, U, ...)"
	}
}

// ReturnsVoid reports whether the operation resolves to an implementation
// without a value result.
func (t Traits) ReturnsVoid() bool { return t.Invocable && t.Return == nil }

// ReturnsValue reports whether the operation resolves to an
// implementation with a value result.
func (t Traits) ReturnsValue() bool { return t.Invocable && t.Return != nil }

// ReturnsIntegral reports whether the result is an integer type.
func (t Traits) ReturnsIntegral() bool {
	return t.ValidReturn(func(r reflect.Type) bool {
		switch r.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return true
		}
		return false
	})
}

// ValidReturn reports whether the operation resolves to a value result
// accepted by pred.
func (t Traits) ValidReturn(pred func(reflect.Type) bool) bool {
	return t.ReturnsValue() && pred(t.Return)
}
