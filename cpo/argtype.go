package cpo

import (
	"reflect"

	"github.com/tincup-go/tincup/internal/types"
)

// ArgType describes one argument position: its Go type, the type with
// qualifier wrappers removed, constness and reference category.
type ArgType = types.Arg

// Flags is the structural classification of an argument position.
type Flags = types.Flags

// Category is the reference category of an argument.
type Category = types.Category

const (
	FlagValue   = types.FlagValue
	FlagPointer = types.FlagPointer
	FlagLValue  = types.FlagLValue
	FlagRValue  = types.FlagRValue
	FlagConst   = types.FlagConst
)

const (
	Value  = types.Value
	LValue = types.LValue
	RValue = types.RValue
)

// TypesOf returns the dynamic types of args. An untyped nil yields a nil
// entry.
func TypesOf(args ...any) []reflect.Type {
	out := make([]reflect.Type, len(args))
	for i, a := range args {
		if a != nil {
			out[i] = reflect.TypeOf(a)
		}
	}
	return out
}

// ArgTypesOf derives the descriptor of every type.
func ArgTypesOf(ts ...reflect.Type) []ArgType {
	out := make([]ArgType, len(ts))
	for i, t := range ts {
		if t != nil {
			out[i] = types.Of(t)
		}
	}
	return out
}
