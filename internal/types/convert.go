package types

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNilReference is returned when a reference wrapper holds no variable.
var ErrNilReference = errors.New("reference to nil variable")

// Convert turns the argument value v into a value of paramType. The caller
// must have checked with Bind that the conversion is permitted.
func Convert(v any, paramType reflect.Type) (reflect.Value, error) {
	cur, ref, err := peel(v)
	if err != nil {
		return reflect.Value{}, err
	}

	var layers []reflect.Type
	core := paramType
	for {
		q, ok := QualifierOf(core)
		if !ok {
			break
		}
		layers = append(layers, core)
		core = q.ElemType()
	}

	switch {
	case !cur.IsValid():
		cur = reflect.Zero(core)
	case cur.Type() == core:
	case cur.Type().AssignableTo(core):
		tmp := reflect.New(core).Elem()
		tmp.Set(cur)
		cur = tmp
		ref = reflect.Value{}
	default:
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", cur.Type(), core)
	}

	for i := len(layers) - 1; i >= 0; i-- {
		q, _ := QualifierOf(layers[i])
		if q.Qualifier() == QualRef {
			ptr := ref
			if !ptr.IsValid() || ptr.Type().Elem() != cur.Type() {
				ptr = reflect.New(cur.Type())
				ptr.Elem().Set(cur)
			}
			cur = q.Wrap(ptr)
		} else {
			cur = q.Wrap(cur)
		}
		ref = reflect.Value{}
	}
	return cur, nil
}

// peel strips qualifier wrappers from v, returning the core value and,
// when a reference was crossed, the pointer to the referenced variable.
func peel(v any) (cur, ref reflect.Value, err error) {
	if v == nil {
		return reflect.Value{}, reflect.Value{}, nil
	}
	cur = reflect.ValueOf(v)
	for {
		q, ok := QualifierOf(cur.Type())
		if !ok {
			return cur, ref, nil
		}
		q = cur.Interface().(Qualified)
		inner := q.Inner()
		if q.Qualifier() == QualRef {
			if inner.IsNil() {
				return reflect.Value{}, reflect.Value{}, ErrNilReference
			}
			ref = inner
			cur = inner.Elem()
			continue
		}
		cur = inner
	}
}
