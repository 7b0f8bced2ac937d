// Package typelist provides an ordered sequence of distinct types.
package typelist

import "reflect"

// List is an immutable ordered set of types. A nil reflect.Type is a valid
// member (it stands for untyped nil).
type List struct {
	items []reflect.Type
}

// Unique builds a list keeping the first occurrence of each type.
func Unique(ts ...reflect.Type) List {
	var l List
	seen := make(map[reflect.Type]bool, len(ts))
	for _, t := range ts {
		if seen[t] {
			continue
		}
		seen[t] = true
		l.items = append(l.items, t)
	}
	return l
}

// Len returns the number of types.
func (l List) Len() int { return len(l.items) }

// At returns the type at position i.
func (l List) At(i int) reflect.Type { return l.items[i] }
