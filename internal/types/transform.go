package types

// The transforms below never fail: an argument the transform does not
// apply to passes through unchanged.

// Deref replaces a pointer-like argument with its pointee.
func Deref(a Arg) Arg {
	if p, ok := a.Pointee(); ok {
		p.Type = nil
		return p
	}
	return a
}

// StripConst removes the argument's own const qualification.
func StripConst(a Arg) Arg {
	if !a.Const {
		return a
	}
	a.Const = false
	a.Type = nil
	return a
}

// Map applies fn to every position and reports which positions changed.
func Map(args []Arg, fn func(Arg) Arg) ([]Arg, []int) {
	out := make([]Arg, len(args))
	var changed []int
	for i, a := range args {
		out[i] = fn(a)
		if !out[i].Same(a) {
			changed = append(changed, i)
		}
	}
	return out, changed
}

// Swap returns a copy of a two-element list with the elements exchanged.
func Swap(args []Arg) []Arg {
	if len(args) != 2 {
		return args
	}
	return []Arg{args[1], args[0]}
}
