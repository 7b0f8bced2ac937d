package diagnose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tincup-go/tincup/internal/types"
)

// Call renders an operation call with argument types.
func Call(op string, args []types.Arg) string {
	return op + types.List(args)
}

// Message renders the explanation of f for operation op called with args.
func Message(op string, args []types.Arg, f Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", op)
	switch f.Class {
	case ClassAmbiguous:
		fmt.Fprintf(&b, "ambiguous call %s: %d implementations match equally well", Call(op, args), len(f.Tied))
		for _, t := range f.Tied {
			b.WriteString("\n\tcandidate ")
			b.WriteString(t)
		}
		b.WriteString("\n\tmake one implementation more specific or remove one of them")

	case ClassNeedsDereference:
		switch f.Variant {
		case VariantSingle:
			i := f.Positions[0]
			fmt.Fprintf(&b, "argument %d is a pointer (%s) but the implementation takes %s; dereference argument %d",
				i, args[i], f.Suggested[i], i)
		case VariantAll:
			b.WriteString("every argument is a pointer; the implementation takes the pointed-to values, dereference all arguments")
		default:
			fmt.Fprintf(&b, "arguments %s are pointers; the implementation takes the pointed-to values, dereference them",
				positions(f.Positions))
		}

	case ClassNeedsMutable:
		switch f.Variant {
		case VariantSingle:
			i := f.Positions[0]
			fmt.Fprintf(&b, "argument %d is read-only (%s) but the implementation needs mutable access; remove const from argument %d",
				i, args[i], i)
		case VariantAll:
			b.WriteString("every argument is read-only but the implementation needs mutable access; remove const from all arguments")
		default:
			fmt.Fprintf(&b, "arguments %s are read-only but the implementation needs mutable access; remove const from them",
				positions(f.Positions))
		}

	case ClassNeedsBoth:
		fmt.Fprintf(&b, "arguments %s need dereferencing and mutable access; pass a mutable reference to the pointed-to value",
			positions(f.Positions))

	case ClassWrongOrder:
		fmt.Fprintf(&b, "no implementation for %s but one exists for %s; arguments 0 and 1 appear to be swapped",
			types.List(args), types.List(f.Suggested))

	case ClassWrongArity:
		fmt.Fprintf(&b, "no implementation takes %d argument(s) but one exists for %s; check the number of arguments",
			len(args), types.List(f.Suggested))

	case ClassMixedReferences, ClassAllRValue, ClassPattern:
		fmt.Fprintf(&b, "no implementation for %s: %s", types.List(args), f.Rule.Message)
		if f.Class == ClassPattern {
			fmt.Fprintf(&b, " (rule %s)", f.Rule.Name)
		}

	default:
		fmt.Fprintf(&b, "no implementation for %s", types.List(args))
		for i, a := range args {
			fmt.Fprintf(&b, "\n\targument %d: %s [%s]", i, a, a.Flags())
		}
	}
	return b.String()
}

// Fix renders the corrected call for check classes, or "".
func Fix(op string, f Finding) string {
	if f.Suggested == nil {
		return ""
	}
	return Call(op, f.Suggested)
}

func positions(ps []int) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ", ")
}
