package cpo

import (
	"fmt"
	"strings"
	"unicode"
)

// Name identifies an operation in diagnostics and registries. Names are
// comparable and may be used as map keys.
type Name struct {
	s string
}

// NewName validates s and returns it as a Name.
func NewName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return Name{}, fmt.Errorf("%w: %q contains NUL", ErrInvalidName, s)
	}
	return Name{s: s}, nil
}

// MustName is like NewName but panics on an invalid name. It is meant for
// Name methods of operation types.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Name) String() string { return n.s }

// View returns the name text.
func (n Name) View() string { return n.s }

// CString returns the name followed by a NUL byte.
func (n Name) CString() []byte {
	b := make([]byte, len(n.s)+1)
	copy(b, n.s)
	return b
}

// Len returns the length of the name, excluding any terminator.
func (n Name) Len() int { return len(n.s) }

// Equal reports whether both names have the same contents.
func (n Name) Equal(o Name) bool { return n.s == o.s }

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return n.s == "" }

// Qualified returns the name in the tincup namespace.
func (n Name) Qualified() string { return "tincup::" + n.s }

// MethodName returns the Go method name argument types implement to take
// part in lookup: "describe" becomes "Describe", "to_string" and
// "to-string" become "ToString".
func (n Name) MethodName() string {
	var b strings.Builder
	upper := true
	for _, r := range n.s {
		if r == '_' || r == '-' || r == ' ' || r == ':' || r == '.' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
