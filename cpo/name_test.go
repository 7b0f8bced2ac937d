package cpo

import (
	"errors"
	"testing"

	"github.com/tincup-go/tincup/internal/testutil"
)

func TestNewName(t *testing.T) {
	n, err := NewName("describe")
	testutil.NoError(t, err)
	testutil.Equal(t, "describe", n.String())
	testutil.Equal(t, "describe", n.View())
	testutil.Equal(t, 8, n.Len())
	testutil.Equal(t, "tincup::describe", n.Qualified())

	c := n.CString()
	testutil.Len(t, c, 9)
	testutil.Equal(t, byte(0), c[8])

	_, err = NewName("")
	testutil.True(t, errors.Is(err, ErrInvalidName), "empty name")
	_, err = NewName("a\x00b")
	testutil.True(t, errors.Is(err, ErrInvalidName), "NUL in name")
}

func TestNameEqual(t *testing.T) {
	a := MustName("serialize")
	testutil.True(t, a.Equal(MustName("serialize")), "same contents")
	testutil.False(t, a.Equal(MustName("serial")), "prefix")
	testutil.False(t, a.Equal(MustName("serialize2")), "longer")
	testutil.True(t, a == MustName("serialize"), "comparable")

	m := map[Name]int{a: 1}
	testutil.Equal(t, 1, m[MustName("serialize")])
}

func TestNameMethodName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"describe", "Describe"},
		{"to_string", "ToString"},
		{"to-string", "ToString"},
		{"ns::op", "NsOp"},
		{"Already", "Already"},
	}
	for _, tt := range tests {
		testutil.Equal(t, tt.want, MustName(tt.in).MethodName(), tt.in)
	}
}

func TestMustNamePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		testutil.True(t, ok && errors.Is(err, ErrInvalidName), "panics with ErrInvalidName")
	}()
	MustName("")
}
