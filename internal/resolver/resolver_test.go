package resolver

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tincup-go/tincup/internal/testutil"
	"github.com/tincup-go/tincup/internal/types"
)

type stringer interface{ String() string }

type named string

func (n named) String() string { return string(n) }

func mustCandidate(t *testing.T, fn any, label string) *Candidate {
	t.Helper()
	c, err := NewCandidate(reflect.ValueOf(fn), SourceOperation, label)
	if err != nil {
		t.Fatalf("NewCandidate(%s): %v", label, err)
	}
	return c
}

func argsOf(vs ...any) []types.Arg {
	out := make([]types.Arg, len(vs))
	for i, v := range vs {
		out[i] = types.OfValue(v)
	}
	return out
}

func TestNewCandidateResultShapes(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		ret     reflect.Type
		throws  bool
		wantErr bool
	}{
		{"void", func(int) {}, nil, false, false},
		{"value", func(int) string { return "" }, reflect.TypeFor[string](), false, false},
		{"error only", func(int) error { return nil }, nil, true, false},
		{"value and error", func(int) (string, error) { return "", nil }, reflect.TypeFor[string](), true, false},
		{"error first", func(int) (error, string) { return nil, "" }, nil, false, true},
		{"three results", func() (int, int, error) { return 0, 0, nil }, nil, false, true},
		{"not a func", 42, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCandidate(reflect.ValueOf(tt.fn), SourceOperation, tt.name)
			if tt.wantErr {
				testutil.True(t, errors.Is(err, ErrInvalidFunc), "error kind")
				return
			}
			testutil.NoError(t, err)
			testutil.Equal(t, tt.ret, c.Return, "return type")
			testutil.Equal(t, tt.throws, c.Throws, "throws")
		})
	}
}

func TestResolveExactBeatsInterface(t *testing.T) {
	exact := mustCandidate(t, func(named) string { return "exact" }, "exact")
	iface := mustCandidate(t, func(stringer) string { return "iface" }, "iface")
	anyc := mustCandidate(t, func(any) string { return "any" }, "any")

	out := Resolve([]*Candidate{anyc, iface, exact}, argsOf(named("x")), nil)
	testutil.True(t, out.OK(), "resolved")
	testutil.Equal(t, exact, out.Best)
	testutil.Equal(t, 3, out.Viable)

	out = Resolve([]*Candidate{anyc, iface}, argsOf(named("x")), nil)
	testutil.Equal(t, iface, out.Best, "interface beats any")
}

func TestResolveAmbiguous(t *testing.T) {
	a := mustCandidate(t, func(int, any) {}, "a")
	b := mustCandidate(t, func(any, int) {}, "b")

	out := Resolve([]*Candidate{a, b}, argsOf(1, 2), nil)
	testutil.False(t, out.OK(), "no winner")
	testutil.True(t, out.Ambiguous(), "ambiguous")
	testutil.Len(t, out.Tied, 2)
}

func TestResolveNonVariadicBreaksTie(t *testing.T) {
	fixed := mustCandidate(t, func(int) {}, "fixed")
	variadic := mustCandidate(t, func(int, ...int) {}, "variadic")

	out := Resolve([]*Candidate{variadic, fixed}, argsOf(1), nil)
	testutil.Equal(t, fixed, out.Best)

	out = Resolve([]*Candidate{variadic, fixed}, argsOf(1, 2, 3), nil)
	testutil.Equal(t, variadic, out.Best, "only variadic fits")
}

func TestResolveGuard(t *testing.T) {
	c := mustCandidate(t, func(int) {}, "guarded")
	c.Guard = func([]types.Arg) bool { return false }

	out := Resolve([]*Candidate{c}, argsOf(1), nil)
	testutil.False(t, out.OK(), "guard rejects")
	testutil.Equal(t, 0, out.Viable)
}

func TestUnique(t *testing.T) {
	a := mustCandidate(t, func(int) {}, "a")
	a.Key = "k"
	b := mustCandidate(t, func(int) {}, "b")
	b.Key = "k"
	c := mustCandidate(t, func(int) {}, "c")
	d := mustCandidate(t, func(int) {}, "d")

	got := Unique([]*Candidate{a, b, c, d})
	testutil.Len(t, got, 3)
	testutil.Equal(t, a, got[0])
}

func TestCandidateCall(t *testing.T) {
	boom := errors.New("boom")
	c := mustCandidate(t, func(a, b int) (int, error) {
		if b == 0 {
			return 0, boom
		}
		return a / b, nil
	}, "div")

	in, err := c.Prepare([]any{6, 3})
	testutil.NoError(t, err)
	got, err := c.Call(in)
	testutil.NoError(t, err)
	testutil.Equal(t, any(2), got)

	in, _ = c.Prepare([]any{6, 0})
	_, err = c.Call(in)
	testutil.True(t, errors.Is(err, boom), "error propagates")
}

func TestCandidateSignature(t *testing.T) {
	c := mustCandidate(t, func(int, ...string) (bool, error) { return false, nil }, "f")
	testutil.Equal(t, "(int, ...string) (bool, error)", c.Signature())
	testutil.Equal(t, "f(int, ...string) (bool, error)", c.String())
}
