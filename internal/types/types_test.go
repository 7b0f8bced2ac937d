package types_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tincup-go/tincup/cpo"
	"github.com/tincup-go/tincup/internal/testutil"
	"github.com/tincup-go/tincup/internal/types"
)

type named string

func (n named) String() string { return string(n) }

type box struct{ v int }

func (b box) Deref() int { return b.v }

func argOf[T any]() types.Arg { return types.Of(reflect.TypeFor[T]()) }

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		arg      types.Arg
		core     reflect.Type
		isConst  bool
		category types.Category
		str      string
	}{
		{"plain", argOf[int](), reflect.TypeFor[int](), false, types.Value, "int"},
		{"const", argOf[cpo.Const[int]](), reflect.TypeFor[int](), true, types.Value, "Const[int]"},
		{"ref const", argOf[cpo.Ref[cpo.Const[int]]](), reflect.TypeFor[int](), true, types.LValue, "Ref[Const[int]]"},
		{"outer category wins", argOf[cpo.Ref[cpo.Moved[string]]](), reflect.TypeFor[string](), false, types.LValue, "Ref[string]"},
		{"const outside ref", argOf[cpo.Const[cpo.Ref[int]]](), reflect.TypeFor[int](), true, types.LValue, "Ref[Const[int]]"},
		{"moved", argOf[cpo.Moved[[]byte]](), reflect.TypeFor[[]byte](), false, types.RValue, "Moved[[]uint8]"},
		{"pointer", argOf[*int](), reflect.TypeFor[*int](), false, types.Value, "*int"},
		{"pointer to const", argOf[*cpo.Const[int]](), reflect.TypeFor[*cpo.Const[int]](), false, types.Value, "*Const[int]"},
		{"ref to pointer to moved", argOf[cpo.Ref[*cpo.Moved[string]]](), reflect.TypeFor[*cpo.Moved[string]](), false, types.LValue, "Ref[*Moved[string]]"},
		{"empty interface", argOf[cpo.Const[any]](), reflect.TypeFor[any](), true, types.Value, "Const[any]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Equal(t, tt.core, tt.arg.Core)
			testutil.Equal(t, tt.isConst, tt.arg.Const)
			testutil.Equal(t, tt.category, tt.arg.Category)
			testutil.Equal(t, tt.str, tt.arg.String())
		})
	}

	testutil.True(t, types.OfValue(nil).IsNil())
	testutil.Equal(t, "(int, nil)", types.List([]types.Arg{types.OfValue(1), types.OfValue(nil)}))
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{nil, "nil"},
		{reflect.TypeFor[any](), "any"},
		{reflect.TypeFor[[]any](), "[]any"},
		{reflect.TypeFor[map[string]any](), "map[string]any"},
		{reflect.TypeFor[func(int, any) error](), "func(int, any) error"},
		{reflect.TypeFor[cpo.Ref[any]](), "cpo.Ref[any]"},
		{reflect.TypeFor[cpo.Const[named]](), "cpo.Const[types_test.named]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			testutil.Equal(t, tt.want, types.TypeName(tt.typ))
		})
	}
}

func TestQualifierOf(t *testing.T) {
	q, ok := types.QualifierOf(reflect.TypeFor[cpo.Moved[int]]())
	testutil.True(t, ok)
	testutil.Equal(t, types.QualMoved, q.Qualifier())

	for _, typ := range []reflect.Type{nil, reflect.TypeFor[int](), reflect.TypeFor[*cpo.Const[int]](), reflect.TypeFor[types.Qualified]()} {
		_, ok := types.QualifierOf(typ)
		testutil.False(t, ok, "QualifierOf(%v)", typ)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		arg  types.Arg
		want types.Flags
	}{
		{argOf[int](), types.FlagValue},
		{argOf[cpo.Const[int]](), types.FlagValue | types.FlagConst},
		{argOf[*int](), types.FlagPointer},
		{argOf[*cpo.Const[int]](), types.FlagPointer | types.FlagConst},
		{argOf[box](), types.FlagPointer},
		{argOf[cpo.Ref[int]](), types.FlagLValue},
		{argOf[cpo.Moved[int]](), types.FlagRValue},
		{argOf[cpo.Ref[*int]](), types.FlagPointer | types.FlagLValue},
	}
	for _, tt := range tests {
		t.Run(tt.arg.String(), func(t *testing.T) {
			testutil.Equal(t, tt.want, tt.arg.Flags(), "got %s", tt.arg.Flags())
		})
	}
	testutil.Equal(t, "pointer|const", (types.FlagPointer | types.FlagConst).String())
	testutil.Equal(t, "none", types.Flags(0).String())
}

func TestPointee(t *testing.T) {
	p, ok := argOf[*string]().Pointee()
	testutil.True(t, ok)
	testutil.Equal(t, "Ref[string]", p.String())

	p, ok = argOf[box]().Pointee()
	testutil.True(t, ok)
	testutil.Equal(t, "int", p.String())

	_, ok = argOf[string]().Pointee()
	testutil.False(t, ok)

	testutil.Equal(t, reflect.TypeFor[int](), argOf[**cpo.Const[int]]().Raw())
}

func TestBind(t *testing.T) {
	tests := []struct {
		name  string
		param types.Arg
		arg   types.Arg
		rank  types.Rank
		binds bool
	}{
		{"exact", argOf[int](), argOf[int](), types.RankExact, true},
		{"core mismatch", argOf[int](), argOf[string](), 0, false},
		{"const from plain", argOf[cpo.Const[int]](), argOf[int](), types.RankQualification, true},
		{"const from const", argOf[cpo.Const[int]](), argOf[cpo.Const[int]](), types.RankExact, true},
		{"ref from plain", argOf[cpo.Ref[int]](), argOf[int](), 0, false},
		{"ref from ref", argOf[cpo.Ref[int]](), argOf[cpo.Ref[int]](), types.RankExact, true},
		{"ref to interface from ref", argOf[cpo.Ref[fmt.Stringer]](), argOf[cpo.Ref[named]](), 0, false},
		{"ref to interface from same ref", argOf[cpo.Ref[fmt.Stringer]](), argOf[cpo.Ref[fmt.Stringer]](), types.RankExact, true},
		{"const ref to interface from ref", argOf[cpo.Ref[cpo.Const[fmt.Stringer]]](), argOf[cpo.Ref[named]](), types.RankInterface, true},
		{"ref from const ref", argOf[cpo.Ref[int]](), argOf[cpo.Ref[cpo.Const[int]]](), 0, false},
		{"const ref from plain", argOf[cpo.Ref[cpo.Const[int]]](), argOf[int](), types.RankQualification, true},
		{"const ref from const ref", argOf[cpo.Ref[cpo.Const[int]]](), argOf[cpo.Ref[cpo.Const[int]]](), types.RankExact, true},
		{"moved from plain", argOf[cpo.Moved[int]](), argOf[int](), types.RankExact, true},
		{"moved from ref", argOf[cpo.Moved[int]](), argOf[cpo.Ref[int]](), 0, false},
		{"moved from const", argOf[cpo.Moved[int]](), argOf[cpo.Const[int]](), 0, false},
		{"interface", argOf[fmt.Stringer](), argOf[named](), types.RankInterface, true},
		{"any", argOf[any](), argOf[int](), types.RankAny, true},
		{"nil to pointer", argOf[*int](), types.Arg{}, types.RankInterface, true},
		{"nil to value", argOf[int](), types.Arg{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, ok := types.Bind(tt.param, tt.arg)
			testutil.Equal(t, tt.binds, ok)
			if ok {
				testutil.Equal(t, tt.rank, rank, "rank %s", rank)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	t.Run("temporary const", func(t *testing.T) {
		v, err := types.Convert(5, reflect.TypeFor[cpo.Const[int]]())
		testutil.NoError(t, err)
		testutil.Equal(t, 5, v.Interface().(cpo.Const[int]).Get())
	})

	t.Run("reference aliases variable", func(t *testing.T) {
		x := 1
		v, err := types.Convert(cpo.RefOf(&x), reflect.TypeFor[cpo.Ref[int]]())
		testutil.NoError(t, err)
		v.Interface().(cpo.Ref[int]).Set(7)
		testutil.Equal(t, 7, x)
	})

	t.Run("const reference to temporary", func(t *testing.T) {
		v, err := types.Convert(5, reflect.TypeFor[cpo.Ref[cpo.Const[int]]]())
		testutil.NoError(t, err)
		testutil.Equal(t, 5, v.Interface().(cpo.Ref[cpo.Const[int]]).Get().Get())
	})

	t.Run("interface parameter", func(t *testing.T) {
		v, err := types.Convert(named("a"), reflect.TypeFor[fmt.Stringer]())
		testutil.NoError(t, err)
		testutil.Equal(t, "a", v.Interface().(fmt.Stringer).String())
	})

	t.Run("nil", func(t *testing.T) {
		v, err := types.Convert(nil, reflect.TypeFor[*int]())
		testutil.NoError(t, err)
		testutil.True(t, v.IsNil())
	})

	t.Run("nil reference", func(t *testing.T) {
		_, err := types.Convert(cpo.RefOf[int](nil), reflect.TypeFor[cpo.Ref[int]]())
		testutil.ErrorIs(t, err, types.ErrNilReference)
	})

	t.Run("mismatch", func(t *testing.T) {
		_, err := types.Convert("x", reflect.TypeFor[int]())
		testutil.True(t, err != nil && !errors.Is(err, types.ErrNilReference), "err %v", err)
	})
}

func TestTransforms(t *testing.T) {
	args := []types.Arg{argOf[*string](), argOf[cpo.Const[int]](), argOf[bool]()}

	deref, changed := types.Map(args, types.Deref)
	testutil.Equal(t, "(Ref[string], Const[int], bool)", types.List(deref))
	testutil.Diff(t, []int{0}, changed)

	stripped, changed := types.Map(args, types.StripConst)
	testutil.Equal(t, "(*string, int, bool)", types.List(stripped))
	testutil.Diff(t, []int{1}, changed)

	testutil.Equal(t, "(Const[int], *string)", types.List(types.Swap(args[:2])))
	testutil.Len(t, types.Swap(args), 3)
}

func TestLoggerComponent(t *testing.T) {
	var nilLogger *types.Logger
	l := nilLogger.Component("lookup")
	testutil.False(t, l.Enabled(types.LevelTrace))
	l.Trace("dropped")
}
