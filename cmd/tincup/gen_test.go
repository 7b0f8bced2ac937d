package main

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/tincup-go/tincup/internal/testutil"
)

func generate(t *testing.T, def string) string {
	t.Helper()
	d, err := ParseDefinition([]byte(def))
	testutil.NoError(t, err)
	src, err := Generate(d)
	testutil.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	testutil.NoError(t, err, "generated source parses")
	return string(src)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want []string
	}{
		{
			name: "json with result",
			def:  `{"name": "describe", "args": ["v T"], "returns": "string"}`,
			want: []string{
				"package ops",
				"type describeOp struct{ cpo.Base[describeOp] }",
				`func (describeOp) Name() cpo.Name { return cpo.MustName("describe") }`,
				"var DescribeOp describeOp",
				"func Describe(v any) (string, error) {",
				"return cpo.Call[describeOp, string](v)",
			},
		},
		{
			name: "yaml pattern",
			def: `
name: add_in_place
package: mathops
doc: Adds source to target element-wise.
pattern: mutating_binary
`,
			want: []string{
				"package mathops",
				"// addInPlaceOp is the add_in_place operation. Adds source to target element-wise.",
				"func AddInPlace(target, source any) error {",
				"_, err := cpo.Invoke[addInPlaceOp](target, source)",
			},
		},
		{
			name: "query pattern defaults to any",
			def:  `{"name": "norm", "pattern": "unary_query"}`,
			want: []string{"func Norm(obj any) (any, error) {"},
		},
		{
			name: "registry target",
			def: `
name: scale
pattern: scalar_mutating
target: "[]float64"
`,
			want: []string{
				"func init() {",
				"cpo.RegisterFor[scaleOp, []float64](func(target cpo.Ref[[]float64], scalar any) {",
				`panic("scale: not implemented for []float64")`,
			},
		},
		{
			name: "no arguments",
			def:  `{"name": "now", "returns": "int64"}`,
			want: []string{"func Now() (int64, error) {", "return cpo.Call[nowOp, int64]()"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := generate(t, tt.def)
			for _, w := range tt.want {
				testutil.Contains(t, src, w)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"missing name", `{"args": ["v T"]}`},
		{"unknown pattern", `{"name": "x", "pattern": "nope"}`},
		{"bad arg", `{"name": "x", "args": ["justname"]}`},
		{"bad package", `{"name": "x", "package": "my-pkg"}`},
		{"target without args", `{"name": "x", "target": "int"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDefinition([]byte(tt.def))
			testutil.NoError(t, err)
			_, err = Generate(d)
			testutil.True(t, errors.Is(err, ErrDefinition), "got %v", err)
		})
	}

	_, err := ParseDefinition([]byte(`{"name": "x", "argz": []}`))
	testutil.True(t, errors.Is(err, ErrDefinition), "unknown field")
	_, err = ParseDefinition(nil)
	testutil.True(t, errors.Is(err, ErrDefinition), "empty input")
}

func TestQualify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Ref[T]", "cpo.Ref[T]"},
		{"Ref[Const[T]]", "cpo.Ref[cpo.Const[T]]"},
		{"cpo.Moved[T]", "cpo.Moved[T]"},
		{"MyRef[T]", "MyRef[T]"},
		{"[]T", "[]T"},
	}
	for _, tt := range tests {
		testutil.Equal(t, tt.want, qualify(tt.in), tt.in)
	}
	testutil.Equal(t, "map[string]any", eraseParams("map[string]T"))
	testutil.Equal(t, "cpo.Ref[uuid.UUID]", substituteFirst("cpo.Ref[T]", "uuid.UUID"))
	testutil.True(t, strings.HasPrefix(lowerFirst("AddInPlace"), "add"), "lowerFirst")
}
