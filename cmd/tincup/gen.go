package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/tincup-go/tincup/cmd/internal/cliutil"
	"github.com/tincup-go/tincup/cpo"
)

const genUsage = `tincup gen - Generate operation boilerplate from a definition

Usage:
  tincup gen [options] [DEFINITION]

Reads an operation definition (YAML or JSON) from -f, from the DEFINITION
argument, or from stdin, and writes Go source declaring the operation type,
its tag, the operation object and a call wrapper. With a target type it also
writes a registry entry for that type.

Definition fields:
  name      tag name (required), e.g. add_in_place
  package   package clause (default: ops)
  doc       sentence appended to the type comment
  pattern   predefined argument shape (see -patterns)
  args      list of "name Type"; T, U, S and F are type placeholders
  returns   result type of the wrapper; empty for none
  target    type to write a registry entry for

Options:
  -f FILE        Read the definition from FILE ('-' for stdin)
  -pkg NAME      Override the package clause
  -target TYPE   Override the registry target type
  -patterns      List the predefined patterns
  -h, --help     Show help

Examples:
  tincup gen -f add_in_place.yaml
  tincup gen '{"name": "describe", "args": ["v T"], "returns": "string"}'
  tincup gen -target '[]float64' '{"name": "scale", "pattern": "scalar_mutating"}'
`

// ErrDefinition is returned for an unusable operation definition.
var ErrDefinition = errors.New("invalid operation definition")

// Definition describes an operation to generate.
type Definition struct {
	Name    string   `yaml:"name"`
	Package string   `yaml:"package"`
	Doc     string   `yaml:"doc"`
	Pattern string   `yaml:"pattern"`
	Args    []string `yaml:"args"`
	Returns string   `yaml:"returns"`
	Target  string   `yaml:"target"`
}

type pattern struct {
	Summary string
	Args    []string
	// Query patterns return a value; the wrapper uses "any" unless the
	// definition names a result type.
	Query bool
}

var patterns = map[string]pattern{
	"mutating_binary":  {"modifies target using source", []string{"target Ref[T]", "source Const[U]"}, false},
	"scalar_mutating":  {"modifies target using a scalar", []string{"target Ref[T]", "scalar S"}, false},
	"unary_mutating":   {"modifies target by applying fn", []string{"target Ref[T]", "fn F"}, false},
	"binary_query":     {"computes a value from lhs and rhs", []string{"lhs Const[T]", "rhs Const[U]"}, true},
	"unary_query":      {"computes a value from obj", []string{"obj Const[T]"}, true},
	"generator":        {"creates a new value from source", []string{"source Const[T]"}, true},
	"binary_transform": {"transforms target using source and fn", []string{"target Ref[T]", "source Const[U]", "fn F"}, false},
}

// ParseDefinition decodes a YAML or JSON definition.
func ParseDefinition(data []byte) (Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return d, fmt.Errorf("%w: empty input", ErrDefinition)
		}
		return d, fmt.Errorf("%w: %w", ErrDefinition, err)
	}
	return d, nil
}

type genParam struct {
	Name string
	Type string
}

type genData struct {
	Name     string
	Package  string
	Doc      string
	TypeName string
	VarName  string
	FuncName string
	Params   []genParam
	Returns  string
	Target   string
	// TargetParams are the registry entry's parameters with the target
	// substituted for the first placeholder.
	TargetParams []genParam
}

func (g genData) ParamList() string {
	names := make([]string, len(g.Params))
	for i, p := range g.Params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func (g genData) TargetSignature() string {
	parts := make([]string, len(g.TargetParams))
	for i, p := range g.TargetParams {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

var genTemplate = template.Must(template.New("op").Parse(`// Code generated by tincup gen; edit as needed.

package {{.Package}}

import "github.com/tincup-go/tincup/cpo"

// {{.TypeName}} is the {{.Name}} operation.{{if .Doc}} {{.Doc}}{{end}}
type {{.TypeName}} struct{ cpo.Base[{{.TypeName}}] }

func ({{.TypeName}}) Name() cpo.Name { return cpo.MustName({{printf "%q" .Name}}) }

// {{.VarName}} is the {{.Name}} operation object.
var {{.VarName}} {{.TypeName}}

// {{.FuncName}} calls {{.Name}}({{.ParamList}}).
{{- if .Returns}}
func {{.FuncName}}({{if .Params}}{{.ParamList}} any{{end}}) ({{.Returns}}, error) {
	return cpo.Call[{{.TypeName}}, {{.Returns}}]({{.ParamList}})
}
{{- else}}
func {{.FuncName}}({{if .Params}}{{.ParamList}} any{{end}}) error {
	_, err := cpo.Invoke[{{.TypeName}}]({{.ParamList}})
	return err
}
{{- end}}
{{if .Target}}
func init() {
	err := cpo.RegisterFor[{{.TypeName}}, {{.Target}}](func({{.TargetSignature}}){{if .Returns}} {{.Returns}}{{end}} {
		panic({{printf "%q" (print .Name ": not implemented for " .Target)}})
	})
	if err != nil {
		panic(err)
	}
}
{{end}}`))

// Generate renders the Go source for d.
func Generate(d Definition) ([]byte, error) {
	g, err := prepare(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, g); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: generated code does not parse: %w", ErrDefinition, err)
	}
	return src, nil
}

func prepare(d Definition) (genData, error) {
	name, err := cpo.NewName(d.Name)
	if err != nil {
		return genData{}, fmt.Errorf("%w: %w", ErrDefinition, err)
	}
	exported := name.MethodName()
	if !token.IsIdentifier(exported) {
		return genData{}, fmt.Errorf("%w: name %q does not form a Go identifier", ErrDefinition, d.Name)
	}

	g := genData{
		Name:     d.Name,
		Package:  d.Package,
		Doc:      strings.TrimSpace(d.Doc),
		TypeName: lowerFirst(exported) + "Op",
		VarName:  exported + "Op",
		FuncName: exported,
		Returns:  strings.TrimSpace(d.Returns),
		Target:   strings.TrimSpace(d.Target),
	}
	if g.Package == "" {
		g.Package = "ops"
	}
	if !token.IsIdentifier(g.Package) {
		return genData{}, fmt.Errorf("%w: package %q", ErrDefinition, g.Package)
	}

	args := d.Args
	if d.Pattern != "" {
		p, ok := patterns[d.Pattern]
		if !ok {
			return genData{}, fmt.Errorf("%w: unknown pattern %q (have %s)", ErrDefinition, d.Pattern, strings.Join(patternNames(), ", "))
		}
		if len(args) == 0 {
			args = p.Args
		}
		if p.Query && g.Returns == "" {
			g.Returns = "any"
		}
	}
	if isPlaceholder(g.Returns) {
		g.Returns = "any"
	}

	for i, a := range args {
		p, err := parseParam(a)
		if err != nil {
			return genData{}, fmt.Errorf("%w: argument %d: %w", ErrDefinition, i, err)
		}
		g.Params = append(g.Params, p)
	}

	if g.Target != "" {
		if len(g.Params) == 0 {
			return genData{}, fmt.Errorf("%w: target %s needs at least one argument", ErrDefinition, g.Target)
		}
		for i, p := range g.Params {
			typ := p.Type
			if i == 0 {
				typ = substituteFirst(typ, g.Target)
			}
			g.TargetParams = append(g.TargetParams, genParam{Name: p.Name, Type: eraseParams(typ)})
		}
	}
	return g, nil
}

// parseParam parses "name Type".
func parseParam(s string) (genParam, error) {
	name, typ, ok := strings.Cut(strings.TrimSpace(s), " ")
	typ = strings.TrimSpace(typ)
	if !ok || typ == "" {
		return genParam{}, fmt.Errorf("%q: want \"name Type\"", s)
	}
	if !token.IsIdentifier(name) {
		return genParam{}, fmt.Errorf("%q: bad parameter name", s)
	}
	return genParam{Name: name, Type: qualify(typ)}, nil
}

// qualify prefixes the qualifier wrappers with the cpo package.
func qualify(typ string) string {
	for _, w := range []string{"Const[", "Ref[", "Moved["} {
		typ = replaceIdent(typ, w, "cpo."+w)
	}
	return typ
}

func replaceIdent(s, old, repl string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, old)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		if i > 0 && (isIdentRune(rune(s[i-1])) || s[i-1] == '.') {
			b.WriteString(s[:i+len(old)])
		} else {
			b.WriteString(s[:i])
			b.WriteString(repl)
		}
		s = s[i+len(old):]
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPlaceholder(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

// mapPlaceholders rewrites every single-letter upper-case identifier in
// typ with fn.
func mapPlaceholders(typ string, fn func(string) string) string {
	var b strings.Builder
	rs := []rune(typ)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !isIdentRune(r) {
			b.WriteRune(r)
			continue
		}
		j := i
		for j < len(rs) && isIdentRune(rs[j]) {
			j++
		}
		word := string(rs[i:j])
		prevDot := i > 0 && rs[i-1] == '.'
		if isPlaceholder(word) && !prevDot {
			word = fn(word)
		}
		b.WriteString(word)
		i = j - 1
	}
	return b.String()
}

func substituteFirst(typ, target string) string {
	done := false
	return mapPlaceholders(typ, func(w string) string {
		if done {
			return w
		}
		done = true
		return target
	})
}

func eraseParams(typ string) string {
	return mapPlaceholders(typ, func(string) string { return "any" })
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func patternNames() []string {
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *cli) cmdGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, genUsage) }

	file := fs.String("f", "", "definition file")
	pkg := fs.String("pkg", "", "package clause")
	target := fs.String("target", "", "registry target type")
	listPatterns := fs.Bool("patterns", false, "list predefined patterns")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, genUsage)
		return exitOK
	}
	if *listPatterns {
		for _, n := range patternNames() {
			p := patterns[n]
			fmt.Printf("%-17s %s (%s)\n", n, p.Summary, strings.Join(p.Args, ", "))
		}
		return exitOK
	}

	data, err := readDefinition(*file, fs.Args())
	if err != nil {
		printError("%v", err)
		return exitError
	}
	def, err := ParseDefinition(data)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	if *pkg != "" {
		def.Package = *pkg
	}
	if *target != "" {
		def.Target = *target
	}

	src, err := Generate(def)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	out, closeOut, err := cliutil.GetOutput(c.OutputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()
	if _, err := out.Write(src); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

func readDefinition(file string, args []string) ([]byte, error) {
	switch {
	case file == "-":
		return io.ReadAll(os.Stdin)
	case file != "":
		return os.ReadFile(file)
	case len(args) > 0:
		return []byte(strings.Join(args, " ")), nil
	default:
		return io.ReadAll(os.Stdin)
	}
}
