package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/tincup-go/tincup/cmd/internal/cliutil"
)

const scanUsage = `tincup scan - List operations declared in Go packages

Usage:
  tincup scan [options] PATTERN...

Loads the packages matching PATTERN and lists every operation type (a type
embedding cpo.Base) with its tag name, the Implement calls that add to it and
the RegisterFor calls that extend it.

Options:
  --json       Output as JSON
  --md         Output as Markdown
  -C DIR       Run the package loader in DIR
  -h, --help   Show help

Examples:
  tincup scan ./...
  tincup scan --md -o docs/operations.md ./...
`

const cpoPkgPath = "github.com/tincup-go/tincup/cpo"

// OperationJSON describes an operation found by scan.
type OperationJSON struct {
	Name            string     `json:"name"`
	Qualified       string     `json:"qualified"`
	Type            string     `json:"type"`
	Package         string     `json:"package"`
	Position        string     `json:"position"`
	Implementations []SiteJSON `json:"implementations,omitempty"`
	Registrations   []SiteJSON `json:"registrations,omitempty"`
}

// SiteJSON is a call that adds an implementation.
type SiteJSON struct {
	Position  string `json:"position"`
	Target    string `json:"target,omitempty"`
	Signature string `json:"signature,omitempty"`
}

func (c *cli) cmdScan(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, scanUsage) }

	jsonOut := fs.Bool("json", false, "output as JSON")
	mdOut := fs.Bool("md", false, "output as Markdown")
	dir := fs.String("C", "", "working directory for the package loader")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, scanUsage)
		return exitOK
	}
	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ops, err := scanPackages(*dir, patterns)
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

	switch {
	case *jsonOut:
		err = cliutil.WriteJSON(out, ops)
	case *mdOut:
		err = writeScanMarkdown(out, ops)
	default:
		err = writeScanText(out, ops)
	}
	if err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

// scanPackages loads patterns and collects their operations, sorted by
// tag name.
func scanPackages(dir string, patterns []string) ([]OperationJSON, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var errs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	s := &scanner{ops: make(map[string]*OperationJSON)}
	for _, p := range pkgs {
		s.declarations(p)
	}
	for _, p := range pkgs {
		s.calls(p)
	}

	out := make([]OperationJSON, 0, len(s.ops))
	for _, op := range s.ops {
		out = append(out, *op)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Package+"."+out[i].Type < out[j].Package+"."+out[j].Type
	})
	return out, nil
}

type scanner struct {
	// ops is keyed by "package path.type name".
	ops map[string]*OperationJSON
}

func typeKey(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func position(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	name := p.Filename
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, name); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	return name + ":" + strconv.Itoa(p.Line)
}

// isBase reports whether t is an instantiation of cpo.Base.
func isBase(t types.Type) bool {
	n, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := n.Origin().Obj()
	return obj.Name() == "Base" && obj.Pkg() != nil && obj.Pkg().Path() == cpoPkgPath
}

func (s *scanner) declarations(p *packages.Package) {
	scope := p.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		st, ok := tn.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}
		for i := range st.NumFields() {
			f := st.Field(i)
			if f.Embedded() && isBase(f.Type()) {
				s.ops[typeKey(tn)] = &OperationJSON{
					Type:     tn.Name(),
					Package:  p.PkgPath,
					Position: position(p.Fset, tn.Pos()),
				}
				break
			}
		}
	}

	// Tag names come from the Name method's MustName/NewName literal.
	for _, file := range p.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Name.Name != "Name" || fd.Body == nil {
				continue
			}
			fn, ok := p.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}
			recv := fn.Type().(*types.Signature).Recv().Type()
			if ptr, ok := recv.(*types.Pointer); ok {
				recv = ptr.Elem()
			}
			named, ok := recv.(*types.Named)
			if !ok {
				continue
			}
			op, ok := s.ops[typeKey(named.Obj())]
			if !ok {
				continue
			}
			if tag := tagLiteral(p.TypesInfo, fd.Body); tag != "" {
				op.Name = tag
				op.Qualified = "tincup::" + tag
			}
		}
	}
}

// tagLiteral finds cpo.MustName("x") or cpo.NewName("x") in body.
func tagLiteral(info *types.Info, body *ast.BlockStmt) string {
	var tag string
	ast.Inspect(body, func(n ast.Node) bool {
		if tag != "" {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) != 1 {
			return true
		}
		fn := cpoFunc(info, call.Fun)
		if fn == nil || (fn.Name() != "MustName" && fn.Name() != "NewName") {
			return true
		}
		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		if v, err := strconv.Unquote(lit.Value); err == nil {
			tag = v
		}
		return false
	})
	return tag
}

// calleeIdent returns the identifier naming the called function, looking
// through selectors and explicit instantiation.
func calleeIdent(fun ast.Expr) *ast.Ident {
	switch f := fun.(type) {
	case *ast.IndexExpr:
		return calleeIdent(f.X)
	case *ast.IndexListExpr:
		return calleeIdent(f.X)
	case *ast.SelectorExpr:
		return f.Sel
	case *ast.Ident:
		return f
	}
	return nil
}

func cpoFunc(info *types.Info, fun ast.Expr) *types.Func {
	id := calleeIdent(fun)
	if id == nil {
		return nil
	}
	fn, ok := info.Uses[id].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != cpoPkgPath {
		return nil
	}
	return fn
}

func (s *scanner) calls(p *packages.Package) {
	qual := func(other *types.Package) string {
		if other == p.Types {
			return ""
		}
		return other.Name()
	}
	for _, file := range p.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fn := cpoFunc(p.TypesInfo, call.Fun)
			if fn == nil {
				return true
			}
			kind := fn.Name()
			if kind != "Implement" && kind != "MustImplement" && kind != "RegisterFor" {
				return true
			}
			inst, ok := p.TypesInfo.Instances[calleeIdent(call.Fun)]
			if !ok || inst.TypeArgs.Len() == 0 {
				return true
			}
			named, ok := inst.TypeArgs.At(0).(*types.Named)
			if !ok {
				return true
			}
			op, ok := s.ops[typeKey(named.Obj())]
			if !ok {
				return true
			}

			site := SiteJSON{Position: position(p.Fset, call.Pos())}
			if len(call.Args) > 0 {
				if t := p.TypesInfo.TypeOf(call.Args[0]); t != nil {
					site.Signature = strings.TrimPrefix(types.TypeString(t, qual), "func")
				}
			}
			if kind == "RegisterFor" {
				if inst.TypeArgs.Len() > 1 {
					site.Target = types.TypeString(inst.TypeArgs.At(1), qual)
				}
				op.Registrations = append(op.Registrations, site)
			} else {
				op.Implementations = append(op.Implementations, site)
			}
			return true
		})
	}
}

func writeScanText(w io.Writer, ops []OperationJSON) error {
	for _, op := range ops {
		if _, err := fmt.Fprintf(w, "%s\t%s.%s\t%s\n", displayName(op), op.Package, op.Type, op.Position); err != nil {
			return err
		}
		for _, s := range op.Implementations {
			_, _ = fmt.Fprintf(w, "\timplement %s\t%s\n", s.Signature, s.Position)
		}
		for _, s := range op.Registrations {
			_, _ = fmt.Fprintf(w, "\tregister  %s %s\t%s\n", s.Target, s.Signature, s.Position)
		}
	}
	return nil
}

func writeScanMarkdown(w io.Writer, ops []OperationJSON) error {
	var b strings.Builder
	b.WriteString("# Operations\n\n")
	fmt.Fprintf(&b, "Total: %d\n\n", len(ops))
	for _, op := range ops {
		fmt.Fprintf(&b, "- `%s`: `%s` at %s (type `%s.%s`)\n", displayName(op), op.Qualified, op.Position, op.Package, op.Type)
		for _, s := range op.Implementations {
			fmt.Fprintf(&b, "  - implementation `%s` at %s\n", s.Signature, s.Position)
		}
		for _, s := range op.Registrations {
			fmt.Fprintf(&b, "  - registry entry for `%s` at %s\n", s.Target, s.Position)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// displayName is the tag name, or the type name when the tag is computed.
func displayName(op OperationJSON) string {
	if op.Name != "" {
		return op.Name
	}
	return "(" + op.Type + ")"
}
