package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tincup-go/tincup"
	"github.com/tincup-go/tincup/cmd/internal/cliutil"
	"github.com/tincup-go/tincup/cpo"
)

const checkUsage = `tincup check - Run the diagnostic engine against built-in operations

Usage:
  tincup check [options]

Calls a set of built-in operations with arguments chosen to trigger every
classification and verifies the code reported for each. Exits with status 2
when a classification differs from the expected one.

Options:
  --show       Print the full diagnostic for each case
  -h, --help   Show help
`

// Built-in operations. Each carries the full diagnostic configuration so
// the result does not depend on the environment.

type checkConfig struct{}

func (checkConfig) Diagnostics() cpo.DiagnosticConfig {
	d := cpo.DefaultDiagnosticConfig()
	d.Rules = []cpo.PatternRule{{
		Name:    "all-const",
		When:    "arity > 1 && const_count == arity",
		Message: "every argument is read-only",
	}}
	return d
}

type (
	describeOp struct {
		cpo.Base[describeOp]
		checkConfig
	}
	lengthOp struct {
		cpo.Base[lengthOp]
		checkConfig
	}
	resetOp struct {
		cpo.Base[resetOp]
		checkConfig
	}
	pairOp struct {
		cpo.Base[pairOp]
		checkConfig
	}
	combineOp struct {
		cpo.Base[combineOp]
		checkConfig
	}
	pickOp struct {
		cpo.Base[pickOp]
		checkConfig
	}
	linkOp struct {
		cpo.Base[linkOp]
		checkConfig
	}
)

func (describeOp) Name() cpo.Name { return cpo.MustName("describe") }
func (lengthOp) Name() cpo.Name   { return cpo.MustName("length") }
func (resetOp) Name() cpo.Name    { return cpo.MustName("reset") }
func (pairOp) Name() cpo.Name     { return cpo.MustName("pair") }
func (combineOp) Name() cpo.Name  { return cpo.MustName("combine") }
func (pickOp) Name() cpo.Name     { return cpo.MustName("pick") }
func (linkOp) Name() cpo.Name     { return cpo.MustName("link") }

func init() {
	cpo.MustImplement[describeOp](func(int) string { return "int" })
	cpo.MustImplement[describeOp](func(string) string { return "string" })
	cpo.MustImplement[lengthOp](func(s string) int { return len(s) })
	cpo.MustImplement[resetOp](func(r cpo.Ref[int]) { r.Set(0) })
	cpo.MustImplement[pairOp](func(n int, s string) string { return s + strconv.Itoa(n) })
	cpo.MustImplement[combineOp](func(a, b int) int { return a + b })
	cpo.MustImplement[pickOp](func(int, any) string { return "left" }, cpo.Label("pick_left"))
	cpo.MustImplement[pickOp](func(any, int) string { return "right" }, cpo.Label("pick_right"))
	cpo.MustImplement[linkOp](func(a, b cpo.Ref[int]) { b.Set(a.Get()) })
}

type checkCase struct {
	want string
	call func() error
}

func invoke[D any](args ...any) func() error {
	return func() error {
		_, err := cpo.Invoke[D](args...)
		return err
	}
}

func checkCases() []checkCase {
	s := "text"
	n, m := 1, 2
	c := cpo.AsConst(5)
	return []checkCase{
		{"ambiguous", invoke[pickOp](1, 2)},
		{"needs-dereference", invoke[lengthOp](&s)},
		{"needs-mutable", invoke[resetOp](cpo.RefOf(&c))},
		{"needs-both", invoke[resetOp](&c)},
		{"wrong-argument-order", invoke[pairOp]("a", 1)},
		{"wrong-arity", invoke[combineOp](1)},
		{"mixed-reference-categories", invoke[linkOp](cpo.RefOf(&n), cpo.Move(m))},
		{"all-rvalue", invoke[resetOp](cpo.Move(1))},
		{"pattern", invoke[combineOp](cpo.AsConst("a"), cpo.AsConst("b"))},
		{"unclassified", invoke[describeOp](1.5)},
	}
}

// runCheck reports each case to w and returns the number of mismatches.
func runCheck(w io.Writer, show bool) int {
	failed := 0
	for _, tc := range checkCases() {
		err := tc.call()
		var d *cpo.Diagnostic
		got := "resolved"
		if errors.As(err, &d) {
			got = d.Code()
		} else if err != nil {
			got = "error: " + err.Error()
		}

		status := "ok"
		if got != tc.want {
			status = "FAIL"
			failed++
		}
		call := ""
		if d != nil {
			call = d.Call()
		}
		_, _ = fmt.Fprintf(w, "%-4s  %-26s  %s\n", status, tc.want, call)
		if status != "ok" {
			_, _ = fmt.Fprintf(w, "      got %s\n", got)
		}
		if show && d != nil {
			_ = tincup.Report(w, d)
		}
	}
	return failed
}

func (c *cli) cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, checkUsage) }

	show := fs.Bool("show", false, "print full diagnostics")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, checkUsage)
		return exitOK
	}

	out, closeOut, err := cliutil.GetOutput(c.OutputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	if failed := runCheck(out, *show); failed > 0 {
		printError("%d classification(s) differ", failed)
		return exitCheck
	}
	return exitOK
}
