package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/tincup-go/tincup/cmd/internal/cliutil"
	"github.com/tincup-go/tincup/cpo"
)

const explainUsage = `tincup explain - Describe diagnostic classification codes

Usage:
  tincup explain [options] [PATTERN...]

Prints the classification codes in the order the diagnostic engine tries
them. Patterns select codes and may start or end with '*'.

Options:
  --json       Output as JSON
  -h, --help   Show help

Examples:
  tincup explain
  tincup explain needs-dereference
  tincup explain 'needs-*' wrong-arity
`

// CodeJSON is the JSON form of a classification code.
type CodeJSON struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Example  string `json:"example"`
}

func (c *cli) cmdExplain(args []string) int {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, explainUsage) }

	jsonOut := fs.Bool("json", false, "output as JSON")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, explainUsage)
		return exitOK
	}

	codes := selectCodes(fs.Args())
	if len(codes) == 0 {
		printError("no classification code matches %v", fs.Args())
		return exitError
	}

	out, closeOut, err := cliutil.GetOutput(c.OutputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	if *jsonOut {
		items := make([]CodeJSON, len(codes))
		for i, ci := range codes {
			items[i] = CodeJSON{Code: ci.Code, Category: ci.Category, Summary: ci.Summary, Example: ci.Example}
		}
		if err := cliutil.WriteJSON(out, items); err != nil {
			printError("encoding JSON: %v", err)
			return exitError
		}
		return exitOK
	}
	if err := writeCodes(out, codes); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

func selectCodes(patterns []string) []cpo.CodeInfo {
	all := cpo.Codes()
	if len(patterns) == 0 {
		return all
	}
	var out []cpo.CodeInfo
	for _, ci := range all {
		for _, p := range patterns {
			if cpo.MatchCode(p, ci.Code) {
				out = append(out, ci)
				break
			}
		}
	}
	return out
}

func writeCodes(w io.Writer, codes []cpo.CodeInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tCATEGORY\tSUMMARY")
	for _, ci := range codes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", ci.Code, ci.Category, ci.Summary)
		_, _ = fmt.Fprintf(tw, "\t\te.g. %s\n", ci.Example)
	}
	return tw.Flush()
}
