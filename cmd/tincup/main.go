// Command tincup inspects, generates and explains cpo operations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/tincup-go/tincup"
	"github.com/tincup-go/tincup/cmd/internal/cliutil"
	"github.com/tincup-go/tincup/cpo"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or processing failure
	exitCheck = 2 // check found a misclassified case
)

const usage = `tincup - operation dispatch toolkit

Usage:
  tincup <command> [options] [arguments]

Commands:
  scan     List operations declared in Go packages
  gen      Generate operation boilerplate from a definition
  explain  Describe diagnostic classification codes
  check    Run the diagnostic engine against built-in operations
  version  Show version

Common options:
  -c, --config FILE   Load diagnostic configuration (YAML)
  -o, --output FILE   Write output to FILE instead of stdout
  --no-color          Never colour diagnostics
  -v, --verbose       Enable debug logging
  -vv                 Enable trace logging (implies -v)
  -h, --help          Show help

Examples:
  tincup scan ./...
  tincup gen -f add_in_place.yaml
  tincup explain 'needs-*'
  tincup check
`

type cli struct {
	cliutil.Flags
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(args)
	c := &cli{Flags: flags}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	if err := c.configure(); err != nil {
		printError("%v", err)
		return exitError
	}

	switch cmd {
	case "scan":
		return c.cmdScan(cmdArgs)
	case "gen":
		return c.cmdGen(cmdArgs)
	case "explain":
		return c.cmdExplain(cmdArgs)
	case "check":
		return c.cmdCheck(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) configure() error {
	var opts []tincup.Option
	if c.ConfigFile != "" {
		opts = append(opts, tincup.WithConfigFile(c.ConfigFile))
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, tincup.WithLogger(logger))
	}
	if err := tincup.Configure(opts...); err != nil {
		return err
	}
	if c.NoColor {
		d := cpo.CurrentDiagnosticConfig()
		d.Color = cpo.ColorNever
		return cpo.SetDiagnosticConfig(d)
	}
	return nil
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = tincup.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("tincup %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}
