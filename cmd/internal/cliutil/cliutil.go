// Package cliutil provides shared CLI utilities for the tincup command.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flags holds the global flags accepted before or after the subcommand.
type Flags struct {
	Verbose    int
	ConfigFile string
	OutputFile string
	NoColor    bool
	HelpFlag   bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -v/--verbose, -vv, --no-color, -c/--config, -o/--output,
// -h/--help. Unrecognized flags are passed through to the subcommand.
func ParseArgs(args []string) (flags Flags, cmd string, cmdArgs []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			if flags.Verbose < 1 {
				flags.Verbose = 1
			}
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "--no-color":
			flags.NoColor = true
		case arg == "-c" || arg == "--config":
			if i+1 < len(args) {
				i++
				flags.ConfigFile = args[i]
			}
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigFile = arg[len("--config="):]
		case arg == "-o" || arg == "--output":
			if i+1 < len(args) {
				i++
				flags.OutputFile = args[i]
			}
		case strings.HasPrefix(arg, "--output="):
			flags.OutputFile = arg[len("--output="):]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
