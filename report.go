package tincup

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/tincup-go/tincup/cpo"
)

// Report writes err to w. A *cpo.Diagnostic in the chain is rendered in
// full, with colours when the configured colour mode allows and w is a
// terminal. Other errors are written as their message.
func Report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	var d *cpo.Diagnostic
	if !errors.As(err, &d) {
		_, werr := io.WriteString(w, err.Error()+"\n")
		return werr
	}
	_, werr := io.WriteString(w, d.Format(UseColor(w, cpo.CurrentDiagnosticConfig().Color))+"\n")
	return werr
}

// UseColor reports whether output to w should be coloured under mode.
// In auto mode that requires a terminal and no NO_COLOR variable.
func UseColor(w io.Writer, mode cpo.ColorMode) bool {
	switch mode {
	case cpo.ColorAlways:
		return true
	case cpo.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
