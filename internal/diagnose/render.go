package diagnose

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tincup-go/tincup/internal/types"
)

// Diff marks the character changes that turn from into to, using [-x-]
// for deletions and {+y+} for insertions.
func Diff(from, to string) string {
	return renderDiff(from, to, nil, nil)
}

func renderDiff(from, to string, del, ins *color.Color) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffpatch.DiffDelete:
			if del != nil {
				b.WriteString(del.Sprint(d.Text))
			} else {
				b.WriteString("[-" + d.Text + "-]")
			}
		case diffpatch.DiffInsert:
			if ins != nil {
				b.WriteString(ins.Sprint(d.Text))
			} else {
				b.WriteString("{+" + d.Text + "+}")
			}
		}
	}
	return b.String()
}

// palette holds the colours of a rendering; nil entries render plain.
type palette struct {
	code, fix, del, ins *color.Color
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	p := palette{
		code: color.New(color.FgRed, color.Bold),
		fix:  color.New(color.FgCyan),
		del:  color.New(color.FgRed, color.CrossedOut),
		ins:  color.New(color.FgGreen, color.Underline),
	}
	for _, c := range []*color.Color{p.code, p.fix, p.del, p.ins} {
		c.EnableColor()
	}
	return p
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// Render formats a finding as a multi-line report:
//
//	error[needs-dereference]: describe: argument 0 is a pointer ...
//		try:  describe(Ref[int])
//		diff: describe([-*int-]{+Ref[int]+})
func Render(op string, args []types.Arg, f Finding, colored bool) string {
	p := newPalette(colored)
	var b strings.Builder
	b.WriteString(paint(p.code, "error["+f.Class.Code()+"]"))
	b.WriteString(": ")
	b.WriteString(Message(op, args, f))
	if fix := Fix(op, f); fix != "" {
		b.WriteString("\n\ttry:  ")
		b.WriteString(paint(p.fix, fix))
		b.WriteString("\n\tdiff: ")
		b.WriteString(renderDiff(Call(op, args), fix, p.del, p.ins))
	}
	return b.String()
}
