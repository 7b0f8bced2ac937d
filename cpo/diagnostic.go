package cpo

import (
	"github.com/tincup-go/tincup/internal/diagnose"
	"github.com/tincup-go/tincup/internal/resolver"
	"github.com/tincup-go/tincup/internal/types"
)

// Classification names the likely cause of a failed lookup.
type Classification = diagnose.Class

const (
	Ambiguous          = diagnose.ClassAmbiguous
	NeedsDereference   = diagnose.ClassNeedsDereference
	NeedsMutable       = diagnose.ClassNeedsMutable
	NeedsBoth          = diagnose.ClassNeedsBoth
	WrongArgumentOrder = diagnose.ClassWrongOrder
	WrongArity         = diagnose.ClassWrongArity
	MixedReferences    = diagnose.ClassMixedReferences
	AllRValue          = diagnose.ClassAllRValue
	PatternMatch       = diagnose.ClassPattern
	Unclassified       = diagnose.ClassUnclassified
)

// Diagnostic explains a call that no implementation accepts. It is the
// error returned by Invoke and Check for a failed lookup and unwraps to
// ErrNoImplementation or ErrAmbiguous.
type Diagnostic struct {
	Operation      Name
	Args           []ArgType
	Classification Classification
	// Variant is "single", "multiple" or "all" for dereference and const
	// classifications, "none" otherwise.
	Variant string
	// Positions are the argument indexes the suggested fix changes.
	Positions []int
	// Suggested is an argument list that would resolve, when known.
	Suggested []ArgType
	// Candidates lists the tied implementations of an ambiguous call.
	Candidates []string
	// Rule names the structural rule that matched, if any.
	Rule    string
	Message string

	finding diagnose.Finding
}

func (t *table) diagnose(args []types.Arg, out resolver.Outcome) *Diagnostic {
	var tied []string
	for _, c := range out.Tied {
		tied = append(tied, c.Source.String()+" "+c.String())
	}
	in := diagnose.Input{Args: args, Flags: t.flags(args), Tied: tied}
	f := diagnose.Analyze(in, func(as []types.Arg) bool {
		return t.lookup(as).OK()
	}, t.config().settings)

	d := &Diagnostic{
		Operation:      t.name,
		Args:           args,
		Classification: f.Class,
		Variant:        f.Variant.String(),
		Positions:      f.Positions,
		Suggested:      f.Suggested,
		Candidates:     f.Tied,
		Message:        diagnose.Message(t.name.String(), args, f),
		finding:        f,
	}
	if f.Rule != nil {
		d.Rule = f.Rule.Name
	}
	return d
}

func (d *Diagnostic) Error() string { return d.Message }

func (d *Diagnostic) Unwrap() error {
	if d.Classification == Ambiguous {
		return ErrAmbiguous
	}
	return ErrNoImplementation
}

// Code returns the classification code, e.g. "needs-dereference".
func (d *Diagnostic) Code() string { return d.Classification.Code() }

// Call renders the failing call with its argument types.
func (d *Diagnostic) Call() string { return diagnose.Call(d.Operation.String(), d.Args) }

// Fix renders the call that would resolve, or "" when none is known.
func (d *Diagnostic) Fix() string { return diagnose.Fix(d.Operation.String(), d.finding) }

// Diff marks the changes between the failing call and the fix.
func (d *Diagnostic) Diff() string {
	fix := d.Fix()
	if fix == "" {
		return ""
	}
	return diagnose.Diff(d.Call(), fix)
}

// Format renders the full report, with ANSI colours when colored is set.
func (d *Diagnostic) Format(colored bool) string {
	return diagnose.Render(d.Operation.String(), d.Args, d.finding, colored)
}

// CodeInfo describes a classification code.
type CodeInfo = diagnose.CodeInfo

// Codes returns the classification catalogue in decision order.
func Codes() []CodeInfo { return diagnose.AllCodes() }

// MatchCode reports whether code matches pattern, which may start or end
// with a * wildcard.
func MatchCode(pattern, code string) bool { return diagnose.MatchGlob(pattern, code) }
