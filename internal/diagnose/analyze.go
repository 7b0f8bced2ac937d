// Package diagnose explains why an operation lookup failed.
//
// Analysis is a single pass over an ordered decision list. Each check
// transforms the argument descriptors and asks the caller whether the
// transformed list would resolve; the first check that succeeds classifies
// the failure. Checks never run implementations.
//
// Decision order:
//
//  1. ambiguity of the failed lookup
//  2. dereference every pointer-like argument
//  3. strip const from every argument
//  4. both transforms together
//  5. swap the arguments of a two-argument call
//  6. reshape a one- or three-argument call into a two-argument call
//  7. structural rules (built-in, then configured), else unclassified
//
// Checks are bounded: order is only tried for two arguments and arity only
// for one and three.
package diagnose

import (
	"log/slog"

	"github.com/tincup-go/tincup/internal/types"
)

// Variant refines a dereference or const classification by how many
// positions were involved.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantSingle
	VariantMultiple
	VariantAll
)

func (v Variant) String() string {
	switch v {
	case VariantSingle:
		return "single"
	case VariantMultiple:
		return "multiple"
	case VariantAll:
		return "all"
	default:
		return "none"
	}
}

// Analysis holds structural counters over an argument list.
type Analysis struct {
	Arity        int
	PointerCount int
	ConstCount   int
	LValueCount  int
	RValueCount  int
	ValueCount   int
	FirstPointer int // -1 if none
	FirstConst   int // -1 if none
}

// AnalyzeFlags counts the structural flags of every position.
func AnalyzeFlags(flags []types.Flags) Analysis {
	a := Analysis{Arity: len(flags), FirstPointer: -1, FirstConst: -1}
	for i, f := range flags {
		if f.Has(types.FlagPointer) {
			a.PointerCount++
			if a.FirstPointer < 0 {
				a.FirstPointer = i
			}
		}
		if f.Has(types.FlagConst) {
			a.ConstCount++
			if a.FirstConst < 0 {
				a.FirstConst = i
			}
		}
		if f.Has(types.FlagLValue) {
			a.LValueCount++
		}
		if f.Has(types.FlagRValue) {
			a.RValueCount++
		}
		if f.Has(types.FlagValue) {
			a.ValueCount++
		}
	}
	return a
}

// Env returns the rule evaluation environment.
func (a Analysis) Env() map[string]any {
	return map[string]any{
		"arity":         a.Arity,
		"pointer_count": a.PointerCount,
		"const_count":   a.ConstCount,
		"lvalue_count":  a.LValueCount,
		"rvalue_count":  a.RValueCount,
		"value_count":   a.ValueCount,
	}
}

// Settings selects the active checks.
type Settings struct {
	Pointer bool
	Const   bool
	Order   bool
	Arity   bool
	// Ignore suppresses classifications whose code matches a glob.
	Ignore []string
	// Rules are evaluated after the built-in rules.
	Rules  []*Rule
	Logger *types.Logger
}

// AllChecks enables every check.
func AllChecks() Settings {
	return Settings{Pointer: true, Const: true, Order: true, Arity: true}
}

func (s Settings) allows(code string) bool {
	for _, p := range s.Ignore {
		if MatchGlob(p, code) {
			return false
		}
	}
	return true
}

// Resolvable reports whether a transformed argument list would resolve.
type Resolvable func([]types.Arg) bool

// Input is the failed lookup to analyze.
type Input struct {
	Args []types.Arg
	// Flags overrides the structural flags of Args when non-nil.
	Flags []types.Flags
	// Tied lists the candidates of an ambiguous lookup.
	Tied []string
}

// Finding is the outcome of an analysis.
type Finding struct {
	Class   Class
	Variant Variant
	// Positions are the argument indexes the fix applies to.
	Positions []int
	// Suggested is the argument list that resolves, for check classes.
	Suggested []types.Arg
	Tied      []string
	Rule      *Rule
	Analysis  Analysis
}

// Analyze classifies a failed lookup.
func Analyze(in Input, resolvable Resolvable, s Settings) Finding {
	log := s.Logger.Component("diagnose")
	flags := in.Flags
	if flags == nil {
		flags = make([]types.Flags, len(in.Args))
		for i, a := range in.Args {
			flags[i] = a.Flags()
		}
	}
	f := Finding{Analysis: AnalyzeFlags(flags)}
	args := in.Args

	try := func(check string, cand []types.Arg) bool {
		ok := resolvable(cand)
		if log.TraceEnabled() {
			log.Trace("attempt",
				slog.String("check", check),
				slog.String("args", types.List(cand)),
				slog.Bool("resolves", ok))
		}
		return ok
	}

	switch {
	case len(in.Tied) > 1 && s.allows(CodeAmbiguous):
		f.Class, f.Tied = ClassAmbiguous, in.Tied

	case s.Pointer && s.allows(CodeNeedsDereference) && f.tryMap(args, types.Deref, "deref", try):
		f.Class = ClassNeedsDereference

	case s.Const && s.allows(CodeNeedsMutable) && f.tryMap(args, types.StripConst, "strip-const", try):
		f.Class = ClassNeedsMutable

	case s.Pointer && s.Const && s.allows(CodeNeedsBoth) && f.tryMap(args, func(a types.Arg) types.Arg {
		return types.StripConst(types.Deref(a))
	}, "deref+strip-const", try):
		f.Class = ClassNeedsBoth

	case s.Order && s.allows(CodeWrongOrder) && len(args) == 2 && !args[0].Same(args[1]) && try("swap", types.Swap(args)):
		f.Class, f.Positions, f.Suggested = ClassWrongOrder, []int{0, 1}, types.Swap(args)

	case s.Arity && s.allows(CodeWrongArity) && f.tryArity(args, try):
		f.Class = ClassWrongArity

	default:
		f.classifyPattern(s, log)
	}

	log.Log(slog.LevelDebug, "classified",
		slog.String("class", f.Class.Code()),
		slog.String("variant", f.Variant.String()),
		slog.String("args", types.List(args)))
	return f
}

func (f *Finding) tryMap(args []types.Arg, fn func(types.Arg) types.Arg, name string, try func(string, []types.Arg) bool) bool {
	cand, changed := types.Map(args, fn)
	if len(changed) == 0 || !try(name, cand) {
		return false
	}
	f.Positions, f.Suggested = changed, cand
	switch {
	case len(changed) == 1:
		f.Variant = VariantSingle
	case len(changed) == len(args):
		f.Variant = VariantAll
	default:
		f.Variant = VariantMultiple
	}
	return true
}

func (f *Finding) tryArity(args []types.Arg, try func(string, []types.Arg) bool) bool {
	switch len(args) {
	case 1:
		cand := []types.Arg{args[0], args[0]}
		if try("duplicate", cand) {
			f.Positions, f.Suggested = []int{0}, cand
			return true
		}
	case 3:
		for _, start := range []int{0, 1} {
			cand := []types.Arg{args[start], args[start+1]}
			if try("pair", cand) {
				f.Positions, f.Suggested = []int{start, start + 1}, cand
				return true
			}
		}
	}
	return false
}

func (f *Finding) classifyPattern(s Settings, log *types.Logger) {
	f.Class = ClassUnclassified
	if f.Analysis.Arity == 0 {
		return
	}
	rules := append(BuiltinRules(), s.Rules...)
	for _, r := range rules {
		if !s.allows(r.Class.Code()) || (r.Class == ClassPattern && !s.allows(r.Name)) {
			continue
		}
		ok, err := r.Match(f.Analysis)
		if err != nil {
			log.Log(slog.LevelWarn, "rule failed", slog.String("rule", r.Name), slog.String("error", err.Error()))
			continue
		}
		if ok {
			f.Class, f.Rule = r.Class, r
			return
		}
	}
}
