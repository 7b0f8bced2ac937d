package diagnose

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrRule is returned for rules that fail to compile or evaluate.
var ErrRule = errors.New("invalid diagnostic rule")

// Rule is a structural pattern evaluated when no check classified a
// failure. When is an expr-lang boolean expression over the analysis
// counters (see Analysis.Env).
type Rule struct {
	Name    string
	When    string
	Message string
	Class   Class

	program *vm.Program
}

// ruleEnv declares the expression environment at compile time.
var ruleEnv = Analysis{}.Env()

// NewRule compiles a custom rule. Matching custom rules classify as
// ClassPattern.
func NewRule(name, when, message string) (*Rule, error) {
	return compileRule(name, when, message, ClassPattern)
}

func compileRule(name, when, message string, class Class) (*Rule, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrRule)
	}
	program, err := expr.Compile(when, expr.Env(ruleEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrRule, name, err)
	}
	return &Rule{Name: name, When: when, Message: message, Class: class, program: program}, nil
}

// Match evaluates the rule against a.
func (r *Rule) Match(a Analysis) (bool, error) {
	out, err := expr.Run(r.program, a.Env())
	if err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrRule, r.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

var builtinRules = func() []*Rule {
	must := func(r *Rule, err error) *Rule {
		if err != nil {
			panic(err)
		}
		return r
	}
	return []*Rule{
		must(compileRule(CodeMixedReferences,
			"lvalue_count > 0 && rvalue_count > 0",
			"arguments mix Ref and Moved categories; pass them consistently",
			ClassMixedReferences)),
		must(compileRule(CodeAllRValue,
			"arity > 0 && rvalue_count == arity",
			"every argument is Moved; the operation may expect references or stored values",
			ClassAllRValue)),
	}
}()

// BuiltinRules returns the rules evaluated before any configured rule.
func BuiltinRules() []*Rule {
	return append([]*Rule(nil), builtinRules...)
}
