package diagnose

import "strings"

// Class is the classification of a failed lookup.
type Class uint8

const (
	ClassNone Class = iota
	ClassAmbiguous
	ClassNeedsDereference
	ClassNeedsMutable
	ClassNeedsBoth
	ClassWrongOrder
	ClassWrongArity
	ClassMixedReferences
	ClassAllRValue
	ClassPattern
	ClassUnclassified
)

// Classification codes, as printed in diagnostics and accepted by
// configuration filters.
const (
	CodeAmbiguous        = "ambiguous"
	CodeNeedsDereference = "needs-dereference"
	CodeNeedsMutable     = "needs-mutable"
	CodeNeedsBoth        = "needs-both"
	CodeWrongOrder       = "wrong-argument-order"
	CodeWrongArity       = "wrong-arity"
	CodeMixedReferences  = "mixed-reference-categories"
	CodeAllRValue        = "all-rvalue"
	CodePattern          = "pattern"
	CodeUnclassified     = "unclassified"
)

// Check categories, the unit of enabling and disabling checks.
const (
	CategoryLookup  = "lookup"
	CategoryPointer = "pointer"
	CategoryConst   = "const"
	CategoryOrder   = "order"
	CategoryArity   = "arity"
	CategoryPattern = "pattern"
)

var classCodes = [...]string{
	ClassNone:             "none",
	ClassAmbiguous:        CodeAmbiguous,
	ClassNeedsDereference: CodeNeedsDereference,
	ClassNeedsMutable:     CodeNeedsMutable,
	ClassNeedsBoth:        CodeNeedsBoth,
	ClassWrongOrder:       CodeWrongOrder,
	ClassWrongArity:       CodeWrongArity,
	ClassMixedReferences:  CodeMixedReferences,
	ClassAllRValue:        CodeAllRValue,
	ClassPattern:          CodePattern,
	ClassUnclassified:     CodeUnclassified,
}

// Code returns the classification code.
func (c Class) Code() string {
	if int(c) < len(classCodes) {
		return classCodes[c]
	}
	return "unknown"
}

func (c Class) String() string { return c.Code() }

// ParseClass returns the class with the given code.
func ParseClass(code string) (Class, bool) {
	for i, s := range classCodes {
		if s == code && i != int(ClassNone) {
			return Class(i), true
		}
	}
	return ClassNone, false
}

// CodeInfo describes a classification code.
type CodeInfo struct {
	Code     string
	Class    Class
	Category string
	Summary  string
	Example  string
}

// AllCodes returns every classification in decision order.
func AllCodes() []CodeInfo {
	return []CodeInfo{
		{CodeAmbiguous, ClassAmbiguous, CategoryLookup,
			"several implementations match equally well",
			"two implementations take (int, any) and (any, int); the call passes (int, int)"},
		{CodeNeedsDereference, ClassNeedsDereference, CategoryPointer,
			"an implementation exists for the dereferenced arguments",
			"calling with *T where only T is implemented"},
		{CodeNeedsMutable, ClassNeedsMutable, CategoryConst,
			"an implementation exists for non-const arguments",
			"passing Const[T] where Ref[T] is required"},
		{CodeNeedsBoth, ClassNeedsBoth, CategoryConst,
			"an implementation exists after dereferencing and removing const",
			"passing *Const[T] where Ref[T] is required"},
		{CodeWrongOrder, ClassWrongOrder, CategoryOrder,
			"an implementation exists with the two arguments swapped",
			"calling (U, T) where (T, U) is implemented"},
		{CodeWrongArity, ClassWrongArity, CategoryArity,
			"an implementation exists for a two-argument call",
			"calling with one argument where (T, T) is implemented"},
		{CodeMixedReferences, ClassMixedReferences, CategoryPattern,
			"arguments mix Ref and Moved categories",
			"passing (Ref[T], Moved[U])"},
		{CodeAllRValue, ClassAllRValue, CategoryPattern,
			"every argument is Moved",
			"passing Moved[T] where Ref[T] is required"},
		{CodePattern, ClassPattern, CategoryPattern,
			"a configured rule matched the argument structure",
			"rule all-const: arity > 0 && const_count == arity"},
		{CodeUnclassified, ClassUnclassified, CategoryPattern,
			"no check explains the failure",
			"calling with float64 where only int and string are implemented"},
	}
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
