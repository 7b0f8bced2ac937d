package types

import "reflect"

// Rank orders how well an argument binds to a parameter. Lower is better.
type Rank uint8

const (
	RankExact Rank = iota
	RankQualification
	RankInterface
	RankAny
	RankVariadic
)

func (r Rank) String() string {
	switch r {
	case RankExact:
		return "exact"
	case RankQualification:
		return "qualification"
	case RankInterface:
		return "interface"
	case RankAny:
		return "any"
	case RankVariadic:
		return "variadic"
	default:
		return "unknown"
	}
}

// Bind reports whether arg binds to param and with which rank.
//
//	param            accepts                              rank
//	T                anything with a matching core         exact
//	Const[T]         anything with a matching core         exact if const, else qualification
//	Ref[T]           non-const Ref[T] arguments only       exact
//	Ref[Const[T]]    anything with a matching core         exact if const Ref, else qualification
//	Moved[T]         non-const plain or Moved arguments    exact
func Bind(param, arg Arg) (Rank, bool) {
	rank, ok := bindCore(param.Core, arg.Core)
	if !ok {
		return 0, false
	}
	var q Rank
	switch param.Category {
	case LValue:
		if !param.Const {
			// Writes must reach the caller's variable, so the types match
			// exactly.
			if arg.Category != LValue || arg.Const || arg.Core != param.Core {
				return 0, false
			}
		} else if arg.Category != LValue || !arg.Const {
			q = RankQualification
		}
	case RValue:
		if arg.Category == LValue || (arg.Const && !param.Const) {
			return 0, false
		}
	default:
		if param.Const && !arg.Const {
			q = RankQualification
		}
	}
	return max(rank, q), true
}

func bindCore(param, arg reflect.Type) (Rank, bool) {
	if param == nil {
		return 0, false
	}
	if arg == nil {
		if nilable(param) {
			return RankInterface, true
		}
		return 0, false
	}
	if param == arg {
		return RankExact, true
	}
	if param.Kind() == reflect.Interface && arg.Implements(param) {
		if param.NumMethod() == 0 {
			return RankAny, true
		}
		return RankInterface, true
	}
	return 0, false
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
