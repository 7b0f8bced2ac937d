package cpo

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/tincup-go/tincup/internal/types"
)

// Invoke calls the implementation of D selected for the dynamic types of
// args. When no implementation accepts them nothing runs and the error is
// a *Diagnostic. Errors returned by the implementation are passed through
// unchanged.
func Invoke[D any](args ...any) (any, error) {
	t, err := tableFor[D]()
	if err != nil {
		return nil, err
	}
	descs := make([]types.Arg, len(args))
	for i, a := range args {
		descs[i] = types.OfValue(a)
	}
	log := t.config().log
	out := t.lookup(descs)
	if !out.OK() {
		d := t.diagnose(descs, out)
		log.Log(slog.LevelDebug, "lookup failed",
			slog.String("operation", t.name.String()),
			slog.String("classification", d.Code()))
		return nil, d
	}
	if log.TraceEnabled() {
		log.Trace("invoke",
			slog.String("operation", t.name.String()),
			slog.String("implementation", out.Best.String()))
	}
	in, err := out.Best.Prepare(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	return out.Best.Call(in)
}

// MustInvoke is like Invoke but panics on a failed lookup or an
// implementation error.
func MustInvoke[D any](args ...any) any {
	res, err := Invoke[D](args...)
	if err != nil {
		panic(err)
	}
	return res
}

// Call invokes D and asserts the result type. An implementation without a
// value result yields the zero R.
func Call[D, R any](args ...any) (R, error) {
	var zero R
	res, err := Invoke[D](args...)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrResultType, res, types.TypeName(reflect.TypeFor[R]()))
	}
	return r, nil
}
