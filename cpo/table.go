package cpo

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tincup-go/tincup/internal/diagnose"
	"github.com/tincup-go/tincup/internal/resolver"
	"github.com/tincup-go/tincup/internal/typelist"
	"github.com/tincup-go/tincup/internal/types"
)

var tagType = reflect.TypeFor[Tag]()

// table is the per-operation state: the operation-scope implementations
// and the configuration derived from the process-wide settings.
type table struct {
	op       reflect.Type
	tag      Tag
	name     Name
	method   string
	variadic bool
	classify func([]ArgType) []Flags
	registry *Registry
	// own is the operation's Diagnostics hook result; it overrides the
	// process-wide configuration.
	own *DiagnosticConfig

	mu      sync.Mutex
	impls   atomic.Pointer[[]*resolver.Candidate]
	methods sync.Map // reflect.Type -> *resolver.Candidate (nil: none)
	conf    atomic.Pointer[tableConfig]
}

// tableConfig is derived from the process-wide configuration at a given
// generation and rebuilt when SetDiagnosticConfig or SetLogger moves it.
type tableConfig struct {
	gen      uint64
	diag     DiagnosticConfig
	settings diagnose.Settings
	log      *types.Logger
}

// config returns the table's configuration, rebuilding it when the
// process-wide configuration changed since it was derived.
func (t *table) config() *tableConfig {
	gen := global.gen.Load()
	if c := t.conf.Load(); c != nil && c.gen == gen {
		return c
	}
	c := &tableConfig{gen: gen, diag: CurrentDiagnosticConfig(), log: logger("lookup")}
	if t.own != nil {
		c.diag = *t.own
	}
	c.settings = c.diag.settings(logger("diagnose"))
	t.conf.Store(c)
	return c
}

// tables maps operation types to their *table.
var tables sync.Map

func validateOperation(op reflect.Type) error {
	if op == nil {
		return fmt.Errorf("%w: nil type", ErrNotOperation)
	}
	if op.Kind() != reflect.Struct || op.Size() != 0 {
		return fmt.Errorf("%w: %s must be a zero-size struct", ErrNotOperation, op)
	}
	if !op.Implements(tagType) {
		return fmt.Errorf("%w: %s has no Name method", ErrNotOperation, op)
	}
	return nil
}

func tableFor[D any]() (*table, error) {
	return tableOf(reflect.TypeFor[D]())
}

func tableOf(op reflect.Type) (*table, error) {
	if t, ok := tables.Load(op); ok {
		return t.(*table), nil
	}
	t, err := newTable(op)
	if err != nil {
		return nil, err
	}
	actual, _ := tables.LoadOrStore(op, t)
	return actual.(*table), nil
}

func newTable(op reflect.Type) (*table, error) {
	if err := validateOperation(op); err != nil {
		return nil, err
	}
	tag := reflect.Zero(op).Interface().(Tag)
	name := tag.Name()
	if name.IsZero() {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotOperation, op, ErrInvalidName)
	}

	t := &table{
		op:       op,
		tag:      tag,
		name:     name,
		method:   name.MethodName(),
		registry: registryOf(tag),
	}
	if h, ok := tag.(interface{ MethodName() string }); ok {
		t.method = h.MethodName()
	}
	if h, ok := tag.(interface{ Variadic() bool }); ok {
		t.variadic = h.Variadic()
	}
	if h, ok := tag.(interface{ ClassifyArgs([]ArgType) []Flags }); ok {
		t.classify = h.ClassifyArgs
	}
	if h, ok := tag.(interface{ Diagnostics() DiagnosticConfig }); ok {
		d := h.Diagnostics()
		t.own = &d
	}
	empty := []*resolver.Candidate{}
	t.impls.Store(&empty)

	c := t.config()
	c.log.Log(slog.LevelDebug, "operation created",
		slog.String("operation", name.String()),
		slog.String("method", t.method),
		slog.Int("diagnostic_level", c.diag.Level))
	return t, nil
}

func (t *table) add(c *resolver.Candidate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := *t.impls.Load()
	next := make([]*resolver.Candidate, len(old), len(old)+1)
	copy(next, old)
	next = append(next, c)
	t.impls.Store(&next)
}

// methodCandidate returns the method of core named after the operation.
// Methods are taken as method expressions: the receiver is parameter 0.
func (t *table) methodCandidate(core reflect.Type) *resolver.Candidate {
	if v, ok := t.methods.Load(core); ok {
		c, _ := v.(*resolver.Candidate)
		return c
	}
	var c *resolver.Candidate
	if core.Kind() != reflect.Interface {
		if m, ok := core.MethodByName(t.method); ok {
			label := types.TypeName(core) + "." + m.Name
			mc, err := resolver.NewCandidate(m.Func, resolver.SourceMethod, label)
			if err != nil {
				t.config().log.Log(slog.LevelDebug, "method ignored",
					slog.String("method", label),
					slog.String("error", err.Error()))
			} else {
				mc.Key = "method:" + core.String() + "." + m.Name
				c = mc
			}
		}
	}
	t.methods.Store(core, c)
	return c
}

// candidates gathers the implementations visible for args: the operation
// scope, then methods of the argument types, then registry entries for the
// argument types.
func (t *table) candidates(args []types.Arg) []*resolver.Candidate {
	out := append([]*resolver.Candidate(nil), *t.impls.Load()...)
	all := make([]reflect.Type, 0, len(args))
	for _, a := range args {
		if a.Core != nil {
			all = append(all, a.Core)
		}
	}
	cores := typelist.Unique(all...)
	for i := range cores.Len() {
		if c := t.methodCandidate(cores.At(i)); c != nil {
			out = append(out, c)
		}
	}
	for i := range cores.Len() {
		if c, ok := t.registry.candidate(t.op, cores.At(i)); ok {
			out = append(out, c)
		}
	}
	return resolver.Unique(out)
}

func (t *table) lookup(args []types.Arg) resolver.Outcome {
	return resolver.Resolve(t.candidates(args), args, t.config().log)
}

func (t *table) flags(args []types.Arg) []Flags {
	if t.classify != nil {
		if f := t.classify(args); len(f) == len(args) {
			return f
		}
	}
	f := make([]Flags, len(args))
	for i, a := range args {
		f[i] = a.Flags()
	}
	return f
}

// Operations returns the names of every operation used so far, sorted.
func Operations() []Name {
	var out []Name
	tables.Range(func(_, v any) bool {
		out = append(out, v.(*table).name)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// HasOperation reports whether an operation with the given name has been
// used.
func HasOperation(name string) bool {
	found := false
	tables.Range(func(_, v any) bool {
		found = v.(*table).name.String() == name
		return !found
	})
	return found
}
