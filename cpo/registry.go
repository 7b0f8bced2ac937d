package cpo

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tincup-go/tincup/internal/resolver"
	"github.com/tincup-go/tincup/internal/types"
)

// Registry maps (operation, target type) to an implementation supplied by
// a third party. It is how a package extends an operation for a type it
// does not own.
//
// Registries are read-mostly: lookups are lock-free, writers copy the
// entry map.
type Registry struct {
	mu      sync.Mutex
	entries atomic.Pointer[map[registryKey]*resolver.Candidate]
}

type registryKey struct {
	op, target reflect.Type
}

// Entry is a single association in a Registry snapshot.
type Entry struct {
	Operation reflect.Type
	Name      Name
	Target    reflect.Type
	Signature string
}

// DefaultRegistry is used by operations that do not name their own
// registry.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	m := map[registryKey]*resolver.Candidate{}
	r.entries.Store(&m)
	return r
}

func (r *Registry) load() map[registryKey]*resolver.Candidate {
	return *r.entries.Load()
}

// Register installs fn as the implementation of op for target. The first
// parameter of fn must take the target type (optionally wrapped in Const,
// Ref or Moved).
func (r *Registry) Register(op Tag, target reflect.Type, fn any) error {
	opType := reflect.TypeOf(op)
	if err := validateOperation(opType); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: %s: nil target type", ErrInvalidImplementation, op.Name())
	}
	label := "registry[" + op.Name().String() + ", " + types.TypeName(target) + "]"
	c, err := resolver.NewCandidate(reflect.ValueOf(fn), resolver.SourceRegistry, label)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImplementation, err)
	}
	if len(c.Params) == 0 || c.Params[0].Core != target {
		return fmt.Errorf("%w: %s: first parameter must take %s, got %s",
			ErrInvalidImplementation, label, types.TypeName(target), c.Signature())
	}
	c.Key = "registry:" + opType.String() + ":" + target.String()

	key := registryKey{op: opType, target: target}
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.load()
	if _, ok := old[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, label)
	}
	next := make(map[registryKey]*resolver.Candidate, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = c
	r.entries.Store(&next)

	logger("registry").Log(slog.LevelDebug, "registered",
		slog.String("operation", op.Name().String()),
		slog.String("target", types.TypeName(target)),
		slog.String("signature", c.Signature()))
	return nil
}

// Unregister removes the entry for (op, target) and reports whether one
// existed.
func (r *Registry) Unregister(op Tag, target reflect.Type) bool {
	key := registryKey{op: reflect.TypeOf(op), target: target}
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.load()
	if _, ok := old[key]; !ok {
		return false
	}
	next := make(map[registryKey]*resolver.Candidate, len(old))
	for k, v := range old {
		if k != key {
			next[k] = v
		}
	}
	r.entries.Store(&next)
	return true
}

func (r *Registry) candidate(op, target reflect.Type) (*resolver.Candidate, bool) {
	c, ok := r.load()[registryKey{op: op, target: target}]
	return c, ok
}

// HasImpl reports whether an entry for (op, target) exists and accepts a
// mutable target followed by args. A missing entry is not an error.
func (r *Registry) HasImpl(op Tag, target reflect.Type, args ...reflect.Type) bool {
	c, ok := r.candidate(reflect.TypeOf(op), target)
	if !ok {
		return false
	}
	descs := make([]types.Arg, 0, len(args)+1)
	descs = append(descs, types.Arg{Core: target, Category: types.LValue})
	descs = append(descs, ArgTypesOf(args...)...)
	_, ok = c.Match(descs)
	return ok
}

// Lookup returns the entry for (op, target).
func (r *Registry) Lookup(op Tag, target reflect.Type) (Entry, bool) {
	c, ok := r.candidate(reflect.TypeOf(op), target)
	if !ok {
		return Entry{}, false
	}
	return Entry{Operation: reflect.TypeOf(op), Name: op.Name(), Target: target, Signature: c.Signature()}, true
}

// Entries returns a snapshot ordered by operation name and target.
func (r *Registry) Entries() []Entry {
	m := r.load()
	out := make([]Entry, 0, len(m))
	for k, c := range m {
		tag, _ := reflect.Zero(k.op).Interface().(Tag)
		out = append(out, Entry{Operation: k.op, Name: tag.Name(), Target: k.target, Signature: c.Signature()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name.String() < out[j].Name.String()
		}
		return out[i].Target.String() < out[j].Target.String()
	})
	return out
}

// Count returns the number of entries.
func (r *Registry) Count() int { return len(r.load()) }

// Reset removes every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := map[registryKey]*resolver.Candidate{}
	r.entries.Store(&m)
}

// RegisterFor installs fn as the implementation of operation D for target
// type T in the registry D uses.
func RegisterFor[D Tag, T any](fn any) error {
	var op D
	return registryOf(op).Register(op, reflect.TypeFor[T](), fn)
}

// UnregisterFor removes the entry installed by RegisterFor.
func UnregisterFor[D Tag, T any]() bool {
	var op D
	return registryOf(op).Unregister(op, reflect.TypeFor[T]())
}

// HasImpl reports whether operation D has a registry entry for T that
// accepts args after the target.
func HasImpl[D Tag, T any](args ...reflect.Type) bool {
	var op D
	return registryOf(op).HasImpl(op, reflect.TypeFor[T](), args...)
}

func registryOf(op Tag) *Registry {
	if rt, ok := op.(interface{ ExtensionRegistry() *Registry }); ok {
		if r := rt.ExtensionRegistry(); r != nil {
			return r
		}
	}
	return DefaultRegistry
}
