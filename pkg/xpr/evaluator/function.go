package evaluator

import (
	"sort"
	"sync"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
)

// Function describes a builtin. Only Name, Arity and Eval are required;
// the remaining hooks add optional capabilities used by the optimizer
// and by elementwise application.
type Function struct {
	Name string

	// Arity is the declared argument count; -1 means variadic.
	Arity int

	// Eval applies the function to a call node.
	Eval func(c *Call, ctx *Scope) (Value, error)

	// CloneWith rebuilds a call of this function over new arguments.
	// Nil means the function cannot be reconstructed that way.
	CloneWith func(args ...Expression) Expression

	// Countable and Count let a call report a static element count
	// without evaluating. Nil means not statically countable.
	Countable func(c *Call, ctx *Scope) bool
	Count     func(c *Call, ctx *Scope) (int, error)

	// Fold reduces a call with all-Value arguments to a single Value
	// at optimization time. Nil means no constant folding.
	Fold func(args []Value) (Value, error)
}

// CloneWithArgs rebuilds a call over new arguments, or reports
// NotImplemented when the function has no CloneWith hook.
func (f *Function) CloneWithArgs(args ...Expression) (Expression, error) {
	if f.CloneWith == nil {
		return nil, errors.New("NOTIMP-0001", map[string]any{
			"Op": "cloneWith", "Node": f.Name,
		})
	}
	return f.CloneWith(args...), nil
}

// Registry is a name-to-function table. Registration happens at setup
// time; lookups during evaluation are read-only, so concurrent
// evaluations may share a registry.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*Function
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Function)}
}

// Register adds or replaces a function. Re-registering a name installs
// the new definition.
func (r *Registry) Register(fn *Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[fn.Name] = fn
}

func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry, so a caller can
// extend the builtin set without affecting other interpreters.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for name, fn := range r.funcs {
		out.funcs[name] = fn
	}
	return out
}

var (
	builtinsOnce sync.Once
	builtins     *Registry
)

// Builtins returns the shared registry of standard functions.
func Builtins() *Registry {
	builtinsOnce.Do(func() {
		builtins = NewRegistry()
		registerMathBuiltins(builtins)
		registerZipWith(builtins)
		registerCount(builtins)
	})
	return builtins
}
