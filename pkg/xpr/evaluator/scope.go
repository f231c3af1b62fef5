package evaluator

// Scope carries everything an evaluation needs: named bindings, user
// function definitions, the placeholder queue, the builtin registry,
// native tables, and the logger.
//
// Bindings nest: Child creates a scope whose lookups fall through to
// the parent but whose definitions stay local. The queue is shared
// between a scope and its children, because placeholder substitution
// follows evaluation order, not lexical nesting. Frame creates a scope
// with its own empty queue for independent sub-evaluations.
type Scope struct {
	bindings map[string]Value
	funcs    map[string]*Lambda
	queue    *[]Value
	registry *Registry
	natives  *NativeTable
	logger   Logger
	outer    *Scope
}

func NewScope() *Scope {
	q := make([]Value, 0, 4)
	return &Scope{
		bindings: make(map[string]Value),
		funcs:    make(map[string]*Lambda),
		queue:    &q,
		registry: Builtins(),
		natives:  NewNativeTable(),
		logger:   DefaultLogger,
	}
}

// Child returns a nested scope sharing the queue, registry, natives
// and logger with its parent.
func (s *Scope) Child() *Scope {
	return &Scope{
		bindings: make(map[string]Value),
		funcs:    make(map[string]*Lambda),
		queue:    s.queue,
		registry: s.registry,
		natives:  s.natives,
		logger:   s.logger,
		outer:    s,
	}
}

// Frame returns a nested scope with a fresh, empty queue. Used for
// elementwise application, where each call gets its own arguments.
func (s *Scope) Frame() *Scope {
	f := s.Child()
	q := make([]Value, 0, 4)
	f.queue = &q
	return f
}

// Push appends a value to the back of the placeholder queue.
func (s *Scope) Push(v Value) {
	*s.queue = append(*s.queue, v)
}

// PopFront removes and returns the value at the front of the queue.
func (s *Scope) PopFront() (Value, bool) {
	q := *s.queue
	if len(q) == 0 {
		return nil, false
	}
	v := q[0]
	*s.queue = q[1:]
	return v, true
}

func (s *Scope) QueueLen() int {
	return len(*s.queue)
}

func (s *Scope) QueueEmpty() bool {
	return len(*s.queue) == 0
}

// Define binds a name to a value in this scope.
func (s *Scope) Define(name string, v Value) {
	s.bindings[name] = v
}

// Lookup resolves a name, walking outward through enclosing scopes.
func (s *Scope) Lookup(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if v, ok := sc.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// DefineFunc binds a user function definition in this scope.
func (s *Scope) DefineFunc(name string, lam *Lambda) {
	s.funcs[name] = lam
}

// LookupFunc resolves a user function, walking outward.
func (s *Scope) LookupFunc(name string) (*Lambda, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if lam, ok := sc.funcs[name]; ok {
			return lam, true
		}
	}
	return nil, false
}

func (s *Scope) Registry() *Registry {
	return s.registry
}

func (s *Scope) SetRegistry(r *Registry) {
	s.registry = r
}

func (s *Scope) Natives() *NativeTable {
	return s.natives
}

func (s *Scope) SetNatives(t *NativeTable) {
	s.natives = t
}

func (s *Scope) Logger() Logger {
	return s.logger
}

func (s *Scope) SetLogger(l Logger) {
	if l == nil {
		l = DefaultLogger
	}
	s.logger = l
}

// Apply evaluates an expression in a fresh frame with args queued, and
// verifies the frame's queue was drained.
func (s *Scope) Apply(e Expression, args ...Value) (Value, error) {
	f := s.Frame()
	for _, a := range args {
		f.Push(a)
	}
	return EvalIn(f, e)
}
