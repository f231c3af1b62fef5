package evaluator

// Optimize rewrites an expression tree by constant folding. The input
// tree is never mutated: subtrees are copied only when they change, and
// unchanged subtrees are shared with the input. Optimizing an already
// optimized tree returns it unchanged, so the pass is idempotent.
//
// Folding is semantics-preserving only: a call folds when its function
// has a Fold hook, every argument is a concrete value, and the call
// carries no attributes. Placeholders block folding, so partially
// bound trees keep their holes. A name defined by a FunctionDef in the
// tree, or already defined in the evaluation scope, never folds, since
// the user definition shadows the builtin at evaluation time.
func Optimize(e Expression, reg *Registry) (Expression, error) {
	return OptimizeIn(nil, e, reg)
}

// OptimizeIn optimizes against an evaluation scope, so user functions
// defined by earlier programs in the same context keep shadowing the
// builtins they name.
func OptimizeIn(ctx *Scope, e Expression, reg *Registry) (Expression, error) {
	if reg == nil {
		reg = Builtins()
	}
	env := &foldEnv{reg: reg, ctx: ctx, defined: map[string]bool{}}
	collectDefs(e, env.defined)
	out, _, err := env.optimize(e)
	return out, err
}

// foldEnv carries what a folding decision needs: the registry, the
// evaluation scope (may be nil), and the names user definitions in the
// tree will bind.
type foldEnv struct {
	reg     *Registry
	ctx     *Scope
	defined map[string]bool
}

// shadowed reports whether a user definition will resolve the name
// ahead of the registry.
func (env *foldEnv) shadowed(name string) bool {
	if env.defined[name] {
		return true
	}
	if env.ctx != nil {
		if _, ok := env.ctx.LookupFunc(name); ok {
			return true
		}
	}
	return false
}

// collectDefs records every FunctionDef name in the tree. A definition
// anywhere blocks folding of that name everywhere: definitions at one
// step bind for all later steps of a program.
func collectDefs(e Expression, defs map[string]bool) {
	switch n := e.(type) {
	case *FunctionDef:
		defs[n.Name] = true
		collectDefs(n.Body, defs)
	case *Call:
		for _, a := range n.Args {
			collectDefs(a, defs)
		}
	case *ListExpr:
		for _, el := range n.Elements {
			collectDefs(el, defs)
		}
	case *Sequence:
		for _, st := range n.Steps {
			collectDefs(st, defs)
		}
	case *Let:
		collectDefs(n.Value, defs)
		collectDefs(n.Body, defs)
	case *NativeCall:
		for _, a := range n.Args {
			collectDefs(a, defs)
		}
	}
}

func (env *foldEnv) optimize(e Expression) (Expression, bool, error) {
	switch n := e.(type) {
	case *Call:
		return env.optimizeCall(n)

	case *ListExpr:
		elements := make([]Expression, len(n.Elements))
		changed := false
		allValues := true
		for i, el := range n.Elements {
			opt, ch, err := env.optimize(el)
			if err != nil {
				return nil, false, err
			}
			elements[i] = opt
			changed = changed || ch
			if !isConcreteValue(opt) {
				allValues = false
			}
		}
		if allValues {
			values := make([]Value, len(elements))
			for i, el := range elements {
				values[i] = el.(Value)
			}
			return &List{Elements: values}, true, nil
		}
		if !changed {
			return n, false, nil
		}
		return &ListExpr{Elements: elements}, true, nil

	case *Sequence:
		steps := make([]Expression, len(n.Steps))
		changed := false
		for i, st := range n.Steps {
			opt, ch, err := env.optimize(st)
			if err != nil {
				return nil, false, err
			}
			steps[i] = opt
			changed = changed || ch
		}
		if !changed {
			return n, false, nil
		}
		return &Sequence{Steps: steps}, true, nil

	case *Let:
		value, vch, err := env.optimize(n.Value)
		if err != nil {
			return nil, false, err
		}
		body, bch, err := env.optimize(n.Body)
		if err != nil {
			return nil, false, err
		}
		if !vch && !bch {
			return n, false, nil
		}
		return &Let{Name: n.Name, Value: value, Body: body}, true, nil

	case *FunctionDef:
		body, ch, err := env.optimize(n.Body)
		if err != nil {
			return nil, false, err
		}
		if !ch {
			return n, false, nil
		}
		return &FunctionDef{Name: n.Name, Params: n.Params, Body: body}, true, nil

	case *NativeCall:
		// Native calls reach external state; never fold them.
		args := make([]Expression, len(n.Args))
		changed := false
		for i, a := range n.Args {
			opt, ch, err := env.optimize(a)
			if err != nil {
				return nil, false, err
			}
			args[i] = opt
			changed = changed || ch
		}
		if !changed {
			return n, false, nil
		}
		out := &NativeCall{Receiver: n.Receiver, Name: n.Name, Args: args}
		if n.Attrs != nil {
			out.Attrs = n.Attrs.Clone()
		}
		return out, true, nil
	}

	return e, false, nil
}

func (env *foldEnv) optimizeCall(c *Call) (Expression, bool, error) {
	args := make([]Expression, len(c.Args))
	changed := false
	allValues := true
	for i, a := range c.Args {
		opt, ch, err := env.optimize(a)
		if err != nil {
			return nil, false, err
		}
		args[i] = opt
		changed = changed || ch
		if !isConcreteValue(opt) {
			allValues = false
		}
	}

	fn, known := env.reg.Lookup(c.Name)
	hasAttrs := c.Attrs != nil && c.Attrs.Len() > 0
	if known && !env.shadowed(c.Name) && fn.Fold != nil && allValues && !hasAttrs &&
		(fn.Arity < 0 || len(args) == fn.Arity) {
		values := make([]Value, len(args))
		for i, a := range args {
			values[i] = a.(Value)
		}
		folded, err := fn.Fold(values)
		if err != nil {
			// A fold failure is an evaluation failure deferred; keep
			// the call so the error surfaces at evaluation time.
			return rebuildCall(c, args, changed), changed, nil
		}
		return folded, true, nil
	}

	return rebuildCall(c, args, changed), changed, nil
}

func rebuildCall(c *Call, args []Expression, changed bool) Expression {
	if !changed {
		return c
	}
	out := &Call{Name: c.Name, Args: args}
	if c.Attrs != nil {
		out.Attrs = c.Attrs.Clone()
	}
	return out
}

// isConcreteValue reports whether e is a value that folding may consume.
// Placeholders are Values but stand for unknown inputs.
func isConcreteValue(e Expression) bool {
	v, ok := e.(Value)
	if !ok {
		return false
	}
	return v.Kind() != UNDEF_VAL
}
