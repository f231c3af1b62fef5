package evaluator

// count(xs) returns the element count of a list-valued expression.
// When the operand can report its count statically, the operand is
// never evaluated; count over a zipWith of literal lists is free.
//
// count has no CloneWith hook: rebuilding a count over different
// arguments is not supported, and the optimizer leaves it in place
// unless the operand's count is statically known.

func registerCount(r *Registry) {
	r.Register(&Function{
		Name:  "count",
		Arity: 1,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			arg, err := c.Param(0, ctx)
			if err != nil {
				return nil, err
			}
			if n, ok := countOf(arg, ctx); ok {
				return NewInteger(int64(n)), nil
			}
			v, err := arg.Evaluate(ctx)
			if err != nil {
				return nil, err
			}
			return NewInteger(int64(v.Arity())), nil
		},
		Fold: func(args []Value) (Value, error) {
			return NewInteger(int64(args[0].Arity())), nil
		},
	})
}

// countOf reports a statically known element count, consulting a call's
// Countable capability when the operand is itself a call.
func countOf(e Expression, ctx *Scope) (int, bool) {
	if n, ok := staticCount(e); ok {
		return n, true
	}
	call, ok := e.(*Call)
	if !ok {
		return 0, false
	}
	fn, ok := ctx.Registry().Lookup(call.Name)
	if !ok || fn.Countable == nil || fn.Count == nil {
		return 0, false
	}
	if !fn.Countable(call, ctx) {
		return 0, false
	}
	n, err := fn.Count(call, ctx)
	if err != nil {
		return 0, false
	}
	return n, true
}
