package evaluator

import (
	"github.com/fmahebert/eckit/pkg/xpr/errors"
)

// zipWith(f, xs, ys) applies f to corresponding elements of two
// equal-length lists. Each elementwise application runs in its own
// frame, so the outer queue never leaks into f's placeholders.

func registerZipWith(r *Registry) {
	r.Register(&Function{
		Name:  "zipWith",
		Arity: 3,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			fexpr, err := c.Param(0, ctx)
			if err != nil {
				return nil, err
			}
			left, err := listArg(c, 1, ctx)
			if err != nil {
				return nil, err
			}
			right, err := listArg(c, 2, ctx)
			if err != nil {
				return nil, err
			}
			if len(left.Elements) != len(right.Elements) {
				return nil, errors.New("LEN-0001", map[string]any{
					"Left": len(left.Elements), "Right": len(right.Elements),
				})
			}
			apply, err := applier(fexpr, ctx)
			if err != nil {
				return nil, err
			}
			out := make([]Value, len(left.Elements))
			for i := range left.Elements {
				v, err := apply(left.Elements[i], right.Elements[i])
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return &List{Elements: out}, nil
		},
		CloneWith: cloneAs("zipWith"),
		Countable: func(c *Call, ctx *Scope) bool {
			_, lok := staticCount(c.Args[1])
			_, rok := staticCount(c.Args[2])
			return lok && rok
		},
		Count: func(c *Call, ctx *Scope) (int, error) {
			l, _ := staticCount(c.Args[1])
			r, _ := staticCount(c.Args[2])
			if l != r {
				return 0, errors.New("LEN-0001", map[string]any{"Left": l, "Right": r})
			}
			return l, nil
		},
	})
}

// applier turns a function-position expression into a binary application.
func applier(f Expression, ctx *Scope) (func(a, b Value) (Value, error), error) {
	switch fn := f.(type) {
	case *Ident:
		if lam, ok := ctx.LookupFunc(fn.Name); ok {
			return func(a, b Value) (Value, error) {
				return callLambda(lam, []Value{a, b}, ctx)
			}, nil
		}
		if _, ok := ctx.Registry().Lookup(fn.Name); ok {
			return func(a, b Value) (Value, error) {
				call := NewCall(fn.Name, NewUndef(), NewUndef())
				return ctx.Apply(call, a, b)
			}, nil
		}
		return nil, errors.NewUnknownFunction(fn.Name, ctx.Registry().Names())
	case *Call:
		// A call tree with placeholders acts as the function body.
		return func(a, b Value) (Value, error) {
			return ctx.Apply(fn.Clone(), a, b)
		}, nil
	}
	return nil, errors.New("TYPE-0003", map[string]any{
		"Function": "zipWith", "Got": f.String(),
	})
}

// staticCount reports an element count visible without evaluation.
func staticCount(e Expression) (int, bool) {
	switch n := e.(type) {
	case *List:
		return len(n.Elements), true
	case *ListExpr:
		return len(n.Elements), true
	}
	return 0, false
}
