package evaluator

import (
	"math"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
)

// Arithmetic follows the usual promotion rule: Integer op Integer
// yields Integer, any Real operand promotes the result to Real.

func registerMathBuiltins(r *Registry) {
	for _, def := range []struct {
		name    string
		intOp   func(a, b int64) int64
		floatOp func(a, b float64) float64
	}{
		{"add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }},
		{"sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }},
		{"mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }},
		{"min", minInt64, math.Min},
		{"max", maxInt64, math.Max},
	} {
		r.Register(binaryNumeric(def.name, def.intOp, def.floatOp))
	}

	r.Register(&Function{
		Name:  "div",
		Arity: 2,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			a, b, err := twoNumeric(c, ctx)
			if err != nil {
				return nil, err
			}
			return divide(a, b)
		},
		CloneWith: cloneAs("div"),
		Fold: func(args []Value) (Value, error) {
			return divide(args[0], args[1])
		},
	})

	r.Register(&Function{
		Name:  "neg",
		Arity: 1,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			v, err := c.Value(0, ctx)
			if err != nil {
				return nil, err
			}
			return negate(c.Name, v)
		},
		CloneWith: cloneAs("neg"),
		Fold: func(args []Value) (Value, error) {
			return negate("neg", args[0])
		},
	})

	r.Register(&Function{
		Name:  "sum",
		Arity: 1,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			list, err := listArg(c, 0, ctx)
			if err != nil {
				return nil, err
			}
			return sumOf(list)
		},
		CloneWith: cloneAs("sum"),
		Fold: func(args []Value) (Value, error) {
			list, ok := args[0].(*List)
			if !ok {
				return nil, typeError("sum", 0, "a list", args[0])
			}
			return sumOf(list)
		},
	})

	r.Register(&Function{
		Name:  "mean",
		Arity: 1,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			list, err := listArg(c, 0, ctx)
			if err != nil {
				return nil, err
			}
			return meanOf(list)
		},
		CloneWith: cloneAs("mean"),
		Fold: func(args []Value) (Value, error) {
			list, ok := args[0].(*List)
			if !ok {
				return nil, typeError("mean", 0, "a list", args[0])
			}
			return meanOf(list)
		},
	})
}

// Combinator constructors, so trees can be built directly in Go.

func Add(a, b Expression) *Call  { return NewCall("add", a, b) }
func Sub(a, b Expression) *Call  { return NewCall("sub", a, b) }
func Mul(a, b Expression) *Call  { return NewCall("mul", a, b) }
func Div(a, b Expression) *Call  { return NewCall("div", a, b) }
func Min(a, b Expression) *Call  { return NewCall("min", a, b) }
func Max(a, b Expression) *Call  { return NewCall("max", a, b) }
func Neg(a Expression) *Call     { return NewCall("neg", a) }
func Sum(a Expression) *Call     { return NewCall("sum", a) }
func Mean(a Expression) *Call    { return NewCall("mean", a) }
func Count(a Expression) *Call   { return NewCall("count", a) }
func ZipWith(f, a, b Expression) *Call {
	return NewCall("zipWith", f, a, b)
}

// binaryNumeric builds a two-argument arithmetic function. The integer
// case stays in int64 so results beyond float64's 53-bit mantissa keep
// their precision.
func binaryNumeric(name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) *Function {
	apply := func(a, b Value) (Value, error) {
		if bothIntegers(a, b) {
			return NewInteger(intOp(a.(*Integer).Value, b.(*Integer).Value)), nil
		}
		av, aok := numericOf(a)
		bv, bok := numericOf(b)
		if !aok {
			return nil, typeError(name, 0, "a number", a)
		}
		if !bok {
			return nil, typeError(name, 1, "a number", b)
		}
		return NewReal(floatOp(av, bv)), nil
	}
	return &Function{
		Name:  name,
		Arity: 2,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			a, b, err := twoNumeric(c, ctx)
			if err != nil {
				return nil, err
			}
			return apply(a, b)
		},
		CloneWith: cloneAs(name),
		Fold: func(args []Value) (Value, error) {
			return apply(args[0], args[1])
		},
	}
}

func cloneAs(name string) func(args ...Expression) Expression {
	return func(args ...Expression) Expression {
		return NewCall(name, args...)
	}
}

func twoNumeric(c *Call, ctx *Scope) (Value, Value, error) {
	a, err := c.Value(0, ctx)
	if err != nil {
		return nil, nil, err
	}
	b, err := c.Value(1, ctx)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func listArg(c *Call, i int, ctx *Scope) (*List, error) {
	v, err := c.Value(i, ctx)
	if err != nil {
		return nil, err
	}
	list, ok := v.(*List)
	if !ok {
		return nil, typeError(c.Name, i, "a list", v)
	}
	return list, nil
}

func divide(a, b Value) (Value, error) {
	av, aok := numericOf(a)
	bv, bok := numericOf(b)
	if !aok {
		return nil, typeError("div", 0, "a number", a)
	}
	if !bok {
		return nil, typeError("div", 1, "a number", b)
	}
	if bv == 0 {
		return nil, errors.NewSimple(errors.ClassType, "division by zero")
	}
	if bothIntegers(a, b) {
		ai := a.(*Integer).Value
		bi := b.(*Integer).Value
		if ai%bi == 0 {
			return NewInteger(ai / bi), nil
		}
	}
	return NewReal(av / bv), nil
}

func negate(name string, v Value) (Value, error) {
	switch n := v.(type) {
	case *Integer:
		return NewInteger(-n.Value), nil
	case *Real:
		return NewReal(-n.Value), nil
	}
	return nil, typeError(name, 0, "a number", v)
}

func sumOf(list *List) (Value, error) {
	var intTotal int64
	total := 0.0
	allInt := true
	for i, e := range list.Elements {
		v, ok := numericOf(e)
		if !ok {
			return nil, typeError("sum", i, "a number", e)
		}
		if n, isInt := e.(*Integer); isInt {
			intTotal += n.Value
		} else {
			allInt = false
		}
		total += v
	}
	if allInt {
		return NewInteger(intTotal), nil
	}
	return NewReal(total), nil
}

func meanOf(list *List) (Value, error) {
	if len(list.Elements) == 0 {
		return nil, errors.NewSimple(errors.ClassType, "mean of empty list")
	}
	total := 0.0
	for i, e := range list.Elements {
		v, ok := numericOf(e)
		if !ok {
			return nil, typeError("mean", i, "a number", e)
		}
		total += v
	}
	return NewReal(total / float64(len(list.Elements))), nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func typeError(fn string, index int, expected string, got Value) error {
	return errors.New("TYPE-0002", map[string]any{
		"Function": fn,
		"Index":    index,
		"Expected": expected,
		"Got":      string(got.Kind()),
	})
}
