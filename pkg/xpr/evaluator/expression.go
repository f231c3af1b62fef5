package evaluator

import (
	"strconv"
	"strings"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
)

// Expression is a node of an evaluation tree. Trees are immutable once
// built: Evaluate never mutates the node, and Clone produces a copy that
// is safe to rewrite during optimization.
type Expression interface {
	Evaluate(ctx *Scope) (Value, error)
	Clone() Expression
	AsCode() string
	String() string
}

// Undef is the placeholder value. As an argument it marks a hole to be
// filled from the scope's queue; evaluated directly it yields itself,
// so partially bound trees still print and encode.
type Undef struct{}

func NewUndef() *Undef { return &Undef{} }

func (u *Undef) Kind() Kind                         { return UNDEF_VAL }
func (u *Undef) Arity() int                         { return 1 }
func (u *Undef) Inspect() string                    { return "_" }
func (u *Undef) String() string                     { return "_" }
func (u *Undef) AsCode() string                     { return "xpr.NewUndef()" }
func (u *Undef) Clone() Expression                  { return &Undef{} }
func (u *Undef) Evaluate(ctx *Scope) (Value, error) { return u, nil }

// Ident is a reference to a scope binding.
type Ident struct {
	Name string
}

func NewIdent(name string) *Ident { return &Ident{Name: name} }

func (id *Ident) String() string { return id.Name }
func (id *Ident) AsCode() string { return "xpr.NewIdent(" + strconv.Quote(id.Name) + ")" }
func (id *Ident) Clone() Expression {
	return &Ident{Name: id.Name}
}

func (id *Ident) Evaluate(ctx *Scope) (Value, error) {
	if v, ok := ctx.Lookup(id.Name); ok {
		return v, nil
	}
	if lam, ok := ctx.LookupFunc(id.Name); ok {
		return callLambda(lam, nil, ctx)
	}
	if fn, ok := ctx.Registry().Lookup(id.Name); ok {
		// A bare builtin name applies the function against the queue.
		call := &Call{Name: id.Name}
		n := fn.Arity
		if n < 0 {
			n = ctx.QueueLen()
		}
		for i := 0; i < n; i++ {
			call.Args = append(call.Args, NewUndef())
		}
		return call.Evaluate(ctx)
	}
	return nil, errors.New("FUNC-0003", map[string]any{"Name": id.Name})
}

// ListExpr is an unevaluated list literal. Evaluating it evaluates every
// element and produces a List value.
type ListExpr struct {
	Elements []Expression
}

func NewListExpr(elements ...Expression) *ListExpr {
	return &ListExpr{Elements: elements}
}

func (l *ListExpr) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *ListExpr) AsCode() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.AsCode()
	}
	return "xpr.NewListExpr(" + strings.Join(parts, ", ") + ")"
}

func (l *ListExpr) Clone() Expression {
	elements := make([]Expression, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.Clone()
	}
	return &ListExpr{Elements: elements}
}

func (l *ListExpr) Evaluate(ctx *Scope) (Value, error) {
	elements := make([]Value, len(l.Elements))
	for i, e := range l.Elements {
		v, err := e.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return &List{Elements: elements}, nil
}

// Call applies a named function to argument expressions. Resolution is
// deferred to evaluation time: user lambdas in scope shadow registry
// builtins of the same name.
type Call struct {
	Name  string
	Args  []Expression
	Attrs *Properties
}

func NewCall(name string, args ...Expression) *Call {
	return &Call{Name: name, Args: args}
}

func (c *Call) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	if c.Attrs != nil && c.Attrs.Len() > 0 {
		parts = append(parts, c.Attrs.String())
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Call) AsCode() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.AsCode()
	}
	return "xpr." + exportName(c.Name) + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Call) Clone() Expression {
	args := make([]Expression, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Clone()
	}
	out := &Call{Name: c.Name, Args: args}
	if c.Attrs != nil {
		out.Attrs = c.Attrs.Clone()
	}
	return out
}

// Param returns the i-th argument, substituting a queued value when the
// argument is a placeholder. The queue is consumed front to back, so
// placeholders bind in argument order.
func (c *Call) Param(i int, ctx *Scope) (Expression, error) {
	if i < 0 || i >= len(c.Args) {
		return nil, errors.New("ARITY-0003", map[string]any{
			"Function": c.Name, "Index": i, "Len": len(c.Args),
		})
	}
	arg := c.Args[i]
	if _, isHole := arg.(*Undef); isHole && ctx != nil {
		v, ok := ctx.PopFront()
		if !ok {
			return nil, errors.New("HOLE-0001", map[string]any{"Function": c.Name, "Index": i})
		}
		return v, nil
	}
	return arg, nil
}

// SetParam replaces the i-th argument in place. Assigning the argument
// already in the slot is a no-op.
func (c *Call) SetParam(i int, e Expression) error {
	if i < 0 || i >= len(c.Args) {
		return errors.New("ARITY-0003", map[string]any{
			"Function": c.Name, "Index": i, "Len": len(c.Args),
		})
	}
	if c.Args[i] == e {
		return nil
	}
	c.Args[i] = e
	return nil
}

// Value evaluates the i-th argument after placeholder substitution.
func (c *Call) Value(i int, ctx *Scope) (Value, error) {
	e, err := c.Param(i, ctx)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx)
}

func (c *Call) Evaluate(ctx *Scope) (Value, error) {
	if lam, ok := ctx.LookupFunc(c.Name); ok {
		args := make([]Value, len(c.Args))
		for i := range c.Args {
			v, err := c.Value(i, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return callLambda(lam, args, ctx)
	}
	fn, ok := ctx.Registry().Lookup(c.Name)
	if !ok {
		return nil, errors.NewUnknownFunction(c.Name, ctx.Registry().Names())
	}
	if fn.Arity >= 0 && len(c.Args) != fn.Arity {
		return nil, errors.New("ARITY-0001", map[string]any{
			"Function": c.Name, "Want": fn.Arity, "Got": len(c.Args),
		})
	}
	attrs, err := resolveAttributes(c.Name, c.Attrs, ctx)
	if err != nil {
		return nil, err
	}
	if attrs != c.Attrs {
		c = &Call{Name: c.Name, Args: c.Args, Attrs: attrs}
	}
	return fn.Eval(c, ctx)
}

// Eval evaluates an expression in a fresh scope with an empty queue.
func Eval(e Expression) (Value, error) {
	return EvalIn(NewScope(), e)
}

// EvalWith evaluates an expression with the given values queued for its
// placeholders. All queued values must be consumed.
func EvalWith(e Expression, args ...Value) (Value, error) {
	ctx := NewScope()
	for _, a := range args {
		ctx.Push(a)
	}
	return EvalIn(ctx, e)
}

// EvalIn evaluates an expression in an existing scope and verifies the
// queue was drained. A non-empty queue after evaluation means the tree
// had fewer placeholders than the caller supplied values.
func EvalIn(ctx *Scope, e Expression) (Value, error) {
	v, err := e.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if n := ctx.QueueLen(); n != 0 {
		return nil, errors.New("INV-0001", map[string]any{"Remaining": n})
	}
	return v, nil
}

// exportName maps a registered function name to its Go constructor name.
func exportName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
