package evaluator

import (
	"strconv"
	"strings"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
)

// Sequence is a series of steps evaluated in order. As a sub-expression
// it yields the value of its last step; the Interpreter's top-level
// Eval returns every step's value.
type Sequence struct {
	Steps []Expression
}

func NewSequence(steps ...Expression) *Sequence {
	return &Sequence{Steps: steps}
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		parts[i] = st.String()
	}
	return strings.Join(parts, "; ")
}

func (s *Sequence) AsCode() string {
	parts := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		parts[i] = st.AsCode()
	}
	return "xpr.NewSequence(" + strings.Join(parts, ", ") + ")"
}

func (s *Sequence) Clone() Expression {
	steps := make([]Expression, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = st.Clone()
	}
	return &Sequence{Steps: steps}
}

func (s *Sequence) Evaluate(ctx *Scope) (Value, error) {
	var last Value = NewUndef()
	for _, st := range s.Steps {
		v, err := st.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// Let binds a name to an eagerly evaluated value for the extent of its
// body. The binding shadows outer bindings of the same name.
type Let struct {
	Name  string
	Value Expression
	Body  Expression
}

func NewLet(name string, value, body Expression) *Let {
	return &Let{Name: name, Value: value, Body: body}
}

func (l *Let) String() string {
	return "let(" + l.Name + ", " + l.Value.String() + ", " + l.Body.String() + ")"
}

func (l *Let) AsCode() string {
	return "xpr.NewLet(" + strconv.Quote(l.Name) + ", " + l.Value.AsCode() + ", " + l.Body.AsCode() + ")"
}

func (l *Let) Clone() Expression {
	return &Let{Name: l.Name, Value: l.Value.Clone(), Body: l.Body.Clone()}
}

func (l *Let) Evaluate(ctx *Scope) (Value, error) {
	v, err := l.Value.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	inner := ctx.Child()
	inner.Define(l.Name, v)
	return l.Body.Evaluate(inner)
}

// Lambda is a user-defined function: named parameters over a body.
type Lambda struct {
	Name   string
	Params []string
	Body   Expression
}

// FunctionDef installs a Lambda into the evaluating scope. Definitions
// made at the top level of a program persist for later steps.
type FunctionDef struct {
	Name   string
	Params []string
	Body   Expression
}

func NewFunctionDef(name string, params []string, body Expression) *FunctionDef {
	return &FunctionDef{Name: name, Params: params, Body: body}
}

func (d *FunctionDef) String() string {
	return "def(" + d.Name + ", [" + strings.Join(d.Params, ", ") + "], " + d.Body.String() + ")"
}

func (d *FunctionDef) AsCode() string {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = strconv.Quote(p)
	}
	return "xpr.NewFunctionDef(" + strconv.Quote(d.Name) + ", []string{" +
		strings.Join(params, ", ") + "}, " + d.Body.AsCode() + ")"
}

func (d *FunctionDef) Clone() Expression {
	params := make([]string, len(d.Params))
	copy(params, d.Params)
	return &FunctionDef{Name: d.Name, Params: params, Body: d.Body.Clone()}
}

func (d *FunctionDef) Evaluate(ctx *Scope) (Value, error) {
	ctx.DefineFunc(d.Name, &Lambda{Name: d.Name, Params: d.Params, Body: d.Body})
	return NewString(d.Name), nil
}

// callLambda applies a user function. With nil args the parameters are
// filled from the queue, so a bare function name behaves like a call
// with one placeholder per parameter.
func callLambda(lam *Lambda, args []Value, ctx *Scope) (Value, error) {
	if args == nil {
		args = make([]Value, 0, len(lam.Params))
		for range lam.Params {
			v, ok := ctx.PopFront()
			if !ok {
				return nil, errors.New("HOLE-0001", map[string]any{"Function": lam.Name})
			}
			args = append(args, v)
		}
	}
	if len(args) != len(lam.Params) {
		return nil, errors.New("ARITY-0002", map[string]any{
			"Function": lam.Name, "Want": len(lam.Params), "Got": len(args),
		})
	}
	inner := ctx.Child()
	for i, p := range lam.Params {
		inner.Define(p, args[i])
	}
	return lam.Body.Evaluate(inner)
}

// NativeCall invokes a host-provided function through the scope's
// native table, addressed as receiver.name. Attribute placeholders are
// resolved from the queue first, then arguments evaluate eagerly.
type NativeCall struct {
	Receiver string
	Name     string
	Args     []Expression
	Attrs    *Properties
}

func NewNativeCall(receiver, name string, args ...Expression) *NativeCall {
	return &NativeCall{Receiver: receiver, Name: name, Args: args}
}

func (n *NativeCall) String() string {
	parts := make([]string, 0, len(n.Args)+1)
	for _, a := range n.Args {
		parts = append(parts, a.String())
	}
	if n.Attrs != nil && n.Attrs.Len() > 0 {
		parts = append(parts, n.Attrs.String())
	}
	return n.Receiver + "." + n.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (n *NativeCall) AsCode() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.AsCode()
	}
	return "xpr.NewNativeCall(" + strconv.Quote(n.Receiver) + ", " + strconv.Quote(n.Name) +
		", " + strings.Join(parts, ", ") + ")"
}

func (n *NativeCall) Clone() Expression {
	args := make([]Expression, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone()
	}
	out := &NativeCall{Receiver: n.Receiver, Name: n.Name, Args: args}
	if n.Attrs != nil {
		out.Attrs = n.Attrs.Clone()
	}
	return out
}

func (n *NativeCall) Evaluate(ctx *Scope) (Value, error) {
	fn, ok := ctx.Natives().Lookup(n.Receiver, n.Name)
	if !ok {
		return nil, errors.New("FUNC-0002", map[string]any{
			"Receiver": n.Receiver, "Name": n.Name,
		})
	}
	attrs, err := resolveAttributes(n.Receiver+"."+n.Name, n.Attrs, ctx)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = NewProperties()
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(ctx, attrs, args)
}

// resolveAttributes substitutes placeholder attribute values from the
// scope's queue, in attribute order, before the node dispatches. When
// no attribute is a placeholder the input is returned as is.
func resolveAttributes(name string, attrs *Properties, ctx *Scope) (*Properties, error) {
	if attrs == nil || attrs.Len() == 0 {
		return attrs, nil
	}
	holes := false
	attrs.Each(func(key string, v Value) {
		if v.Kind() == UNDEF_VAL {
			holes = true
		}
	})
	if !holes {
		return attrs, nil
	}
	out := NewProperties()
	for _, key := range attrs.Keys() {
		v, _ := attrs.Get(key)
		if v.Kind() == UNDEF_VAL {
			queued, ok := ctx.PopFront()
			if !ok {
				return nil, errors.New("HOLE-0001", map[string]any{
					"Function": name, "Index": out.Len(),
				})
			}
			v = queued
		}
		out.Set(key, v)
	}
	return out, nil
}

// Interpreter is the top-level entry point. It owns a registry, a
// native table and a logger; every evaluation runs in a context scope
// created from them. One Interpreter may serve many goroutines as long
// as each uses its own context.
type Interpreter struct {
	registry *Registry
	natives  *NativeTable
	logger   Logger
	trace    bool
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		registry: Builtins().Clone(),
		natives:  NewNativeTable(),
		logger:   DefaultLogger,
	}
}

func (in *Interpreter) Registry() *Registry   { return in.registry }
func (in *Interpreter) Natives() *NativeTable { return in.natives }

func (in *Interpreter) SetLogger(l Logger) {
	if l == nil {
		l = DefaultLogger
	}
	in.logger = l
}

func (in *Interpreter) SetTrace(on bool) {
	in.trace = on
}

// NewContext returns a fresh evaluation scope wired to the interpreter.
// Bindings and definitions made during evaluation live in the context,
// so reusing one context across Eval calls carries state forward.
func (in *Interpreter) NewContext() *Scope {
	ctx := NewScope()
	ctx.SetRegistry(in.registry)
	ctx.SetNatives(in.natives)
	ctx.SetLogger(in.logger)
	return ctx
}

// Eval optimizes and evaluates a program in the given context. A
// Sequence at the top level yields one value per step; any other
// expression yields a single value.
func (in *Interpreter) Eval(ctx *Scope, e Expression) ([]Value, error) {
	opt, err := OptimizeIn(ctx, e, in.registry)
	if err != nil {
		return nil, err
	}
	seq, ok := opt.(*Sequence)
	if !ok {
		v, err := in.evalStep(ctx, opt)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}
	out := make([]Value, 0, len(seq.Steps))
	for _, st := range seq.Steps {
		v, err := in.evalStep(ctx, st)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (in *Interpreter) evalStep(ctx *Scope, e Expression) (Value, error) {
	v, err := EvalIn(ctx, e)
	if err != nil {
		return nil, err
	}
	if in.trace {
		in.logger.LogLine("trace:", e.String(), "=>", v.Inspect())
	}
	return v, nil
}
