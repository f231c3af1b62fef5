package evaluator

import (
	"fmt"
	"strings"
	"testing"

	xprerrors "github.com/fmahebert/eckit/pkg/xpr/errors"
)

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Log(values ...interface{}) {
	l.LogLine(values...)
}

func (l *captureLogger) LogLine(values ...interface{}) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	l.lines = append(l.lines, strings.Join(parts, " "))
}

func TestInterpreterSingleExpression(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	values, err := in.Eval(ctx, Add(NewInteger(1), NewInteger(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 1 || !Equal(values[0], NewInteger(3)) {
		t.Errorf("got %v", values)
	}
}

func TestInterpreterSequenceYieldsAllValues(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	prog := NewSequence(
		NewInteger(1),
		Add(NewInteger(1), NewInteger(1)),
		NewString("done"),
	)
	values, err := in.Eval(ctx, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if !Equal(values[1], NewInteger(2)) || !Equal(values[2], NewString("done")) {
		t.Errorf("got %v", values)
	}
}

func TestSequenceAsSubExpressionYieldsLast(t *testing.T) {
	expr := Add(NewSequence(NewInteger(9), NewInteger(1)), NewInteger(1))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(2)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestEmptySequence(t *testing.T) {
	got, err := Eval(NewSequence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != UNDEF_VAL {
		t.Errorf("expected UNDEF, got %s", got.Kind())
	}
}

func TestLetBindsAndShadows(t *testing.T) {
	// let(x, 2, let(x, 3, x))
	expr := NewLet("x", NewInteger(2),
		NewLet("x", NewInteger(3), NewIdent("x")))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(3)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestLetScopeEnds(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	prog := NewSequence(
		NewLet("x", NewInteger(1), NewIdent("x")),
		NewIdent("x"),
	)
	_, err := in.Eval(ctx, prog)
	if err == nil {
		t.Fatal("expected error: binding escaped its let")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassFunction) {
		t.Errorf("expected unresolved identifier error, got %v", err)
	}
}

func TestFunctionDefAndCall(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	prog := NewSequence(
		NewFunctionDef("twice", []string{"x"}, Mul(NewIdent("x"), NewInteger(2))),
		NewCall("twice", NewInteger(21)),
	)
	values, err := in.Eval(ctx, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(values[1], NewInteger(42)) {
		t.Errorf("got %s", values[1].Inspect())
	}
}

func TestFunctionDefPersistsAcrossEvals(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	if _, err := in.Eval(ctx, NewFunctionDef("inc", []string{"n"},
		Add(NewIdent("n"), NewInteger(1)))); err != nil {
		t.Fatalf("define: %v", err)
	}
	values, err := in.Eval(ctx, NewCall("inc", NewInteger(41)))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !Equal(values[0], NewInteger(42)) {
		t.Errorf("got %s", values[0].Inspect())
	}
}

func TestUserFunctionArityMismatch(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	prog := NewSequence(
		NewFunctionDef("pair", []string{"a", "b"}, Add(NewIdent("a"), NewIdent("b"))),
		NewCall("pair", NewInteger(1)),
	)
	_, err := in.Eval(ctx, prog)
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassArity) {
		t.Errorf("expected arity error, got %v", err)
	}
}

func TestUserFunctionShadowsBuiltin(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	prog := NewSequence(
		NewFunctionDef("add", []string{"a", "b"}, NewInteger(0)),
		NewCall("add", NewInteger(1), NewInteger(2)),
	)
	values, err := in.Eval(ctx, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(values[1], NewInteger(0)) {
		t.Errorf("user function did not shadow builtin, got %s", values[1].Inspect())
	}
}

func TestUserFunctionShadowsBuiltinAcrossEvals(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	if _, err := in.Eval(ctx, NewFunctionDef("add", []string{"a", "b"}, NewInteger(0))); err != nil {
		t.Fatalf("define: %v", err)
	}
	values, err := in.Eval(ctx, Add(NewInteger(1), NewInteger(2)))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !Equal(values[0], NewInteger(0)) {
		t.Errorf("user function did not shadow builtin, got %s", values[0].Inspect())
	}
}

func TestBareBuiltinNameAppliesQueue(t *testing.T) {
	// A bare `add` behaves like add(_, _).
	got, err := EvalWith(NewIdent("add"), NewInteger(20), NewInteger(22))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(42)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestNativeCallDispatch(t *testing.T) {
	in := NewInterpreter()
	in.Natives().Register("math", "double", func(ctx *Scope, attrs *Properties, args []Value) (Value, error) {
		n := args[0].(*Integer)
		return NewInteger(n.Value * attrs.GetInt("factor", 2)), nil
	})
	ctx := in.NewContext()

	call := NewNativeCall("math", "double", NewInteger(5))
	values, err := in.Eval(ctx, call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(values[0], NewInteger(10)) {
		t.Errorf("got %s", values[0].Inspect())
	}

	withAttr := NewNativeCall("math", "double", NewInteger(5))
	withAttr.Attrs = NewProperties()
	withAttr.Attrs.Set("factor", NewInteger(3))
	values, err = in.Eval(ctx, withAttr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(values[0], NewInteger(15)) {
		t.Errorf("got %s", values[0].Inspect())
	}
}

func TestNativeCallAttributePlaceholder(t *testing.T) {
	// A placeholder attribute value resolves from the queue before the
	// native dispatches, so the native sees the queued value.
	in := NewInterpreter()
	var seen int64
	in.Natives().Register("db", "rows", func(ctx *Scope, attrs *Properties, args []Value) (Value, error) {
		seen = attrs.GetInt("limit", -1)
		return NewInteger(seen), nil
	})
	ctx := in.NewContext()

	call := NewNativeCall("db", "rows", NewString("select n from t"))
	call.Attrs = NewProperties()
	call.Attrs.Set("limit", NewUndef())
	ctx.Push(NewInteger(10))

	got, err := EvalIn(ctx, call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 10 {
		t.Errorf("native saw limit %d, want 10", seen)
	}
	if !Equal(got, NewInteger(10)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestNativeCallAttributePlaceholderEmptyQueue(t *testing.T) {
	in := NewInterpreter()
	in.Natives().Register("db", "rows", func(ctx *Scope, attrs *Properties, args []Value) (Value, error) {
		return NewInteger(0), nil
	})
	ctx := in.NewContext()

	call := NewNativeCall("db", "rows", NewString("select n from t"))
	call.Attrs = NewProperties()
	call.Attrs.Set("limit", NewUndef())

	_, err := EvalIn(ctx, call)
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassPlaceholder) {
		t.Errorf("expected placeholder error, got %v", err)
	}
}

func TestNativeCallUnknown(t *testing.T) {
	in := NewInterpreter()
	ctx := in.NewContext()
	_, err := in.Eval(ctx, NewNativeCall("db", "query", NewString("select 1")))
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassFunction) {
		t.Errorf("expected function error, got %v", err)
	}
}

func TestInterpreterTrace(t *testing.T) {
	in := NewInterpreter()
	log := &captureLogger{}
	in.SetLogger(log)
	in.SetTrace(true)
	ctx := in.NewContext()

	// Use a tree the optimizer cannot fold away entirely.
	if _, err := in.Eval(ctx, NewLet("x", NewInteger(1), NewIdent("x"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log.lines) != 1 || !strings.HasPrefix(log.lines[0], "trace:") {
		t.Errorf("expected one trace line, got %v", log.lines)
	}
}

func TestInterpreterRegistryIsIsolated(t *testing.T) {
	a := NewInterpreter()
	b := NewInterpreter()
	a.Registry().Register(&Function{
		Name:  "custom",
		Arity: 0,
		Eval: func(c *Call, ctx *Scope) (Value, error) {
			return NewInteger(7), nil
		},
	})
	if _, ok := b.Registry().Lookup("custom"); ok {
		t.Error("registration leaked between interpreters")
	}
	if _, ok := Builtins().Lookup("custom"); ok {
		t.Error("registration leaked into shared builtins")
	}
}
