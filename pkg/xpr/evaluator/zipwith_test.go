package evaluator

import (
	"testing"

	xprerrors "github.com/fmahebert/eckit/pkg/xpr/errors"
)

func intList(ns ...int64) *List {
	elements := make([]Value, len(ns))
	for i, n := range ns {
		elements[i] = NewInteger(n)
	}
	return &List{Elements: elements}
}

func TestZipWithBuiltinName(t *testing.T) {
	expr := ZipWith(NewIdent("add"), intList(1, 2, 3), intList(10, 20, 30))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, intList(11, 22, 33)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestZipWithCallTree(t *testing.T) {
	// add(_, neg(_)) zipped elementwise computes pairwise difference.
	body := Add(NewUndef(), Neg(NewUndef()))
	expr := ZipWith(body, intList(10, 20), intList(1, 2))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, intList(9, 18)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestZipWithUserFunction(t *testing.T) {
	ctx := NewScope()
	ctx.DefineFunc("both", &Lambda{
		Name:   "both",
		Params: []string{"a", "b"},
		Body:   Mul(Add(NewIdent("a"), NewIdent("b")), NewInteger(2)),
	})
	expr := ZipWith(NewIdent("both"), intList(1, 2), intList(3, 4))
	got, err := EvalIn(ctx, expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, intList(8, 12)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestZipWithLengthMismatch(t *testing.T) {
	expr := ZipWith(NewIdent("add"), intList(1, 2, 3), intList(1, 2))
	_, err := Eval(expr)
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassLength) {
		t.Errorf("expected length error, got %v", err)
	}
}

func TestZipWithEmptyLists(t *testing.T) {
	expr := ZipWith(NewIdent("add"), intList(), intList())
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Arity() != 0 {
		t.Errorf("expected empty list, got %s", got.Inspect())
	}
}

func TestZipWithDoesNotLeakOuterQueue(t *testing.T) {
	// Holes inside the function body bind per element, never against
	// the outer queue.
	expr := ZipWith(Add(NewUndef(), NewUndef()), intList(1, 2), intList(3, 4))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, intList(4, 6)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestZipWithNonApplicable(t *testing.T) {
	expr := ZipWith(NewInteger(5), intList(1), intList(2))
	_, err := Eval(expr)
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassType) {
		t.Errorf("expected type error, got %v", err)
	}
}

func TestCountList(t *testing.T) {
	got, err := Eval(Count(intList(1, 2, 3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(3)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestCountScalar(t *testing.T) {
	got, err := Eval(Count(NewInteger(99)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(1)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestCountZipWithIsStatic(t *testing.T) {
	// count over zipWith of literal lists answers without applying the
	// function: a function that would fail proves it was never run.
	expr := Count(ZipWith(NewIdent("nonexistent"), intList(1, 2), intList(3, 4)))
	got, err := Eval(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, NewInteger(2)) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestCountZipWithMismatchFallsThrough(t *testing.T) {
	// Static counting declines on mismatch; evaluation then reports it.
	expr := Count(ZipWith(NewIdent("add"), intList(1, 2), intList(3)))
	_, err := Eval(expr)
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassLength) {
		t.Errorf("expected length error, got %v", err)
	}
}

func TestCountHasNoCloneWith(t *testing.T) {
	fn, ok := Builtins().Lookup("count")
	if !ok {
		t.Fatal("count not registered")
	}
	_, err := fn.CloneWithArgs(intList(1))
	if err == nil {
		t.Fatal("expected error")
	}
	if !xprerrors.IsClass(err, xprerrors.ClassNotImplemented) {
		t.Errorf("expected notimplemented error, got %v", err)
	}
}
