package xpr

import (
	"strings"
	"testing"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
)

func TestEvalString(t *testing.T) {
	tests := []struct {
		input    string
		expected []evaluator.Value
	}{
		{"add(1, 2)", []evaluator.Value{evaluator.NewInteger(3)}},
		{"1; 2.5; \"x\"", []evaluator.Value{
			evaluator.NewInteger(1), evaluator.NewReal(2.5), evaluator.NewString("x")}},
		{"zipWith(mul, [1, 2], [3, 4])", []evaluator.Value{
			evaluator.NewList(evaluator.NewInteger(3), evaluator.NewInteger(8))}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			values, err := EvalString(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(values) != len(tt.expected) {
				t.Fatalf("expected %d values, got %d", len(tt.expected), len(values))
			}
			for i := range values {
				if !evaluator.Equal(values[i], tt.expected[i]) {
					t.Errorf("value %d: got %s, want %s",
						i, values[i].Inspect(), tt.expected[i].Inspect())
				}
			}
		})
	}
}

func TestInterpStatePersists(t *testing.T) {
	ip := New()
	if _, err := ip.EvalString("def(twice, [x], mul(x, 2))"); err != nil {
		t.Fatalf("define: %v", err)
	}
	values, err := ip.EvalString("twice(21)")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !evaluator.Equal(values[0], evaluator.NewInteger(42)) {
		t.Errorf("got %s", values[0].Inspect())
	}

	ip.Reset()
	if _, err := ip.EvalString("twice(21)"); err == nil {
		t.Error("expected error after Reset")
	}
}

func TestEvalStringParseError(t *testing.T) {
	_, err := EvalString("add(1,")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsClass(err, errors.ClassParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestWriterLogger(t *testing.T) {
	var sb strings.Builder
	l := NewWriterLogger(&sb)
	l.LogLine("a", 1, "b")
	if sb.String() != "a 1 b\n" {
		t.Errorf("got %q", sb.String())
	}
}

func TestBufferedLogger(t *testing.T) {
	l := NewBufferedLogger()
	l.Log("x")
	l.LogLine("y", "z")
	if l.String() != "xy z\n" {
		t.Errorf("got %q", l.String())
	}
	l.Reset()
	if l.String() != "" {
		t.Error("reset did not clear buffer")
	}
}

func TestInterpTraceGoesToLogger(t *testing.T) {
	ip := New()
	log := NewBufferedLogger()
	ip.SetLogger(log)
	ip.SetTrace(true)
	if _, err := ip.EvalString("let(x, 1, x)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(log.String(), "trace:") {
		t.Errorf("expected trace output, got %q", log.String())
	}
}
