package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromCatalog(t *testing.T) {
	tests := []struct {
		code     string
		data     map[string]any
		class    ErrorClass
		contains string
	}{
		{"FUNC-0001", map[string]any{"Name": "zipwith"}, ClassFunction, "unknown function: zipwith"},
		{"FUNC-0002", map[string]any{"Receiver": "db", "Name": "query"}, ClassFunction, "db.query"},
		{"ARITY-0001", map[string]any{"Function": "count", "Want": 1, "Got": 2}, ClassArity, "expects 1 argument(s), got 2"},
		{"HOLE-0001", nil, ClassPlaceholder, "argument queue is empty"},
		{"LEN-0001", map[string]any{"Left": 3, "Right": 2}, ClassLength, "3 vs 2"},
		{"NOTIMP-0001", map[string]any{"Op": "cloneWith", "Node": "count"}, ClassNotImplemented, "cloneWith is not implemented"},
		{"INV-0001", map[string]any{"Remaining": 2}, ClassInvariant, "2 value(s) unconsumed"},
	}

	for _, tt := range tests {
		err := New(tt.code, tt.data)
		if err.Class != tt.class {
			t.Errorf("%s: expected class %q, got %q", tt.code, tt.class, err.Class)
		}
		if err.Code != tt.code {
			t.Errorf("%s: code not preserved, got %q", tt.code, err.Code)
		}
		if !strings.Contains(err.Message, tt.contains) {
			t.Errorf("%s: message %q does not contain %q", tt.code, err.Message, tt.contains)
		}
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("NOPE-9999", map[string]any{"message": "something odd"})
	if err.Message != "something odd" {
		t.Errorf("expected fallback message, got %q", err.Message)
	}
	if err.Code != "NOPE-9999" {
		t.Errorf("expected code preserved, got %q", err.Code)
	}
}

func TestIsClass(t *testing.T) {
	err := New("HOLE-0001", nil)
	if !IsClass(err, ClassPlaceholder) {
		t.Error("expected IsClass to match ClassPlaceholder")
	}
	if IsClass(err, ClassArity) {
		t.Error("IsClass matched the wrong class")
	}
	if IsClass(stderrors.New("plain"), ClassPlaceholder) {
		t.Error("IsClass matched a non-XprError")
	}
}

func TestSentinelMatching(t *testing.T) {
	err := New("LEN-0001", map[string]any{"Left": 1, "Right": 2})
	if !stderrors.Is(err, Sentinel(ClassLength)) {
		t.Error("errors.Is did not match class sentinel")
	}
	if stderrors.Is(err, Sentinel(ClassType)) {
		t.Error("errors.Is matched the wrong class sentinel")
	}
}

func TestStringIncludesHints(t *testing.T) {
	err := New("HOLE-0001", nil)
	s := err.String()
	if !strings.Contains(s, "supply one value per placeholder") {
		t.Errorf("expected hint in String(), got %q", s)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"count", "count", 0},
		{"cont", "count", 1},
		{"zipwith", "zipWith", 0}, // case-insensitive callers lowercase first
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		got := levenshteinDistance(strings.ToLower(tt.a), strings.ToLower(tt.b))
		if got != tt.expected {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestFindClosestMatch(t *testing.T) {
	candidates := []string{"add", "sub", "mul", "div", "count", "zipWith"}

	tests := []struct {
		input    string
		expected string
	}{
		{"cont", "count"},
		{"zipwit", "zipWith"},
		{"ad", "add"},
		{"add", ""},            // exact match: no suggestion
		{"completely", ""},     // too far from anything
		{"", ""},               // empty input
	}

	for _, tt := range tests {
		got := FindClosestMatch(tt.input, candidates)
		if got != tt.expected {
			t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNewUnknownFunctionHint(t *testing.T) {
	err := NewUnknownFunction("cont", []string{"add", "count"})
	found := false
	for _, h := range err.Hints {
		if strings.Contains(h, "`count`") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a did-you-mean hint, got %v", err.Hints)
	}
}
