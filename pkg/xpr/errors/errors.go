// Package errors provides structured error types for the xpr expression engine.
//
// This package defines XprError, a unified error type that represents both
// parse-time and evaluation-time failures with enough metadata for display
// and programmatic handling.
package errors

import (
	"bytes"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassFunction       ErrorClass = "function"       // Unresolved function/lambda/native identity
	ClassArity          ErrorClass = "arity"          // Declared vs supplied argument count disagree
	ClassPlaceholder    ErrorClass = "placeholder"    // Placeholder resolution against an empty queue
	ClassLength         ErrorClass = "length"         // ZipWith operands of unequal length
	ClassNotImplemented ErrorClass = "notimplemented" // Operation unsupported by a node kind
	ClassInvariant      ErrorClass = "invariant"      // Context queue not drained after evaluation
	ClassType           ErrorClass = "type"           // Value kind mismatches
	ClassParse          ErrorClass = "parse"          // Surface-syntax errors
	ClassDatabase       ErrorClass = "database"       // Native SQL table failures
	ClassIO             ErrorClass = "io"             // File operations in the CLI
	ClassFormat         ErrorClass = "format"         // Encoding/decoding failures
)

// XprError represents any error from parsing or evaluation.
type XprError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "FUNC-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *XprError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *XprError) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// Is lets errors.Is match on class sentinels created with Sentinel.
func (e *XprError) Is(target error) bool {
	t, ok := target.(*XprError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Class == t.Class
}

// Sentinel returns a class-only error usable as an errors.Is target.
func Sentinel(class ErrorClass) *XprError {
	return &XprError{Class: class}
}

// IsClass reports whether err is an XprError of the given class.
func IsClass(err error, class ErrorClass) bool {
	e, ok := err.(*XprError)
	return ok && e.Class == class
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Function resolution errors (FUNC-0xxx)
	// ========================================
	"FUNC-0001": {
		Class:    ClassFunction,
		Template: "unknown function: {{.Name}}",
		// "Did you mean `X`?" hint added dynamically by fuzzy matching
	},
	"FUNC-0002": {
		Class:    ClassFunction,
		Template: "unknown native function: {{.Receiver}}.{{.Name}}",
	},
	"FUNC-0003": {
		Class:    ClassFunction,
		Template: "undefined function or variable: {{.Name}}",
	},

	// ========================================
	// Arity errors (ARITY-0xxx)
	// ========================================
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "`{{.Function}}` expects {{.Want}} argument(s), got {{.Got}}",
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "function `{{.Function}}` declares {{.Want}} parameter(s), called with {{.Got}}",
	},
	"ARITY-0003": {
		Class:    ClassArity,
		Template: "argument index {{.Index}} out of range for `{{.Function}}` ({{.Len}} arguments)",
	},

	// ========================================
	// Placeholder errors (HOLE-0xxx)
	// ========================================
	"HOLE-0001": {
		Class:    ClassPlaceholder,
		Template: "unbound placeholder: argument queue is empty",
		Hints:    []string{"supply one value per placeholder reachable during evaluation"},
	},

	// ========================================
	// Length errors (LEN-0xxx)
	// ========================================
	"LEN-0001": {
		Class:    ClassLength,
		Template: "zipWith operands differ in length: {{.Left}} vs {{.Right}}",
	},

	// ========================================
	// Unsupported operations (NOTIMP-0xxx)
	// ========================================
	"NOTIMP-0001": {
		Class:    ClassNotImplemented,
		Template: "{{.Op}} is not implemented for `{{.Node}}`",
	},

	// ========================================
	// Invariant violations (INV-0xxx)
	// ========================================
	"INV-0001": {
		Class:    ClassInvariant,
		Template: "argument queue not drained after evaluation: {{.Remaining}} value(s) unconsumed",
		Hints:    []string{"the number of supplied arguments must equal the number of placeholders reached"},
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "`{{.Function}}` expected {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "argument {{.Index}} to `{{.Function}}` must be {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "cannot apply `{{.Function}}` elementwise: {{.Got}} is not applicable",
	},

	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected token '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "invalid date literal: {{.Literal}}",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "unterminated string",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "{{.Form}} expects {{.Expected}}",
	},

	// ========================================
	// Database errors (DB-0xxx)
	// ========================================
	"DB-0001": {
		Class:    ClassDatabase,
		Template: "failed to open {{.Driver}} database: {{.GoError}}",
	},
	"DB-0002": {
		Class:    ClassDatabase,
		Template: "query failed: {{.GoError}}",
	},
	"DB-0003": {
		Class:    ClassDatabase,
		Template: "failed to scan row: {{.GoError}}",
	},
	"DB-0004": {
		Class:    ClassDatabase,
		Template: "exec failed: {{.GoError}}",
	},

	// ========================================
	// I/O errors (IO-0xxx)
	// ========================================
	"IO-0001": {
		Class:    ClassIO,
		Template: "failed to {{.Operation}} '{{.Path}}': {{.GoError}}",
	},

	// ========================================
	// Format errors (FMT-0xxx)
	// ========================================
	"FMT-0001": {
		Class:    ClassFormat,
		Template: "invalid {{.Format}}: {{.GoError}}",
	},
	"FMT-0002": {
		Class:    ClassFormat,
		Template: "cannot encode {{.Kind}} as {{.Format}}",
	},
}

// New creates an XprError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *XprError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &XprError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &XprError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *XprError {
	return &XprError{
		Class:   class,
		Message: message,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise
// an empty string. The threshold scales with the length of the input.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// FindTopMatches returns the top N closest matches to the input.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		if matches[i].Distance <= threshold {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewUnknownFunction creates an unknown function error with optional fuzzy matching.
func NewUnknownFunction(name string, known []string) *XprError {
	err := New("FUNC-0001", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, known); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
