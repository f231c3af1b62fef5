package evaluator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the kind of a Value.
type Kind string

const (
	BOOLEAN_VAL = "BOOLEAN"
	INTEGER_VAL = "INTEGER"
	REAL_VAL    = "REAL"
	STRING_VAL  = "STRING"
	DATE_VAL    = "DATE"
	PATH_VAL    = "PATH"
	LIST_VAL    = "LIST"
	UNDEF_VAL   = "UNDEF"
)

// Value is an immutable evaluated result. Every Value is also an Expression:
// a literal evaluates to itself, so Values can sit directly inside argument
// lists and be shared read-only between trees without copying.
//
// Arity is the element count for a List and 1 for any scalar kind.
type Value interface {
	Expression
	Kind() Kind
	Arity() int
	Inspect() string
}

// Boolean represents boolean values
type Boolean struct {
	Value bool
}

func NewBoolean(v bool) *Boolean { return &Boolean{Value: v} }

func (b *Boolean) Kind() Kind                        { return BOOLEAN_VAL }
func (b *Boolean) Arity() int                        { return 1 }
func (b *Boolean) Inspect() string                   { return strconv.FormatBool(b.Value) }
func (b *Boolean) String() string                    { return b.Inspect() }
func (b *Boolean) AsCode() string                    { return fmt.Sprintf("xpr.NewBoolean(%t)", b.Value) }
func (b *Boolean) Clone() Expression                 { return b }
func (b *Boolean) Evaluate(ctx *Scope) (Value, error) { return b, nil }

// Integer represents integer values
type Integer struct {
	Value int64
}

func NewInteger(v int64) *Integer { return &Integer{Value: v} }

func (i *Integer) Kind() Kind                        { return INTEGER_VAL }
func (i *Integer) Arity() int                        { return 1 }
func (i *Integer) Inspect() string                   { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) String() string                    { return i.Inspect() }
func (i *Integer) AsCode() string                    { return fmt.Sprintf("xpr.NewInteger(%d)", i.Value) }
func (i *Integer) Clone() Expression                 { return i }
func (i *Integer) Evaluate(ctx *Scope) (Value, error) { return i, nil }

// Real represents floating-point values
type Real struct {
	Value float64
}

func NewReal(v float64) *Real { return &Real{Value: v} }

func (r *Real) Kind() Kind                        { return REAL_VAL }
func (r *Real) Arity() int                        { return 1 }
func (r *Real) Inspect() string                   { return strconv.FormatFloat(r.Value, 'g', -1, 64) }
func (r *Real) String() string                    { return r.Inspect() }
func (r *Real) AsCode() string                    { return fmt.Sprintf("xpr.NewReal(%v)", r.Value) }
func (r *Real) Clone() Expression                 { return r }
func (r *Real) Evaluate(ctx *Scope) (Value, error) { return r, nil }

// String represents string values
type String struct {
	Value string
}

func NewString(v string) *String { return &String{Value: v} }

func (s *String) Kind() Kind                        { return STRING_VAL }
func (s *String) Arity() int                        { return 1 }
func (s *String) Inspect() string                   { return s.Value }
func (s *String) String() string                    { return strconv.Quote(s.Value) }
func (s *String) AsCode() string                    { return fmt.Sprintf("xpr.NewString(%q)", s.Value) }
func (s *String) Clone() Expression                 { return s }
func (s *String) Evaluate(ctx *Scope) (Value, error) { return s, nil }

// Date represents a point in time
type Date struct {
	Value time.Time
}

func NewDate(t time.Time) *Date { return &Date{Value: t} }

func (d *Date) Kind() Kind { return DATE_VAL }
func (d *Date) Arity() int { return 1 }
func (d *Date) Inspect() string {
	t := d.Value
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return "@" + t.Format("2006-01-02")
	}
	return "@" + t.Format(time.RFC3339)
}
func (d *Date) String() string                    { return d.Inspect() }
func (d *Date) AsCode() string                    { return fmt.Sprintf("xpr.NewDate(time.Unix(%d, %d).UTC())", d.Value.Unix(), d.Value.Nanosecond()) }
func (d *Date) Clone() Expression                 { return d }
func (d *Date) Evaluate(ctx *Scope) (Value, error) { return d, nil }

// Path represents a filesystem path value
type Path struct {
	Value string
}

func NewPath(v string) *Path { return &Path{Value: v} }

func (p *Path) Kind() Kind                        { return PATH_VAL }
func (p *Path) Arity() int                        { return 1 }
func (p *Path) Inspect() string                   { return "@" + p.Value }
func (p *Path) String() string                    { return p.Inspect() }
func (p *Path) AsCode() string                    { return fmt.Sprintf("xpr.NewPath(%q)", p.Value) }
func (p *Path) Clone() Expression                 { return p }
func (p *Path) Evaluate(ctx *Scope) (Value, error) { return p, nil }

// List represents an ordered collection of Values
type List struct {
	Elements []Value
}

func NewList(elements ...Value) *List { return &List{Elements: elements} }

func (l *List) Kind() Kind { return LIST_VAL }
func (l *List) Arity() int { return len(l.Elements) }
func (l *List) Inspect() string {
	elements := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}
func (l *List) String() string {
	elements := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.String()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}
func (l *List) AsCode() string {
	elements := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.AsCode()
	}
	return "xpr.NewList(" + strings.Join(elements, ", ") + ")"
}
func (l *List) Clone() Expression                 { return l }
func (l *List) Evaluate(ctx *Scope) (Value, error) { return l, nil }

// Equal reports structural equality of two Values. Lists compare
// elementwise; Integer and Real compare as distinct kinds.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Real:
		return av.Value == b.(*Real).Value
	case *String:
		return av.Value == b.(*String).Value
	case *Date:
		return av.Value.Equal(b.(*Date).Value)
	case *Path:
		return av.Value == b.(*Path).Value
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Undef:
		return true
	}
	return false
}

// numericOf extracts a float64 from a numeric scalar.
func numericOf(v Value) (float64, bool) {
	switch n := v.(type) {
	case *Integer:
		return float64(n.Value), true
	case *Real:
		return n.Value, true
	}
	return 0, false
}

// bothIntegers reports whether two values are Integer scalars.
func bothIntegers(a, b Value) bool {
	_, aok := a.(*Integer)
	_, bok := b.(*Integer)
	return aok && bok
}
