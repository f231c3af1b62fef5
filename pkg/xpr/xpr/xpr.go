// Package xpr is the public entry point for the expression engine: it
// wires the lexer, parser, optimizer and evaluator together behind a
// small API.
//
// Typical use:
//
//	ip := xpr.New()
//	values, err := ip.EvalString("zipWith(add, [1, 2], [10, 20])")
package xpr

import (
	"strings"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
	"github.com/fmahebert/eckit/pkg/xpr/lexer"
	"github.com/fmahebert/eckit/pkg/xpr/parser"
)

// Interp couples an interpreter with a long-lived evaluation context,
// so definitions persist across EvalString calls. It is what the REPL
// and the CLI drive.
type Interp struct {
	in  *evaluator.Interpreter
	ctx *evaluator.Scope
}

func New() *Interp {
	in := evaluator.NewInterpreter()
	return &Interp{in: in, ctx: in.NewContext()}
}

func (ip *Interp) Interpreter() *evaluator.Interpreter { return ip.in }
func (ip *Interp) Context() *evaluator.Scope           { return ip.ctx }

func (ip *Interp) SetLogger(l evaluator.Logger) {
	ip.in.SetLogger(l)
	ip.ctx.SetLogger(l)
}

func (ip *Interp) SetTrace(on bool) {
	ip.in.SetTrace(on)
}

// Reset discards all accumulated bindings and definitions.
func (ip *Interp) Reset() {
	ip.ctx = ip.in.NewContext()
}

// ParseString parses a program against the interpreter's registry.
func (ip *Interp) ParseString(input string) (evaluator.Expression, error) {
	return parseWith(input, ip.in.Registry())
}

// EvalString parses, optimizes and evaluates a program, returning one
// value per top-level step.
func (ip *Interp) EvalString(input string) ([]evaluator.Value, error) {
	e, err := ip.ParseString(input)
	if err != nil {
		return nil, err
	}
	return ip.in.Eval(ip.ctx, e)
}

// ParseString parses a program with the standard builtins.
func ParseString(input string) (evaluator.Expression, error) {
	return parseWith(input, nil)
}

// EvalString parses and evaluates a program in a throwaway context.
func EvalString(input string) ([]evaluator.Value, error) {
	return New().EvalString(input)
}

func parseWith(input string, registry *evaluator.Registry) (evaluator.Expression, error) {
	p := parser.New(lexer.New(input), registry)
	e := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errors.NewSimple(errors.ClassParse, strings.Join(errs, "\n"))
	}
	return e, nil
}
