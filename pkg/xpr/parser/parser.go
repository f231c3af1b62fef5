// Package parser builds expression trees from the surface syntax.
//
// The grammar is call-based: there are no infix operators, every
// operation is a named call. let and def are special forms; a dotted
// name is a native call; `key: value` inside an argument list is an
// attribute.
package parser

import (
	"strconv"

	"github.com/araddon/dateparse"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
	"github.com/fmahebert/eckit/pkg/xpr/lexer"
)

type Parser struct {
	l        *lexer.Lexer
	registry *evaluator.Registry

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string
}

// New creates a parser. The registry lets a bare builtin name parse as
// a call with one placeholder per declared argument; nil uses the
// standard builtins.
func New(l *lexer.Lexer, registry *evaluator.Registry) *Parser {
	if registry == nil {
		registry = evaluator.Builtins()
	}
	p := &Parser{l: l, registry: registry}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addError(code string, data map[string]any) {
	err := errors.New(code, data)
	p.errors = append(p.errors, err.Message)
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curToken.Type == t {
		return true
	}
	p.addError("PARSE-0001", map[string]any{
		"Expected": string(t), "Got": p.curToken.Literal,
	})
	return false
}

// ParseProgram parses a semicolon-separated program. A single step
// parses to itself; several steps parse to a Sequence.
func (p *Parser) ParseProgram() evaluator.Expression {
	var steps []evaluator.Expression
	for p.curToken.Type != lexer.EOF {
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		steps = append(steps, e)
		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}
		if p.curToken.Type != lexer.EOF {
			p.addError("PARSE-0002", map[string]any{"Token": p.curToken.Literal})
			return nil
		}
	}
	switch len(steps) {
	case 0:
		return evaluator.NewUndef()
	case 1:
		return steps[0]
	}
	return evaluator.NewSequence(steps...)
}

// parseExpression parses one expression and leaves curToken on the
// token after it.
func (p *Parser) parseExpression() evaluator.Expression {
	switch p.curToken.Type {
	case lexer.INT:
		return p.parseInteger(false)
	case lexer.FLOAT:
		return p.parseReal(false)
	case lexer.MINUS:
		return p.parseNegative()
	case lexer.STRING:
		lit := p.curToken.Literal
		p.nextToken()
		return evaluator.NewString(lit)
	case lexer.DATE:
		return p.parseDate()
	case lexer.PATH:
		lit := p.curToken.Literal
		p.nextToken()
		return evaluator.NewPath(lit)
	case lexer.TRUE:
		p.nextToken()
		return evaluator.NewBoolean(true)
	case lexer.FALSE:
		p.nextToken()
		return evaluator.NewBoolean(false)
	case lexer.UNDERSCORE:
		p.nextToken()
		return evaluator.NewUndef()
	case lexer.LBRACKET:
		return p.parseList()
	case lexer.IDENT:
		return p.parseIdent()
	}
	p.addError("PARSE-0002", map[string]any{"Token": p.curToken.Literal})
	return nil
}

func (p *Parser) parseInteger(negative bool) evaluator.Expression {
	n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("PARSE-0003", map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	p.nextToken()
	if negative {
		n = -n
	}
	return evaluator.NewInteger(n)
}

func (p *Parser) parseReal(negative bool) evaluator.Expression {
	f, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("PARSE-0003", map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	p.nextToken()
	if negative {
		f = -f
	}
	return evaluator.NewReal(f)
}

func (p *Parser) parseNegative() evaluator.Expression {
	p.nextToken()
	switch p.curToken.Type {
	case lexer.INT:
		return p.parseInteger(true)
	case lexer.FLOAT:
		return p.parseReal(true)
	}
	// Negation of a non-literal becomes a neg call.
	e := p.parseExpression()
	if e == nil {
		return nil
	}
	return evaluator.Neg(e)
}

func (p *Parser) parseDate() evaluator.Expression {
	t, err := dateparse.ParseAny(p.curToken.Literal)
	if err != nil {
		p.addError("PARSE-0004", map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	p.nextToken()
	return evaluator.NewDate(t.UTC())
}

func (p *Parser) parseList() evaluator.Expression {
	p.nextToken() // consume '['
	var elements []evaluator.Expression
	for p.curToken.Type != lexer.RBRACKET {
		if p.curToken.Type == lexer.EOF {
			p.addError("PARSE-0001", map[string]any{"Expected": "]", "Got": "end of input"})
			return nil
		}
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		elements = append(elements, e)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		} else if p.curToken.Type != lexer.RBRACKET {
			p.addError("PARSE-0001", map[string]any{"Expected": ", or ]", "Got": p.curToken.Literal})
			return nil
		}
	}
	p.nextToken() // consume ']'
	return evaluator.NewListExpr(elements...)
}

func (p *Parser) parseIdent() evaluator.Expression {
	name := p.curToken.Literal

	if p.peekToken.Type == lexer.DOT {
		return p.parseNativeCall(name)
	}
	if p.peekToken.Type == lexer.LPAREN {
		p.nextToken() // onto '('
		switch name {
		case "let":
			return p.parseLet()
		case "def":
			return p.parseDef()
		}
		return p.parseCall(name)
	}

	p.nextToken()
	// A bare builtin name parses as a call with one placeholder per
	// declared argument, so `add` reads as add(_, _).
	if fn, ok := p.registry.Lookup(name); ok && fn.Arity >= 0 {
		args := make([]evaluator.Expression, fn.Arity)
		for i := range args {
			args[i] = evaluator.NewUndef()
		}
		return evaluator.NewCall(name, args...)
	}
	return evaluator.NewIdent(name)
}

func (p *Parser) parseCall(name string) evaluator.Expression {
	args, attrs, ok := p.parseArguments()
	if !ok {
		return nil
	}
	call := evaluator.NewCall(name, args...)
	call.Attrs = attrs
	return call
}

func (p *Parser) parseNativeCall(receiver string) evaluator.Expression {
	p.nextToken() // onto '.'
	p.nextToken() // onto method name
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	args, attrs, ok := p.parseArguments()
	if !ok {
		return nil
	}
	call := evaluator.NewNativeCall(receiver, name, args...)
	call.Attrs = attrs
	return call
}

// parseArguments parses "(expr, ..., key: literal, ...)" with curToken
// on the opening parenthesis. Attributes may be interleaved with
// positional arguments but must have literal values.
func (p *Parser) parseArguments() ([]evaluator.Expression, *evaluator.Properties, bool) {
	p.nextToken() // consume '('
	var args []evaluator.Expression
	var attrs *evaluator.Properties
	for p.curToken.Type != lexer.RPAREN {
		if p.curToken.Type == lexer.EOF {
			p.addError("PARSE-0001", map[string]any{"Expected": ")", "Got": "end of input"})
			return nil, nil, false
		}
		if p.curToken.Type == lexer.IDENT && p.peekToken.Type == lexer.COLON {
			key := p.curToken.Literal
			p.nextToken() // onto ':'
			p.nextToken() // onto value
			v := p.parseAttributeValue(key)
			if v == nil {
				return nil, nil, false
			}
			if attrs == nil {
				attrs = evaluator.NewProperties()
			}
			attrs.Set(key, v)
		} else {
			e := p.parseExpression()
			if e == nil {
				return nil, nil, false
			}
			args = append(args, e)
		}
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		} else if p.curToken.Type != lexer.RPAREN {
			p.addError("PARSE-0001", map[string]any{"Expected": ", or )", "Got": p.curToken.Literal})
			return nil, nil, false
		}
	}
	p.nextToken() // consume ')'
	return args, attrs, true
}

// parseAttributeValue parses an attribute's literal value.
func (p *Parser) parseAttributeValue(key string) evaluator.Value {
	e := p.parseExpression()
	if e == nil {
		return nil
	}
	v, ok := e.(evaluator.Value)
	if !ok || v.Kind() == evaluator.UNDEF_VAL {
		p.addError("PARSE-0006", map[string]any{
			"Form": "attribute `" + key + "`", "Expected": "a literal value",
		})
		return nil
	}
	return v
}

// parseLet parses let(name, value, body) with curToken on '('.
func (p *Parser) parseLet() evaluator.Expression {
	p.nextToken()
	if !p.expect(lexer.IDENT) {
		p.addError("PARSE-0006", map[string]any{"Form": "let", "Expected": "(name, value, body)"})
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if !p.consumeComma("let", "(name, value, body)") {
		return nil
	}
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if !p.consumeComma("let", "(name, value, body)") {
		return nil
	}
	body := p.parseExpression()
	if body == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	return evaluator.NewLet(name, value, body)
}

// parseDef parses def(name, [params], body) with curToken on '('.
func (p *Parser) parseDef() evaluator.Expression {
	p.nextToken()
	if !p.expect(lexer.IDENT) {
		p.addError("PARSE-0006", map[string]any{"Form": "def", "Expected": "(name, [params], body)"})
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if !p.consumeComma("def", "(name, [params], body)") {
		return nil
	}
	if !p.expect(lexer.LBRACKET) {
		p.addError("PARSE-0006", map[string]any{"Form": "def", "Expected": "(name, [params], body)"})
		return nil
	}
	p.nextToken()
	var params []string
	for p.curToken.Type != lexer.RBRACKET {
		if !p.expect(lexer.IDENT) {
			return nil
		}
		params = append(params, p.curToken.Literal)
		p.nextToken()
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		} else if p.curToken.Type != lexer.RBRACKET {
			p.addError("PARSE-0001", map[string]any{"Expected": ", or ]", "Got": p.curToken.Literal})
			return nil
		}
	}
	p.nextToken() // consume ']'
	if !p.consumeComma("def", "(name, [params], body)") {
		return nil
	}
	body := p.parseExpression()
	if body == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	return evaluator.NewFunctionDef(name, params, body)
}

func (p *Parser) consumeComma(form, shape string) bool {
	if p.curToken.Type != lexer.COMMA {
		p.addError("PARSE-0006", map[string]any{"Form": form, "Expected": shape})
		return false
	}
	p.nextToken()
	return true
}
