// Package lexer tokenizes the expression surface syntax.
package lexer

// Lexer walks the input byte by byte, producing one token per call to
// NextToken. Input is expected to be UTF-8; identifiers are ASCII.
type Lexer struct {
	input        string
	position     int  // current position (points to ch)
	readPosition int  // next reading position
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '[':
		tok.Type, tok.Literal = LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = RBRACKET, "]"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case ':':
		tok.Type, tok.Literal = COLON, ":"
	case '.':
		tok.Type, tok.Literal = DOT, "."
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
	case '"':
		tok.Type = STRING
		tok.Literal = l.readString()
		return tok
	case '@':
		return l.readAtLiteral()
	case 0:
		tok.Type, tok.Literal = EOF, ""
	default:
		switch {
		case l.ch == '_' && !isIdentChar(l.peekChar()):
			tok.Type, tok.Literal = UNDERSCORE, "_"
		case isLetter(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		case isDigit(l.ch):
			return l.readNumber()
		default:
			tok.Type = ILLEGAL
			tok.Literal = string(l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() Token {
	tok := Token{Type: INT, Line: l.line, Column: l.column}
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tok.Type = FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	tok.Literal = l.input[start:l.position]
	return tok
}

func (l *Lexer) readString() string {
	var out []byte
	for {
		l.readChar()
		if l.ch == '"' || l.ch == 0 {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, '\\', l.ch)
			}
			continue
		}
		out = append(out, l.ch)
	}
	l.readChar() // consume closing quote
	return string(out)
}

// readAtLiteral reads a date or path literal. @/... and @./... are
// paths; anything else is handed to the date parser later.
func (l *Lexer) readAtLiteral() Token {
	tok := Token{Line: l.line, Column: l.column}
	l.readChar() // consume '@'
	start := l.position
	if l.ch == '/' || (l.ch == '.' && l.peekChar() == '/') {
		tok.Type = PATH
		for !isPathEnd(l.ch) {
			l.readChar()
		}
	} else {
		tok.Type = DATE
		for isDateChar(l.ch) {
			l.readChar()
		}
	}
	tok.Literal = l.input[start:l.position]
	if tok.Literal == "" {
		tok.Type = ILLEGAL
		tok.Literal = "@"
	}
	return tok
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isDateChar(ch byte) bool {
	return isDigit(ch) || ch == '-' || ch == ':' || ch == '+' ||
		ch == 'T' || ch == 'Z' || ch == '.'
}

func isPathEnd(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\n', '\r', '(', ')', '[', ']', ',', ';':
		return true
	}
	return false
}
