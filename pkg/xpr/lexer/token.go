package lexer

// TokenType identifies the kind of a token.
type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers and literals
	IDENT  = "IDENT"  // add, zipWith, x
	INT    = "INT"    // 42
	FLOAT  = "FLOAT"  // 2.5
	STRING = "STRING" // "hello"
	DATE   = "DATE"   // @2024-12-25
	PATH   = "PATH"   // @/var/data

	// Delimiters
	LPAREN     = "("
	RPAREN     = ")"
	LBRACKET   = "["
	RBRACKET   = "]"
	COMMA      = ","
	SEMICOLON  = ";"
	COLON      = ":"
	DOT        = "."
	UNDERSCORE = "_"
	MINUS      = "-"

	// Keywords
	TRUE  = "TRUE"
	FALSE = "FALSE"
)

// Token is a lexed token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent maps keywords, leaving everything else IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
