package lexer

import (
	"strings"
	"unicode/utf8"

	"dream/internal/ast"
)

type TokenType int

const (
	// Special tokens
	INVALID TokenType = iota
	EOF

	// Identifiers + literals
	IDENTIFIER
	KEYWORD
	INTEGER
	FLOAT
	STRING
	BOOLEAN

	// Trivia
	COMMENT_SINGLE
	COMMENT_MULTI_LINE
	WHITESPACE
	NEW_LINE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	AMPERSAND
	BAR
	AND
	OR
	EQUAL
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	ARROW
	INCREMENT
	DECREMENT

	// Assignment operators
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN

	// Reserved special operators
	PIPE
	SWAP
	SPLAT
	SPREAD

	// Delimiters
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET
	COMMA
	SEMICOLON
	COLON
	DOT
)

// tokenNames are the wire names of the token types
var tokenNames = [...]string{
	INVALID:            "Invalid",
	EOF:                "EOF",
	IDENTIFIER:         "Identifier",
	KEYWORD:            "Keyword",
	INTEGER:            "Integer",
	FLOAT:              "Float",
	STRING:             "String",
	BOOLEAN:            "Boolean",
	COMMENT_SINGLE:     "CommentSingle",
	COMMENT_MULTI_LINE: "CommentMultiLine",
	WHITESPACE:         "Whitespace",
	NEW_LINE:           "NewLine",
	PLUS:               "Plus",
	MINUS:              "Minus",
	STAR:               "Star",
	SLASH:              "Slash",
	PERCENT:            "Percent",
	BANG:               "Bang",
	AMPERSAND:          "Ampersand",
	BAR:                "Bar",
	AND:                "And",
	OR:                 "Or",
	EQUAL:              "Equal",
	NOT_EQUAL:          "NotEqual",
	LESS:               "Less",
	LESS_EQUAL:         "LessEqual",
	GREATER:            "Greater",
	GREATER_EQUAL:      "GreaterEqual",
	ARROW:              "Arrow",
	INCREMENT:          "Increment",
	DECREMENT:          "Decrement",
	ASSIGN:             "Assign",
	PLUS_ASSIGN:        "PlusAssign",
	MINUS_ASSIGN:       "MinusAssign",
	STAR_ASSIGN:        "StarAssign",
	SLASH_ASSIGN:       "SlashAssign",
	PIPE:               "Pipe",
	SWAP:               "Swap",
	SPLAT:              "Splat",
	SPREAD:             "Spread",
	LEFT_PAREN:         "LeftParen",
	RIGHT_PAREN:        "RightParen",
	LEFT_BRACE:         "LeftBrace",
	RIGHT_BRACE:        "RightBrace",
	LEFT_BRACKET:       "LeftBracket",
	RIGHT_BRACKET:      "RightBracket",
	COMMA:              "Comma",
	SEMICOLON:          "Semicolon",
	COLON:              "Colon",
	DOT:                "Dot",
}

var tokenTypesByName = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		m[name] = TokenType(t)
	}
	return m
}()

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return tokenNames[INVALID]
}

// KindFromString resolves a wire name. Unknown names map to INVALID.
func KindFromString(name string) TokenType {
	if t, ok := tokenTypesByName[name]; ok {
		return t
	}
	return INVALID
}

// Token is a classified slice of source. End is the position just past
// the token; it is the zero value for tokens rebuilt from the wire format.
type Token struct {
	Type     TokenType
	Lexeme   string
	Position ast.Position
	End      ast.Position
}

// IsTrivia reports whether the token is whitespace, a newline or a comment
func (t Token) IsTrivia() bool {
	switch t.Type {
	case WHITESPACE, NEW_LINE, COMMENT_SINGLE, COMMENT_MULTI_LINE:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is the given reserved word, ignoring case
func (t Token) IsKeyword(word string) bool {
	return t.Type == KEYWORD && strings.EqualFold(t.Lexeme, word)
}

// EndPosition returns End, or an estimate from the lexeme when End is unset
func (t Token) EndPosition() ast.Position {
	if t.End.Line > 0 {
		return t.End
	}
	return ast.Position{
		Offset: t.Position.Offset + len(t.Lexeme),
		Line:   t.Position.Line,
		Column: t.Position.Column + utf8.RuneCountInString(t.Lexeme),
	}
}

// Span is the number of source bytes the token covers
func (t Token) Span() int {
	if t.End.Line > 0 {
		return t.End.Offset - t.Position.Offset
	}
	return len(t.Lexeme)
}

// Significant drops trivia, the view the parser consumes
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out
}
