package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"dream/internal/ast"
	"dream/internal/errors"
)

type Scanner struct {
	source      string
	tokens      []Token
	start       int
	current     int
	line        int
	column      int
	startLine   int
	startColumn int
	errors      []errors.CompilerError
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
	}
}

// Tokenize scans source into tokens, trivia included. It never fails;
// malformed input becomes INVALID tokens.
func Tokenize(source string) []Token {
	return NewScanner(source).ScanTokens()
}

func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.startLine = s.line
		s.startColumn = s.column
		s.scanToken()
	}
	eof := s.position()
	s.tokens = append(s.tokens, Token{Type: EOF, Position: eof, End: eof})
	return s.tokens
}

// Errors returns the lexical errors found by ScanTokens
func (s *Scanner) Errors() []errors.CompilerError {
	return s.errors
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(LEFT_PAREN)
	case ')':
		s.addToken(RIGHT_PAREN)
	case '{':
		s.addToken(LEFT_BRACE)
	case '}':
		s.addToken(RIGHT_BRACE)
	case '[':
		s.addToken(LEFT_BRACKET)
	case ']':
		s.addToken(RIGHT_BRACKET)
	case ',':
		s.addToken(COMMA)
	case ';':
		s.addToken(SEMICOLON)
	case ':':
		s.addToken(COLON)
	case '%':
		s.addToken(PERCENT)

	case '.':
		s.scanDotOperator()
	case '-':
		s.scanMinusOperator()
	case '+':
		s.scanPlusOperator()
	case '*':
		s.scanStarOperator()
	case '/':
		s.scanSlashOperator()
	case '!':
		s.scanBangOperator()
	case '=':
		s.scanEqualOperator()
	case '<':
		s.scanLessOperator()
	case '>':
		s.scanGreaterOperator()
	case '&':
		s.scanAmpersandOperator()
	case '|':
		s.scanBarOperator()
	case '@':
		s.scanAtOperator()

	case ' ', '\r', '\t':
		for p := s.peek(); p == ' ' || p == '\r' || p == '\t'; p = s.peek() {
			s.advance()
		}
		s.addToken(WHITESPACE)
	case '\n':
		s.tokens = append(s.tokens, Token{
			Type:     NEW_LINE,
			Lexeme:   "\n",
			Position: ast.Position{Offset: s.start, Line: s.startLine, Column: s.startColumn},
			End:      s.position(),
		})

	case '"', '\'':
		s.scanString(c)

	default:
		s.scanDefault(c)
	}
}

// Operator scanning, longest match first

func (s *Scanner) scanDotOperator() {
	if s.peek() == '.' && s.peekNext() == '.' && s.peekAt(2) == '+' {
		s.advance()
		s.advance()
		s.advance()
		s.addToken(SPREAD)
		return
	}
	s.addToken(DOT)
}

func (s *Scanner) scanMinusOperator() {
	if s.signStartsNumber() {
		s.scanNumber()
	} else if s.matchNext('>') {
		s.addToken(ARROW)
	} else if s.matchNext('-') {
		s.addToken(DECREMENT)
	} else if s.matchNext('=') {
		s.addToken(MINUS_ASSIGN)
	} else {
		s.addToken(MINUS)
	}
}

func (s *Scanner) scanPlusOperator() {
	if s.signStartsNumber() {
		s.scanNumber()
	} else if s.matchNext('+') {
		s.addToken(INCREMENT)
	} else if s.matchNext('=') {
		s.addToken(PLUS_ASSIGN)
	} else {
		s.addToken(PLUS)
	}
}

func (s *Scanner) scanStarOperator() {
	if s.matchNext('=') {
		s.addToken(STAR_ASSIGN)
	} else {
		s.addToken(STAR)
	}
}

func (s *Scanner) scanSlashOperator() {
	if s.matchNext('*') {
		s.scanBlockComment()
	} else if s.matchNext('/') {
		s.scanSingleLineComment()
	} else if s.matchNext('=') {
		s.addToken(SLASH_ASSIGN)
	} else {
		s.addToken(SLASH)
	}
}

func (s *Scanner) scanBangOperator() {
	if s.matchNext('=') {
		s.addToken(NOT_EQUAL)
	} else {
		s.addToken(BANG)
	}
}

func (s *Scanner) scanEqualOperator() {
	if s.matchNext('=') {
		s.addToken(EQUAL)
	} else {
		s.addToken(ASSIGN)
	}
}

func (s *Scanner) scanLessOperator() {
	if s.peek() == '=' && s.peekNext() == '>' {
		s.advance()
		s.advance()
		s.addToken(SWAP)
	} else if s.matchNext('=') {
		s.addToken(LESS_EQUAL)
	} else if s.matchNext('>') {
		s.addToken(NOT_EQUAL)
	} else {
		s.addToken(LESS)
	}
}

func (s *Scanner) scanGreaterOperator() {
	if s.matchNext('=') {
		s.addToken(GREATER_EQUAL)
	} else {
		s.addToken(GREATER)
	}
}

func (s *Scanner) scanAmpersandOperator() {
	if s.matchNext('&') {
		s.addToken(AND)
	} else {
		s.addToken(AMPERSAND)
	}
}

func (s *Scanner) scanBarOperator() {
	if s.matchNext('|') {
		s.addToken(OR)
	} else if s.matchNext('>') {
		s.addToken(PIPE)
	} else {
		s.addToken(BAR)
	}
}

func (s *Scanner) scanAtOperator() {
	if s.matchNext('*') {
		s.addToken(SPLAT)
		return
	}
	s.invalid(errors.ErrorUnexpectedCharacter, "unexpected character '@'")
}

func (s *Scanner) scanDefault(c byte) {
	if isDigit(c) {
		s.scanNumber()
	} else if isAlpha(c) {
		s.scanIdentifier()
	} else {
		// take the whole rune so the lexeme stays valid UTF-8
		if c >= utf8.RuneSelf {
			for !s.isAtEnd() && !utf8.RuneStart(s.peek()) {
				s.advance()
			}
		}
		s.invalid(errors.ErrorUnexpectedCharacter,
			fmt.Sprintf("unexpected character %q", s.source[s.start:s.current]))
	}
}

// signStartsNumber decides whether the sign just consumed belongs to a
// numeric literal: it must be followed by a digit and the previous
// significant token must not be able to end an operand.
func (s *Scanner) signStartsNumber() bool {
	if !isDigit(s.peek()) {
		return false
	}
	for i := len(s.tokens) - 1; i >= 0; i-- {
		tok := s.tokens[i]
		if tok.IsTrivia() {
			continue
		}
		switch tok.Type {
		case INTEGER, FLOAT, STRING, BOOLEAN, IDENTIFIER, RIGHT_PAREN, RIGHT_BRACKET, INCREMENT, DECREMENT:
			return false
		default:
			return true
		}
	}
	return true
}

// scanNumber consumes the rest of a numeric literal whose first character
// (a digit or a sign) has already been consumed.
func (s *Scanner) scanNumber() {
	tokenType := INTEGER
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		tokenType = FLOAT
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	if p := s.peek(); p == 'e' || p == 'E' {
		next := s.peekNext()
		if isDigit(next) {
			tokenType = FLOAT
			s.advance()
		} else if (next == '+' || next == '-') && isDigit(s.peekAt(2)) {
			tokenType = FLOAT
			s.advance()
			s.advance()
		}
		if tokenType == FLOAT {
			for isDigit(s.peek()) {
				s.advance()
			}
		}
	}

	s.addToken(tokenType)
}

func (s *Scanner) scanIdentifier() {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	s.addToken(lookupIdentifier(text))
}

func (s *Scanner) scanString(quote byte) {
	var value strings.Builder
	for !s.isAtEnd() && s.peek() != quote && s.peek() != '\n' {
		c := s.advance()
		if c != '\\' {
			value.WriteByte(c)
			continue
		}
		if s.isAtEnd() || s.peek() == '\n' {
			value.WriteByte(c)
			break
		}
		switch e := s.advance(); e {
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case '\\', '"', '\'':
			value.WriteByte(e)
		default:
			value.WriteByte('\\')
			value.WriteByte(e)
		}
	}

	if s.isAtEnd() || s.peek() == '\n' {
		s.addToken(INVALID)
		s.reportErrorAt(errors.ErrorUnterminatedString, "unterminated string literal", s.position(), 1)
		return
	}

	s.advance()
	s.tokens = append(s.tokens, Token{
		Type:     STRING,
		Lexeme:   value.String(),
		Position: ast.Position{Offset: s.start, Line: s.startLine, Column: s.startColumn},
		End:      s.position(),
	})
}

func (s *Scanner) scanSingleLineComment() {
	for s.peek() != '\n' && !s.isAtEnd() {
		s.advance()
	}
	s.addToken(COMMENT_SINGLE)
}

func (s *Scanner) scanBlockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			s.addToken(COMMENT_MULTI_LINE)
			return
		}
		s.advance()
	}

	s.addToken(INVALID)
	s.reportErrorAt(errors.ErrorUnterminatedComment, "unterminated block comment", s.position(), 1)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	if c == '\n' {
		s.line++
		s.column = 1
	} else if utf8.RuneStart(c) {
		s.column++
	}
	return c
}

func (s *Scanner) matchNext(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

func (s *Scanner) peekNext() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(n int) byte {
	if s.current+n >= len(s.source) {
		return 0
	}
	return s.source[s.current+n]
}

func (s *Scanner) position() ast.Position {
	return ast.Position{Offset: s.current, Line: s.line, Column: s.column}
}

func (s *Scanner) addToken(tokenType TokenType) {
	s.tokens = append(s.tokens, Token{
		Type:     tokenType,
		Lexeme:   s.source[s.start:s.current],
		Position: ast.Position{Offset: s.start, Line: s.startLine, Column: s.startColumn},
		End:      s.position(),
	})
}

func (s *Scanner) invalid(code, message string) {
	s.addToken(INVALID)
	s.reportErrorAt(code, message,
		ast.Position{Offset: s.start, Line: s.startLine, Column: s.startColumn},
		utf8.RuneCountInString(s.source[s.start:s.current]))
}

func (s *Scanner) reportErrorAt(code, message string, pos ast.Position, length int) {
	s.errors = append(s.errors, errors.Lexical(code, message, pos, length))
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Helper functions.

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}
