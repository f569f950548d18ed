package parser

import (
	"fmt"
	"strings"

	"dream/internal/ast"
	"dream/internal/builtins"
	"dream/internal/errors"
	"dream/internal/lexer"
)

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) checkKeyword(word string) bool {
	return p.peek().IsKeyword(word)
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchKeyword(word string) bool {
	if p.checkKeyword(word) {
		p.advance()
		return true
	}
	return false
}

// consume expects a token type. On failure it records an error of the
// given class and leaves the offending token in place.
func (p *Parser) consume(tt lexer.TokenType, errorType, message string) (lexer.Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), errorType, fmt.Sprintf("%s, found %s", message, describe(p.peek())))
	return lexer.Token{Type: lexer.INVALID, Position: p.peek().Position}, false
}

// consumeIdent consumes an identifier token and returns an ast.Ident
func (p *Parser) consumeIdent(message string) (ast.Ident, bool) {
	tok, ok := p.consume(lexer.IDENTIFIER, errors.UnexpectedToken, message)
	if !ok {
		return ast.Ident{Pos: tok.Position, EndPos: tok.Position}, false
	}
	return p.makeIdent(tok), true
}

// consumeSemicolon ends a statement and returns its end position
func (p *Parser) consumeSemicolon(what string) ast.Position {
	if p.match(lexer.SEMICOLON) {
		return p.makeEndPos(p.previous())
	}
	p.errorAt(p.peek(), errors.MissingSemicolon,
		fmt.Sprintf("expected ';' after %s, found %s", what, describe(p.peek())))
	if p.current == 0 {
		return p.makePos(p.peek())
	}
	return p.makeEndPos(p.previous())
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

// errorAt records a syntax error. A second error at the same token is
// dropped so one mistake yields one diagnostic.
func (p *Parser) errorAt(tok lexer.Token, errorType, message string) {
	if tok.Type == lexer.EOF && errorType == errors.UnexpectedToken {
		errorType = errors.UnexpectedEndOfFile
	}
	if n := len(p.errors); n > 0 {
		last := p.errors[n-1].Position
		if last.Line == tok.Position.Line && last.Column == tok.Position.Column {
			return
		}
	}
	p.errors = append(p.errors, errors.Syntax(errorType, message, tok.Position, tok.Span()))
}

// stuckAtError reports whether errors were added since errCount and the
// parser still sits on the token of the last one. A missing semicolon
// never counts: the next statement starts right there.
func (p *Parser) stuckAtError(errCount int) bool {
	if len(p.errors) <= errCount {
		return false
	}
	last := p.errors[len(p.errors)-1]
	if last.ErrorType == errors.MissingSemicolon {
		return false
	}
	pos := p.peek().Position
	return last.Position.Line == pos.Line && last.Position.Column == pos.Column
}

func (p *Parser) makePos(tok lexer.Token) ast.Position {
	return tok.Position
}

func (p *Parser) makeEndPos(tok lexer.Token) ast.Position {
	return tok.EndPosition()
}

// synchronize skips to a statement boundary: just past a ';', before a
// '}', or before a keyword that starts a statement.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.check(lexer.RIGHT_BRACE) {
			return
		}
		if p.match(lexer.SEMICOLON) {
			return
		}

		tok := p.peek()
		if tok.Type == lexer.KEYWORD {
			switch strings.ToLower(tok.Lexeme) {
			case "let", "const", "if", "while", "do", "for", "return", "fn", "struct":
				return
			}
		}

		p.advance()
	}
}

// synchronizeTopLevel skips to the next declaration keyword outside any braces
func (p *Parser) synchronizeTopLevel() {
	depth := 0
	for !p.isAtEnd() {
		tok := p.peek()
		if depth == 0 && (tok.IsKeyword("fn") || tok.IsKeyword("struct") || tok.IsKeyword("let") || tok.IsKeyword("const")) {
			return
		}

		switch tok.Type {
		case lexer.LEFT_BRACE:
			depth++
		case lexer.RIGHT_BRACE:
			if depth > 0 {
				depth--
			}
		}
		p.advance()
	}
}

// Helper functions to reduce repetitive AST node creation

// makeIdent creates an ast.Ident from a token
func (p *Parser) makeIdent(tok lexer.Token) ast.Ident {
	return ast.Ident{
		Pos:    p.makePos(tok),
		EndPos: p.makeEndPos(tok),
		Value:  tok.Lexeme,
	}
}

func (p *Parser) badExpr(tok lexer.Token, message string) *ast.BadExpr {
	return &ast.BadExpr{Bad: ast.BadNode{
		Pos:     p.makePos(tok),
		EndPos:  p.makeEndPos(tok),
		Message: message,
	}}
}

func isTypeKeyword(lexeme string) bool {
	return builtins.IsBuiltinType(lexeme)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of file"
	case lexer.STRING:
		return fmt.Sprintf("string %q", tok.Lexeme)
	default:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	}
}
