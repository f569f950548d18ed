package parser

import (
	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lexer"
)

type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []errors.CompilerError
}

// NewParser prepares a parser over a token stream. Trivia is dropped and
// the stream is cut at the first EOF, which is appended when missing.
func NewParser(tokens []lexer.Token) *Parser {
	sig := make([]lexer.Token, 0, len(tokens)+1)
	for _, tok := range lexer.Significant(tokens) {
		if tok.Type == lexer.EOF {
			break
		}
		sig = append(sig, tok)
	}

	eof := ast.Position{Line: 1, Column: 1}
	if n := len(sig); n > 0 {
		eof = sig[n-1].EndPosition()
	}
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.EOF && tokens[n-1].Position.Line > 0 {
		eof = tokens[n-1].Position
	}
	sig = append(sig, lexer.Token{Type: lexer.EOF, Position: eof, End: eof})

	return &Parser{tokens: sig}
}

// Parse builds a program from tokens, collecting every syntax error
func Parse(tokens []lexer.Token) (*ast.Program, []errors.CompilerError) {
	p := NewParser(tokens)
	program := p.ParseProgram()
	return program, p.Errors()
}

// ParseSource lexes and parses source. Lexical errors come first in the
// returned list, followed by syntax errors.
func ParseSource(source string) (*ast.Program, []errors.CompilerError) {
	scanner := lexer.NewScanner(source)
	tokens := scanner.ScanTokens()

	program, syntaxErrors := Parse(tokens)

	all := append([]errors.CompilerError{}, scanner.Errors()...)
	return program, append(all, syntaxErrors...)
}

func (p *Parser) Errors() []errors.CompilerError {
	return p.errors
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Pos: p.makePos(p.peek())}

	for !p.isAtEnd() {
		start := p.current
		program.Decls = append(program.Decls, p.parseDeclaration())
		if p.current == start {
			p.advance()
		}
	}

	program.EndPos = p.makePos(p.peek())
	return program
}

func (p *Parser) parseDeclaration() ast.Decl {
	tok := p.peek()

	switch {
	case tok.IsKeyword("fn"):
		return p.parseFunction()
	case tok.IsKeyword("struct"):
		return p.parseStruct()
	case tok.IsKeyword("let"), tok.IsKeyword("const"):
		errCount := len(p.errors)
		decl := p.parseVarDecl()
		if decl == nil {
			return p.badDecl(tok, errCount)
		}
		if p.stuckAtError(errCount) {
			p.synchronizeTopLevel()
		}
		return decl
	}

	errCount := len(p.errors)
	p.errorAt(tok, errors.UnexpectedToken,
		"expected a declaration ('fn', 'struct', 'let' or 'const'), found "+describe(tok))
	p.advance()
	return p.badDecl(tok, errCount)
}

func (p *Parser) badDecl(start lexer.Token, errCount int) *ast.BadDecl {
	p.synchronizeTopLevel()
	message := "invalid declaration"
	if len(p.errors) > errCount {
		message = p.errors[errCount].Message
	}
	return &ast.BadDecl{Bad: ast.BadNode{
		Pos:     p.makePos(start),
		EndPos:  p.makeEndPos(p.previous()),
		Message: message,
	}}
}

func (p *Parser) parseFunction() ast.Decl {
	start := p.advance()
	errCount := len(p.errors)

	name, ok := p.consumeIdent("expected function name after 'fn'")
	if !ok {
		return p.badDecl(start, errCount)
	}

	params := p.parseParameters()

	var returnType *ast.TypeRef
	if p.match(lexer.ARROW) {
		returnType = p.parseType()
	} else {
		p.errorAt(p.peek(), errors.MissingType, "expected '->' and a return type after the parameter list")
	}

	if !p.check(lexer.LEFT_BRACE) {
		p.errorAt(p.peek(), errors.UnexpectedToken, "expected '{' to start function body, found "+describe(p.peek()))
		return p.badDecl(start, errCount)
	}

	body := p.parseBlock()
	return &ast.FunctionDecl{
		Pos:        p.makePos(start),
		EndPos:     body.EndPos,
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
	}
}

// parseParameters parses the parameter list in parentheses
func (p *Parser) parseParameters() []*ast.Param {
	if !p.match(lexer.LEFT_PAREN) {
		p.errorAt(p.peek(), errors.MissingParenthesis, "expected '(' after function name")
		return nil
	}

	var params []*ast.Param
	for !p.check(lexer.RIGHT_PAREN) && !p.isAtEnd() {
		name, ok := p.consumeIdent("expected parameter name")
		if !ok {
			break
		}

		p.consume(lexer.COLON, errors.MissingType, "expected ':' and a type after parameter name")
		paramType := p.parseType()

		end := name.EndPos
		if paramType != nil {
			end = paramType.EndPos
		}
		params = append(params, &ast.Param{
			Pos:    name.Pos,
			EndPos: end,
			Name:   name,
			Type:   paramType,
		})

		if !p.match(lexer.COMMA) {
			break
		}
	}

	p.consume(lexer.RIGHT_PAREN, errors.MissingParenthesis, "expected ')' after parameters")
	return params
}

// parseType accepts a type keyword or a struct name
func (p *Parser) parseType() *ast.TypeRef {
	tok := p.peek()
	if tok.Type == lexer.IDENTIFIER || (tok.Type == lexer.KEYWORD && isTypeKeyword(tok.Lexeme)) {
		p.advance()
		return &ast.TypeRef{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Name:   tok.Lexeme,
		}
	}

	p.errorAt(tok, errors.MissingType, "expected a type, found "+describe(tok))
	return nil
}

func (p *Parser) parseStruct() ast.Decl {
	start := p.advance()
	errCount := len(p.errors)

	name, ok := p.consumeIdent("expected struct name after 'struct'")
	if !ok {
		return p.badDecl(start, errCount)
	}

	if _, ok := p.consume(lexer.LEFT_BRACE, errors.UnexpectedToken, "expected '{' after struct name"); !ok {
		return p.badDecl(start, errCount)
	}

	var fields []*ast.Field
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		fieldName, ok := p.consumeIdent("expected field name")
		if !ok {
			break
		}

		p.consume(lexer.COLON, errors.MissingType, "expected ':' and a type after field name")
		fieldType := p.parseType()

		end := fieldName.EndPos
		if fieldType != nil {
			end = fieldType.EndPos
		}
		fields = append(fields, &ast.Field{
			Pos:    fieldName.Pos,
			EndPos: end,
			Name:   fieldName,
			Type:   fieldType,
		})

		if !p.match(lexer.COMMA) {
			break
		}
	}

	end, ok := p.consume(lexer.RIGHT_BRACE, errors.UnexpectedToken, "expected ',' or '}' after struct field")
	if !ok {
		return p.badDecl(start, errCount)
	}
	p.match(lexer.SEMICOLON)

	return &ast.StructDecl{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   name,
		Fields: fields,
	}
}

// parseVarDecl parses let and const declarations. It returns nil when
// not even a name could be read.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.advance()
	isConst := start.IsKeyword("const")

	name, ok := p.consumeIdent("expected a name after '" + start.Lexeme + "'")
	if !ok {
		return nil
	}

	decl := &ast.VarDecl{
		Pos:   p.makePos(start),
		Name:  name,
		Const: isConst,
	}

	if p.match(lexer.COLON) {
		decl.Type = p.parseType()
	}

	if p.match(lexer.ASSIGN) {
		decl.Value = p.parseExpression()
	} else {
		tok := p.peek()
		p.errorAt(tok, errors.UnexpectedToken, "expected '=' and an initializer after '"+name.Value+"'")
		decl.Value = p.badExpr(tok, "missing initializer")
	}

	decl.EndPos = p.consumeSemicolon("declaration")
	return decl
}
