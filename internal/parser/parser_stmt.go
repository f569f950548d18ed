package parser

import (
	"fmt"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lexer"
)

// parseBlock parses '{' stmt* '}'. A missing '{' yields an empty block
// positioned at the offending token.
func (p *Parser) parseBlock() *ast.Block {
	open, ok := p.consume(lexer.LEFT_BRACE, errors.UnexpectedToken, "expected '{'")
	if !ok {
		pos := p.makePos(p.peek())
		return &ast.Block{Pos: pos, EndPos: pos}
	}

	block := &ast.Block{Pos: p.makePos(open)}
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		start := p.current
		errCount := len(p.errors)

		stmt := p.parseStatement()
		block.Stmts = append(block.Stmts, stmt)

		if _, bad := stmt.(*ast.BadStmt); bad || p.stuckAtError(errCount) {
			p.synchronize()
		}
		if p.current == start {
			p.advance()
		}
	}

	if closing, ok := p.consume(lexer.RIGHT_BRACE, errors.UnexpectedToken, "expected '}' to close block"); ok {
		block.EndPos = p.makeEndPos(closing)
	} else {
		block.EndPos = p.makeEndPos(p.previous())
	}
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.peek()

	switch {
	case tok.IsKeyword("let"), tok.IsKeyword("const"):
		errCount := len(p.errors)
		decl := p.parseVarDecl()
		if decl == nil {
			return p.badStmt(tok, errCount)
		}
		return &ast.DeclStmt{Decl: decl}
	case tok.IsKeyword("if"):
		return p.parseIfStmt()
	case tok.IsKeyword("while"):
		return p.parseWhileStmt()
	case tok.IsKeyword("do"):
		return p.parseDoUntilStmt()
	case tok.IsKeyword("for"):
		return p.parseForInStmt()
	case tok.IsKeyword("return"):
		return p.parseReturnStmt()
	case tok.IsKeyword("fn"), tok.IsKeyword("struct"):
		errCount := len(p.errors)
		p.errorAt(tok, errors.UnexpectedToken, fmt.Sprintf("'%s' declarations are only allowed at top level", tok.Lexeme))
		// parse and drop it so its body is not taken for the enclosing block
		if tok.IsKeyword("fn") {
			p.parseFunction()
		} else {
			p.parseStruct()
		}
		return p.badStmt(tok, errCount)
	case tok.Type == lexer.LEFT_BRACE:
		return p.parseBlock()
	}

	return p.parseExprStmt()
}

func (p *Parser) badStmt(start lexer.Token, errCount int) *ast.BadStmt {
	message := "invalid statement"
	if len(p.errors) > errCount {
		message = p.errors[errCount].Message
	}
	return &ast.BadStmt{Bad: ast.BadNode{
		Pos:     p.makePos(start),
		EndPos:  p.makeEndPos(p.previous()),
		Message: message,
	}}
}

// parseCondition parses the parenthesized condition of if, while and
// until. Without parentheses the error is reported and the bare
// expression is used, so the statement body still parses.
func (p *Parser) parseCondition(keyword string) ast.Expr {
	if p.match(lexer.LEFT_PAREN) {
		cond := p.parseExpression()
		p.consume(lexer.RIGHT_PAREN, errors.MissingParenthesis, fmt.Sprintf("expected ')' after '%s' condition", keyword))
		return cond
	}

	p.errorAt(p.peek(), errors.MissingParenthesis,
		fmt.Sprintf("expected '(' after '%s', conditions must be parenthesized", keyword))
	return p.parseExpression()
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance()
	cond := p.parseCondition("if")
	then := p.parseBlock()

	stmt := &ast.IfStmt{
		Pos:    p.makePos(start),
		EndPos: then.EndPos,
		Cond:   cond,
		Then:   then,
	}

	if p.matchKeyword("else") {
		if p.checkKeyword("if") {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
		stmt.EndPos = stmt.Else.NodeEndPos()
	}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance()
	cond := p.parseCondition("while")
	body := p.parseBlock()

	return &ast.WhileStmt{
		Pos:    p.makePos(start),
		EndPos: body.EndPos,
		Cond:   cond,
		Body:   body,
	}
}

func (p *Parser) parseDoUntilStmt() ast.Stmt {
	start := p.advance()
	body := p.parseBlock()

	var cond ast.Expr
	if p.matchKeyword("until") {
		cond = p.parseCondition("until")
	} else {
		tok := p.peek()
		p.errorAt(tok, errors.UnexpectedToken, "expected 'until' after 'do' block, found "+describe(tok))
		cond = p.badExpr(tok, "missing 'until' condition")
	}

	return &ast.DoUntilStmt{
		Pos:    p.makePos(start),
		EndPos: p.consumeSemicolon("'do ... until' statement"),
		Body:   body,
		Cond:   cond,
	}
}

func (p *Parser) parseForInStmt() ast.Stmt {
	start := p.advance()
	errCount := len(p.errors)

	hasParen := p.match(lexer.LEFT_PAREN)
	if !hasParen {
		p.errorAt(p.peek(), errors.MissingParenthesis, "expected '(' after 'for'")
	}

	name, ok := p.consumeIdent("expected loop variable in 'for'")
	if !ok {
		return p.badStmt(start, errCount)
	}

	if !p.matchKeyword("in") {
		p.errorAt(p.peek(), errors.MissingInKeyword, "expected 'in' after loop variable, found "+describe(p.peek()))
	}

	iterable := p.parseExpression()
	if hasParen {
		p.consume(lexer.RIGHT_PAREN, errors.MissingParenthesis, "expected ')' after 'for' header")
	}
	body := p.parseBlock()

	return &ast.ForInStmt{
		Pos:      p.makePos(start),
		EndPos:   body.EndPos,
		Var:      name,
		Iterable: iterable,
		Body:     body,
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance()

	var value ast.Expr
	if !p.check(lexer.SEMICOLON) && !p.check(lexer.RIGHT_BRACE) {
		value = p.parseExpression()
	}

	return &ast.ReturnStmt{
		Pos:    p.makePos(start),
		EndPos: p.consumeSemicolon("return statement"),
		Value:  value,
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpression()
	return &ast.ExprStmt{
		Pos:    expr.NodePos(),
		EndPos: p.consumeSemicolon("expression"),
		Expr:   expr,
	}
}
