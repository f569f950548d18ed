package parser

import (
	"strings"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lexer"
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.OR:            1,
	lexer.AND:           2,
	lexer.EQUAL:         3,
	lexer.NOT_EQUAL:     3,
	lexer.SWAP:          3,
	lexer.LESS:          4,
	lexer.LESS_EQUAL:    4,
	lexer.GREATER:       4,
	lexer.GREATER_EQUAL: 4,
	lexer.PLUS:          5,
	lexer.MINUS:         5,
	lexer.STAR:          6,
	lexer.SLASH:         6,
	lexer.PERCENT:       6,
	lexer.SPLAT:         6,
	lexer.SPREAD:        6,
}

// binaryOperators normalizes operator spellings, so '<>' becomes '!='
var binaryOperators = map[lexer.TokenType]string{
	lexer.OR:            "||",
	lexer.AND:           "&&",
	lexer.EQUAL:         "==",
	lexer.NOT_EQUAL:     "!=",
	lexer.LESS:          "<",
	lexer.LESS_EQUAL:    "<=",
	lexer.GREATER:       ">",
	lexer.GREATER_EQUAL: ">=",
	lexer.PLUS:          "+",
	lexer.MINUS:         "-",
	lexer.STAR:          "*",
	lexer.SLASH:         "/",
	lexer.PERCENT:       "%",
}

var compoundOperators = map[lexer.TokenType]string{
	lexer.PLUS_ASSIGN:  "+",
	lexer.MINUS_ASSIGN: "-",
	lexer.STAR_ASSIGN:  "*",
	lexer.SLASH_ASSIGN: "/",
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment is right associative. Compound forms are desugared
// here: 'x += e' becomes 'x = x + e'.
func (p *Parser) parseAssignment() ast.Expr {
	target := p.parsePipe()

	if !p.match(lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN, lexer.SLASH_ASSIGN) {
		return target
	}
	opTok := p.previous()
	value := p.parseAssignment()

	if !isAssignable(target) {
		if _, bad := target.(*ast.BadExpr); !bad {
			p.reportAt(target.NodePos(), errors.InvalidAssignmentTarget,
				"invalid assignment target '"+target.String()+"'", opTok)
		}
		return &ast.BadExpr{Bad: ast.BadNode{
			Pos:     target.NodePos(),
			EndPos:  value.NodeEndPos(),
			Message: "invalid assignment target",
		}}
	}

	if op, ok := compoundOperators[opTok.Type]; ok {
		value = &ast.BinaryExpr{
			Pos:    target.NodePos(),
			EndPos: value.NodeEndPos(),
			Left:   cloneExpr(target),
			Op:     op,
			Right:  value,
		}
	}

	return &ast.AssignExpr{
		Pos:    target.NodePos(),
		EndPos: value.NodeEndPos(),
		Target: target,
		Value:  value,
	}
}

// parsePipe handles 'a |> f(b)', rewritten to 'f(a, b)'
func (p *Parser) parsePipe() ast.Expr {
	expr := p.parsePrattExpr(1)

	for p.match(lexer.PIPE) {
		pipeTok := p.previous()
		rhs := p.parsePostfixExpr(p.parsePrimaryExpr())

		switch fn := rhs.(type) {
		case *ast.CallExpr:
			fn.Args = append([]ast.Expr{expr}, fn.Args...)
			fn.Pos = expr.NodePos()
			expr = fn
		case *ast.IdentExpr:
			expr = &ast.CallExpr{
				Pos:    expr.NodePos(),
				EndPos: fn.EndPos,
				Callee: fn,
				Args:   []ast.Expr{expr},
			}
		case *ast.BadExpr:
			expr = fn
		default:
			p.reportAt(rhs.NodePos(), errors.UnexpectedToken, "the right side of '|>' must be a function or a call", pipeTok)
			expr = &ast.BadExpr{Bad: ast.BadNode{Pos: expr.NodePos(), EndPos: rhs.NodeEndPos(), Message: "invalid pipe target"}}
		}
	}

	return expr
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parsePrefixExpr()

	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		right := p.parsePrattExpr(prec + 1)

		op, supported := binaryOperators[tok.Type]
		if !supported {
			p.errorAt(tok, errors.UnsupportedOperator, "operator '"+tok.Lexeme+"' is not supported")
			expr = &ast.BadExpr{Bad: ast.BadNode{
				Pos:     expr.NodePos(),
				EndPos:  right.NodeEndPos(),
				Message: "unsupported operator '" + tok.Lexeme + "'",
			}}
			continue
		}

		expr = &ast.BinaryExpr{
			Pos:    expr.NodePos(),
			EndPos: right.NodeEndPos(),
			Left:   expr,
			Op:     op,
			Right:  right,
		}
	}

	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.match(lexer.MINUS, lexer.BANG) {
		op := p.previous()
		operand := p.parsePrefixExpr()
		return &ast.UnaryExpr{
			Pos:     p.makePos(op),
			EndPos:  operand.NodeEndPos(),
			Op:      op.Lexeme,
			Operand: operand,
		}
	}

	if p.match(lexer.SPLAT, lexer.SPREAD) {
		op := p.previous()
		p.errorAt(op, errors.UnsupportedOperator, "operator '"+op.Lexeme+"' is not supported")
		operand := p.parsePrefixExpr()
		return &ast.BadExpr{Bad: ast.BadNode{
			Pos:     p.makePos(op),
			EndPos:  operand.NodeEndPos(),
			Message: "unsupported operator '" + op.Lexeme + "'",
		}}
	}

	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		if p.match(lexer.DOT) {
			field, ok := p.consumeIdent("expected field name after '.'")
			if !ok {
				break
			}
			expr = &ast.MemberExpr{
				Pos:    expr.NodePos(),
				EndPos: field.EndPos,
				Target: expr,
				Field:  field,
			}
		} else if p.match(lexer.LEFT_PAREN) {
			args := p.parseArguments()
			end := p.makeEndPos(p.previous())
			if closing, ok := p.consume(lexer.RIGHT_PAREN, errors.MissingParenthesis, "expected ')' after arguments"); ok {
				end = p.makeEndPos(closing)
			}
			expr = &ast.CallExpr{
				Pos:    expr.NodePos(),
				EndPos: end,
				Callee: expr,
				Args:   args,
			}
		} else {
			break
		}
	}

	// x++ and x-- become x = x + 1 and x = x - 1
	if p.match(lexer.INCREMENT, lexer.DECREMENT) {
		opTok := p.previous()
		if !isAssignable(expr) {
			p.errorAt(opTok, errors.InvalidAssignmentTarget, "operand of '"+opTok.Lexeme+"' must be a variable or field")
			return &ast.BadExpr{Bad: ast.BadNode{Pos: expr.NodePos(), EndPos: p.makeEndPos(opTok), Message: "invalid increment target"}}
		}

		op := "+"
		if opTok.Type == lexer.DECREMENT {
			op = "-"
		}
		end := p.makeEndPos(opTok)
		one := &ast.LiteralExpr{Pos: p.makePos(opTok), EndPos: end, Kind: ast.IntLiteral, Value: "1"}
		return &ast.AssignExpr{
			Pos:    expr.NodePos(),
			EndPos: end,
			Target: expr,
			Value: &ast.BinaryExpr{
				Pos:    expr.NodePos(),
				EndPos: end,
				Left:   cloneExpr(expr),
				Op:     op,
				Right:  one,
			},
		}
	}

	return expr
}

func (p *Parser) parseArguments() []ast.Expr {
	var args []ast.Expr
	if p.check(lexer.RIGHT_PAREN) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case lexer.INTEGER, lexer.FLOAT, lexer.STRING, lexer.BOOLEAN:
		p.advance()
		lit := &ast.LiteralExpr{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Value:  tok.Lexeme,
		}
		switch tok.Type {
		case lexer.INTEGER:
			lit.Kind = ast.IntLiteral
		case lexer.FLOAT:
			lit.Kind = ast.FloatLiteral
		case lexer.STRING:
			lit.Kind = ast.StringLiteral
		case lexer.BOOLEAN:
			lit.Kind = ast.BoolLiteral
			lit.Value = strings.ToLower(tok.Lexeme)
		}
		return lit

	case lexer.IDENTIFIER:
		p.advance()
		return &ast.IdentExpr{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Name:   tok.Lexeme,
		}

	case lexer.LEFT_PAREN:
		p.advance()
		inner := p.parseExpression()
		end := p.makeEndPos(p.previous())
		if closing, ok := p.consume(lexer.RIGHT_PAREN, errors.MissingParenthesis, "expected ')' after expression"); ok {
			end = p.makeEndPos(closing)
		}
		return &ast.GroupedExpr{
			Pos:    p.makePos(tok),
			EndPos: end,
			Inner:  inner,
		}
	}

	p.errorAt(tok, errors.UnexpectedToken, "expected expression, found "+describe(tok))
	switch tok.Type {
	case lexer.SEMICOLON, lexer.RIGHT_BRACE, lexer.RIGHT_PAREN, lexer.COMMA, lexer.EOF:
	default:
		p.advance()
	}
	return p.badExpr(tok, "expected expression")
}

// reportAt records an error at a node position, using tok only for its span length
func (p *Parser) reportAt(pos ast.Position, errorType, message string, tok lexer.Token) {
	p.errorAt(lexer.Token{Type: tok.Type, Lexeme: tok.Lexeme, Position: pos}, errorType, message)
}

func isAssignable(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.IdentExpr, *ast.MemberExpr:
		return true
	default:
		return false
	}
}

// cloneExpr deep-copies an expression so a desugared tree never shares nodes
func cloneExpr(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.IdentExpr:
		c := *e
		return &c
	case *ast.LiteralExpr:
		c := *e
		return &c
	case *ast.MemberExpr:
		c := *e
		c.Target = cloneExpr(e.Target)
		return &c
	case *ast.GroupedExpr:
		c := *e
		c.Inner = cloneExpr(e.Inner)
		return &c
	case *ast.UnaryExpr:
		c := *e
		c.Operand = cloneExpr(e.Operand)
		return &c
	case *ast.BinaryExpr:
		c := *e
		c.Left = cloneExpr(e.Left)
		c.Right = cloneExpr(e.Right)
		return &c
	case *ast.CallExpr:
		c := *e
		c.Callee = cloneExpr(e.Callee)
		c.Args = make([]ast.Expr, len(e.Args))
		for i, a := range e.Args {
			c.Args[i] = cloneExpr(a)
		}
		return &c
	case *ast.AssignExpr:
		c := *e
		c.Target = cloneExpr(e.Target)
		c.Value = cloneExpr(e.Value)
		return &c
	case *ast.BadExpr:
		c := *e
		return &c
	default:
		return expr
	}
}
