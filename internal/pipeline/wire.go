package pipeline

import (
	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lexer"
	"dream/internal/semantic"
)

// Token is the wire shape of a lexer token
type Token struct {
	TokenType string `json:"token_type"`
	Lexeme    string `json:"lexeme"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
}

// TokenList is an ordered token sequence as exchanged with clients
type TokenList []Token

// Diagnostic is the wire shape of a CompilerError. ErrorType is only set
// for syntax errors.
type Diagnostic struct {
	Kind      string `json:"kind"`
	Level     string `json:"level"`
	Code      string `json:"code"`
	ErrorType string `json:"error_type,omitempty"`
	Message   string `json:"message"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
}

// Node is the wire shape of an AST node. InferredType is filled for
// expressions once the tree has been analyzed.
type Node struct {
	NodeType     string  `json:"node_type"`
	Value        string  `json:"value"`
	Children     []*Node `json:"children"`
	StartLine    uint32  `json:"start_line"`
	StartColumn  uint32  `json:"start_column"`
	EndLine      uint32  `json:"end_line"`
	EndColumn    uint32  `json:"end_column"`
	InferredType string  `json:"inferred_type,omitempty"`
}

// Scope is the wire shape of one symbol table scope
type Scope struct {
	ID      int      `json:"id"`
	Parent  int      `json:"parent"`
	Kind    string   `json:"kind"`
	Depth   int      `json:"depth"`
	Symbols []Symbol `json:"symbols"`
}

type Symbol struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Type   string   `json:"type"`
	Params []string `json:"params,omitempty"`
	Line   uint32   `json:"line"`
	Column uint32   `json:"column"`
}

// ToWireTokens converts lexer tokens, dropping trivia
func ToWireTokens(tokens []lexer.Token) TokenList {
	out := make(TokenList, 0, len(tokens))
	for _, tok := range lexer.Significant(tokens) {
		out = append(out, Token{
			TokenType: tok.Type.String(),
			Lexeme:    tok.Lexeme,
			Line:      uint32(tok.Position.Line),
			Column:    uint32(tok.Position.Column),
		})
	}
	return out
}

// FromWireTokens rebuilds lexer tokens. Unknown token type names become
// Invalid tokens, which the parser reports.
func FromWireTokens(list TokenList) []lexer.Token {
	out := make([]lexer.Token, len(list))
	for i, tok := range list {
		out[i] = lexer.Token{
			Type:   lexer.KindFromString(tok.TokenType),
			Lexeme: tok.Lexeme,
			Position: ast.Position{
				Line:   int(tok.Line),
				Column: int(tok.Column),
			},
		}
	}
	return out
}

func ToDiagnostics(list []errors.CompilerError) []Diagnostic {
	out := make([]Diagnostic, len(list))
	for i, e := range list {
		out[i] = Diagnostic{
			Kind:      string(e.Kind),
			Level:     string(e.Level),
			Code:      e.Code,
			ErrorType: e.ErrorType,
			Message:   e.Message,
			Line:      uint32(e.Position.Line),
			Column:    uint32(e.Position.Column),
		}
	}
	return out
}

// ToScopes flattens the symbol table in scope creation order
func ToScopes(table *semantic.SymbolTable) []Scope {
	if table == nil {
		return nil
	}
	var out []Scope
	for _, scope := range table.Scopes() {
		ws := Scope{
			ID:      int(scope.ID),
			Parent:  int(scope.Parent),
			Kind:    scope.Kind.String(),
			Depth:   scope.Depth,
			Symbols: []Symbol{},
		}
		for _, sym := range scope.Symbols() {
			s := Symbol{
				Name:   sym.Name,
				Kind:   sym.Kind.String(),
				Type:   sym.Type.String(),
				Line:   uint32(sym.Position.Line),
				Column: uint32(sym.Position.Column),
			}
			for _, p := range sym.Params {
				s.Params = append(s.Params, p.String())
			}
			ws.Symbols = append(ws.Symbols, s)
		}
		out = append(out, ws)
	}
	return out
}

// ToNode converts a tree to its wire shape. A nil program yields nil.
func ToNode(program *ast.Program) *Node {
	if program == nil {
		return nil
	}
	return convert(program)
}

func newNode(nodeType, value string, n ast.Node) *Node {
	start, end := n.NodePos(), n.NodeEndPos()
	return &Node{
		NodeType:    nodeType,
		Value:       value,
		Children:    []*Node{},
		StartLine:   uint32(start.Line),
		StartColumn: uint32(start.Column),
		EndLine:     uint32(end.Line),
		EndColumn:   uint32(end.Column),
	}
}

// group wraps children that have no node of their own, such as a
// parameter list, spanning from the first to the last child
func group(nodeType string, owner ast.Node, children []*Node) *Node {
	g := newNode(nodeType, "", owner)
	if len(children) > 0 {
		first, last := children[0], children[len(children)-1]
		g.StartLine, g.StartColumn = first.StartLine, first.StartColumn
		g.EndLine, g.EndColumn = last.EndLine, last.EndColumn
	}
	g.Children = children
	return g
}

func (n *Node) add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func typeNode(t *ast.TypeRef) *Node {
	if t == nil {
		return nil
	}
	return newNode("Type", t.Name, t)
}

func convert(node ast.Node) *Node {
	switch n := node.(type) {
	case *ast.Program:
		out := newNode("Program", "", n)
		for _, d := range n.Decls {
			out.add(convert(d))
		}
		return out

	case *ast.FunctionDecl:
		params := make([]*Node, len(n.Params))
		for i, p := range n.Params {
			params[i] = convert(p)
		}
		out := newNode("Function", n.Name.Value, n)
		out.add(group("Parameters", n, params), typeNode(n.ReturnType))
		if n.Body != nil {
			out.add(convert(n.Body))
		}
		return out

	case *ast.Param:
		return newNode("Parameter", n.Name.Value, n).add(typeNode(n.Type))

	case *ast.StructDecl:
		fields := make([]*Node, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = newNode("Field", f.Name.Value, f).add(typeNode(f.Type))
		}
		return newNode("StructDeclaration", n.Name.Value, n).add(group("Fields", n, fields))

	case *ast.VarDecl:
		nodeType := "VariableDeclaration"
		if n.Const {
			nodeType = "ConstantDeclaration"
		}
		out := newNode(nodeType, n.Name.Value, n).add(typeNode(n.Type))
		if n.Value != nil {
			out.add(convert(n.Value))
		}
		return out

	case *ast.Block:
		out := newNode("Block", "", n)
		for _, s := range n.Stmts {
			out.add(convert(s))
		}
		return out

	case *ast.DeclStmt:
		return convert(n.Decl)

	case *ast.IfStmt:
		out := newNode("If", "", n).add(convertExpr(n.Cond))
		if n.Then != nil {
			out.add(convert(n.Then))
		}
		if n.Else != nil {
			out.add(newNode("Else", "", n.Else).add(convert(n.Else)))
		}
		return out

	case *ast.WhileStmt:
		out := newNode("While", "", n).add(convertExpr(n.Cond))
		if n.Body != nil {
			out.add(convert(n.Body))
		}
		return out

	case *ast.DoUntilStmt:
		out := newNode("DoUntil", "", n)
		if n.Body != nil {
			out.add(convert(n.Body))
		}
		return out.add(convertExpr(n.Cond))

	case *ast.ForInStmt:
		out := newNode("For", n.Var.Value, n).add(convertExpr(n.Iterable))
		if n.Body != nil {
			out.add(convert(n.Body))
		}
		return out

	case *ast.ReturnStmt:
		return newNode("Return", "", n).add(convertExpr(n.Value))

	case *ast.ExprStmt:
		return newNode("ExpressionStatement", "", n).add(convertExpr(n.Expr))

	case *ast.BadDecl:
		return newNode("Error", n.Bad.Message, n)
	case *ast.BadStmt:
		return newNode("Error", n.Bad.Message, n)

	case ast.Expr:
		return convertExpr(n)

	default:
		return newNode("Error", node.NodeType().String(), node)
	}
}

func convertExpr(expr ast.Expr) *Node {
	if expr == nil {
		return nil
	}

	var out *Node
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		out = newNode(literalNodeTypes[e.Kind], e.Value, e)
	case *ast.IdentExpr:
		out = newNode("Identifier", e.Name, e)
	case *ast.BinaryExpr:
		out = newNode("Binary", e.Op, e).add(convertExpr(e.Left), convertExpr(e.Right))
	case *ast.UnaryExpr:
		out = newNode("Unary", e.Op, e).add(convertExpr(e.Operand))
	case *ast.GroupedExpr:
		out = newNode("Grouped", "", e).add(convertExpr(e.Inner))
	case *ast.CallExpr:
		out = newNode("FunctionCall", e.CalleeName(), e)
		if e.CalleeName() == "" {
			out.add(convertExpr(e.Callee))
		}
		args := make([]*Node, len(e.Args))
		for i, a := range e.Args {
			args[i] = convertExpr(a)
		}
		out.add(group("Arguments", e, args))
	case *ast.AssignExpr:
		out = newNode("Assignment", "=", e).add(convertExpr(e.Target), convertExpr(e.Value))
	case *ast.MemberExpr:
		out = newNode("MemberAccess", e.Field.Value, e).add(convertExpr(e.Target))
	case *ast.BadExpr:
		return newNode("Error", e.Bad.Message, e)
	default:
		return newNode("Error", expr.NodeType().String(), expr)
	}

	if t := expr.Type(); t.IsKnown() {
		out.InferredType = t.String()
	}
	return out
}

var literalNodeTypes = map[ast.LiteralKind]string{
	ast.IntLiteral:    "IntLiteral",
	ast.FloatLiteral:  "FloatLiteral",
	ast.StringLiteral: "StringLiteral",
	ast.BoolLiteral:   "BoolLiteral",
}
