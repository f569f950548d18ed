package ast

// Children returns the direct child nodes in source order. Type
// annotations are included so tools can see every span.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			add(d)
		}
	case *FunctionDecl:
		for _, p := range n.Params {
			add(p)
		}
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Param:
		if n.Type != nil {
			add(n.Type)
		}
	case *StructDecl:
		for _, f := range n.Fields {
			add(f)
		}
	case *Field:
		if n.Type != nil {
			add(n.Type)
		}
	case *VarDecl:
		if n.Type != nil {
			add(n.Type)
		}
		if n.Value != nil {
			add(n.Value)
		}
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *IfStmt:
		add(n.Cond)
		if n.Then != nil {
			add(n.Then)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *WhileStmt:
		add(n.Cond)
		if n.Body != nil {
			add(n.Body)
		}
	case *DoUntilStmt:
		if n.Body != nil {
			add(n.Body)
		}
		add(n.Cond)
	case *ForInStmt:
		add(n.Iterable)
		if n.Body != nil {
			add(n.Body)
		}
	case *ReturnStmt:
		if n.Value != nil {
			add(n.Value)
		}
	case *ExprStmt:
		add(n.Expr)
	case *DeclStmt:
		add(n.Decl)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *GroupedExpr:
		add(n.Inner)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *MemberExpr:
		add(n.Target)
	case *TypeRef, *LiteralExpr, *IdentExpr, *BadExpr, *BadStmt, *BadDecl:
	}
	return out
}

// Inspect traverses the tree in pre-order. Returning false from fn skips
// the children of that node.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}

// Expressions collects every expression reachable from node
func Expressions(node Node) []Expr {
	var exprs []Expr
	Inspect(node, func(n Node) bool {
		if e, ok := n.(Expr); ok {
			exprs = append(exprs, e)
		}
		return true
	})
	return exprs
}
