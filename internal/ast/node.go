package ast

import "dream/internal/types"

// Node is implemented by every AST node
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string
}

// Decl is a top-level declaration
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a block
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression carrying a type annotation slot
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

func (p *Program) NodePos() Position    { return p.Pos }
func (p *Program) NodeEndPos() Position { return p.EndPos }
func (*Program) NodeType() NodeType     { return PROGRAM }

func (f *FunctionDecl) NodePos() Position    { return f.Pos }
func (f *FunctionDecl) NodeEndPos() Position { return f.EndPos }
func (*FunctionDecl) NodeType() NodeType     { return FUNCTION_DECL }

func (p *Param) NodePos() Position    { return p.Pos }
func (p *Param) NodeEndPos() Position { return p.EndPos }
func (*Param) NodeType() NodeType     { return PARAM }

func (t *TypeRef) NodePos() Position    { return t.Pos }
func (t *TypeRef) NodeEndPos() Position { return t.EndPos }
func (*TypeRef) NodeType() NodeType     { return TYPE_REF }

func (s *StructDecl) NodePos() Position    { return s.Pos }
func (s *StructDecl) NodeEndPos() Position { return s.EndPos }
func (*StructDecl) NodeType() NodeType     { return STRUCT_DECL }

func (f *Field) NodePos() Position    { return f.Pos }
func (f *Field) NodeEndPos() Position { return f.EndPos }
func (*Field) NodeType() NodeType     { return FIELD }

func (bd *BadDecl) NodePos() Position    { return bd.Bad.Pos }
func (bd *BadDecl) NodeEndPos() Position { return bd.Bad.EndPos }
func (*BadDecl) NodeType() NodeType      { return BAD_DECL }

func (b *Block) NodePos() Position    { return b.Pos }
func (b *Block) NodeEndPos() Position { return b.EndPos }
func (*Block) NodeType() NodeType     { return BLOCK }

func (i *IfStmt) NodePos() Position    { return i.Pos }
func (i *IfStmt) NodeEndPos() Position { return i.EndPos }
func (*IfStmt) NodeType() NodeType     { return IF_STMT }

func (w *WhileStmt) NodePos() Position    { return w.Pos }
func (w *WhileStmt) NodeEndPos() Position { return w.EndPos }
func (*WhileStmt) NodeType() NodeType     { return WHILE_STMT }

func (d *DoUntilStmt) NodePos() Position    { return d.Pos }
func (d *DoUntilStmt) NodeEndPos() Position { return d.EndPos }
func (*DoUntilStmt) NodeType() NodeType     { return DO_UNTIL_STMT }

func (f *ForInStmt) NodePos() Position    { return f.Pos }
func (f *ForInStmt) NodeEndPos() Position { return f.EndPos }
func (*ForInStmt) NodeType() NodeType     { return FOR_IN_STMT }

func (r *ReturnStmt) NodePos() Position    { return r.Pos }
func (r *ReturnStmt) NodeEndPos() Position { return r.EndPos }
func (*ReturnStmt) NodeType() NodeType     { return RETURN_STMT }

func (e *ExprStmt) NodePos() Position    { return e.Pos }
func (e *ExprStmt) NodeEndPos() Position { return e.EndPos }
func (*ExprStmt) NodeType() NodeType     { return EXPR_STMT }

func (d *DeclStmt) NodePos() Position    { return d.Decl.Pos }
func (d *DeclStmt) NodeEndPos() Position { return d.Decl.EndPos }
func (*DeclStmt) NodeType() NodeType     { return DECL_STMT }

func (bs *BadStmt) NodePos() Position    { return bs.Bad.Pos }
func (bs *BadStmt) NodeEndPos() Position { return bs.Bad.EndPos }
func (*BadStmt) NodeType() NodeType      { return BAD_STMT }

func (l *LiteralExpr) NodePos() Position    { return l.Pos }
func (l *LiteralExpr) NodeEndPos() Position { return l.EndPos }
func (*LiteralExpr) NodeType() NodeType     { return LITERAL_EXPR }

func (i *IdentExpr) NodePos() Position    { return i.Pos }
func (i *IdentExpr) NodeEndPos() Position { return i.EndPos }
func (*IdentExpr) NodeType() NodeType     { return IDENT_EXPR }

func (b *BinaryExpr) NodePos() Position    { return b.Pos }
func (b *BinaryExpr) NodeEndPos() Position { return b.EndPos }
func (*BinaryExpr) NodeType() NodeType     { return BINARY_EXPR }

func (u *UnaryExpr) NodePos() Position    { return u.Pos }
func (u *UnaryExpr) NodeEndPos() Position { return u.EndPos }
func (*UnaryExpr) NodeType() NodeType     { return UNARY_EXPR }

func (g *GroupedExpr) NodePos() Position    { return g.Pos }
func (g *GroupedExpr) NodeEndPos() Position { return g.EndPos }
func (*GroupedExpr) NodeType() NodeType     { return GROUPED_EXPR }

func (c *CallExpr) NodePos() Position    { return c.Pos }
func (c *CallExpr) NodeEndPos() Position { return c.EndPos }
func (*CallExpr) NodeType() NodeType     { return CALL_EXPR }

func (a *AssignExpr) NodePos() Position    { return a.Pos }
func (a *AssignExpr) NodeEndPos() Position { return a.EndPos }
func (*AssignExpr) NodeType() NodeType     { return ASSIGN_EXPR }

func (m *MemberExpr) NodePos() Position    { return m.Pos }
func (m *MemberExpr) NodeEndPos() Position { return m.EndPos }
func (*MemberExpr) NodeType() NodeType     { return MEMBER_EXPR }

func (be *BadExpr) NodePos() Position    { return be.Bad.Pos }
func (be *BadExpr) NodeEndPos() Position { return be.Bad.EndPos }
func (*BadExpr) NodeType() NodeType      { return BAD_EXPR }

// VarDecl reports its own node type so constants are distinguishable
func (v *VarDecl) NodePos() Position    { return v.Pos }
func (v *VarDecl) NodeEndPos() Position { return v.EndPos }

func (v *VarDecl) NodeType() NodeType {
	if v.Const {
		return CONST_DECL
	}
	return VAR_DECL
}

func (*FunctionDecl) declNode() {}

func (*StructDecl) declNode() {}

func (*VarDecl) declNode() {}

func (*BadDecl) declNode() {}

func (*Block) stmtNode() {}

func (*IfStmt) stmtNode() {}

func (*WhileStmt) stmtNode() {}

func (*DoUntilStmt) stmtNode() {}

func (*ForInStmt) stmtNode() {}

func (*ReturnStmt) stmtNode() {}

func (*ExprStmt) stmtNode() {}

func (*DeclStmt) stmtNode() {}

func (*BadStmt) stmtNode() {}

func (*LiteralExpr) exprNode() {}

func (*IdentExpr) exprNode() {}

func (*BinaryExpr) exprNode() {}

func (*UnaryExpr) exprNode() {}

func (*GroupedExpr) exprNode() {}

func (*CallExpr) exprNode() {}

func (*AssignExpr) exprNode() {}

func (*MemberExpr) exprNode() {}

func (*BadExpr) exprNode() {}
