package ast

// Block is a braced statement list that opens a scope
// Example: { let x = 1; return x; }
type Block struct {
	Pos    Position
	EndPos Position
	Stmts  []Stmt
}

// IfStmt represents a conditional. Else is nil, a *Block or an *IfStmt.
// Example: if (n <= 1) { return n; } else { return 0; }
type IfStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Then   *Block
	Else   Stmt
}

// WhileStmt represents a pre-tested loop
// Example: while (i < 10) { i += 1; }
type WhileStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Body   *Block
}

// DoUntilStmt runs its body, then repeats while the condition is false
// Example: do { i += 1; } until (i == 10);
type DoUntilStmt struct {
	Pos    Position
	EndPos Position
	Body   *Block
	Cond   Expr
}

// ForInStmt iterates Var over 0..Iterable-1
// Example: for (i in 10) { print(i); }
type ForInStmt struct {
	Pos      Position
	EndPos   Position
	Var      Ident
	Iterable Expr
	Body     *Block
}

// ReturnStmt represents a return, with an optional value
type ReturnStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr
}

// ExprStmt represents an expression evaluated for its effect
// Example: print(x);
type ExprStmt struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// DeclStmt wraps a local let or const declaration
type DeclStmt struct {
	Decl *VarDecl
}

// BadStmt represents a statement that failed to parse
type BadStmt struct {
	Bad BadNode
}
