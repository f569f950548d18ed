package ast

// LiteralExpr represents an Int, Float, String or Bool constant. String
// values hold the decoded text without quotes.
// Example: 42, 3.5e2, "hi", true
type LiteralExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Kind   LiteralKind
	Value  string
}

// IdentExpr represents a name used as a value
// Example: "count"
type IdentExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Name   string
}

// BinaryExpr represents binary operations
// Example: "a + b", "n <= 1", "x && y"
type BinaryExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Left   Expr
	Op     string
	Right  Expr
}

// UnaryExpr represents prefix operations
// Example: "-x", "!done"
type UnaryExpr struct {
	Typed
	Pos     Position
	EndPos  Position
	Op      string
	Operand Expr
}

// GroupedExpr represents a parenthesized expression
// Example: "(a + b)"
type GroupedExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Inner  Expr
}

// CallExpr represents a function call
// Example: "fib(n - 1)"
type CallExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Callee Expr
	Args   []Expr
}

// AssignExpr stores Value into Target, an identifier or member access.
// Compound assignments arrive here already desugared.
// Example: "x = x + 1"
type AssignExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Target Expr
	Value  Expr
}

// MemberExpr represents struct field access
// Example: "p.x"
type MemberExpr struct {
	Typed
	Pos    Position
	EndPos Position
	Target Expr
	Field  Ident
}

// BadExpr represents an expression that failed to parse
type BadExpr struct {
	Typed
	Bad BadNode
}

// CalleeName returns the identifier a call targets, or "" for other callees
func (c *CallExpr) CalleeName() string {
	if id, ok := c.Callee.(*IdentExpr); ok {
		return id.Name
	}
	return ""
}
