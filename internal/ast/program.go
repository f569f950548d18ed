package ast

import "dream/internal/types"

// Position is a location in source. Line and Column are 1-based; the zero
// value marks a synthesized node.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Before reports whether p comes strictly before other
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Ident represents any identifier like variable, function or type names
type Ident struct {
	Pos    Position
	EndPos Position
	Value  string
}

// BadNode contains error information for failed parsing
type BadNode struct {
	Pos     Position
	EndPos  Position
	Message string
}

// Typed is the annotation slot carried by every expression. It stays
// Unknown until the semantic analyzer sets it.
type Typed struct {
	Inferred types.Type
}

func (t *Typed) Type() types.Type            { return t.Inferred }
func (t *Typed) SetType(inferred types.Type) { t.Inferred = inferred }

// Program is the root of a parsed source file
// Example: fn main() -> void { print(1); }
type Program struct {
	Pos    Position
	EndPos Position
	Decls  []Decl
}

// FunctionDecl represents a top-level function
// Example: fn add(a: int, b: int) -> int { return a + b; }
type FunctionDecl struct {
	Pos        Position
	EndPos     Position
	Name       Ident
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
}

// Param represents a single function parameter
// Example: "a: int"
type Param struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Type   *TypeRef
}

// TypeRef is a written type annotation, resolved by the analyzer
// Example: "int", "Point"
type TypeRef struct {
	Pos    Position
	EndPos Position
	Name   string
}

// StructDecl represents a struct definition
// Example: struct Point { x: int, y: int }
type StructDecl struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Fields []*Field
}

// Field is a struct member
type Field struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Type   *TypeRef
}

// VarDecl is a variable (let) or constant (const) declaration. Type is nil
// when the annotation is omitted.
// Example: let x: int = 10;
type VarDecl struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Type   *TypeRef
	Value  Expr
	Const  bool
}

// BadDecl represents a declaration that failed to parse
type BadDecl struct {
	Bad BadNode
}

// Functions returns the function declarations of the program in order
func (p *Program) Functions() []*FunctionDecl {
	var fns []*FunctionDecl
	for _, d := range p.Decls {
		if fn, ok := d.(*FunctionDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
