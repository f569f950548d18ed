package ast

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota
	BAD_DECL
	BAD_STMT
	BAD_EXPR

	// Program and declarations
	PROGRAM
	FUNCTION_DECL
	PARAM
	TYPE_REF
	STRUCT_DECL
	FIELD
	VAR_DECL
	CONST_DECL

	// Statements
	BLOCK
	IF_STMT
	WHILE_STMT
	DO_UNTIL_STMT
	FOR_IN_STMT
	RETURN_STMT
	EXPR_STMT
	DECL_STMT

	// Expressions
	LITERAL_EXPR
	IDENT_EXPR
	BINARY_EXPR
	UNARY_EXPR
	GROUPED_EXPR
	CALL_EXPR
	ASSIGN_EXPR
	MEMBER_EXPR
)

var nodeTypeNames = [...]string{
	ILLEGAL:       "ILLEGAL",
	BAD_DECL:      "BAD_DECL",
	BAD_STMT:      "BAD_STMT",
	BAD_EXPR:      "BAD_EXPR",
	PROGRAM:       "PROGRAM",
	FUNCTION_DECL: "FUNCTION_DECL",
	PARAM:         "PARAM",
	TYPE_REF:      "TYPE_REF",
	STRUCT_DECL:   "STRUCT_DECL",
	FIELD:         "FIELD",
	VAR_DECL:      "VAR_DECL",
	CONST_DECL:    "CONST_DECL",
	BLOCK:         "BLOCK",
	IF_STMT:       "IF_STMT",
	WHILE_STMT:    "WHILE_STMT",
	DO_UNTIL_STMT: "DO_UNTIL_STMT",
	FOR_IN_STMT:   "FOR_IN_STMT",
	RETURN_STMT:   "RETURN_STMT",
	EXPR_STMT:     "EXPR_STMT",
	DECL_STMT:     "DECL_STMT",
	LITERAL_EXPR:  "LITERAL_EXPR",
	IDENT_EXPR:    "IDENT_EXPR",
	BINARY_EXPR:   "BINARY_EXPR",
	UNARY_EXPR:    "UNARY_EXPR",
	GROUPED_EXPR:  "GROUPED_EXPR",
	CALL_EXPR:     "CALL_EXPR",
	ASSIGN_EXPR:   "ASSIGN_EXPR",
	MEMBER_EXPR:   "MEMBER_EXPR",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "ILLEGAL"
}

// LiteralKind distinguishes the literal forms
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)
