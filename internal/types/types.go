package types

import "dream/internal/builtins"

// Kind is the closed set of type categories
type Kind int

const (
	Unknown Kind = iota
	Int
	Float
	Bool
	String
	Void
	Struct
)

// Type is a resolved type. Name is only meaningful for Struct.
type Type struct {
	Kind Kind
	Name string
}

var (
	UnknownType = Type{Kind: Unknown}
	IntType     = Type{Kind: Int}
	FloatType   = Type{Kind: Float}
	BoolType    = Type{Kind: Bool}
	StringType  = Type{Kind: String}
	VoidType    = Type{Kind: Void}
)

// StructType returns the named struct type
func StructType(name string) Type {
	return Type{Kind: Struct, Name: name}
}

var builtinKinds = map[builtins.BuiltinType]Kind{
	builtins.Int:    Int,
	builtins.Float:  Float,
	builtins.Bool:   Bool,
	builtins.String: String,
	builtins.Void:   Void,
}

// FromBuiltin converts a builtin type name
func FromBuiltin(b builtins.BuiltinType) Type {
	if k, ok := builtinKinds[b]; ok {
		return Type{Kind: k}
	}
	return UnknownType
}

// FromAnnotation maps a type annotation lexeme to a type. Type keywords
// match case-insensitively; anything else names a struct, whose existence
// is checked against a Registry.
func FromAnnotation(lexeme string) Type {
	if b, ok := builtins.LookupType(lexeme); ok {
		return FromBuiltin(b)
	}
	if lexeme == "" {
		return UnknownType
	}
	return StructType(lexeme)
}

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return string(builtins.Int)
	case Float:
		return string(builtins.Float)
	case Bool:
		return string(builtins.Bool)
	case String:
		return string(builtins.String)
	case Void:
		return string(builtins.Void)
	case Struct:
		return t.Name
	default:
		return "Unknown"
	}
}

// Builtin returns the builtin name of a non-struct type
func (t Type) Builtin() (builtins.BuiltinType, bool) {
	for b, k := range builtinKinds {
		if k == t.Kind {
			return b, true
		}
	}
	return "", false
}

func (t Type) IsKnown() bool   { return t.Kind != Unknown }
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }
func (t Type) IsVoid() bool    { return t.Kind == Void }
func (t Type) IsStruct() bool  { return t.Kind == Struct }

// Equal compares kinds, and names for structs
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	return t.Kind != Struct || t.Name == other.Name
}
