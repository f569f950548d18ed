package builtins

import "strings"

// BuiltinType represents the built-in types in the Dream language
type BuiltinType string

const (
	Int    BuiltinType = "Int"
	Float  BuiltinType = "Float"
	Bool   BuiltinType = "Bool"
	String BuiltinType = "String"
	Void   BuiltinType = "Void"
)

// BuiltinTypes maps the lowercase type keyword to its canonical name
var BuiltinTypes = map[string]BuiltinType{
	"int":    Int,
	"float":  Float,
	"bool":   Bool,
	"string": String,
	"void":   Void,
}

// LookupType resolves a type keyword case-insensitively
func LookupType(keyword string) (BuiltinType, bool) {
	t, ok := BuiltinTypes[strings.ToLower(keyword)]
	return t, ok
}

// IsBuiltinType checks if a type name is a built-in type keyword
func IsBuiltinType(typeName string) bool {
	_, ok := LookupType(typeName)
	return ok
}

// IsNumericType checks if a built-in type takes part in arithmetic
func IsNumericType(t BuiltinType) bool {
	return t == Int || t == Float
}

// TypeKeywords returns the type keywords in declaration order
func TypeKeywords() []string {
	return []string{"int", "float", "string", "bool", "void"}
}
