package ir

import (
	"fmt"
	"strings"
)

// LLVM first-class types used by generated modules

type Type interface {
	String() string
}

type IntType struct {
	Bits int
}

type DoubleType struct{}

// PointerType is the opaque pointer type
type PointerType struct{}

type VoidType struct{}

// StructType is a named, identified struct type
type StructType struct {
	Name   string
	Fields []Type
}

type ArrayType struct {
	Len  int
	Elem Type
}

var (
	I1     Type = &IntType{Bits: 1}
	I8     Type = &IntType{Bits: 8}
	I32    Type = &IntType{Bits: 32}
	I64    Type = &IntType{Bits: 64}
	Double Type = &DoubleType{}
	Ptr    Type = &PointerType{}
	Void   Type = &VoidType{}
)

func (i *IntType) String() string     { return fmt.Sprintf("i%d", i.Bits) }
func (d *DoubleType) String() string  { return "double" }
func (p *PointerType) String() string { return "ptr" }
func (v *VoidType) String() string    { return "void" }
func (s *StructType) String() string  { return "%" + s.Name }
func (a *ArrayType) String() string   { return fmt.Sprintf("[%d x %s]", a.Len, a.Elem) }

// Body renders the struct definition, e.g. "{ i64, double }"
func (s *StructType) Body() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.String()
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// SameType compares two types structurally
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// IsFloat reports whether t is the double type
func IsFloat(t Type) bool {
	_, ok := t.(*DoubleType)
	return ok
}

// IsVoid reports whether t is void
func IsVoid(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}
