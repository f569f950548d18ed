package types

import (
	"sort"

	"dream/internal/builtins"
)

// Field is one member of a struct definition
type Field struct {
	Name string
	Type Type
}

// StructDef is a user-defined struct with its fields in declaration order
type StructDef struct {
	Name   string
	Fields []Field
}

// Field finds a field by name and returns its index
func (d *StructDef) Field(name string) (Field, int, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// FieldNames lists the field names in declaration order
func (d *StructDef) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// TypeRegistry manages the struct types known to a program
type TypeRegistry struct {
	userDefined map[string]*StructDef
	order       []string
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		userDefined: make(map[string]*StructDef),
	}
}

// Define registers a struct. It returns false if the name is taken.
func (tr *TypeRegistry) Define(def *StructDef) bool {
	if _, exists := tr.userDefined[def.Name]; exists {
		return false
	}
	tr.userDefined[def.Name] = def
	tr.order = append(tr.order, def.Name)
	return true
}

// Lookup finds a struct by name
func (tr *TypeRegistry) Lookup(name string) (*StructDef, bool) {
	def, ok := tr.userDefined[name]
	return def, ok
}

// Structs returns every definition in declaration order
func (tr *TypeRegistry) Structs() []*StructDef {
	defs := make([]*StructDef, 0, len(tr.order))
	for _, name := range tr.order {
		defs = append(defs, tr.userDefined[name])
	}
	return defs
}

// IsValidType checks that a type refers to something that exists
func (tr *TypeRegistry) IsValidType(t Type) bool {
	switch t.Kind {
	case Unknown:
		return false
	case Struct:
		_, ok := tr.userDefined[t.Name]
		return ok
	default:
		return true
	}
}

// TypeNames returns every type name a program may write, sorted, for suggestions
func (tr *TypeRegistry) TypeNames() []string {
	names := append([]string{}, builtins.TypeKeywords()...)
	names = append(names, tr.order...)
	sort.Strings(names)
	return names
}
