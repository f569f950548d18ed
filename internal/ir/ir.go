package ir

import (
	"fmt"
	"math"
	"strconv"
)

// IR types and structures mirroring LLVM textual IR. Functions keep their
// locals in stack slots, so the model has no phi nodes.

// Module is one translation unit
type Module struct {
	ID             string
	SourceFilename string
	TargetTriple   string
	Structs        []*StructType
	Globals        []*Global
	Strings        []*StringConstant
	Declares       []*Declare
	Functions      []*Function

	stringIndex map[string]*StringConstant
}

// Global is a module-level variable or constant with a constant initializer
type Global struct {
	Name     string
	Type     Type
	Init     *Value
	Constant bool
}

// StringConstant is a private NUL-terminated byte array
type StringConstant struct {
	Name  string
	Value string
}

// Declare is an external function declaration
type Declare struct {
	Name     string
	Return   Type
	Params   []Type
	Variadic bool
}

// Function is a function definition. Blocks[0] is the entry block.
type Function struct {
	Name   string
	Return Type
	Params []*Param
	Blocks []*BasicBlock

	module  *Module
	names   map[string]bool
	temps   int
	labels  map[string]int
	allocas int
}

type Param struct {
	Name string
	Type Type
}

// BasicBlock is a straight-line instruction list closed by one terminator
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Terminator
}

// Value is an operand: a constant, a local (%name) or a global (@name)
type Value struct {
	Type Type
	Ref  string
}

func (v *Value) String() string {
	return fmt.Sprintf("%s %s", v.Type, v.Ref)
}

// NewModule creates an empty module
func NewModule(id, sourceFilename string) *Module {
	return &Module{
		ID:             id,
		SourceFilename: sourceFilename,
		stringIndex:    make(map[string]*StringConstant),
	}
}

// NewFunction adds a function definition with an empty entry block
func (m *Module) NewFunction(name string, ret Type, params []*Param) *Function {
	fn := &Function{
		Name:   name,
		Return: ret,
		module: m,
		names:  map[string]bool{"entry": true},
		labels: make(map[string]int),
	}
	for _, p := range params {
		fn.Params = append(fn.Params, &Param{Name: fn.UniqueName(p.Name), Type: p.Type})
	}
	fn.Blocks = []*BasicBlock{{Label: "entry"}}
	m.Functions = append(m.Functions, fn)
	return fn
}

// RemoveFunction drops a function definition from the module
func (m *Module) RemoveFunction(fn *Function) {
	for i, f := range m.Functions {
		if f == fn {
			m.Functions = append(m.Functions[:i], m.Functions[i+1:]...)
			return
		}
	}
}

// AddGlobal adds a module-level variable or constant
func (m *Module) AddGlobal(name string, typ Type, init *Value, constant bool) *Value {
	m.Globals = append(m.Globals, &Global{Name: name, Type: typ, Init: init, Constant: constant})
	return &Value{Type: Ptr, Ref: "@" + name}
}

// Global finds a global by name
func (m *Module) Global(name string) (*Global, bool) {
	for _, g := range m.Globals {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// AddDeclare adds an external declaration
func (m *Module) AddDeclare(name string, ret Type, params []Type, variadic bool) *Declare {
	d := &Declare{Name: name, Return: ret, Params: params, Variadic: variadic}
	m.Declares = append(m.Declares, d)
	return d
}

// StringConstant returns the constant holding s, creating @.str.N on first use
func (m *Module) StringConstant(s string) *StringConstant {
	if c, ok := m.stringIndex[s]; ok {
		return c
	}
	c := &StringConstant{Name: fmt.Sprintf(".str.%d", len(m.Strings)), Value: s}
	m.Strings = append(m.Strings, c)
	m.stringIndex[s] = c
	return c
}

// TruncateStrings forgets every string constant created after the first n
func (m *Module) TruncateStrings(n int) {
	for _, c := range m.Strings[n:] {
		delete(m.stringIndex, c.Value)
	}
	m.Strings = m.Strings[:n]
}

// ArrayType is the [N x i8] type of the constant, NUL included
func (c *StringConstant) ArrayType() *ArrayType {
	return &ArrayType{Len: len(c.Value) + 1, Elem: I8}
}

// Entry returns the entry block
func (f *Function) Entry() *BasicBlock {
	return f.Blocks[0]
}

// UniqueName reserves a local name, suffixing ".N" when base is taken
func (f *Function) UniqueName(base string) string {
	name := base
	for i := 1; f.names[name]; i++ {
		name = fmt.Sprintf("%s.%d", base, i)
	}
	f.names[name] = true
	return name
}

func (f *Function) nextTemp() string {
	for {
		name := fmt.Sprintf("t%d", f.temps)
		f.temps++
		if !f.names[name] {
			f.names[name] = true
			return "%" + name
		}
	}
}

func (f *Function) nextLabel(base string) string {
	for {
		label := fmt.Sprintf("%s%d", base, f.labels[base])
		f.labels[base]++
		if !f.names[label] {
			f.names[label] = true
			return label
		}
	}
}

// Block finds a block by label
func (f *Function) Block(label string) (*BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

// Successors lists the blocks the terminator can transfer control to
func (b *BasicBlock) Successors() []*BasicBlock {
	if b.Terminator == nil {
		return nil
	}
	return b.Terminator.GetSuccessors()
}

// Constants

func ConstInt(v int64) *Value {
	return &Value{Type: I64, Ref: strconv.FormatInt(v, 10)}
}

func ConstInt32(v int32) *Value {
	return &Value{Type: I32, Ref: strconv.FormatInt(int64(v), 10)}
}

func ConstBool(v bool) *Value {
	return &Value{Type: I1, Ref: strconv.FormatBool(v)}
}

func ConstDouble(v float64) *Value {
	return &Value{Type: Double, Ref: FormatDouble(v)}
}

// FormatDouble renders a double in the exact hexadecimal form
func FormatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "0x7FF0000000000000"
	case math.IsInf(f, -1):
		return "0xFFF0000000000000"
	case math.IsNaN(f):
		return "0x7FF8000000000000"
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
