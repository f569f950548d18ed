package ir

import (
	"fmt"
	"strings"
)

type Instruction interface {
	GetResult() *Value
	GetOperands() []*Value
	IsTerminator() bool
	String() string
}

type Terminator interface {
	Instruction
	GetSuccessors() []*BasicBlock
}

type AllocaInstruction struct {
	Result    *Value
	Allocated Type
}

type LoadInstruction struct {
	Result  *Value
	Address *Value
}

type StoreInstruction struct {
	Value   *Value
	Address *Value
}

// BinaryInstruction covers integer and floating arithmetic and the bitwise
// and/or/xor used on i1
type BinaryInstruction struct {
	Result *Value
	Op     string
	Left   *Value
	Right  *Value
}

// CompareInstruction is an icmp or fcmp
type CompareInstruction struct {
	Result    *Value
	Op        string
	Predicate string
	Left      *Value
	Right     *Value
}

type FNegInstruction struct {
	Result  *Value
	Operand *Value
}

type SelectInstruction struct {
	Result    *Value
	Condition *Value
	True      *Value
	False     *Value
}

type GEPInstruction struct {
	Result  *Value
	Source  Type
	Base    *Value
	Indices []*Value
}

// CallInstruction calls Callee. Result is nil for void calls and for
// discarded results. FnType is set for variadic callees.
type CallInstruction struct {
	Result *Value
	Return Type
	FnType string
	Callee string
	Args   []*Value
}

// Terminators

type ReturnTerminator struct {
	Value *Value
}

type BranchTerminator struct {
	Condition  *Value
	TrueBlock  *BasicBlock
	FalseBlock *BasicBlock
}

type JumpTerminator struct {
	Target *BasicBlock
}

type UnreachableTerminator struct{}

// Implementation of interfaces

func (a *AllocaInstruction) GetResult() *Value     { return a.Result }
func (a *AllocaInstruction) GetOperands() []*Value { return nil }
func (a *AllocaInstruction) IsTerminator() bool    { return false }

func (l *LoadInstruction) GetResult() *Value     { return l.Result }
func (l *LoadInstruction) GetOperands() []*Value { return []*Value{l.Address} }
func (l *LoadInstruction) IsTerminator() bool    { return false }

func (s *StoreInstruction) GetResult() *Value     { return nil }
func (s *StoreInstruction) GetOperands() []*Value { return []*Value{s.Value, s.Address} }
func (s *StoreInstruction) IsTerminator() bool    { return false }

func (b *BinaryInstruction) GetResult() *Value     { return b.Result }
func (b *BinaryInstruction) GetOperands() []*Value { return []*Value{b.Left, b.Right} }
func (b *BinaryInstruction) IsTerminator() bool    { return false }

func (c *CompareInstruction) GetResult() *Value     { return c.Result }
func (c *CompareInstruction) GetOperands() []*Value { return []*Value{c.Left, c.Right} }
func (c *CompareInstruction) IsTerminator() bool    { return false }

func (f *FNegInstruction) GetResult() *Value     { return f.Result }
func (f *FNegInstruction) GetOperands() []*Value { return []*Value{f.Operand} }
func (f *FNegInstruction) IsTerminator() bool    { return false }

func (s *SelectInstruction) GetResult() *Value { return s.Result }
func (s *SelectInstruction) GetOperands() []*Value {
	return []*Value{s.Condition, s.True, s.False}
}
func (s *SelectInstruction) IsTerminator() bool { return false }

func (g *GEPInstruction) GetResult() *Value { return g.Result }
func (g *GEPInstruction) GetOperands() []*Value {
	return append([]*Value{g.Base}, g.Indices...)
}
func (g *GEPInstruction) IsTerminator() bool { return false }

func (c *CallInstruction) GetResult() *Value     { return c.Result }
func (c *CallInstruction) GetOperands() []*Value { return c.Args }
func (c *CallInstruction) IsTerminator() bool    { return false }

func (r *ReturnTerminator) GetResult() *Value { return nil }
func (r *ReturnTerminator) GetOperands() []*Value {
	if r.Value == nil {
		return nil
	}
	return []*Value{r.Value}
}
func (r *ReturnTerminator) IsTerminator() bool           { return true }
func (r *ReturnTerminator) GetSuccessors() []*BasicBlock { return nil }

func (b *BranchTerminator) GetResult() *Value     { return nil }
func (b *BranchTerminator) GetOperands() []*Value { return []*Value{b.Condition} }
func (b *BranchTerminator) IsTerminator() bool    { return true }
func (b *BranchTerminator) GetSuccessors() []*BasicBlock {
	return []*BasicBlock{b.TrueBlock, b.FalseBlock}
}

func (j *JumpTerminator) GetResult() *Value            { return nil }
func (j *JumpTerminator) GetOperands() []*Value        { return nil }
func (j *JumpTerminator) IsTerminator() bool           { return true }
func (j *JumpTerminator) GetSuccessors() []*BasicBlock { return []*BasicBlock{j.Target} }

func (u *UnreachableTerminator) GetResult() *Value            { return nil }
func (u *UnreachableTerminator) GetOperands() []*Value        { return nil }
func (u *UnreachableTerminator) IsTerminator() bool           { return true }
func (u *UnreachableTerminator) GetSuccessors() []*BasicBlock { return nil }

// String methods render one line of textual IR without indentation

func (a *AllocaInstruction) String() string {
	return fmt.Sprintf("%s = alloca %s", a.Result.Ref, a.Allocated)
}

func (l *LoadInstruction) String() string {
	return fmt.Sprintf("%s = load %s, %s", l.Result.Ref, l.Result.Type, l.Address)
}

func (s *StoreInstruction) String() string {
	return fmt.Sprintf("store %s, %s", s.Value, s.Address)
}

func (b *BinaryInstruction) String() string {
	return fmt.Sprintf("%s = %s %s, %s", b.Result.Ref, b.Op, b.Left, b.Right.Ref)
}

func (c *CompareInstruction) String() string {
	return fmt.Sprintf("%s = %s %s %s, %s", c.Result.Ref, c.Op, c.Predicate, c.Left, c.Right.Ref)
}

func (f *FNegInstruction) String() string {
	return fmt.Sprintf("%s = fneg %s", f.Result.Ref, f.Operand)
}

func (s *SelectInstruction) String() string {
	return fmt.Sprintf("%s = select %s, %s, %s", s.Result.Ref, s.Condition, s.True, s.False)
}

func (g *GEPInstruction) String() string {
	parts := []string{g.Source.String(), g.Base.String()}
	for _, idx := range g.Indices {
		parts = append(parts, idx.String())
	}
	return fmt.Sprintf("%s = getelementptr inbounds %s", g.Result.Ref, strings.Join(parts, ", "))
}

func (c *CallInstruction) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	callee := c.Return.String()
	if c.FnType != "" {
		callee = c.FnType
	}
	call := fmt.Sprintf("call %s @%s(%s)", callee, c.Callee, strings.Join(args, ", "))
	if c.Result != nil {
		return c.Result.Ref + " = " + call
	}
	return call
}

func (r *ReturnTerminator) String() string {
	if r.Value == nil {
		return "ret void"
	}
	return "ret " + r.Value.String()
}

func (b *BranchTerminator) String() string {
	return fmt.Sprintf("br %s, label %%%s, label %%%s", b.Condition, b.TrueBlock.Label, b.FalseBlock.Label)
}

func (j *JumpTerminator) String() string {
	return fmt.Sprintf("br label %%%s", j.Target.Label)
}

func (u *UnreachableTerminator) String() string {
	return "unreachable"
}
