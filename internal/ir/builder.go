package ir

// Builder appends instructions to the current block of one function
type Builder struct {
	fn    *Function
	block *BasicBlock
}

// NewBuilder positions a builder at the entry block of fn
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn, block: fn.Entry()}
}

func (b *Builder) Function() *Function { return b.fn }
func (b *Builder) Block() *BasicBlock  { return b.block }

// SetInsertPoint makes block the target of subsequent instructions
func (b *Builder) SetInsertPoint(block *BasicBlock) {
	b.block = block
}

// Terminated reports whether the current block already has its terminator
func (b *Builder) Terminated() bool {
	return b.block.Terminator != nil
}

// NewBlock appends an empty block labelled <base>N
func (b *Builder) NewBlock(base string) *BasicBlock {
	block := &BasicBlock{Label: b.fn.nextLabel(base)}
	b.fn.Blocks = append(b.fn.Blocks, block)
	return block
}

func (b *Builder) emit(inst Instruction) {
	b.block.Instructions = append(b.block.Instructions, inst)
}

func (b *Builder) temp(typ Type) *Value {
	return &Value{Type: typ, Ref: b.fn.nextTemp()}
}

// Alloca reserves a stack slot %<name>.addr. Slots always go to the head
// of the entry block, after the slots already allocated.
func (b *Builder) Alloca(name string, typ Type) *Value {
	slot := &Value{Type: Ptr, Ref: "%" + b.fn.UniqueName(name+".addr")}
	entry := b.fn.Entry()
	inst := &AllocaInstruction{Result: slot, Allocated: typ}

	at := b.fn.allocas
	entry.Instructions = append(entry.Instructions, nil)
	copy(entry.Instructions[at+1:], entry.Instructions[at:])
	entry.Instructions[at] = inst
	b.fn.allocas++
	return slot
}

func (b *Builder) Load(typ Type, addr *Value) *Value {
	result := b.temp(typ)
	b.emit(&LoadInstruction{Result: result, Address: addr})
	return result
}

func (b *Builder) Store(value, addr *Value) {
	b.emit(&StoreInstruction{Value: value, Address: addr})
}

// Binary emits op on two operands of the same type
func (b *Builder) Binary(op string, left, right *Value) *Value {
	result := b.temp(left.Type)
	b.emit(&BinaryInstruction{Result: result, Op: op, Left: left, Right: right})
	return result
}

func (b *Builder) ICmp(predicate string, left, right *Value) *Value {
	result := b.temp(I1)
	b.emit(&CompareInstruction{Result: result, Op: "icmp", Predicate: predicate, Left: left, Right: right})
	return result
}

func (b *Builder) FCmp(predicate string, left, right *Value) *Value {
	result := b.temp(I1)
	b.emit(&CompareInstruction{Result: result, Op: "fcmp", Predicate: predicate, Left: left, Right: right})
	return result
}

func (b *Builder) FNeg(operand *Value) *Value {
	result := b.temp(operand.Type)
	b.emit(&FNegInstruction{Result: result, Operand: operand})
	return result
}

// Not flips an i1 with xor true
func (b *Builder) Not(operand *Value) *Value {
	return b.Binary("xor", operand, ConstBool(true))
}

func (b *Builder) Select(cond, ifTrue, ifFalse *Value) *Value {
	result := b.temp(ifTrue.Type)
	b.emit(&SelectInstruction{Result: result, Condition: cond, True: ifTrue, False: ifFalse})
	return result
}

// StringPtr returns a pointer to the first byte of a string constant
func (b *Builder) StringPtr(c *StringConstant) *Value {
	result := b.temp(Ptr)
	b.emit(&GEPInstruction{
		Result:  result,
		Source:  c.ArrayType(),
		Base:    &Value{Type: Ptr, Ref: "@" + c.Name},
		Indices: []*Value{ConstInt(0), ConstInt(0)},
	})
	return result
}

// Call calls a defined function. The result is nil for void callees.
func (b *Builder) Call(ret Type, callee string, args []*Value) *Value {
	call := &CallInstruction{Return: ret, Callee: callee, Args: args}
	if !IsVoid(ret) {
		call.Result = b.temp(ret)
	}
	b.emit(call)
	return call.Result
}

// CallDeclared calls an external declaration and discards its result
func (b *Builder) CallDeclared(d *Declare, args []*Value) {
	call := &CallInstruction{Return: d.Return, Callee: d.Name, Args: args}
	if d.Variadic {
		call.FnType = d.FunctionType()
	}
	b.emit(call)
}

// CallExternal calls an external declaration and returns its result
func (b *Builder) CallExternal(d *Declare, args []*Value) *Value {
	call := &CallInstruction{Return: d.Return, Callee: d.Name, Args: args}
	if d.Variadic {
		call.FnType = d.FunctionType()
	}
	if !IsVoid(d.Return) {
		call.Result = b.temp(d.Return)
	}
	b.emit(call)
	return call.Result
}

func (b *Builder) Br(target *BasicBlock) {
	b.block.Terminator = &JumpTerminator{Target: target}
}

func (b *Builder) CondBr(cond *Value, ifTrue, ifFalse *BasicBlock) {
	b.block.Terminator = &BranchTerminator{Condition: cond, TrueBlock: ifTrue, FalseBlock: ifFalse}
}

func (b *Builder) Ret(value *Value) {
	b.block.Terminator = &ReturnTerminator{Value: value}
}

func (b *Builder) RetVoid() {
	b.block.Terminator = &ReturnTerminator{}
}

func (b *Builder) Unreachable() {
	b.block.Terminator = &UnreachableTerminator{}
}
