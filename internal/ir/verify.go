package ir

import (
	"fmt"
	"strings"
)

// Verify checks the structural rules of a function body and returns one
// message per violation: every block ends in exactly one terminator, every
// branch target belongs to the function, the entry block has no
// predecessors, and every load or store goes through a slot of the stored
// type.
func Verify(fn *Function) []string {
	var violations []string
	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if len(fn.Blocks) == 0 {
		add("function '%s' has no blocks", fn.Name)
		return violations
	}

	owned := make(map[*BasicBlock]bool, len(fn.Blocks))
	labels := make(map[string]bool, len(fn.Blocks))
	for _, block := range fn.Blocks {
		owned[block] = true
		if labels[block.Label] {
			add("duplicate block label '%s'", block.Label)
		}
		labels[block.Label] = true
	}

	slots := make(map[string]Type)
	for _, block := range fn.Blocks {
		for _, inst := range block.Instructions {
			if alloca, ok := inst.(*AllocaInstruction); ok {
				slots[alloca.Result.Ref] = alloca.Allocated
			}
		}
	}

	entry := fn.Blocks[0]
	for _, block := range fn.Blocks {
		if block.Terminator == nil {
			add("block '%s' has no terminator", block.Label)
		}
		for _, inst := range block.Instructions {
			switch inst := inst.(type) {
			case *LoadInstruction:
				checkSlot(fn, slots, "load", inst.Address, inst.Result.Type, add)
			case *StoreInstruction:
				checkSlot(fn, slots, "store", inst.Address, inst.Value.Type, add)
			}
			if inst.IsTerminator() {
				add("block '%s' has an instruction after its terminator", block.Label)
			}
		}
		for _, succ := range block.Successors() {
			switch {
			case succ == nil:
				add("block '%s' branches to a missing block", block.Label)
			case !owned[succ]:
				add("block '%s' branches to '%s' outside the function", block.Label, succ.Label)
			case succ == entry:
				add("entry block has a predecessor '%s'", block.Label)
			}
		}
		if ret, ok := block.Terminator.(*ReturnTerminator); ok {
			checkReturn(fn, block, ret, add)
		}
	}

	return violations
}

func checkSlot(fn *Function, slots map[string]Type, op string, addr *Value, typ Type, add func(string, ...interface{})) {
	if strings.HasPrefix(addr.Ref, "@") {
		if fn.module == nil {
			return
		}
		g, ok := fn.module.Global(strings.TrimPrefix(addr.Ref, "@"))
		switch {
		case !ok:
			add("%s through unknown global '%s'", op, addr.Ref)
		case !SameType(g.Type, typ):
			add("%s of %s through global '%s' of type %s", op, typ, addr.Ref, g.Type)
		}
		return
	}

	allocated, ok := slots[addr.Ref]
	switch {
	case !ok:
		add("%s through '%s' which is not a slot of this function", op, addr.Ref)
	case !SameType(allocated, typ):
		add("%s of %s through slot '%s' of type %s", op, typ, addr.Ref, allocated)
	}
}

func checkReturn(fn *Function, block *BasicBlock, ret *ReturnTerminator, add func(string, ...interface{})) {
	switch {
	case ret.Value == nil && !IsVoid(fn.Return):
		add("block '%s' returns void from a function returning %s", block.Label, fn.Return)
	case ret.Value != nil && !SameType(ret.Value.Type, fn.Return):
		add("block '%s' returns %s from a function returning %s", block.Label, ret.Value.Type, fn.Return)
	}
}
