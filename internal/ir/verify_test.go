package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneRemovesUnreachableBlocks(t *testing.T) {
	m := NewModule("m", "p.dream")
	fn := m.NewFunction("f", I64, []*Param{{Name: "c", Type: I1}})
	b := NewBuilder(fn)

	then := b.NewBlock("then")
	els := b.NewBlock("else")
	merge := b.NewBlock("merge")
	b.CondBr(&Value{Type: I1, Ref: "%c"}, then, els)
	b.SetInsertPoint(then)
	b.Ret(ConstInt(1))
	b.SetInsertPoint(els)
	b.Ret(ConstInt(2))
	b.SetInsertPoint(merge)
	b.Unreachable()

	assert.True(t, Prune(fn))
	labels := make([]string, len(fn.Blocks))
	for i, block := range fn.Blocks {
		labels[i] = block.Label
	}
	assert.Equal(t, []string{"entry", "then0", "else0"}, labels)
	assert.False(t, Prune(fn))
	assert.Empty(t, Verify(fn))
}

func TestPruneFollowsLoops(t *testing.T) {
	m := NewModule("m", "p.dream")
	fn := m.NewFunction("f", Void, nil)
	b := NewBuilder(fn)

	cond := b.NewBlock("cond")
	body := b.NewBlock("body")
	after := b.NewBlock("after")
	b.Br(cond)
	b.SetInsertPoint(cond)
	b.CondBr(ConstBool(true), body, after)
	b.SetInsertPoint(body)
	b.Br(cond)
	b.SetInsertPoint(after)
	b.RetVoid()

	assert.False(t, Prune(fn))
	assert.Len(t, fn.Blocks, 4)
}

func TestVerifyMissingTerminator(t *testing.T) {
	m := NewModule("m", "v.dream")
	fn := m.NewFunction("f", Void, nil)
	NewBuilder(fn).NewBlock("dangling")

	violations := Verify(fn)
	assert.Contains(t, violations, "block 'entry' has no terminator")
	assert.Contains(t, violations, "block 'dangling0' has no terminator")
}

func TestVerifyInstructionAfterTerminator(t *testing.T) {
	m := NewModule("m", "v.dream")
	fn := m.NewFunction("f", Void, nil)
	b := NewBuilder(fn)
	b.RetVoid()
	fn.Entry().Instructions = append(fn.Entry().Instructions, &ReturnTerminator{})

	assert.Equal(t, []string{"block 'entry' has an instruction after its terminator"}, Verify(fn))
}

func TestVerifyBranchTargets(t *testing.T) {
	m := NewModule("m", "v.dream")
	fn := m.NewFunction("f", Void, nil)
	other := m.NewFunction("g", Void, nil)
	b := NewBuilder(fn)
	loop := b.NewBlock("loop")
	b.Br(loop)
	b.SetInsertPoint(loop)
	b.Br(fn.Entry())

	violations := Verify(fn)
	assert.Equal(t, []string{"entry block has a predecessor 'loop0'"}, violations)

	loop.Terminator = &JumpTerminator{Target: other.Entry()}
	assert.Equal(t, []string{"block 'loop0' branches to 'entry' outside the function"}, Verify(fn))
}

func TestVerifySlots(t *testing.T) {
	m := NewModule("m", "v.dream")
	m.AddGlobal("g", Double, ConstDouble(0), false)
	fn := m.NewFunction("f", Void, nil)
	b := NewBuilder(fn)

	slot := b.Alloca("x", I64)
	b.Store(ConstBool(true), slot)
	b.Load(I64, &Value{Type: Ptr, Ref: "%t9"})
	b.Load(I64, &Value{Type: Ptr, Ref: "@g"})
	b.Load(Double, &Value{Type: Ptr, Ref: "@missing"})
	b.RetVoid()

	violations := Verify(fn)
	require.Len(t, violations, 4)
	assert.Equal(t, "store of i1 through slot '%x.addr' of type i64", violations[0])
	assert.Equal(t, "load through '%t9' which is not a slot of this function", violations[1])
	assert.Equal(t, "load of i64 through global '@g' of type double", violations[2])
	assert.Equal(t, "load through unknown global '@missing'", violations[3])
}

func TestVerifyReturnTypes(t *testing.T) {
	m := NewModule("m", "v.dream")
	fn := m.NewFunction("f", I64, nil)
	b := NewBuilder(fn)
	b.RetVoid()
	assert.Equal(t, []string{"block 'entry' returns void from a function returning i64"}, Verify(fn))

	b.Ret(ConstDouble(1))
	assert.Equal(t, []string{"block 'entry' returns double from a function returning i64"}, Verify(fn))
}
