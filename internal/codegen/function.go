package codegen

import (
	"fmt"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/ir"
)

// functionGen lowers one function body. Every local lives in a stack slot
// allocated in the entry block, so control flow needs no phi nodes.
type functionGen struct {
	g      *Generator
	decl   *ast.FunctionDecl
	sig    *signature
	fn     *ir.Function
	b      *ir.Builder
	scopes []map[string]*slot

	// failed holds the first construct that could not be lowered
	failed *errors.CompilerError
}

func newFunctionGen(g *Generator, decl *ast.FunctionDecl, sig *signature) *functionGen {
	params := make([]*ir.Param, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = &ir.Param{Name: p.Name.Value, Type: sig.params[i]}
	}
	fn := g.module.NewFunction(decl.Name.Value, sig.ret, params)
	return &functionGen{
		g:    g,
		decl: decl,
		sig:  sig,
		fn:   fn,
		b:    ir.NewBuilder(fn),
	}
}

func (fg *functionGen) lower() {
	fg.pushScope()
	for i, p := range fg.decl.Params {
		typ := fg.sig.params[i]
		addr := fg.b.Alloca(p.Name.Value, typ)
		fg.b.Store(&ir.Value{Type: typ, Ref: "%" + fg.fn.Params[i].Name}, addr)
		fg.define(p.Name.Value, addr, typ)
	}

	fg.lowerStatements(fg.decl.Body.Stmts)
	fg.popScope()

	// Only the block being filled can still be open. For a non-void
	// function it has no predecessors, and pruning removes it.
	if !fg.b.Terminated() {
		if ir.IsVoid(fg.sig.ret) {
			fg.b.RetVoid()
		} else {
			fg.b.Unreachable()
		}
	}
}

// unsupported records the first construct that has no lowering and
// returns a placeholder so lowering can unwind normally
func (fg *functionGen) unsupported(what string, pos ast.Position) *ir.Value {
	if fg.failed == nil {
		err := errors.UnsupportedConstruct(what, pos)
		fg.failed = &err
	}
	return &ir.Value{Type: ir.I64, Ref: "undef"}
}

func (fg *functionGen) pushScope() {
	fg.scopes = append(fg.scopes, make(map[string]*slot))
}

func (fg *functionGen) popScope() {
	fg.scopes = fg.scopes[:len(fg.scopes)-1]
}

func (fg *functionGen) define(name string, addr *ir.Value, typ ir.Type) {
	fg.scopes[len(fg.scopes)-1][name] = &slot{addr: addr, typ: typ}
}

// lookup resolves a name through the local scopes, then the globals
func (fg *functionGen) lookup(name string) *slot {
	for i := len(fg.scopes) - 1; i >= 0; i-- {
		if s, ok := fg.scopes[i][name]; ok {
			return s
		}
	}
	return fg.g.globals[name]
}

// Statements

// lowerStatements stops at the first statement that terminates the
// current block. What follows is unreachable.
func (fg *functionGen) lowerStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if fg.b.Terminated() || fg.failed != nil {
			return
		}
		fg.lowerStatement(stmt)
	}
}

func (fg *functionGen) lowerStatement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		fg.lowerBlock(s)
	case *ast.DeclStmt:
		fg.lowerLocal(s.Decl)
	case *ast.ExprStmt:
		fg.lowerExpr(s.Expr)
	case *ast.ReturnStmt:
		fg.lowerReturn(s)
	case *ast.IfStmt:
		fg.lowerIf(s)
	case *ast.WhileStmt:
		fg.lowerWhile(s)
	case *ast.DoUntilStmt:
		fg.lowerDoUntil(s)
	case *ast.ForInStmt:
		fg.lowerForIn(s)
	default:
		fg.unsupported(fmt.Sprintf("statement %s", stmt.NodeType()), stmt.NodePos())
	}
}

func (fg *functionGen) lowerBlock(block *ast.Block) {
	fg.pushScope()
	fg.lowerStatements(block.Stmts)
	fg.popScope()
}

func (fg *functionGen) lowerLocal(decl *ast.VarDecl) {
	typ, ok := lowerType(decl.Value.Type())
	if !ok {
		fg.unsupported(fmt.Sprintf("local '%s' of struct type '%s'", decl.Name.Value, decl.Value.Type()), decl.Name.Pos)
		return
	}
	value := fg.lowerExpr(decl.Value)
	addr := fg.b.Alloca(decl.Name.Value, typ)
	fg.b.Store(value, addr)
	fg.define(decl.Name.Value, addr, typ)
}

func (fg *functionGen) lowerReturn(ret *ast.ReturnStmt) {
	if ret.Value == nil {
		fg.b.RetVoid()
		return
	}
	fg.b.Ret(fg.lowerExpr(ret.Value))
}

// lowerIf emits then/else/merge blocks. The conditional branch is placed
// last so merge can be numbered after any blocks nested in the arms.
func (fg *functionGen) lowerIf(s *ast.IfStmt) {
	cond := fg.lowerExpr(s.Cond)
	head := fg.b.Block()

	var open []*ir.BasicBlock

	then := fg.b.NewBlock("then")
	fg.b.SetInsertPoint(then)
	fg.lowerBlock(s.Then)
	if !fg.b.Terminated() {
		open = append(open, fg.b.Block())
	}

	var els *ir.BasicBlock
	if s.Else != nil {
		els = fg.b.NewBlock("else")
		fg.b.SetInsertPoint(els)
		fg.lowerStatement(s.Else)
		if !fg.b.Terminated() {
			open = append(open, fg.b.Block())
		}
	}

	merge := fg.b.NewBlock("merge")
	if els == nil {
		els = merge
	}
	fg.b.SetInsertPoint(head)
	fg.b.CondBr(cond, then, els)

	for _, block := range open {
		fg.b.SetInsertPoint(block)
		fg.b.Br(merge)
	}
	fg.b.SetInsertPoint(merge)
}

func (fg *functionGen) lowerWhile(s *ast.WhileStmt) {
	condBlock := fg.b.NewBlock("cond")
	fg.b.Br(condBlock)
	fg.b.SetInsertPoint(condBlock)
	cond := fg.lowerExpr(s.Cond)
	condEnd := fg.b.Block()

	body := fg.b.NewBlock("body")
	fg.b.SetInsertPoint(body)
	fg.lowerBlock(s.Body)
	if !fg.b.Terminated() {
		fg.b.Br(condBlock)
	}

	after := fg.b.NewBlock("after")
	fg.b.SetInsertPoint(condEnd)
	fg.b.CondBr(cond, body, after)
	fg.b.SetInsertPoint(after)
}

// lowerDoUntil runs the body first and branches back to it while the
// condition is false
func (fg *functionGen) lowerDoUntil(s *ast.DoUntilStmt) {
	body := fg.b.NewBlock("body")
	fg.b.Br(body)
	fg.b.SetInsertPoint(body)
	fg.lowerBlock(s.Body)

	condBlock := fg.b.NewBlock("cond")
	if !fg.b.Terminated() {
		fg.b.Br(condBlock)
	}
	fg.b.SetInsertPoint(condBlock)
	cond := fg.lowerExpr(s.Cond)

	after := fg.b.NewBlock("after")
	fg.b.CondBr(cond, after, body)
	fg.b.SetInsertPoint(after)
}

// lowerForIn emits a counted loop over 0..n-1. The bound is evaluated
// once, before the first iteration.
func (fg *functionGen) lowerForIn(s *ast.ForInStmt) {
	bound := fg.lowerExpr(s.Iterable)
	counter := fg.b.Alloca(s.Var.Value, ir.I64)
	fg.b.Store(ir.ConstInt(0), counter)

	condBlock := fg.b.NewBlock("cond")
	fg.b.Br(condBlock)
	fg.b.SetInsertPoint(condBlock)
	cond := fg.b.ICmp("slt", fg.b.Load(ir.I64, counter), bound)

	body := fg.b.NewBlock("body")
	fg.b.SetInsertPoint(body)
	fg.pushScope()
	fg.define(s.Var.Value, counter, ir.I64)
	fg.lowerStatements(s.Body.Stmts)
	fg.popScope()

	step := fg.b.NewBlock("step")
	if !fg.b.Terminated() {
		fg.b.Br(step)
	}
	fg.b.SetInsertPoint(step)
	next := fg.b.Binary("add", fg.b.Load(ir.I64, counter), ir.ConstInt(1))
	fg.b.Store(next, counter)
	fg.b.Br(condBlock)

	after := fg.b.NewBlock("after")
	fg.b.SetInsertPoint(condBlock)
	fg.b.CondBr(cond, body, after)
	fg.b.SetInsertPoint(after)
}
