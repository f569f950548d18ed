package semantic

import (
	"sort"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/types"
)

type Analyzer struct {
	program  *ast.Program
	errors   []errors.CompilerError
	symbols  *SymbolTable
	registry *types.TypeRegistry
	scope    ScopeID
	function *functionContext

	signatures map[*ast.FunctionDecl]*signature
	// incomplete is set when the tree carries parser placeholders
	incomplete bool
}

// Result is the outcome of analysis. Program is the input tree with
// every expression annotated in place.
type Result struct {
	Program *ast.Program
	Symbols *SymbolTable
	Types   *types.TypeRegistry
	Errors  []errors.CompilerError
}

// HasErrors reports whether analysis found errors. Warnings do not count.
func (r *Result) HasErrors() bool {
	return errors.HasErrors(r.Errors)
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze checks a program with a fresh analyzer
func Analyze(program *ast.Program) *Result {
	return NewAnalyzer().Analyze(program)
}

func (a *Analyzer) Analyze(program *ast.Program) *Result {
	a.program = program
	a.errors = nil
	a.symbols = NewSymbolTable()
	a.registry = types.NewTypeRegistry()
	a.scope = GlobalScope
	a.function = nil
	a.signatures = make(map[*ast.FunctionDecl]*signature)
	a.incomplete = false

	if program != nil {
		a.collectDeclarations(program)
		a.analyzeProgram(program)
		if !errors.HasErrors(a.errors) && !a.incomplete {
			a.checkAnnotations(program)
		}
	}

	sort.SliceStable(a.errors, func(i, j int) bool {
		return a.errors[i].Position.Before(a.errors[j].Position)
	})

	return &Result{
		Program: program,
		Symbols: a.symbols,
		Types:   a.registry,
		Errors:  a.errors,
	}
}

// GetErrors returns the diagnostics of the last run
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.errors
}

// collectDeclarations is the first pass. Structs are registered before
// their fields are resolved so fields and signatures may name any struct
// of the program, and functions are defined before any body is walked.
func (a *Analyzer) collectDeclarations(program *ast.Program) {
	var structs []*ast.StructDecl
	for _, decl := range program.Decls {
		if s, ok := decl.(*ast.StructDecl); ok {
			if a.declareStruct(s) {
				structs = append(structs, s)
			}
		}
	}

	for _, s := range structs {
		a.resolveStructFields(s)
	}

	for _, decl := range program.Decls {
		if fn, ok := decl.(*ast.FunctionDecl); ok {
			a.declareFunction(fn)
		}
	}

	// globals are visible in every function body, but only after their
	// own declaration in other global initializers
	for _, decl := range program.Decls {
		if v, ok := decl.(*ast.VarDecl); ok {
			a.analyzeVarDecl(v)
		}
	}
}

// analyzeProgram is the second pass over function bodies
func (a *Analyzer) analyzeProgram(program *ast.Program) {
	for _, decl := range program.Decls {
		switch node := decl.(type) {
		case *ast.FunctionDecl:
			a.analyzeFunctionBody(node)
		case *ast.BadDecl:
			a.incomplete = true
		case *ast.StructDecl, *ast.VarDecl:
		}
	}
}

func (a *Analyzer) analyzeFunctionBody(fn *ast.FunctionDecl) {
	sig := a.signatures[fn]

	outer := a.scope
	a.scope = a.symbols.NewScope(GlobalScope, ScopeFunction, fn.Pos)
	a.function = &functionContext{decl: fn, returnType: sig.returnType}
	defer func() {
		a.scope = outer
		a.function = nil
	}()

	for i, param := range fn.Params {
		sym := &Symbol{
			Name:     param.Name.Value,
			Kind:     SymbolParameter,
			Type:     sig.params[i],
			Position: param.Name.Pos,
			Node:     param,
		}
		if existing, ok := a.symbols.Define(a.scope, sym); !ok {
			a.addCompilerError(errors.DuplicateDeclaration(param.Name.Value, param.Name.Pos, existing.Position))
		}
	}

	if fn.Body == nil {
		return
	}
	a.analyzeStatements(fn.Body.Stmts)

	NewFlowAnalyzer(a).AnalyzeFunction(fn, sig.returnType)
}

func (a *Analyzer) analyzeStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Stmt) {
	switch node := stmt.(type) {
	case *ast.Block:
		a.withScope(node.Pos, func() {
			a.analyzeStatements(node.Stmts)
		})
	case *ast.IfStmt:
		a.analyzeCondition("if", node.Cond)
		a.analyzeStatement(node.Then)
		if node.Else != nil {
			a.analyzeStatement(node.Else)
		}
	case *ast.WhileStmt:
		a.analyzeCondition("while", node.Cond)
		a.analyzeStatement(node.Body)
	case *ast.DoUntilStmt:
		a.analyzeStatement(node.Body)
		a.analyzeCondition("until", node.Cond)
	case *ast.ForInStmt:
		a.analyzeForIn(node)
	case *ast.ReturnStmt:
		a.analyzeReturn(node)
	case *ast.ExprStmt:
		a.analyzeExpression(node.Expr)
	case *ast.DeclStmt:
		a.analyzeVarDecl(node.Decl)
	case *ast.BadStmt:
		a.incomplete = true
	}
}

// withScope runs fn inside a new block scope
func (a *Analyzer) withScope(pos ast.Position, fn func()) {
	outer := a.scope
	a.scope = a.symbols.NewScope(outer, ScopeBlock, pos)
	defer func() { a.scope = outer }()
	fn()
}

func (a *Analyzer) analyzeCondition(construct string, cond ast.Expr) {
	if cond == nil {
		return
	}
	t := a.analyzeExpression(cond)
	if t.IsKnown() && t.Kind != types.Bool {
		a.addCompilerError(errors.InvalidCondition(construct, t.String(), cond.NodePos()))
	}
}

// analyzeForIn checks 'for (i in n)': n is an Int count and i an Int
// variable visible only in the body.
func (a *Analyzer) analyzeForIn(loop *ast.ForInStmt) {
	if loop.Iterable != nil {
		t := a.analyzeExpression(loop.Iterable)
		if t.IsKnown() && t.Kind != types.Int {
			a.addCompilerError(errors.TypeMismatch("Int", t.String(), loop.Iterable.NodePos()))
		}
	}

	a.withScope(loop.Pos, func() {
		a.symbols.Define(a.scope, &Symbol{
			Name:     loop.Var.Value,
			Kind:     SymbolVariable,
			Type:     types.IntType,
			Position: loop.Var.Pos,
			Node:     loop,
		})
		if loop.Body != nil {
			a.analyzeStatements(loop.Body.Stmts)
		}
	})
}

func (a *Analyzer) analyzeReturn(ret *ast.ReturnStmt) {
	if a.function == nil {
		if ret.Value != nil {
			a.analyzeExpression(ret.Value)
		}
		return
	}

	name := a.function.decl.Name.Value
	expected := a.function.returnType

	if ret.Value == nil {
		if expected.IsKnown() && !expected.IsVoid() {
			a.addCompilerError(errors.ReturnTypeMismatch(name, expected.String(), "Void", ret.Pos))
		}
		return
	}

	actual := a.analyzeExpression(ret.Value)
	if !expected.IsKnown() || !actual.IsKnown() {
		return
	}
	if expected.IsVoid() || !actual.Equal(expected) {
		a.addCompilerError(errors.ReturnTypeMismatch(name, expected.String(), actual.String(), ret.Value.NodePos()))
	}
}
