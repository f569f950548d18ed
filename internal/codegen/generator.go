package codegen

import (
	"fmt"
	"strconv"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/ir"
	"dream/internal/semantic"
	"dream/internal/types"
)

const DefaultModuleID = "dream_compiler"

// Options control the module header
type Options struct {
	ModuleID       string
	SourceFilename string
	TargetTriple   string
}

func DefaultOptions() Options {
	return Options{ModuleID: DefaultModuleID, SourceFilename: "main.dream"}
}

// runtime symbols declared in every module
var reservedNames = map[string]bool{
	"printf": true,
	"puts":   true,
	"strcmp": true,
	"strlen": true,
	"malloc": true,
	"strcpy": true,
	"strcat": true,
}

type externalSignature struct {
	ret    ir.Type
	params []ir.Type
}

// libc functions declared on first use by String operators
var stringRuntime = map[string]externalSignature{
	"strcmp": {ir.I32, []ir.Type{ir.Ptr, ir.Ptr}},
	"strlen": {ir.I64, []ir.Type{ir.Ptr}},
	"malloc": {ir.Ptr, []ir.Type{ir.I64}},
	"strcpy": {ir.Ptr, []ir.Type{ir.Ptr, ir.Ptr}},
	"strcat": {ir.Ptr, []ir.Type{ir.Ptr, ir.Ptr}},
}

type Generator struct {
	opts   Options
	result *semantic.Result
	module *ir.Module
	errors []errors.CompilerError

	printf  *ir.Declare
	puts    *ir.Declare
	runtime map[string]*ir.Declare

	globals       map[string]*slot
	signatures    map[string]*signature
	userFunctions map[string]bool
}

// slot is the address of a named value and the type stored there
type slot struct {
	addr *ir.Value
	typ  ir.Type
}

type signature struct {
	ret    ir.Type
	params []ir.Type
}

func NewGenerator(opts Options) *Generator {
	if opts.ModuleID == "" {
		opts.ModuleID = DefaultModuleID
	}
	return &Generator{opts: opts}
}

// Generate lowers an analyzed program to LLVM textual IR
func Generate(result *semantic.Result, opts Options) (string, []errors.CompilerError) {
	module, errs := NewGenerator(opts).GenerateModule(result)
	if module == nil {
		return "", errs
	}
	return ir.Print(module), errs
}

// GenerateModule lowers an analyzed program. The module is nil when the
// analysis reported errors. Functions that cannot be lowered are reported,
// left out of the module and declared instead so their callers still link.
func (g *Generator) GenerateModule(result *semantic.Result) (*ir.Module, []errors.CompilerError) {
	g.result = result
	g.errors = nil
	g.globals = make(map[string]*slot)
	g.signatures = make(map[string]*signature)
	g.userFunctions = make(map[string]bool)
	g.runtime = make(map[string]*ir.Declare)

	if result != nil {
		if n := len(errors.OnlyErrors(result.Errors)); n > 0 {
			return nil, []errors.CompilerError{errors.PreconditionFailed(n)}
		}
	}

	g.module = ir.NewModule(g.opts.ModuleID, g.opts.SourceFilename)
	g.module.TargetTriple = g.opts.TargetTriple
	g.printf = g.module.AddDeclare("printf", ir.I32, []ir.Type{ir.Ptr}, true)
	g.puts = g.module.AddDeclare("puts", ir.I32, []ir.Type{ir.Ptr}, false)

	if result == nil || result.Program == nil {
		return g.module, nil
	}

	g.declareStructs()
	g.collectSignatures(result.Program)

	for _, decl := range result.Program.Decls {
		if node, ok := decl.(*ast.VarDecl); ok {
			g.generateGlobal(node)
		}
	}
	for _, fn := range result.Program.Functions() {
		g.generateFunction(fn)
	}

	return g.module, g.errors
}

// external returns the declaration of a libc string function, adding it
// to the module the first time it is needed
func (g *Generator) external(name string) *ir.Declare {
	if d, ok := g.runtime[name]; ok {
		return d
	}
	sig := stringRuntime[name]
	d := g.module.AddDeclare(name, sig.ret, sig.params, false)
	g.runtime[name] = d
	return d
}

func (g *Generator) addError(err errors.CompilerError) {
	g.errors = append(g.errors, err)
}

func (g *Generator) declareStructs() {
	if g.result.Types == nil {
		return
	}
	for _, def := range g.result.Types.Structs() {
		st := &ir.StructType{Name: def.Name}
		for _, f := range def.Fields {
			if f.Type.IsStruct() {
				st.Fields = append(st.Fields, &ir.StructType{Name: f.Type.Name})
				continue
			}
			typ, _ := lowerType(f.Type)
			st.Fields = append(st.Fields, typ)
		}
		g.module.Structs = append(g.module.Structs, st)
	}
}

func (g *Generator) collectSignatures(program *ast.Program) {
	for _, fn := range program.Functions() {
		name := fn.Name.Value
		g.userFunctions[name] = true
		if reservedNames[name] {
			g.addError(errors.UnsupportedConstruct(
				fmt.Sprintf("function name '%s' is reserved by the runtime", name), fn.Name.Pos))
			continue
		}

		sym := g.result.Symbols.LookupLocal(semantic.GlobalScope, name)
		if sym == nil || sym.Kind != semantic.SymbolFunction {
			continue
		}

		ret, ok := lowerType(sym.Type)
		if !ok {
			g.addError(errors.UnsupportedConstruct(
				fmt.Sprintf("function '%s' returns struct type '%s'", name, sym.Type), fn.Name.Pos))
			continue
		}
		sig := &signature{ret: ret}
		for i, p := range sym.Params {
			typ, ok := lowerType(p)
			if !ok {
				g.addError(errors.UnsupportedConstruct(
					fmt.Sprintf("parameter '%s' of struct type '%s'", fn.Params[i].Name.Value, p), fn.Params[i].Pos))
				sig = nil
				break
			}
			sig.params = append(sig.params, typ)
		}
		if sig != nil {
			g.signatures[name] = sig
		}
	}
}

func (g *Generator) generateGlobal(decl *ast.VarDecl) {
	name := decl.Name.Value
	if reservedNames[name] {
		g.addError(errors.UnsupportedConstruct(
			fmt.Sprintf("global name '%s' is reserved by the runtime", name), decl.Name.Pos))
		return
	}

	sym := g.result.Symbols.LookupLocal(semantic.GlobalScope, name)
	if sym == nil || sym.Node != ast.Node(decl) {
		return
	}
	typ, ok := lowerType(sym.Type)
	if !ok {
		g.addError(errors.UnsupportedConstruct(
			fmt.Sprintf("global '%s' of struct type '%s'", name, sym.Type), decl.Name.Pos))
		return
	}

	init, ok := g.constantInitializer(decl.Value)
	if !ok {
		g.addError(errors.UnsupportedConstruct(
			fmt.Sprintf("initializer of global '%s' is not a literal", name), decl.Value.NodePos()))
		return
	}

	g.globals[name] = &slot{addr: g.module.AddGlobal(name, typ, init, decl.Const), typ: typ}
}

// constantInitializer folds a literal, possibly grouped or negated, into a
// constant operand
func (g *Generator) constantInitializer(expr ast.Expr) (*ir.Value, bool) {
	switch e := expr.(type) {
	case *ast.GroupedExpr:
		return g.constantInitializer(e.Inner)
	case *ast.LiteralExpr:
		if e.Kind == ast.StringLiteral {
			c := g.module.StringConstant(e.Value)
			return &ir.Value{Type: ir.Ptr, Ref: "@" + c.Name}, true
		}
		return literalConstant(e)
	case *ast.UnaryExpr:
		inner, ok := g.constantInitializer(e.Operand)
		if !ok {
			return nil, false
		}
		return foldUnary(e.Op, inner)
	default:
		return nil, false
	}
}

func literalConstant(lit *ast.LiteralExpr) (*ir.Value, bool) {
	switch lit.Kind {
	case ast.IntLiteral:
		v, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return nil, false
		}
		return ir.ConstInt(v), true
	case ast.FloatLiteral:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err != strconv.ErrRange {
			return nil, false
		}
		return ir.ConstDouble(v), true
	case ast.BoolLiteral:
		return ir.ConstBool(lit.Value == "true"), true
	default:
		return nil, false
	}
}

func foldUnary(op string, v *ir.Value) (*ir.Value, bool) {
	switch {
	case op == "-" && ir.SameType(v.Type, ir.I64):
		n, _ := strconv.ParseInt(v.Ref, 10, 64)
		return ir.ConstInt(-n), true
	case op == "-" && ir.IsFloat(v.Type):
		f, _ := strconv.ParseUint(v.Ref[2:], 16, 64)
		return &ir.Value{Type: ir.Double, Ref: fmt.Sprintf("0x%016X", f^(1<<63))}, true
	case op == "!" && ir.SameType(v.Type, ir.I1):
		b, _ := strconv.ParseBool(v.Ref)
		return ir.ConstBool(!b), true
	default:
		return nil, false
	}
}

func (g *Generator) generateFunction(decl *ast.FunctionDecl) {
	name := decl.Name.Value
	sig, ok := g.signatures[name]
	if !ok || decl.Body == nil {
		return
	}

	mark := len(g.module.Strings)
	fg := newFunctionGen(g, decl, sig)
	fg.lower()

	if fg.failed != nil {
		g.addError(*fg.failed)
		g.dropFunction(fg.fn, sig, mark)
		return
	}

	ir.Prune(fg.fn)
	if violations := ir.Verify(fg.fn); len(violations) > 0 {
		g.addError(errors.VerificationFailed(name, violations, decl.Name.Pos))
		g.dropFunction(fg.fn, sig, mark)
	}
}

// dropFunction replaces a definition with a declaration of the same
// signature and forgets the strings only it used
func (g *Generator) dropFunction(fn *ir.Function, sig *signature, mark int) {
	g.module.RemoveFunction(fn)
	g.module.TruncateStrings(mark)
	g.module.AddDeclare(fn.Name, sig.ret, sig.params, false)
}

// lowerType maps a source type to its LLVM type. Struct values have no
// lowering.
func lowerType(t types.Type) (ir.Type, bool) {
	switch t.Kind {
	case types.Int:
		return ir.I64, true
	case types.Float:
		return ir.Double, true
	case types.Bool:
		return ir.I1, true
	case types.String:
		return ir.Ptr, true
	case types.Void:
		return ir.Void, true
	default:
		return nil, false
	}
}
