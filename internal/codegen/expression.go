package codegen

import (
	"fmt"

	"dream/internal/ast"
	"dream/internal/builtins"
	"dream/internal/ir"
	"dream/internal/types"
)

var integerOps = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	"/": "sdiv",
	"%": "srem",
}

var floatOps = map[string]string{
	"+": "fadd",
	"-": "fsub",
	"*": "fmul",
	"/": "fdiv",
	"%": "frem",
}

var integerPredicates = map[string]string{
	"==": "eq",
	"!=": "ne",
	"<":  "slt",
	"<=": "sle",
	">":  "sgt",
	">=": "sge",
}

var floatPredicates = map[string]string{
	"==": "oeq",
	"!=": "une",
	"<":  "olt",
	"<=": "ole",
	">":  "ogt",
	">=": "oge",
}

var printFormats = map[types.Kind]string{
	types.Int:    "%lld\n",
	types.Float:  "%f\n",
	types.String: "%s\n",
}

// lowerExpr emits the instructions computing expr and returns its value,
// or nil for a call to a void function
func (fg *functionGen) lowerExpr(expr ast.Expr) *ir.Value {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return fg.lowerLiteral(e)
	case *ast.IdentExpr:
		s := fg.lookup(e.Name)
		if s == nil {
			return fg.unsupported(fmt.Sprintf("reference to '%s'", e.Name), e.Pos)
		}
		return fg.b.Load(s.typ, s.addr)
	case *ast.GroupedExpr:
		return fg.lowerExpr(e.Inner)
	case *ast.UnaryExpr:
		return fg.lowerUnary(e)
	case *ast.BinaryExpr:
		return fg.lowerBinary(e)
	case *ast.CallExpr:
		return fg.lowerCall(e)
	case *ast.AssignExpr:
		return fg.lowerAssign(e)
	case *ast.MemberExpr:
		return fg.unsupported(fmt.Sprintf("member access '.%s'", e.Field.Value), e.Field.Pos)
	default:
		return fg.unsupported(fmt.Sprintf("expression %s", expr.NodeType()), expr.NodePos())
	}
}

func (fg *functionGen) lowerLiteral(lit *ast.LiteralExpr) *ir.Value {
	if lit.Kind == ast.StringLiteral {
		return fg.b.StringPtr(fg.g.module.StringConstant(lit.Value))
	}
	v, ok := literalConstant(lit)
	if !ok {
		return fg.unsupported(fmt.Sprintf("literal '%s'", lit.Value), lit.Pos)
	}
	return v
}

func (fg *functionGen) lowerUnary(e *ast.UnaryExpr) *ir.Value {
	operand := fg.lowerExpr(e.Operand)
	switch {
	case e.Op == "!":
		return fg.b.Not(operand)
	case e.Op == "-" && e.Operand.Type().Kind == types.Float:
		return fg.b.FNeg(operand)
	case e.Op == "-":
		return fg.b.Binary("sub", ir.ConstInt(0), operand)
	default:
		return fg.unsupported(fmt.Sprintf("unary operator '%s'", e.Op), e.Pos)
	}
}

// lowerBinary evaluates both operands, so && and || do not short-circuit
func (fg *functionGen) lowerBinary(e *ast.BinaryExpr) *ir.Value {
	operandType := e.Left.Type()
	switch operandType.Kind {
	case types.String:
		return fg.lowerStringBinary(e)
	case types.Struct:
		return fg.unsupported(fmt.Sprintf("operator '%s' on struct '%s'", e.Op, operandType), e.Pos)
	}

	left := fg.lowerExpr(e.Left)
	right := fg.lowerExpr(e.Right)
	isFloat := operandType.Kind == types.Float

	switch e.Op {
	case "&&":
		return fg.b.Binary("and", left, right)
	case "||":
		return fg.b.Binary("or", left, right)
	}

	if op, ok := integerOps[e.Op]; ok {
		if isFloat {
			op = floatOps[e.Op]
		}
		return fg.b.Binary(op, left, right)
	}

	if pred, ok := integerPredicates[e.Op]; ok {
		if isFloat {
			return fg.b.FCmp(floatPredicates[e.Op], left, right)
		}
		return fg.b.ICmp(pred, left, right)
	}

	return fg.unsupported(fmt.Sprintf("binary operator '%s'", e.Op), e.Pos)
}

// lowerStringBinary compares with strcmp and concatenates into a fresh
// malloc'd buffer
func (fg *functionGen) lowerStringBinary(e *ast.BinaryExpr) *ir.Value {
	left := fg.lowerExpr(e.Left)
	right := fg.lowerExpr(e.Right)

	switch e.Op {
	case "==", "!=":
		cmp := fg.b.CallExternal(fg.g.external("strcmp"), []*ir.Value{left, right})
		return fg.b.ICmp(integerPredicates[e.Op], cmp, ir.ConstInt32(0))
	case "+":
		leftLen := fg.b.CallExternal(fg.g.external("strlen"), []*ir.Value{left})
		rightLen := fg.b.CallExternal(fg.g.external("strlen"), []*ir.Value{right})
		size := fg.b.Binary("add", leftLen, rightLen)
		size = fg.b.Binary("add", size, ir.ConstInt(1))
		buf := fg.b.CallExternal(fg.g.external("malloc"), []*ir.Value{size})
		fg.b.CallExternal(fg.g.external("strcpy"), []*ir.Value{buf, left})
		fg.b.CallExternal(fg.g.external("strcat"), []*ir.Value{buf, right})
		return buf
	}
	return fg.unsupported(fmt.Sprintf("operator '%s' on String", e.Op), e.Pos)
}

// lowerCall calls a program function, or the print builtin when no
// function of the program is named print
func (fg *functionGen) lowerCall(e *ast.CallExpr) *ir.Value {
	name := e.CalleeName()
	sig, ok := fg.g.signatures[name]
	if !ok {
		if !fg.g.userFunctions[name] && name == builtins.Print.Name && len(e.Args) == 1 {
			fg.lowerPrint(e.Args[0])
			return nil
		}
		return fg.unsupported(fmt.Sprintf("call to '%s'", name), e.Pos)
	}

	args := make([]*ir.Value, len(e.Args))
	for i, arg := range e.Args {
		args[i] = fg.lowerExpr(arg)
	}
	return fg.b.Call(sig.ret, name, args)
}

// lowerPrint writes one value and a newline. Bool goes through puts with
// a select between the "true" and "false" strings.
func (fg *functionGen) lowerPrint(arg ast.Expr) {
	value := fg.lowerExpr(arg)
	kind := arg.Type().Kind

	if kind == types.Bool {
		yes := fg.b.StringPtr(fg.g.module.StringConstant("true"))
		no := fg.b.StringPtr(fg.g.module.StringConstant("false"))
		fg.b.CallDeclared(fg.g.puts, []*ir.Value{fg.b.Select(value, yes, no)})
		return
	}

	format, ok := printFormats[kind]
	if !ok {
		fg.unsupported(fmt.Sprintf("print of type '%s'", arg.Type()), arg.NodePos())
		return
	}
	formatPtr := fg.b.StringPtr(fg.g.module.StringConstant(format))
	fg.b.CallDeclared(fg.g.printf, []*ir.Value{formatPtr, value})
}

func (fg *functionGen) lowerAssign(e *ast.AssignExpr) *ir.Value {
	target, ok := e.Target.(*ast.IdentExpr)
	if !ok {
		return fg.unsupported("assignment to a struct field", e.Target.NodePos())
	}
	s := fg.lookup(target.Name)
	if s == nil {
		return fg.unsupported(fmt.Sprintf("assignment to '%s'", target.Name), target.Pos)
	}
	value := fg.lowerExpr(e.Value)
	fg.b.Store(value, s.addr)
	return value
}
