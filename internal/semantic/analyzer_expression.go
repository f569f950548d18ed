package semantic

import (
	"strconv"

	"dream/internal/ast"
	"dream/internal/builtins"
	"dream/internal/errors"
	"dream/internal/types"
)

// analyzeExpression types expr and its children, recording the result on
// every node. Failed checks leave Unknown, which later checks skip.
func (a *Analyzer) analyzeExpression(expr ast.Expr) types.Type {
	if expr == nil {
		return types.UnknownType
	}

	var t types.Type
	switch node := expr.(type) {
	case *ast.LiteralExpr:
		t = a.analyzeLiteral(node)
	case *ast.IdentExpr:
		t = a.analyzeIdent(node)
	case *ast.BinaryExpr:
		t = a.analyzeBinary(node)
	case *ast.UnaryExpr:
		t = a.analyzeUnary(node)
	case *ast.GroupedExpr:
		t = a.analyzeExpression(node.Inner)
	case *ast.CallExpr:
		t = a.analyzeCall(node)
	case *ast.AssignExpr:
		t = a.analyzeAssign(node)
	case *ast.MemberExpr:
		t = a.analyzeMember(node)
	case *ast.BadExpr:
		a.incomplete = true
		t = types.UnknownType
	default:
		t = types.UnknownType
	}

	expr.SetType(t)
	return t
}

func (a *Analyzer) analyzeLiteral(lit *ast.LiteralExpr) types.Type {
	switch lit.Kind {
	case ast.IntLiteral:
		if _, err := strconv.ParseInt(lit.Value, 10, 64); err != nil {
			a.addCompilerError(errors.LiteralOutOfRange(lit.Value, "Int", lit.Pos))
		}
		return types.IntType
	case ast.FloatLiteral:
		return types.FloatType
	case ast.StringLiteral:
		return types.StringType
	case ast.BoolLiteral:
		return types.BoolType
	default:
		return types.UnknownType
	}
}

func (a *Analyzer) analyzeIdent(ident *ast.IdentExpr) types.Type {
	sym := a.symbols.Lookup(a.scope, ident.Name)
	if sym == nil {
		a.addUndeclaredIdentifierError(ident.Name, ident.Pos)
		return types.UnknownType
	}

	switch sym.Kind {
	case SymbolFunction, SymbolStruct:
		a.addCompilerError(errors.NotAValue(ident.Name, sym.Kind.String(), ident.Pos))
		return types.UnknownType
	default:
		return sym.Type
	}
}

func (a *Analyzer) analyzeBinary(bin *ast.BinaryExpr) types.Type {
	left := a.analyzeExpression(bin.Left)
	right := a.analyzeExpression(bin.Right)

	if left.IsVoid() {
		a.addCompilerError(errors.VoidInExpression("left operand of '"+bin.Op+"'", bin.Left.NodePos()))
		left = types.UnknownType
	}
	if right.IsVoid() {
		a.addCompilerError(errors.VoidInExpression("right operand of '"+bin.Op+"'", bin.Right.NodePos()))
		right = types.UnknownType
	}

	result, ok := binaryResultType(bin.Op, left, right)
	if !ok {
		a.addBinaryOperationError(bin, left, right)
		return resultOnError(bin.Op)
	}
	return result
}

func (a *Analyzer) analyzeUnary(unary *ast.UnaryExpr) types.Type {
	operand := a.analyzeExpression(unary.Operand)

	switch unary.Op {
	case "-":
		if !operand.IsKnown() {
			return types.UnknownType
		}
		if operand.IsNumeric() {
			return operand
		}
	case "!":
		if !operand.IsKnown() || operand.Kind == types.Bool {
			return types.BoolType
		}
	default:
		return types.UnknownType
	}

	a.addCompilerError(errors.InvalidUnary(unary.Op, operand.String(), unary.Pos))
	if unary.Op == "!" {
		return types.BoolType
	}
	return types.UnknownType
}

func (a *Analyzer) analyzeCall(call *ast.CallExpr) types.Type {
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.analyzeExpression(arg)
		if argTypes[i].IsVoid() {
			a.addCompilerError(errors.VoidInExpression("argument "+strconv.Itoa(i+1), arg.NodePos()))
			argTypes[i] = types.UnknownType
		}
	}

	callee, ok := call.Callee.(*ast.IdentExpr)
	if !ok {
		a.analyzeExpression(call.Callee)
		a.addCompilerError(errors.NotCallable(call.Callee.String(), "expression", call.Callee.NodePos()))
		return types.UnknownType
	}

	name := callee.Name
	sym := a.symbols.Lookup(a.scope, name)

	if sym == nil {
		if builtin, ok := builtins.LookupFunction(name); ok {
			t := a.checkBuiltinCall(builtin, call, argTypes)
			callee.SetType(t)
			return t
		}
		a.addUndefinedFunctionError(name, callee.Pos)
		return types.UnknownType
	}

	if sym.Kind != SymbolFunction {
		a.addCompilerError(errors.NotCallable(name, sym.Kind.String(), callee.Pos))
		return types.UnknownType
	}

	callee.SetType(sym.Type)

	if len(call.Args) != len(sym.Params) {
		a.addCompilerError(errors.ArgumentCountMismatch(name, len(sym.Params), len(call.Args), callee.Pos))
		return sym.Type
	}
	for i, param := range sym.Params {
		arg := argTypes[i]
		if !param.IsKnown() || !arg.IsKnown() {
			continue
		}
		if !arg.Equal(param) {
			a.addCompilerError(errors.ArgumentTypeMismatch(name, i, param.String(), arg.String(), call.Args[i].NodePos()))
		}
	}
	return sym.Type
}

// checkBuiltinCall checks a call to a runtime builtin. A nil parameter
// list means one argument of any printable type.
func (a *Analyzer) checkBuiltinCall(fn *builtins.Function, call *ast.CallExpr, argTypes []types.Type) types.Type {
	returnType := types.FromBuiltin(fn.Return)

	if fn.Params == nil {
		if len(argTypes) != 1 {
			a.addCompilerError(errors.ArgumentCountMismatch(fn.Name, 1, len(argTypes), call.Callee.NodePos()))
			return returnType
		}
		arg := argTypes[0]
		if !arg.IsKnown() {
			return returnType
		}
		if b, ok := arg.Builtin(); !ok || !builtins.IsPrintable(b) {
			a.addCompilerError(errors.ArgumentTypeMismatch(fn.Name, 0, "Int, Float, Bool or String", arg.String(), call.Args[0].NodePos()))
		}
		return returnType
	}

	if len(argTypes) != len(fn.Params) {
		a.addCompilerError(errors.ArgumentCountMismatch(fn.Name, len(fn.Params), len(argTypes), call.Callee.NodePos()))
		return returnType
	}
	for i, p := range fn.Params {
		want := types.FromBuiltin(p)
		if argTypes[i].IsKnown() && !argTypes[i].Equal(want) {
			a.addCompilerError(errors.ArgumentTypeMismatch(fn.Name, i, want.String(), argTypes[i].String(), call.Args[i].NodePos()))
		}
	}
	return returnType
}

func (a *Analyzer) analyzeAssign(assign *ast.AssignExpr) types.Type {
	var target types.Type

	switch node := assign.Target.(type) {
	case *ast.IdentExpr:
		target = a.analyzeAssignTarget(node)
		node.SetType(target)
	case *ast.MemberExpr:
		target = a.analyzeExpression(node)
	default:
		a.analyzeExpression(assign.Target)
		target = types.UnknownType
	}

	value := a.analyzeExpression(assign.Value)
	if value.IsVoid() {
		a.addCompilerError(errors.VoidInExpression("assigned value", assign.Value.NodePos()))
		return target
	}
	if target.IsKnown() && value.IsKnown() && !target.Equal(value) {
		a.addCompilerError(errors.TypeMismatch(target.String(), value.String(), assign.Value.NodePos()))
	}
	return target
}

// analyzeAssignTarget resolves a name being written. Only variables and
// parameters may be assigned.
func (a *Analyzer) analyzeAssignTarget(ident *ast.IdentExpr) types.Type {
	sym := a.symbols.Lookup(a.scope, ident.Name)
	if sym == nil {
		a.addUndeclaredIdentifierError(ident.Name, ident.Pos)
		return types.UnknownType
	}

	switch sym.Kind {
	case SymbolVariable, SymbolParameter:
		return sym.Type
	case SymbolConstant:
		a.addCompilerError(errors.AssignToConstant(ident.Name, "constant", ident.Pos))
		return sym.Type
	default:
		a.addCompilerError(errors.AssignToConstant(ident.Name, sym.Kind.String(), ident.Pos))
		return types.UnknownType
	}
}

func (a *Analyzer) analyzeMember(member *ast.MemberExpr) types.Type {
	target := a.analyzeExpression(member.Target)
	if !target.IsKnown() {
		return types.UnknownType
	}

	if !target.IsStruct() {
		a.addCompilerError(errors.InvalidMemberAccess(member.Field.Value, target.String(), member.Field.Pos))
		return types.UnknownType
	}

	def, ok := a.registry.Lookup(target.Name)
	if !ok {
		return types.UnknownType
	}
	field, _, ok := def.Field(member.Field.Value)
	if !ok {
		a.addCompilerError(errors.FieldNotFound(def.Name, member.Field.Value, member.Field.Pos, def.FieldNames()))
		return types.UnknownType
	}
	return field.Type
}
