package semantic

import (
	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/types"
)

type operatorClass int

const (
	arithmeticOp operatorClass = iota
	equalityOp
	relationalOp
	logicalOp
	unknownOp
)

func classifyOperator(op string) operatorClass {
	switch op {
	case "+", "-", "*", "/", "%":
		return arithmeticOp
	case "==", "!=":
		return equalityOp
	case "<", "<=", ">", ">=":
		return relationalOp
	case "&&", "||":
		return logicalOp
	default:
		return unknownOp
	}
}

// binaryResultType returns the type of 'left op right'. An Unknown operand
// yields a result without failing so one error is reported once.
func binaryResultType(op string, left, right types.Type) (types.Type, bool) {
	class := classifyOperator(op)
	unknown := !left.IsKnown() || !right.IsKnown()

	switch class {
	case arithmeticOp:
		if unknown {
			return types.UnknownType, true
		}
		if left.IsNumeric() && left.Equal(right) {
			return left, true
		}
		if op == "+" && left.Kind == types.String && right.Kind == types.String {
			return types.StringType, true
		}
		return types.UnknownType, false

	case equalityOp:
		if unknown {
			return types.BoolType, true
		}
		if left.Equal(right) && !left.IsStruct() {
			return types.BoolType, true
		}
		return types.BoolType, false

	case relationalOp:
		if unknown {
			return types.BoolType, true
		}
		if left.IsNumeric() && left.Equal(right) {
			return types.BoolType, true
		}
		return types.BoolType, false

	case logicalOp:
		okLeft := !left.IsKnown() || left.Kind == types.Bool
		okRight := !right.IsKnown() || right.Kind == types.Bool
		return types.BoolType, okLeft && okRight

	default:
		return types.UnknownType, false
	}
}

// resultOnError is the type given to an ill-typed binary expression.
// Comparisons and logical operators are Bool whatever their operands.
func resultOnError(op string) types.Type {
	switch classifyOperator(op) {
	case equalityOp, relationalOp, logicalOp:
		return types.BoolType
	default:
		return types.UnknownType
	}
}

// addBinaryOperationError reports mixed Int and Float operands as a type
// mismatch and every other rejected pair as an invalid operation.
func (a *Analyzer) addBinaryOperationError(bin *ast.BinaryExpr, left, right types.Type) {
	if left.IsNumeric() && right.IsNumeric() && !left.Equal(right) {
		a.addCompilerError(errors.TypeMismatch(left.String(), right.String(), bin.Right.NodePos()))
		return
	}
	a.addCompilerError(errors.InvalidOperation(bin.Op, left.String(), right.String(), bin.Pos))
}
