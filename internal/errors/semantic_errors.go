package errors

import (
	"fmt"
	"strings"

	"dream/internal/ast"
)

// Common semantic error constructors with suggestions

// UndeclaredIdentifier creates an error for unresolved names with typo suggestions
func UndeclaredIdentifier(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUndeclaredIdentifier, fmt.Sprintf("undeclared identifier '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) > 0 {
		builder = builder.WithSuggestion(didYouMean(similarNames))
	} else {
		builder = builder.WithSuggestion("make sure the variable is declared before use").
			WithNote("variables are declared with 'let' or 'const'")
	}

	return builder.Build()
}

// UndefinedFunction creates an error for calls to functions that are never declared
func UndefinedFunction(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedFunction, fmt.Sprintf("function '%s' is not defined", name), pos).
		WithLength(len(name))

	if len(similarNames) > 0 {
		builder = builder.WithSuggestion(didYouMean(similarNames))
	} else {
		builder = builder.WithHelp("functions are declared at top level with 'fn name(params) -> type { ... }'")
	}

	return builder.Build()
}

// NotCallable creates an error for a call whose callee is not a function
func NotCallable(name, kind string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNotCallable, fmt.Sprintf("'%s' is a %s, not a function", name, kind), pos).
		WithLength(len(name)).
		Build()
}

// DuplicateDeclaration creates an error for a name declared twice in the same scope
func DuplicateDeclaration(name string, pos, previous ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDeclaration, fmt.Sprintf("'%s' is already declared in this scope", name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("previous declaration of '%s' at %d:%d", name, previous.Line, previous.Column)).
		WithHelp("rename one of the declarations or move it into a nested block").
		Build()
}

// TypeMismatch creates an error for incompatible types
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorTypeMismatch,
		fmt.Sprintf("mismatched types: expected '%s', found '%s'", expected, actual), pos)

	if isNumericType(expected) && isNumericType(actual) {
		builder = builder.WithNote("Int and Float are never converted implicitly")
	}

	return builder.Build()
}

// InvalidOperation creates an error for a binary operator applied to unsupported operand types
func InvalidOperation(op, leftType, rightType string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorInvalidBinaryOperation,
		fmt.Sprintf("invalid operation: %s %s %s", leftType, op, rightType), pos).
		WithHelp(fmt.Sprintf("operator '%s' cannot be used between types '%s' and '%s'", op, leftType, rightType))

	switch op {
	case "&&", "||":
		builder = builder.WithNote("logical operators require Bool operands")
	default:
		if isNumericType(leftType) && isNumericType(rightType) {
			builder = builder.WithNote("mixed Int and Float arithmetic is not allowed")
		} else {
			builder = builder.WithNote("arithmetic and ordering operators require numeric operands of the same type")
		}
	}

	return builder.Build()
}

// InvalidUnary creates an error for a unary operator applied to the wrong operand type
func InvalidUnary(op, operandType string, pos ast.Position) CompilerError {
	required := "a numeric"
	if op == "!" {
		required = "a Bool"
	}
	return NewSemanticError(ErrorInvalidOperation,
		fmt.Sprintf("cannot apply unary '%s' to type '%s'", op, operandType), pos).
		WithHelp(fmt.Sprintf("operator '%s' requires %s operand", op, required)).
		Build()
}

// ArgumentCountMismatch creates an error for calls with the wrong arity
func ArgumentCountMismatch(functionName string, expected, actual int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorArgumentCount,
		fmt.Sprintf("function '%s' expects %d argument(s), got %d", functionName, expected, actual), pos).
		WithLength(len(functionName)).
		Build()
}

// ArgumentTypeMismatch creates an error for a call argument of the wrong type
func ArgumentTypeMismatch(functionName string, index int, expected, actual string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorArgumentType,
		fmt.Sprintf("argument %d of '%s' has type '%s', expected '%s'", index+1, functionName, actual, expected), pos).
		Build()
}

// ReturnTypeMismatch creates an error for a return value that does not match the signature
func ReturnTypeMismatch(functionName, expected, actual string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorReturnTypeMismatch,
		fmt.Sprintf("function '%s' returns '%s', found '%s'", functionName, expected, actual), pos).
		Build()
}

// MissingReturn creates an error for non-void functions that can fall off their end
func MissingReturn(functionName, returnType string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorMissingReturn,
		fmt.Sprintf("function '%s' must return a value of type '%s' on every path", functionName, returnType), pos).
		WithHelp("add a return statement at the end of the function body").
		Build()
}

// UnreachableCode creates a warning for statements following a return
func UnreachableCode(pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnreachableCode, "unreachable code", pos).
		WithNote("this statement follows a return statement").
		Build()
}

// AssignToConstant creates an error for writes to names that are not variables
func AssignToConstant(name, kind string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorInvalidAssignment, fmt.Sprintf("cannot assign to %s '%s'", kind, name), pos).
		WithLength(len(name))
	if kind == "constant" {
		builder = builder.WithSuggestion(fmt.Sprintf("declare '%s' with 'let' instead of 'const'", name))
	}
	return builder.Build()
}

// FieldNotFound creates an error for unknown struct fields
func FieldNotFound(structName, fieldName string, pos ast.Position, availableFields []string) CompilerError {
	builder := NewSemanticError(ErrorFieldNotFound,
		fmt.Sprintf("struct '%s' has no field '%s'", structName, fieldName), pos).
		WithLength(len(fieldName))

	if similar := SimilarNames(fieldName, availableFields); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	} else if len(availableFields) > 0 {
		builder = builder.WithNote(fmt.Sprintf("available fields: %s", strings.Join(availableFields, ", ")))
	}

	return builder.Build()
}

// DuplicateField creates an error for a struct that repeats a field name
func DuplicateField(structName, fieldName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateField,
		fmt.Sprintf("field '%s' is declared more than once in struct '%s'", fieldName, structName), pos).
		WithLength(len(fieldName)).
		Build()
}

// UnknownType creates an error for annotations naming a type that does not exist
func UnknownType(name string, pos ast.Position, similar []string) CompilerError {
	builder := NewSemanticError(ErrorUnknownType, fmt.Sprintf("unknown type '%s'", name), pos).
		WithLength(len(name))
	if len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	} else {
		builder = builder.WithNote("builtin types are int, float, bool, string and void")
	}
	return builder.Build()
}

// InvalidCondition creates an error for a non-Bool condition
func InvalidCondition(construct, actual string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidCondition,
		fmt.Sprintf("%s condition must be 'Bool', found '%s'", construct, actual), pos).
		Build()
}

// VoidInExpression creates an error for a void call used as a value
func VoidInExpression(what string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorVoidInExpression,
		fmt.Sprintf("%s has type 'Void' and cannot be used as a value", what), pos).
		Build()
}

// NotAValue creates an error for a function or struct name used where a value is expected
func NotAValue(name, kind string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorInvalidOperation, fmt.Sprintf("%s '%s' cannot be used as a value", kind, name), pos).
		WithLength(len(name))
	if kind == "function" {
		builder = builder.WithSuggestion(fmt.Sprintf("call it: '%s(...)'", name))
	}
	return builder.Build()
}

// InvalidMemberAccess creates an error for '.field' on a value that is not a struct
func InvalidMemberAccess(field, targetType string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidMemberAccess,
		fmt.Sprintf("type '%s' has no field '%s'", targetType, field), pos).
		WithLength(len(field)).
		WithNote("only struct values have fields").
		Build()
}

// VoidDeclaration creates an error for a variable, parameter or field typed void
func VoidDeclaration(what, name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorVoidDeclaration,
		fmt.Sprintf("%s '%s' cannot have type 'Void'", what, name), pos).
		WithLength(len(name)).
		Build()
}

// LiteralOutOfRange creates an error for an integer literal that does not fit in 64 bits
func LiteralOutOfRange(literal, typeName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorLiteralOutOfRange,
		fmt.Sprintf("literal '%s' is out of range for type '%s'", literal, typeName), pos).
		WithLength(len(literal)).
		Build()
}

// Internal reports a broken analyzer guarantee
func Internal(message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUnannotatedExpression, "internal compiler error: "+message, pos).
		Build()
}

func didYouMean(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("did you mean '%s'?", names[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(names, "', '"))
}

func isNumericType(typeName string) bool {
	return typeName == "Int" || typeName == "Float"
}
