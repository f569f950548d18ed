package errors

// Error codes for the Dream compiler.
//
// Code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Syntax errors
// E0200-E0299: Lexical errors
// E0300-E0399: Code generation errors
// E0600-E0699: Flow control errors
// E0800-E0899: Warnings

const (
	// Semantic analysis
	ErrorUndeclaredIdentifier   = "E0001"
	ErrorUndefinedFunction      = "E0002"
	ErrorTypeMismatch           = "E0003"
	ErrorReturnTypeMismatch     = "E0004"
	ErrorFieldNotFound          = "E0005"
	ErrorDuplicateField         = "E0006"
	ErrorInvalidBinaryOperation = "E0008"
	ErrorDuplicateDeclaration   = "E0009"
	ErrorLiteralOutOfRange      = "E0010"
	ErrorInvalidMemberAccess    = "E0011"
	ErrorVoidDeclaration        = "E0012"
	ErrorArgumentCount          = "E0013"
	ErrorInvalidAssignment      = "E0014"
	ErrorInvalidOperation       = "E0015"
	ErrorGenericSemantic        = "E0016"
	ErrorVoidInExpression       = "E0020"
	ErrorArgumentType           = "E0022"
	ErrorNotCallable            = "E0023"
	ErrorUnknownType            = "E0024"
	ErrorInvalidCondition       = "E0025"
	ErrorUnannotatedExpression  = "E0099"

	// Syntax
	ErrorUnexpectedToken         = "E0100"
	ErrorUnexpectedEndOfFile     = "E0101"
	ErrorInvalidAssignmentTarget = "E0102"
	ErrorMissingSemicolon        = "E0103"
	ErrorMissingParenthesis      = "E0104"
	ErrorMissingType             = "E0105"
	ErrorMissingInKeyword        = "E0106"
	ErrorUnsupportedOperator     = "E0107"

	// Lexical
	ErrorUnexpectedCharacter = "E0200"
	ErrorUnterminatedString  = "E0201"
	ErrorUnterminatedComment = "E0202"

	// Code generation
	ErrorVerificationFailed   = "E0300"
	ErrorUnsupportedConstruct = "E0301"
	ErrorPreconditionFailed   = "E0302"

	// Flow control
	ErrorMissingReturn = "E0600"

	// Warnings
	WarningUnreachableCode = "E0801"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndeclaredIdentifier:
		return "Identifier is used but not declared in any enclosing scope"
	case ErrorUndefinedFunction:
		return "Function is called but never declared"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorReturnTypeMismatch:
		return "Returned value does not match the declared return type"
	case ErrorFieldNotFound:
		return "Struct field does not exist"
	case ErrorDuplicateField:
		return "Struct declares the same field twice"
	case ErrorInvalidBinaryOperation:
		return "Binary operation not supported for these types"
	case ErrorDuplicateDeclaration:
		return "Name is already declared in this scope"
	case ErrorLiteralOutOfRange:
		return "Numeric literal does not fit its type"
	case ErrorInvalidMemberAccess:
		return "Member access on a value that is not a struct"
	case ErrorVoidDeclaration:
		return "Variable, parameter or field declared with type void"
	case ErrorArgumentCount:
		return "Function call has the wrong number of arguments"
	case ErrorArgumentType:
		return "Function call argument has the wrong type"
	case ErrorInvalidAssignment:
		return "Invalid assignment"
	case ErrorInvalidOperation:
		return "Invalid unary operation"
	case ErrorVoidInExpression:
		return "Void value used where a value is required"
	case ErrorNotCallable:
		return "Called name is not a function"
	case ErrorUnknownType:
		return "Type name is not a builtin type or a declared struct"
	case ErrorInvalidCondition:
		return "Condition is not a Bool"
	case ErrorUnannotatedExpression:
		return "Expression was left without a type"
	case ErrorUnexpectedToken:
		return "Parser found a token it did not expect"
	case ErrorUnexpectedEndOfFile:
		return "Input ended in the middle of a construct"
	case ErrorInvalidAssignmentTarget:
		return "Left side of an assignment is not assignable"
	case ErrorMissingSemicolon:
		return "Statement is missing its terminating ';'"
	case ErrorMissingParenthesis:
		return "Condition must be enclosed in parentheses"
	case ErrorMissingType:
		return "Type annotation expected"
	case ErrorMissingInKeyword:
		return "Expected 'in' in for loop"
	case ErrorUnsupportedOperator:
		return "Operator is recognized but not supported"
	case ErrorUnexpectedCharacter:
		return "Character is not part of the language"
	case ErrorUnterminatedString:
		return "String literal is not closed"
	case ErrorUnterminatedComment:
		return "Block comment is not closed"
	case ErrorVerificationFailed:
		return "Generated function is not structurally valid"
	case ErrorUnsupportedConstruct:
		return "Construct cannot be lowered to IR"
	case ErrorPreconditionFailed:
		return "Code generation requires a program without semantic errors"
	case ErrorMissingReturn:
		return "Function declares a return type but not every path returns"
	case WarningUnreachableCode:
		return "Code is unreachable"
	default:
		return "Unknown error code"
	}
}

// IsWarning reports whether the code belongs to the warning range
func IsWarning(code string) bool {
	return code >= "E0800" && code < "E0900"
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Lexer"
	case code >= "E0300" && code < "E0400":
		return "Code Generation"
	case code >= "E0600" && code < "E0700":
		return "Flow Control"
	case code >= "E0800" && code < "E0900":
		return "Warning"
	default:
		return "Unknown"
	}
}
