package errors

import (
	"fmt"
	"strings"

	"dream/internal/ast"
)

// Syntax error classes, reported as error_type on the wire
const (
	UnexpectedToken         = "UnexpectedToken"
	UnexpectedEndOfFile     = "UnexpectedEndOfFile"
	InvalidAssignmentTarget = "InvalidAssignmentTarget"
	MissingSemicolon        = "MissingSemicolon"
	MissingParenthesis      = "MissingParenthesis"
	MissingType             = "MissingType"
	MissingInKeyword        = "MissingInKeyword"
	UnsupportedOperator     = "UnsupportedOperator"
)

var syntaxCodes = map[string]string{
	UnexpectedToken:         ErrorUnexpectedToken,
	UnexpectedEndOfFile:     ErrorUnexpectedEndOfFile,
	InvalidAssignmentTarget: ErrorInvalidAssignmentTarget,
	MissingSemicolon:        ErrorMissingSemicolon,
	MissingParenthesis:      ErrorMissingParenthesis,
	MissingType:             ErrorMissingType,
	MissingInKeyword:        ErrorMissingInKeyword,
	UnsupportedOperator:     ErrorUnsupportedOperator,
}

// Syntax creates a syntax error of the given class
func Syntax(errorType, message string, pos ast.Position, length int) CompilerError {
	code, ok := syntaxCodes[errorType]
	if !ok {
		code = ErrorUnexpectedToken
	}
	builder := NewSyntaxError(code, errorType, message, pos).WithLength(max(length, 1))
	switch errorType {
	case MissingParenthesis:
		builder = builder.WithHelp("conditions of 'if' and 'while' are written as 'if (cond) { ... }'")
	case MissingSemicolon:
		builder = builder.WithSuggestion("add ';' at the end of the statement")
	case UnsupportedOperator:
		builder = builder.WithNote("this operator is reserved but has no meaning yet")
	}
	return builder.Build()
}

// Lexical creates a lexical error spanning length characters
func Lexical(code, message string, pos ast.Position, length int) CompilerError {
	return NewLexicalError(code, message, pos).WithLength(max(length, 1)).Build()
}

// VerificationFailed reports a function whose generated body is malformed
func VerificationFailed(functionName string, violations []string, pos ast.Position) CompilerError {
	builder := NewCodegenError(ErrorVerificationFailed,
		fmt.Sprintf("module verification failed in function '%s'", functionName), pos).
		WithLength(len(functionName))
	for _, v := range violations {
		builder = builder.WithNote(v)
	}
	return builder.Build()
}

// UnsupportedConstruct reports source the generator cannot lower
func UnsupportedConstruct(what string, pos ast.Position) CompilerError {
	return NewCodegenError(ErrorUnsupportedConstruct, fmt.Sprintf("unsupported construct: %s", what), pos).
		Build()
}

// PreconditionFailed reports an attempt to generate IR for a program with semantic errors
func PreconditionFailed(semanticErrors int) CompilerError {
	return NewCodegenError(ErrorPreconditionFailed,
		fmt.Sprintf("code generation requires zero semantic errors, found %d", semanticErrors), ast.Position{}).
		WithHelp("fix the semantic errors before generating IR").
		Build()
}

// Summary renders a one-line count per stage, e.g. "2 syntax errors, 1 semantic error"
func Summary(list []CompilerError) string {
	counts := CountByKind(list)
	var parts []string
	for _, k := range []Kind{LexicalError, SyntaxError, SemanticError, CodegenError} {
		n := counts[k]
		if n == 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSuffix(string(k), "Error")) + " error"
		if n > 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	if len(parts) == 0 {
		return "no errors"
	}
	return strings.Join(parts, ", ")
}
