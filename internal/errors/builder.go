package errors

import "dream/internal/ast"

// ErrorBuilder provides a fluent interface for creating diagnostics with suggestions
type ErrorBuilder struct {
	err CompilerError
}

func newBuilder(kind Kind, level ErrorLevel, code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Kind:     kind,
			Level:    level,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *ErrorBuilder {
	return newBuilder(SemanticError, Error, code, message, pos)
}

// NewSemanticWarning creates a new semantic warning builder
func NewSemanticWarning(code, message string, pos ast.Position) *ErrorBuilder {
	return newBuilder(SemanticError, Warning, code, message, pos)
}

// NewSyntaxError creates a syntax error builder tagged with its error class
func NewSyntaxError(code, errorType, message string, pos ast.Position) *ErrorBuilder {
	b := newBuilder(SyntaxError, Error, code, message, pos)
	b.err.ErrorType = errorType
	return b
}

// NewLexicalError creates a lexical error builder
func NewLexicalError(code, message string, pos ast.Position) *ErrorBuilder {
	return newBuilder(LexicalError, Error, code, message, pos)
}

// NewCodegenError creates a code generation error builder
func NewCodegenError(code, message string, pos ast.Position) *ErrorBuilder {
	return newBuilder(CodegenError, Error, code, message, pos)
}

// WithLength sets the length of the error span
func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *ErrorBuilder) WithReplacement(message, replacement string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
	})
	return b
}

// WithNote adds a note to the error
func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *ErrorBuilder) Build() CompilerError {
	return b.err
}
