package errors

import (
	"fmt"

	"dream/internal/ast"
)

// Kind identifies the pipeline stage that produced a diagnostic
type Kind string

const (
	LexicalError  Kind = "LexicalError"
	SyntaxError   Kind = "SyntaxError"
	SemanticError Kind = "SemanticError"
	CodegenError  Kind = "CodegenError"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a single diagnostic produced by any stage of the pipeline
type CompilerError struct {
	Kind        Kind
	Level       ErrorLevel
	Code        string       // Error code like E0001
	ErrorType   string       // Syntax error class, e.g. "UnexpectedToken"
	Message     string       // Primary error message
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string
	Replacement string
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// IsWarning reports whether the diagnostic is informational only
func (e CompilerError) IsWarning() bool {
	return e.Level == Warning
}

// HasErrors reports whether the list contains at least one non-warning diagnostic
func HasErrors(list []CompilerError) bool {
	for _, e := range list {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// OnlyErrors drops warnings from the list
func OnlyErrors(list []CompilerError) []CompilerError {
	var out []CompilerError
	for _, e := range list {
		if !e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind tallies non-warning diagnostics per stage
func CountByKind(list []CompilerError) map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range list {
		if !e.IsWarning() {
			counts[e.Kind]++
		}
	}
	return counts
}
