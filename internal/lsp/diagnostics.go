package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"dream/internal/errors"
)

var diagnosticSources = map[errors.Kind]string{
	errors.LexicalError:  "dream-lexer",
	errors.SyntaxError:   "dream-parser",
	errors.SemanticError: "dream-semantic",
	errors.CodegenError:  "dream-codegen",
}

// ConvertDiagnostics transforms compiler diagnostics into LSP diagnostics.
// Notes and help text are appended to the message since clients show
// only the message.
func ConvertDiagnostics(list []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(list))

	for _, e := range list {
		line := uint32(max(e.Position.Line-1, 0))
		start := uint32(max(e.Position.Column-1, 0))

		length := e.Length
		if length <= 0 {
			length = 1
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + uint32(length)},
			},
			Severity: ptrSeverity(severity(e.Level)),
			Source:   ptrString(diagnosticSources[e.Kind]),
			Message:  message(e),
		}
		if e.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: e.Code}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func message(e errors.CompilerError) string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, note := range e.Notes {
		b.WriteString("\nnote: ")
		b.WriteString(note)
	}
	if e.HelpText != "" {
		b.WriteString("\nhelp: ")
		b.WriteString(e.HelpText)
	}
	return b.String()
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
