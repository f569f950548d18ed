package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dream/internal/errors"
	"dream/internal/parser"
)

func analyzeSource(t *testing.T, source string) *Result {
	t.Helper()
	program, syntaxErrors := parser.ParseSource(source)
	require.Empty(t, syntaxErrors, "unexpected syntax errors")
	return Analyze(program)
}

// analyzeBody analyzes statements wrapped in 'fn main() -> void { ... }'
func analyzeBody(t *testing.T, body string) *Result {
	t.Helper()
	return analyzeSource(t, "fn main() -> void {\n"+body+"\n}")
}

func codes(list []errors.CompilerError) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Code)
	}
	return out
}
