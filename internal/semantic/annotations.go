package semantic

import (
	"fmt"

	"dream/internal/ast"
	"dream/internal/errors"
)

// checkAnnotations verifies that every expression left the analysis with
// a concrete type. It only runs when no error was reported.
func (a *Analyzer) checkAnnotations(program *ast.Program) {
	for _, expr := range ast.Expressions(program) {
		if _, bad := expr.(*ast.BadExpr); bad {
			continue
		}
		if !expr.Type().IsKnown() {
			a.addCompilerError(errors.Internal(
				fmt.Sprintf("expression '%s' has no type after analysis", expr.String()), expr.NodePos()))
		}
	}
}
