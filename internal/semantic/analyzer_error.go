package semantic

import (
	"dream/internal/ast"
	"dream/internal/errors"
)

func (a *Analyzer) addCompilerError(err errors.CompilerError) {
	a.errors = append(a.errors, err)
}

func (a *Analyzer) addUndeclaredIdentifierError(name string, pos ast.Position) {
	similar := errors.SimilarNames(name, a.symbols.VisibleNames(a.scope, isValue))
	a.addCompilerError(errors.UndeclaredIdentifier(name, pos, similar))
}

func (a *Analyzer) addUndefinedFunctionError(name string, pos ast.Position) {
	similar := errors.SimilarNames(name, a.findCallableNames())
	a.addCompilerError(errors.UndefinedFunction(name, pos, similar))
}
