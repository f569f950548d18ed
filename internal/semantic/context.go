package semantic

import (
	"dream/internal/ast"
	"dream/internal/types"
)

// functionContext describes the function whose body is being analyzed
type functionContext struct {
	decl       *ast.FunctionDecl
	returnType types.Type
}

// signature is a function's resolved parameter and return types.
// Unresolvable types are Unknown.
type signature struct {
	params     []types.Type
	returnType types.Type
}
