package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream/internal/ast"
	"dream/internal/types"
)

func TestSymbolTableArena(t *testing.T) {
	st := NewSymbolTable()
	global := st.Scope(GlobalScope)
	require.NotNil(t, global)
	assert.Equal(t, 0, global.Depth)
	assert.Equal(t, NoScope, global.Parent)

	fn := st.NewScope(GlobalScope, ScopeFunction, ast.Position{})
	block := st.NewScope(fn, ScopeBlock, ast.Position{})
	assert.Equal(t, 1, st.Scope(fn).Depth)
	assert.Equal(t, 2, st.Scope(block).Depth)
	assert.Equal(t, fn, st.Scope(block).Parent)

	_, ok := st.Define(GlobalScope, &Symbol{Name: "x", Kind: SymbolVariable, Type: types.IntType})
	require.True(t, ok)
	_, ok = st.Define(block, &Symbol{Name: "x", Kind: SymbolVariable, Type: types.FloatType})
	require.True(t, ok)

	assert.Equal(t, types.FloatType, st.Lookup(block, "x").Type)
	assert.Equal(t, types.IntType, st.Lookup(fn, "x").Type)
	assert.Nil(t, st.LookupLocal(fn, "x"))
	assert.Nil(t, st.Lookup(block, "y"))

	existing, ok := st.Define(GlobalScope, &Symbol{Name: "x", Kind: SymbolConstant})
	assert.False(t, ok)
	assert.Equal(t, SymbolVariable, existing.Kind)

	assert.Nil(t, st.Scope(99))
	assert.Len(t, st.Scopes(), 3)
}

func TestScopeSymbolsKeepDeclarationOrder(t *testing.T) {
	st := NewSymbolTable()
	for _, name := range []string{"c", "a", "b"} {
		st.Define(GlobalScope, &Symbol{Name: name})
	}

	var names []string
	for _, sym := range st.Scope(GlobalScope).Symbols() {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Equal(t, []string{"a", "b", "c"}, st.VisibleNames(GlobalScope, nil))
}

func TestScopeDepthMatchesNesting(t *testing.T) {
	result := analyzeSource(t, `fn f(n: int) -> int {
    if (n > 0) {
        while (n > 10) {
            n = n - 1;
        }
    }
    for (i in n) {
        do {
            n = n + i;
        } until (n > 100);
    }
    return n;
}`)
	require.Empty(t, result.Errors)

	scopes := result.Symbols.Scopes()
	// global, function, if-then, while body, for, do body
	require.Len(t, scopes, 6)

	for _, scope := range scopes[1:] {
		parent := result.Symbols.Scope(scope.Parent)
		require.NotNil(t, parent)
		assert.Equal(t, parent.Depth+1, scope.Depth)
	}

	assert.Equal(t, ScopeFunction, scopes[1].Kind)
	assert.Equal(t, 1, scopes[1].Depth)
	assert.Equal(t, 3, scopes[3].Depth)
	assert.Equal(t, 3, scopes[5].Depth)
}

func TestSymbolTableIsRetained(t *testing.T) {
	result := analyzeSource(t, fibSource)
	require.Empty(t, result.Errors)

	fns := result.Symbols.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, "fib", fns[0].Name)
	assert.Equal(t, []types.Type{types.IntType}, fns[0].Params)
	assert.Equal(t, types.IntType, fns[0].Type)
	assert.Equal(t, types.VoidType, fns[1].Type)

	fnScope := result.Symbols.Scope(1)
	require.NotNil(t, fnScope)
	params := fnScope.Symbols()
	require.Len(t, params, 1)
	assert.Equal(t, SymbolParameter, params[0].Kind)
	assert.Equal(t, "n", params[0].Name)
	assert.Equal(t, "parameter", params[0].Kind.String())
}
