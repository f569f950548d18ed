package semantic

import (
	"dream/internal/builtins"
)

func isValue(sym *Symbol) bool {
	switch sym.Kind {
	case SymbolVariable, SymbolConstant, SymbolParameter:
		return true
	default:
		return false
	}
}

func isFunction(sym *Symbol) bool {
	return sym.Kind == SymbolFunction
}

// findCallableNames lists declared functions and builtins
func (a *Analyzer) findCallableNames() []string {
	names := a.symbols.VisibleNames(a.scope, isFunction)
	for name := range builtins.Functions {
		names = append(names, name)
	}
	return names
}
