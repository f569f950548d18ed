package semantic

import (
	"sort"

	"dream/internal/ast"
	"dream/internal/types"
)

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolConstant
	SymbolFunction
	SymbolParameter
	SymbolStruct
)

var symbolKindNames = map[SymbolKind]string{
	SymbolVariable:  "variable",
	SymbolConstant:  "constant",
	SymbolFunction:  "function",
	SymbolParameter: "parameter",
	SymbolStruct:    "struct",
}

func (k SymbolKind) String() string {
	return symbolKindNames[k]
}

// Symbol is one declared name. For functions Type is the return type
// and Params holds the parameter types.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     types.Type
	Params   []types.Type
	Position ast.Position
	Scope    ScopeID
	Node     ast.Node
}

// ScopeID indexes a scope in the SymbolTable arena
type ScopeID int

const (
	NoScope     ScopeID = -1
	GlobalScope ScopeID = 0
)

type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	default:
		return "block"
	}
}

type Scope struct {
	ID     ScopeID
	Parent ScopeID
	Depth  int
	Kind   ScopeKind
	Pos    ast.Position

	symbols map[string]*Symbol
	order   []string
}

// Symbols returns the scope's symbols in declaration order
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, len(s.order))
	for i, name := range s.order {
		out[i] = s.symbols[name]
	}
	return out
}

// SymbolTable owns every scope created during analysis. Scopes refer to
// their parent by ID and are never removed, so the table outlives the walk.
type SymbolTable struct {
	scopes []*Scope
}

func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.scopes = append(st.scopes, &Scope{
		ID:      GlobalScope,
		Parent:  NoScope,
		Kind:    ScopeGlobal,
		symbols: make(map[string]*Symbol),
	})
	return st
}

// NewScope creates a child of parent one level deeper
func (st *SymbolTable) NewScope(parent ScopeID, kind ScopeKind, pos ast.Position) ScopeID {
	id := ScopeID(len(st.scopes))
	st.scopes = append(st.scopes, &Scope{
		ID:      id,
		Parent:  parent,
		Depth:   st.scopes[parent].Depth + 1,
		Kind:    kind,
		Pos:     pos,
		symbols: make(map[string]*Symbol),
	})
	return id
}

func (st *SymbolTable) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(st.scopes) {
		return nil
	}
	return st.scopes[id]
}

func (st *SymbolTable) Scopes() []*Scope {
	return st.scopes
}

// Define adds sym to scope. If the name is already declared there the
// existing symbol is returned with false and the table is unchanged.
func (st *SymbolTable) Define(scope ScopeID, sym *Symbol) (*Symbol, bool) {
	s := st.scopes[scope]
	if existing, ok := s.symbols[sym.Name]; ok {
		return existing, false
	}
	sym.Scope = scope
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	return sym, true
}

// Lookup resolves name from scope outward
func (st *SymbolTable) Lookup(scope ScopeID, name string) *Symbol {
	for id := scope; id != NoScope; id = st.scopes[id].Parent {
		if sym, ok := st.scopes[id].symbols[name]; ok {
			return sym
		}
	}
	return nil
}

func (st *SymbolTable) LookupLocal(scope ScopeID, name string) *Symbol {
	return st.scopes[scope].symbols[name]
}

// VisibleNames lists every name reachable from scope, sorted
func (st *SymbolTable) VisibleNames(scope ScopeID, filter func(*Symbol) bool) []string {
	seen := make(map[string]bool)
	var names []string
	for id := scope; id != NoScope; id = st.scopes[id].Parent {
		for name, sym := range st.scopes[id].symbols {
			if seen[name] || (filter != nil && !filter(sym)) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Functions returns the global function symbols in declaration order
func (st *SymbolTable) Functions() []*Symbol {
	var fns []*Symbol
	for _, sym := range st.scopes[GlobalScope].Symbols() {
		if sym.Kind == SymbolFunction {
			fns = append(fns, sym)
		}
	}
	return fns
}
