package lsp

import (
	"strings"

	"dream/internal/ast"
	"dream/internal/lexer"
	"dream/internal/pipeline"
	"dream/internal/semantic"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

type classification struct {
	tokenType string
	modifiers int
}

var (
	modDeclaration = 1 << indexOf("declaration", SemanticTokenModifiers)
	modReadonly    = 1 << indexOf("readonly", SemanticTokenModifiers)
)

// typeKeywords are reserved words that name a type
var typeKeywords = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"bool":   true,
	"void":   true,
}

// collectSemanticTokens classifies the significant tokens of unit in source
// order. Identifiers take their class from the analyzed tree; everything
// else is classified lexically.
func collectSemanticTokens(unit *pipeline.Unit) []SemanticToken {
	idents := classifyIdentifiers(unit)

	var tokens []SemanticToken
	for _, tok := range unit.Tokens {
		var class classification
		switch tok.Type {
		case lexer.IDENTIFIER:
			class = classification{tokenType: "variable"}
			if c, ok := idents[tok.Position]; ok {
				class = c
			}
		case lexer.KEYWORD:
			class = classification{tokenType: "keyword"}
			if typeKeywords[strings.ToLower(tok.Lexeme)] {
				class.tokenType = "type"
			}
		case lexer.BOOLEAN:
			class = classification{tokenType: "keyword"}
		case lexer.INTEGER, lexer.FLOAT:
			class = classification{tokenType: "number"}
		case lexer.STRING:
			class = classification{tokenType: "string"}
		case lexer.COMMENT_SINGLE, lexer.COMMENT_MULTI_LINE:
			class = classification{tokenType: "comment"}
		default:
			if !isOperator(tok.Type) {
				continue
			}
			class = classification{tokenType: "operator"}
		}

		// Tokens may not span lines
		if tok.End.Line > tok.Position.Line {
			continue
		}
		tokens = append(tokens, makeToken(tok, class)...)
	}
	return tokens
}

// classifyIdentifiers maps the position of every identifier the tree
// knows about to its semantic class
func classifyIdentifiers(unit *pipeline.Unit) map[ast.Position]classification {
	idents := make(map[ast.Position]classification)
	if unit.Program == nil {
		return idents
	}

	var symbols []*semantic.Symbol
	if unit.Semantic != nil {
		for _, scope := range unit.Semantic.Symbols.Scopes() {
			for _, sym := range scope.Symbols() {
				symbols = append(symbols, sym)
				c := symbolClass(sym.Kind)
				c.modifiers |= modDeclaration
				idents[sym.Position] = c
			}
		}
	}

	ast.Inspect(unit.Program, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Field:
			idents[v.Name.Pos] = classification{tokenType: "property", modifiers: modDeclaration}
		case *ast.TypeRef:
			idents[v.Pos] = classification{tokenType: "type"}
		case *ast.MemberExpr:
			idents[v.Field.Pos] = classification{tokenType: "property"}
		case *ast.CallExpr:
			if id, ok := v.Callee.(*ast.IdentExpr); ok {
				idents[id.Pos] = classification{tokenType: "function"}
			}
		case *ast.IdentExpr:
			if _, done := idents[v.Pos]; !done {
				if sym := resolve(symbols, v); sym != nil {
					idents[v.Pos] = symbolClass(sym.Kind)
				}
			}
		}
		return true
	})
	return idents
}

// resolve picks the closest preceding declaration of the name, falling
// back to a global declared later. Scopes are not consulted, so a shadowed
// name may resolve to the outer symbol's kind.
func resolve(symbols []*semantic.Symbol, ref *ast.IdentExpr) *semantic.Symbol {
	var best, global *semantic.Symbol
	for _, sym := range symbols {
		if sym.Name != ref.Name {
			continue
		}
		if sym.Position.Before(ref.Pos) {
			if best == nil || best.Position.Before(sym.Position) {
				best = sym
			}
		} else if sym.Scope == semantic.GlobalScope && global == nil {
			global = sym
		}
	}
	if best != nil {
		return best
	}
	return global
}

func symbolClass(kind semantic.SymbolKind) classification {
	switch kind {
	case semantic.SymbolFunction:
		return classification{tokenType: "function"}
	case semantic.SymbolParameter:
		return classification{tokenType: "parameter"}
	case semantic.SymbolStruct:
		return classification{tokenType: "type"}
	case semantic.SymbolConstant:
		return classification{tokenType: "variable", modifiers: modReadonly}
	default:
		return classification{tokenType: "variable"}
	}
}

func isOperator(t lexer.TokenType) bool {
	return t >= lexer.PLUS && t <= lexer.SPREAD
}

// makeToken creates a semantic token for a lexer token
func makeToken(tok lexer.Token, class classification) []SemanticToken {
	length := tok.EndPosition().Column - tok.Position.Column
	if length <= 0 {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(tok.Position.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(tok.Position.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(length),
		TokenType:      indexOf(class.tokenType, SemanticTokenTypes),
		TokenModifiers: class.modifiers,
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
