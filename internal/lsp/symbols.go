package lsp

import (
	plexer "github.com/alecthomas/participle/v2/lexer"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"dream/grammar"
	"dream/internal/ast"
	"dream/internal/pipeline"
)

// documentSymbols reads the declaration outline of the unit. Files the
// outline grammar rejects fall back to the recovered syntax tree.
func documentSymbols(unit *pipeline.Unit) []protocol.DocumentSymbol {
	outline, err := grammar.ParseString(unit.Name, unit.Source)
	if err != nil {
		log.Debugf("outline of %s: %s", unit.Name, err)
		return treeSymbols(unit.Program)
	}

	symbols := []protocol.DocumentSymbol{}
	for _, d := range outline.Decls {
		switch {
		case d.Struct != nil:
			s := d.Struct
			sym := outlineSymbol(s.Name, protocol.SymbolKindStruct, "", s.Pos, s.EndPos)
			for _, f := range s.Fields {
				sym.Children = append(sym.Children, outlineSymbol(f.Name, protocol.SymbolKindField, f.Type, f.Pos, f.EndPos))
			}
			symbols = append(symbols, sym)
		case d.Function != nil:
			f := d.Function
			symbols = append(symbols, outlineSymbol(f.Name, protocol.SymbolKindFunction, f.String(), f.Pos, f.EndPos))
		case d.Global != nil:
			g := d.Global
			kind := protocol.SymbolKindVariable
			if d.Kind() == "const" {
				kind = protocol.SymbolKindConstant
			}
			symbols = append(symbols, outlineSymbol(g.Name, kind, g.Type, g.Pos, g.EndPos))
		}
	}
	return symbols
}

func outlineSymbol(name grammar.PosIdent, kind protocol.SymbolKind, detail string, pos, end plexer.Position) protocol.DocumentSymbol {
	sym := protocol.DocumentSymbol{
		Name:           name.Value,
		Kind:           kind,
		Range:          outlineRange(pos, end),
		SelectionRange: outlineRange(name.Pos, name.EndPos),
	}
	if detail != "" {
		sym.Detail = &detail
	}
	return sym
}

func outlineRange(pos, end plexer.Position) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(max(pos.Line-1, 0)), Character: uint32(max(pos.Column-1, 0))},
		End:   protocol.Position{Line: uint32(max(end.Line-1, 0)), Character: uint32(max(end.Column-1, 0))},
	}
}

func treeSymbols(program *ast.Program) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if program == nil {
		return symbols
	}

	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.StructDecl:
			sym := treeSymbol(d.Name, protocol.SymbolKindStruct, "", d.Pos, d.EndPos)
			for _, f := range d.Fields {
				sym.Children = append(sym.Children, treeSymbol(f.Name, protocol.SymbolKindField, typeName(f.Type), f.Pos, f.EndPos))
			}
			symbols = append(symbols, sym)
		case *ast.FunctionDecl:
			symbols = append(symbols, treeSymbol(d.Name, protocol.SymbolKindFunction, typeName(d.ReturnType), d.Pos, d.EndPos))
		case *ast.VarDecl:
			kind := protocol.SymbolKindVariable
			if d.Const {
				kind = protocol.SymbolKindConstant
			}
			symbols = append(symbols, treeSymbol(d.Name, kind, typeName(d.Type), d.Pos, d.EndPos))
		}
	}
	return symbols
}

func treeSymbol(name ast.Ident, kind protocol.SymbolKind, detail string, pos, end ast.Position) protocol.DocumentSymbol {
	sym := protocol.DocumentSymbol{
		Name:           name.Value,
		Kind:           kind,
		Range:          treeRange(pos, end),
		SelectionRange: treeRange(name.Pos, name.EndPos),
	}
	if detail != "" {
		sym.Detail = &detail
	}
	return sym
}

func treeRange(pos, end ast.Position) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(max(pos.Line-1, 0)), Character: uint32(max(pos.Column-1, 0))},
		End:   protocol.Position{Line: uint32(max(end.Line-1, 0)), Character: uint32(max(end.Column-1, 0))},
	}
}

func typeName(t *ast.TypeRef) string {
	if t == nil {
		return ""
	}
	return t.Name
}
