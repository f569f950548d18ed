package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lsp"
)

const uri = "file:///tmp/dream/sample.dream"

const tokenSource = `const LIMIT: int = 3;
fn twice(n: int) -> int {
    return n * LIMIT;
}
`

type published struct {
	method string
	params *protocol.PublishDiagnosticsParams
}

func newContext(out *[]published) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, _ := params.(*protocol.PublishDiagnosticsParams)
			*out = append(*out, published{method: method, params: p})
		},
	}
}

func newHandler(t *testing.T) *lsp.DreamHandler {
	t.Helper()
	handler, err := lsp.NewDreamHandler(nil)
	require.NoError(t, err)
	return handler
}

func open(t *testing.T, h *lsp.DreamHandler, ctx *glsp.Context, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "dream", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)

	open(t, h, ctx, "fn f() -> Int { return y; }")

	require.Len(t, out, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, out[0].method)
	require.NotNil(t, out[0].params)
	assert.Equal(t, uri, out[0].params.URI)
	require.Len(t, out[0].params.Diagnostics, 1)

	d := out[0].params.Diagnostics[0]
	assert.Equal(t, uint32(0), d.Range.Start.Line)
	assert.Equal(t, uint32(23), d.Range.Start.Character)
	assert.Equal(t, "dream-semantic", *d.Source)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, errors.ErrorUndeclaredIdentifier, d.Code.Value)
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)

	open(t, h, ctx, "fn f() -> Int { return y; }")
	err := h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "fn f() -> Int { return 1; }"},
		},
	})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.NotNil(t, out[1].params.Diagnostics)
	assert.Empty(t, out[1].params.Diagnostics)
}

func TestDidChangeAppliesRangedEdits(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)

	open(t, h, ctx, "fn f() -> Int { return 1; }")

	// Replace "1" with "y"
	err := h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 23},
					End:   protocol.Position{Line: 0, Character: 24},
				},
				Text: "y",
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, out, 2)
	require.Len(t, out[1].params.Diagnostics, 1)
	assert.Contains(t, out[1].params.Diagnostics[0].Message, "y")
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)

	open(t, h, ctx, "fn f() -> Int { return y; }")
	err := h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Empty(t, out[1].params.Diagnostics)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)
	open(t, h, ctx, tokenSource)

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 15)

	assertToken(t, &decoded[0], 1, 1, 5, "keyword", nil)
	assertToken(t, &decoded[1], 1, 7, 5, "variable", []string{"declaration", "readonly"})
	assertToken(t, &decoded[2], 1, 14, 3, "type", nil)
	assertToken(t, &decoded[3], 1, 18, 1, "operator", nil)
	assertToken(t, &decoded[4], 1, 20, 1, "number", nil)
	assertToken(t, &decoded[5], 2, 1, 2, "keyword", nil)
	assertToken(t, &decoded[6], 2, 4, 5, "function", []string{"declaration"})
	assertToken(t, &decoded[7], 2, 10, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[8], 2, 13, 3, "type", nil)
	assertToken(t, &decoded[9], 2, 18, 2, "operator", nil)
	assertToken(t, &decoded[10], 2, 21, 3, "type", nil)
	assertToken(t, &decoded[11], 3, 5, 6, "keyword", nil)
	assertToken(t, &decoded[12], 3, 12, 1, "parameter", nil)
	assertToken(t, &decoded[13], 3, 14, 1, "operator", nil)
	assertToken(t, &decoded[14], 3, 16, 5, "variable", []string{"readonly"})
}

func TestSemanticTokensCommentsAndCalls(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)
	open(t, h, ctx, "// entry\nfn main() -> void { print(\"hi\"); }\n")

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)

	assertToken(t, &decoded[0], 1, 1, 8, "comment", nil)
	var sawCall, sawString bool
	for _, tok := range decoded {
		if tok.Line == 2 && tok.Char == 21 {
			sawCall = true
			assert.Equal(t, "function", tok.Type)
		}
		if tok.Type == "string" {
			sawString = true
			assert.Equal(t, uint32(4), tok.Length)
		}
	}
	assert.True(t, sawCall, "print call not classified")
	assert.True(t, sawString, "string literal not classified")
}

func TestSemanticTokensFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.dream")
	require.NoError(t, os.WriteFile(path, []byte(tokenSource), 0o644))

	h := newHandler(t)
	tokens, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file://" + filepath.ToSlash(path)},
	})
	require.NoError(t, err)
	assert.Len(t, tokens.Data, 15*5)

	_, err = h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///does/not/exist.dream"},
	})
	assert.Error(t, err)
}

func TestDocumentSymbols(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)
	open(t, h, ctx, `struct Point { x: int, y: int }
const ORIGIN: int = 0;
fn norm(p: Point) -> int { return p.x; }
`)

	result, err := h.TextDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 3)

	assert.Equal(t, "Point", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindStruct, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, "y", symbols[0].Children[1].Name)
	assert.Equal(t, "int", *symbols[0].Children[1].Detail)

	assert.Equal(t, protocol.SymbolKindConstant, symbols[1].Kind)

	assert.Equal(t, "norm", symbols[2].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[2].Kind)
	assert.Equal(t, "fn norm(p: Point) -> int", *symbols[2].Detail)
	assert.Equal(t, uint32(2), symbols[2].SelectionRange.Start.Line)
	assert.Equal(t, uint32(3), symbols[2].SelectionRange.Start.Character)
}

func TestDocumentSymbolsFallBackToTree(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)
	open(t, h, ctx, "print(1);\nfn main() -> void {}\n")

	result, err := h.TextDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	symbols := result.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 1)
	assert.Equal(t, "main", symbols[0].Name)
	assert.Equal(t, uint32(1), symbols[0].Range.Start.Line)
}

func TestCompletion(t *testing.T) {
	var out []published
	ctx := newContext(&out)
	h := newHandler(t)
	open(t, h, ctx, tokenSource)

	result, err := h.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	list := result.(*protocol.CompletionList)
	labels := make(map[string]protocol.CompletionItemKind)
	for _, item := range list.Items {
		labels[item.Label] = *item.Kind
	}
	assert.Equal(t, protocol.CompletionItemKindKeyword, labels["while"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["print"])
	assert.Equal(t, protocol.CompletionItemKindConstant, labels["LIMIT"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["twice"])
}

func TestConvertDiagnostics(t *testing.T) {
	diagnostics := lsp.ConvertDiagnostics([]errors.CompilerError{
		{
			Kind:     errors.SemanticError,
			Level:    errors.Warning,
			Code:     errors.WarningUnreachableCode,
			Message:  "unreachable code",
			Position: ast.Position{Line: 3, Column: 5},
			Length:   8,
			Notes:    []string{"after return"},
		},
		{
			Kind:     errors.LexicalError,
			Level:    errors.Error,
			Message:  "unexpected character",
			Position: ast.Position{Line: 1, Column: 1},
		},
	})
	require.Len(t, diagnostics, 2)

	w := diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *w.Severity)
	assert.Equal(t, protocol.Position{Line: 2, Character: 4}, w.Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 12}, w.Range.End)
	assert.Equal(t, "unreachable code\nnote: after return", w.Message)
	assert.Equal(t, "dream-semantic", *w.Source)

	e := diagnostics[1]
	assert.Equal(t, uint32(1), e.Range.End.Character)
	assert.Nil(t, e.Code)
	assert.Equal(t, "dream-lexer", *e.Source)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
