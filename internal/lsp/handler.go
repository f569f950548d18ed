package lsp

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"dream/internal/builtins"
	"dream/internal/config"
	"dream/internal/lexer"
	"dream/internal/pipeline"
	"dream/internal/semantic"
)

var log = commonlog.GetLogger("dream.lsp")

// SemanticTokenTypes is the legend advertised to the client; token type
// indexes point into it
var SemanticTokenTypes = []string{
	"type",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"string",
	"operator",
	"comment",
}

// SemanticTokenModifiers is the modifier legend; modifiers are bit flags
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// DreamHandler implements the LSP server handlers for Dream sources
type DreamHandler struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentUri]string
	units     *lru.Cache
	cfg       *config.Config
}

type cachedUnit struct {
	digest [sha256.Size]byte
	unit   *pipeline.Unit
}

// NewDreamHandler creates a handler whose analysis cache holds
// cfg.LSP.CacheSize documents
func NewDreamHandler(cfg *config.Config) (*DreamHandler, error) {
	if cfg == nil {
		defaults := config.Defaults
		cfg = &defaults
	}
	units, err := lru.New(cfg.LSP.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &DreamHandler{
		documents: make(map[protocol.DocumentUri]string),
		units:     units,
		cfg:       cfg,
	}, nil
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *DreamHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
			DocumentSymbolProvider: ptrBool(true),
		},
	}, nil
}

func (h *DreamHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *DreamHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *DreamHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen stores the editor's text and publishes diagnostics for it
func (h *DreamHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("opened %s", uri)

	h.mu.Lock()
	h.documents[uri] = params.TextDocument.Text
	h.mu.Unlock()

	return h.publish(ctx, uri)
}

// TextDocumentDidChange applies the edits in order. A change without a range
// replaces the whole text.
func (h *DreamHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("changed %s", uri)

	h.mu.Lock()
	text := h.documents[uri]
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			start, end := c.Range.IndexesIn(text)
			text = text[:start] + c.Text + text[end:]
		}
	}
	h.documents[uri] = text
	h.mu.Unlock()

	return h.publish(ctx, uri)
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *DreamHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("closed %s", uri)

	h.mu.Lock()
	delete(h.documents, uri)
	h.mu.Unlock()
	h.units.Remove(uri)

	sendDiagnosticNotification(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// TextDocumentCompletion offers keywords, builtin functions and every
// global declaration of the document
func (h *DreamHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	var items []protocol.CompletionItem

	keywords := make([]string, 0, len(lexer.KEYWORDS))
	for word := range lexer.KEYWORDS {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)
	for _, word := range keywords {
		items = append(items, completionItem(word, protocol.CompletionItemKindKeyword, ""))
	}
	for _, fn := range sortedBuiltins() {
		items = append(items, completionItem(fn.Name, protocol.CompletionItemKindFunction, "builtin"))
	}

	unit, err := h.unit(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	if unit.Semantic != nil {
		global := unit.Semantic.Symbols.Scope(semantic.GlobalScope)
		for _, sym := range global.Symbols() {
			items = append(items, completionItem(sym.Name, completionKind(sym.Kind), sym.Type.String()))
		}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *DreamHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	unit, err := h.unit(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(unit)

	var data []uint32
	var prevLine, prevStart uint32

	// Delta encoding: line relative to the previous token, start relative
	// to the previous token on the same line
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// TextDocumentDocumentSymbol lists top-level declarations with struct
// fields as children
func (h *DreamHandler) TextDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	unit, err := h.unit(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return documentSymbols(unit), nil
}

// publish compiles the document and always sends its diagnostics, so an
// empty list clears earlier ones
func (h *DreamHandler) publish(ctx *glsp.Context, uri protocol.DocumentUri) error {
	unit, err := h.unit(uri)
	if err != nil {
		return err
	}
	sendDiagnosticNotification(ctx, uri, ConvertDiagnostics(unit.Diagnostics))
	return nil
}

// unit returns the analysis of the document, compiling it when the text
// changed since the last request. Documents the editor never opened are
// read from disk.
func (h *DreamHandler) unit(uri protocol.DocumentUri) (*pipeline.Unit, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	h.mu.RLock()
	text, ok := h.documents[uri]
	h.mu.RUnlock()

	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		text = string(content)
	}

	digest := sha256.Sum256([]byte(text))
	if cached, ok := h.units.Get(uri); ok {
		if entry := cached.(cachedUnit); entry.digest == digest {
			return entry.unit, nil
		}
	}

	unit := pipeline.CompileWith(path, text, pipeline.Options{
		Config:    h.cfg,
		StopAfter: pipeline.StageAnalyze,
	})
	h.units.Add(uri, cachedUnit{digest: digest, unit: unit})
	return unit, nil
}

func completionItem(label string, kind protocol.CompletionItemKind, detail string) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label: label,
		Kind:  &kind,
	}
	if detail != "" {
		item.Detail = &detail
	}
	return item
}

func sortedBuiltins() []*builtins.Function {
	fns := make([]*builtins.Function, 0, len(builtins.Functions))
	for _, fn := range builtins.Functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

func completionKind(kind semantic.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case semantic.SymbolFunction:
		return protocol.CompletionItemKindFunction
	case semantic.SymbolConstant:
		return protocol.CompletionItemKindConstant
	case semantic.SymbolStruct:
		return protocol.CompletionItemKindStruct
	default:
		return protocol.CompletionItemKindVariable
	}
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if log.AllowLevel(commonlog.Debug) {
		if diagnosticsJSON, err := json.Marshal(diagnostics); err == nil {
			log.Debugf("sending diagnostics: %s", diagnosticsJSON)
		}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
