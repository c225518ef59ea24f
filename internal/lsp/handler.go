// Package lsp implements the sharpx language server handlers: document
// sync, semantic tokens from the token stream and diagnostics from the
// scanner and the dialect processor.
package lsp

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"sharpx/internal/dialect"
	"sharpx/internal/processor"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

var log = commonlog.GetLogger("sharpx.lsp")

// SemanticTokenTypes is the token type legend, indexed by the type* constants
var SemanticTokenTypes = []string{
	"keyword",
	"number",
	"string",
	"comment",
	"operator",
	"variable",
	"function",
	"macro",
}

var SemanticTokenModifiers = []string{
	"documentation",
}

type document struct {
	content string
	tokens  token.Tokens
}

// Handler implements the LSP server handlers for one dialect
type Handler struct {
	mu    sync.RWMutex
	docs  map[protocol.DocumentUri]*document
	rules *scanner.Rules
}

// NewHandler returns a handler for rules; nil selects the Extended Dialect.
func NewHandler(rules *scanner.Rules) *Handler {
	if rules == nil {
		rules = dialect.Extended()
	}
	return &Handler{
		docs:  make(map[protocol.DocumentUri]*document),
		rules: rules,
	}
}

// Initialize advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Infof("initialize (dialect %s)", h.rules.Name())

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name: "sharpx",
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	delete(h.docs, params.TextDocument.URI)
	h.mu.Unlock()

	// clear what the editor still shows for the file
	publishDiagnostics(ctx, params.TextDocument.URI, nil)
	return nil
}

// TextDocumentDidChange applies full or ranged content changes in order
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("changed %s", uri)

	h.mu.RLock()
	var content string
	if doc, ok := h.docs[uri]; ok {
		content = doc.content
	}
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = applyChange(content, c)
		case *protocol.TextDocumentContentChangeEvent:
			content = applyChange(content, *c)
		default:
			return fmt.Errorf("unsupported content change %T", change)
		}
	}

	h.update(ctx, uri, content)
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI
	log.Debugf("semantic tokens for %s", uri)

	doc, err := h.document(ctx, uri)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(doc.content, doc.tokens)
	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(tokens),
	}, nil
}

// document returns the stored document, loading it from disk when the
// client asks about a file it never opened.
func (h *Handler) document(ctx *glsp.Context, uri protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	doc, ok := h.docs[uri]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return h.update(ctx, uri, string(content)), nil
}

// update rescans content, stores it and publishes its diagnostics.
func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, content string) *document {
	s := scanner.New(content, h.rules)
	doc := &document{content: content, tokens: s.ScanTokens()}

	diagnostics := ConvertScanErrors(content, s.Errors())
	if s.Err() == nil && h.rules.DirectivesEnabled() {
		_, err := processor.Process(content, processor.WithRules(h.rules), processor.WithFilename(string(uri)))
		var pe *processor.ParseError
		if stderrors.As(err, &pe) {
			diagnostics = append(diagnostics, ConvertParseError(content, pe))
		}
	}

	h.mu.Lock()
	h.docs[uri] = doc
	h.mu.Unlock()

	publishDiagnostics(ctx, uri, diagnostics)
	return doc
}

// applyChange replaces the changed range; a change without a range replaces
// the whole document.
func applyChange(content string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}
	lines := newLineIndex(content)
	start := lines.offset(int(change.Range.Start.Line), int(change.Range.Start.Character))
	end := lines.offset(int(change.Range.End.Line), int(change.Range.End.Character))
	if end < start {
		start, end = end, start
	}
	return content[:start] + change.Text + content[end:]
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debugf("publishing %d diagnostic(s) for %s", len(diagnostics), uri)

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
