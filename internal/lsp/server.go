// Package lsp implements a Language Server Protocol server for Kotlin
// sources. It provides diagnostics, document symbols, hover, navigation,
// completion and formatting on top of the tooling API.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/kastree-lang/kastree/internal/format"
	"github.com/kastree-lang/kastree/internal/tooling"
)

// Version is reported to clients in the initialize result
const Version = "0.1.0"

// Server answers LSP requests from the documents held in a tooling.API
type Server struct {
	api    *tooling.API
	conn   jsonrpc2.Conn
	client protocol.Client // for server-initiated notifications
	logger *zap.Logger

	// workspace configuration is read from fs
	fs            afero.Fs
	workspaceRoot string

	// formatConfig is loaded from the workspace root; formatFromFile
	// records whether a config file was found there
	formatConfig   *format.Config
	formatFromFile bool

	capabilities protocol.ServerCapabilities
	cancel       context.CancelFunc // stops Serve
}

// NewServer creates a new LSP server instance. A nil logger discards logs.
func NewServer(logger *zap.Logger, fs afero.Fs) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Server{
		api:          tooling.NewAPI(),
		logger:       logger,
		fs:           fs,
		formatConfig: format.DefaultConfig(),
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: false,
				},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"."},
				ResolveProvider:   false,
			},
			HoverProvider:              true,
			DefinitionProvider:         true,
			ReferencesProvider:         true,
			DocumentSymbolProvider:     true,
			WorkspaceSymbolProvider:    true,
			DocumentFormattingProvider: true,
		},
	}
}

// Run serves the protocol over stdin and stdout until the client exits
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve serves the protocol over rwc until the client exits or the
// connection closes
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("starting language server", zap.String("version", Version))

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger.Named("client"))

	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down language server")
		return conn.Close()
	case <-conn.Done():
		s.logger.Info("connection closed")
		return nil
	}
}

// route handles one request or notification
type route func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error

func (s *Server) routes() map[string]route {
	ack := func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		return reply(ctx, nil, nil)
	}
	return map[string]route{
		protocol.MethodInitialize:                 s.initialize,
		protocol.MethodInitialized:                ack,
		protocol.MethodShutdown:                   ack,
		protocol.MethodExit:                       s.exit,
		protocol.MethodTextDocumentDidOpen:        s.didOpen,
		protocol.MethodTextDocumentDidChange:      s.didChange,
		protocol.MethodTextDocumentDidClose:       s.didClose,
		protocol.MethodTextDocumentDidSave:        s.didSave,
		protocol.MethodTextDocumentCompletion:     s.completion,
		protocol.MethodTextDocumentHover:          s.hover,
		protocol.MethodTextDocumentDefinition:     s.definition,
		protocol.MethodTextDocumentReferences:     s.references,
		protocol.MethodTextDocumentDocumentSymbol: s.documentSymbol,
		protocol.MethodWorkspaceSymbol:            s.workspaceSymbol,
		protocol.MethodTextDocumentFormatting:     s.formatting,
	}
}

func (s *Server) handler() jsonrpc2.Handler {
	routes := s.routes()
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debug("received", zap.String("method", req.Method()))

		r, ok := routes[req.Method()]
		if !ok {
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
		return r(ctx, reply, req)
	}
}

// decodeParams unmarshals the request params into v. The error is ready
// to be sent as the reply.
func decodeParams(req jsonrpc2.Request, v interface{}) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: fmt.Sprintf("invalid %s params: %v", req.Method(), err),
		}
	}
	return nil
}

func internalError(message string) error {
	return &jsonrpc2.Error{Code: jsonrpc2.InternalError, Message: message}
}

// initialize records the workspace root and loads its format config
func (s *Server) initialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	switch {
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	case params.RootURI != "":
		s.workspaceRoot = params.RootURI.Filename()
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	}
	if s.workspaceRoot != "" {
		s.logger.Info("workspace root", zap.String("path", s.workspaceRoot))
		s.loadFormatConfig()
	}

	result := protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    "kastree-lsp",
			Version: Version,
		},
	}
	return reply(ctx, result, nil)
}

// loadFormatConfig reads the formatter settings of the workspace root
func (s *Server) loadFormatConfig() {
	path := filepath.Join(s.workspaceRoot, format.ConfigFile)
	if exists, _ := afero.Exists(s.fs, path); !exists {
		return
	}
	cfg, err := format.LoadConfig(s.fs, path)
	if err != nil {
		s.logger.Warn("ignoring format config", zap.String("path", path), zap.Error(err))
		return
	}
	s.formatConfig = cfg
	s.formatFromFile = true
}

// exit stops Serve
func (s *Server) exit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Info("exit requested")
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Error("replying to exit", zap.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// didOpen parses a newly opened document and publishes its diagnostics
func (s *Server) didOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)
	version := int(params.TextDocument.Version)
	s.logger.Debug("document opened", zap.String("uri", uri), zap.Int("version", version))

	if _, err := s.api.UpdateDocument(uri, params.TextDocument.Text, version); err != nil {
		s.logger.Error("parsing document", zap.String("uri", uri), zap.Error(err))
	}
	s.publishDiagnostics(ctx, uri)

	return reply(ctx, nil, nil)
}

// didChange reparses a document. Sync is full, so the last change holds
// the whole text.
func (s *Server) didChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)
	version := int(params.TextDocument.Version)
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full document sync: the last change holds the whole text
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.logger.Debug("document changed", zap.String("uri", uri), zap.Int("version", version))

	if _, err := s.api.UpdateDocument(uri, content, version); err != nil {
		s.logger.Error("updating document", zap.String("uri", uri), zap.Error(err))
	}
	s.publishDiagnostics(ctx, uri)

	return reply(ctx, nil, nil)
}

// didClose drops a document from the store
func (s *Server) didClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)
	s.logger.Debug("document closed", zap.String("uri", uri))
	s.api.CloseDocument(uri)

	return reply(ctx, nil, nil)
}

func (s *Server) didSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

// publishDiagnostics sends the stored diagnostics of uri to the client
func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	diagnostics := s.api.GetDiagnostics(uri)

	lspDiagnostics := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		lspDiagnostics = append(lspDiagnostics, protocol.Diagnostic{
			Range:    toRange(d.Range),
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		})
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: lspDiagnostics,
	}
	if err := s.client.PublishDiagnostics(ctx, &params); err != nil {
		s.logger.Error("publishing diagnostics", zap.String("uri", uri), zap.Error(err))
	}
}

func convertSeverity(severity tooling.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch severity {
	case tooling.DiagnosticSeverityError:
		return protocol.DiagnosticSeverityError
	case tooling.DiagnosticSeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case tooling.DiagnosticSeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case tooling.DiagnosticSeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// stdrwc joins stdin and stdout into one connection
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
