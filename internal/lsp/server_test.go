package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/kastree-lang/kastree/internal/tooling"
)

// testClient drives a Server over an in-memory connection
type testClient struct {
	t           *testing.T
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
}

func startServer(t *testing.T, fs afero.Fs) *testClient {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	server := NewServer(zap.NewNop(), fs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, serverSide) }()

	c := &testClient{
		t:           t,
		conn:        jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
	}
	c.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err == nil {
				c.diagnostics <- params
			}
		}
		return reply(ctx, nil, nil)
	})

	t.Cleanup(func() {
		_ = c.conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return c
}

func (c *testClient) call(method string, params, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.conn.Call(ctx, method, params, result)
	return err
}

func (c *testClient) initialize(root string) protocol.InitializeResult {
	var result protocol.InitializeResult
	params := protocol.InitializeParams{}
	if root != "" {
		params.RootURI = uri.File(root)
	}
	require.NoError(c.t, c.call(protocol.MethodInitialize, params, &result))
	return result
}

func (c *testClient) open(docURI, text string) protocol.PublishDiagnosticsParams {
	err := c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(docURI),
			LanguageID: "kotlin",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(c.t, err)
	return c.nextDiagnostics()
}

func (c *testClient) nextDiagnostics() protocol.PublishDiagnosticsParams {
	select {
	case params := <-c.diagnostics:
		return params
	case <-time.After(5 * time.Second):
		c.t.Fatal("no diagnostics published")
		return protocol.PublishDiagnosticsParams{}
	}
}

func position(uri string, line, character uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

const greeterURI = "file:///work/Greeter.kt"

const greeterSource = `/** Greets people. */
class Greeter(val name: String) {
    fun greet(): String = "Hello, " + name
}

fun main() {
    println(Greeter("x").greet())
}
`

func TestInitialize(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())

	result := c.initialize("")
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "kastree-lsp", result.ServerInfo.Name)
	assert.Equal(t, Version, result.ServerInfo.Version)
	assert.Equal(t, true, result.Capabilities.HoverProvider)
	require.NotNil(t, result.Capabilities.CompletionProvider)
}

func TestUnknownMethod(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")

	err := c.call("textDocument/codeLens", map[string]string{}, nil)
	assert.Error(t, err)
}

func TestInvalidParams(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")

	err := c.call(protocol.MethodTextDocumentHover, []int{1, 2}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid textDocument/hover params")
}

func TestDiagnostics(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")

	diags := c.open("file:///work/Broken.kt", "fun main( {\n")
	assert.Equal(t, protocol.DocumentURI("file:///work/Broken.kt"), diags.URI)
	require.Len(t, diags.Diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, diags.Diagnostics[0].Severity)
	assert.Equal(t, "kastree", diags.Diagnostics[0].Source)

	err := c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidChange, protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///work/Broken.kt"},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "fun main() {}\n"}},
	})
	require.NoError(t, err)
	diags = c.nextDiagnostics()
	assert.Empty(t, diags.Diagnostics)
}

func TestHoverAndDefinition(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")
	diags := c.open(greeterURI, greeterSource)
	require.Empty(t, diags.Diagnostics)

	var hover *protocol.Hover
	require.NoError(t, c.call(protocol.MethodTextDocumentHover, protocol.HoverParams{
		TextDocumentPositionParams: position(greeterURI, 1, 8),
	}, &hover))
	require.NotNil(t, hover)
	assert.Equal(t, protocol.Markdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "class Greeter(val name: String)")
	assert.Contains(t, hover.Contents.Value, "Greets people.")

	var location *protocol.Location
	require.NoError(t, c.call(protocol.MethodTextDocumentDefinition, protocol.DefinitionParams{
		TextDocumentPositionParams: position(greeterURI, 6, 14),
	}, &location))
	require.NotNil(t, location)
	assert.Equal(t, protocol.DocumentURI(greeterURI), location.URI)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, location.Range.Start)

	var references []protocol.Location
	require.NoError(t, c.call(protocol.MethodTextDocumentReferences, protocol.ReferenceParams{
		TextDocumentPositionParams: position(greeterURI, 6, 25),
	}, &references))
	assert.Len(t, references, 2)
}

func TestDocumentSymbols(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")
	c.open(greeterURI, greeterSource)

	var symbols []protocol.DocumentSymbol
	require.NoError(t, c.call(protocol.MethodTextDocumentDocumentSymbol, protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: greeterURI},
	}, &symbols))
	require.Len(t, symbols, 2)
	assert.Equal(t, "Greeter", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "greet", symbols[0].Children[0].Name)
	assert.Equal(t, protocol.SymbolKindMethod, symbols[0].Children[0].Kind)
	assert.Equal(t, "main", symbols[1].Name)

	var found []protocol.SymbolInformation
	require.NoError(t, c.call(protocol.MethodWorkspaceSymbol, protocol.WorkspaceSymbolParams{Query: "greet"}, &found))
	require.Len(t, found, 2)
	assert.Equal(t, "Greeter", found[0].Name)
	assert.Equal(t, "greet", found[1].Name)
	assert.Equal(t, "Greeter", found[1].ContainerName)
}

func TestCompletion(t *testing.T) {
	c := startServer(t, afero.NewMemMapFs())
	c.initialize("")
	c.open("file:///work/C.kt", "class Greeter\nfun main() {\n    Gre\n}\n")

	var list protocol.CompletionList
	require.NoError(t, c.call(protocol.MethodTextDocumentCompletion, protocol.CompletionParams{
		TextDocumentPositionParams: position("file:///work/C.kt", 2, 7),
	}, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Greeter", list.Items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindClass, list.Items[0].Kind)
}

func TestFormatting(t *testing.T) {
	const source = "fun   main( ){\nval x=1+2\n}\n"

	t.Run("client options", func(t *testing.T) {
		c := startServer(t, afero.NewMemMapFs())
		c.initialize("/work")
		c.open("file:///work/F.kt", source)

		var edits []protocol.TextEdit
		require.NoError(t, c.call(protocol.MethodTextDocumentFormatting, protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/F.kt"},
			Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 4},
		}, &edits))
		require.Len(t, edits, 1)
		assert.Equal(t, "fun main() {\n    val x = 1 + 2\n}\n", edits[0].NewText)
		assert.Equal(t, protocol.Position{Line: 3, Character: 0}, edits[0].Range.End)
	})

	t.Run("workspace config", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/work/.kastree-format.yml", []byte("format:\n  indent_size: 2\n"), 0o644))

		c := startServer(t, fs)
		c.initialize("/work")
		c.open("file:///work/F.kt", source)

		var edits []protocol.TextEdit
		require.NoError(t, c.call(protocol.MethodTextDocumentFormatting, protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/F.kt"},
			Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 8},
		}, &edits))
		require.Len(t, edits, 1)
		assert.Equal(t, "fun main() {\n  val x = 1 + 2\n}\n", edits[0].NewText)
	})

	t.Run("syntax error", func(t *testing.T) {
		c := startServer(t, afero.NewMemMapFs())
		c.initialize("")
		c.open("file:///work/F.kt", "fun main( {\n")

		var edits []protocol.TextEdit
		require.NoError(t, c.call(protocol.MethodTextDocumentFormatting, protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/F.kt"},
			Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 4},
		}, &edits))
		assert.Empty(t, edits)
	})
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		input    tooling.DiagnosticSeverity
		expected protocol.DiagnosticSeverity
	}{
		{tooling.DiagnosticSeverityError, protocol.DiagnosticSeverityError},
		{tooling.DiagnosticSeverityWarning, protocol.DiagnosticSeverityWarning},
		{tooling.DiagnosticSeverityInfo, protocol.DiagnosticSeverityInformation},
		{tooling.DiagnosticSeverityHint, protocol.DiagnosticSeverityHint},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, convertSeverity(tt.input))
	}
}

func TestConvertSymbolKind(t *testing.T) {
	tests := []struct {
		input    tooling.SymbolKind
		expected protocol.SymbolKind
	}{
		{tooling.SymbolKindClass, protocol.SymbolKindClass},
		{tooling.SymbolKindInterface, protocol.SymbolKindInterface},
		{tooling.SymbolKindObject, protocol.SymbolKindObject},
		{tooling.SymbolKindEnum, protocol.SymbolKindEnum},
		{tooling.SymbolKindEnumEntry, protocol.SymbolKindEnumMember},
		{tooling.SymbolKindMethod, protocol.SymbolKindMethod},
		{tooling.SymbolKindConstructor, protocol.SymbolKindConstructor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, convertSymbolKind(tt.input), tt.input.String())
	}
}
