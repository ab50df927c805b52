package lsp

import (
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kastree-lang/kastree/internal/tooling"
)

func (s *Server) completion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	completions, err := s.api.GetCompletions(string(params.TextDocument.URI), fromPosition(params.Position))
	if err != nil {
		s.logger.Error("getting completions", zap.Error(err))
		return reply(ctx, nil, internalError("cannot get completions"))
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             convertCompletionKind(c.Kind),
			Detail:           c.Detail,
			InsertTextFormat: protocol.InsertTextFormatPlainText,
		})
	}

	return reply(ctx, protocol.CompletionList{IsIncomplete: false, Items: items}, nil)
}

func (s *Server) hover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	hover, err := s.api.GetHover(string(params.TextDocument.URI), fromPosition(params.Position))
	if err != nil {
		s.logger.Error("getting hover", zap.Error(err))
		return reply(ctx, nil, internalError("cannot get hover information"))
	}
	if hover == nil {
		return reply(ctx, nil, nil)
	}

	r := toRange(hover.Range)
	return reply(ctx, protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hover.Contents,
		},
		Range: &r,
	}, nil)
}

// definition resolves a name to its declaration in the same document
func (s *Server) definition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	location, err := s.api.GetDefinition(string(params.TextDocument.URI), fromPosition(params.Position))
	if err != nil {
		s.logger.Error("getting definition", zap.Error(err))
		return reply(ctx, nil, internalError("cannot get definition"))
	}
	if location == nil {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, toLocation(*location), nil)
}

func (s *Server) references(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.ReferenceParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	references, err := s.api.GetReferences(string(params.TextDocument.URI), fromPosition(params.Position))
	if err != nil {
		s.logger.Error("getting references", zap.Error(err))
		return reply(ctx, nil, internalError("cannot get references"))
	}

	locations := make([]protocol.Location, 0, len(references))
	for _, ref := range references {
		locations = append(locations, toLocation(ref))
	}
	return reply(ctx, locations, nil)
}

// documentSymbol returns the declaration outline of a document
func (s *Server) documentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	symbols, err := s.api.GetDocumentSymbols(string(params.TextDocument.URI))
	if err != nil {
		s.logger.Error("getting document symbols", zap.Error(err))
		return reply(ctx, nil, internalError("cannot get document symbols"))
	}
	return reply(ctx, toDocumentSymbols(symbols), nil)
}

func toDocumentSymbols(symbols []*tooling.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		r := toRange(sym.Range)
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           convertSymbolKind(sym.Kind),
			Detail:         sym.Detail,
			Range:          r,
			SelectionRange: r,
		}
		if len(sym.Children) > 0 {
			ds.Children = toDocumentSymbols(sym.Children)
		}
		result = append(result, ds)
	}
	return result
}

// workspaceSymbol searches declarations across open documents
func (s *Server) workspaceSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.WorkspaceSymbolParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	indexed := s.api.GetWorkspaceSymbols(params.Query)
	symbols := make([]protocol.SymbolInformation, 0, len(indexed))
	for _, sym := range indexed {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          sym.Name,
			Kind:          convertSymbolKind(sym.Kind),
			Location:      toLocation(tooling.Location{URI: sym.URI, Range: sym.Range}),
			ContainerName: sym.ContainerName,
		})
	}
	return reply(ctx, symbols, nil)
}

// formatting rewrites a whole document. A workspace format config takes
// precedence over the client's options.
func (s *Server) formatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	cfg := *s.formatConfig
	if !s.formatFromFile {
		cfg.UseTabs = !params.Options.InsertSpaces
		if params.Options.TabSize > 0 {
			cfg.IndentSize = int(params.Options.TabSize)
		}
	}

	edits, err := s.api.Format(string(params.TextDocument.URI), &cfg)
	if err != nil {
		// Unparseable documents are left alone; diagnostics already say why
		s.logger.Debug("formatting", zap.Error(err))
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	result := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		result = append(result, protocol.TextEdit{Range: toRange(e.Range), NewText: e.NewText})
	}
	return reply(ctx, result, nil)
}

func fromPosition(p protocol.Position) tooling.Position {
	return tooling.Position{Line: int(p.Line), Character: int(p.Character)}
}

func toPosition(p tooling.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toRange(r tooling.Range) protocol.Range {
	return protocol.Range{Start: toPosition(r.Start), End: toPosition(r.End)}
}

func toLocation(l tooling.Location) protocol.Location {
	return protocol.Location{URI: protocol.DocumentURI(l.URI), Range: toRange(l.Range)}
}

func convertCompletionKind(kind tooling.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case tooling.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case tooling.CompletionKindClass:
		return protocol.CompletionItemKindClass
	case tooling.CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case tooling.CompletionKindProperty:
		return protocol.CompletionItemKindProperty
	case tooling.CompletionKindEnumMember:
		return protocol.CompletionItemKindEnumMember
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindClass:
		return protocol.SymbolKindClass
	case tooling.SymbolKindInterface:
		return protocol.SymbolKindInterface
	case tooling.SymbolKindObject:
		return protocol.SymbolKindObject
	case tooling.SymbolKindEnum:
		return protocol.SymbolKindEnum
	case tooling.SymbolKindEnumEntry:
		return protocol.SymbolKindEnumMember
	case tooling.SymbolKindFunction:
		return protocol.SymbolKindFunction
	case tooling.SymbolKindMethod:
		return protocol.SymbolKindMethod
	case tooling.SymbolKindProperty:
		return protocol.SymbolKindProperty
	case tooling.SymbolKindVariable:
		return protocol.SymbolKindVariable
	case tooling.SymbolKindConstructor:
		return protocol.SymbolKindConstructor
	case tooling.SymbolKindTypeAlias:
		return protocol.SymbolKindTypeParameter
	default:
		return protocol.SymbolKindObject
	}
}
