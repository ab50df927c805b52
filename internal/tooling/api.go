// Package tooling answers editor queries (symbols, hover, navigation,
// completion and formatting) against cached syntax trees.
package tooling

import (
	"fmt"
	"sync"

	"github.com/kastree-lang/kastree/compiler/ast"
	cerrors "github.com/kastree-lang/kastree/compiler/errors"
	"github.com/kastree-lang/kastree/compiler/parser"
)

// API caches parsed documents by URI. It is safe for concurrent use.
type API struct {
	documents map[string]*Document
	docsMutex sync.RWMutex
	clock     uint64 // bumped on every cache write, for eviction

	symbolIndex *SymbolIndex
	config      *Config
}

// Config tunes the document cache
type Config struct {
	// CacheSize limits the number of documents cached in memory. The least
	// recently updated document is evicted first.
	CacheSize int
}

// Document is a cached source file with its tree and diagnostics
type Document struct {
	URI     string
	Content string
	Version int

	// Source, File and Extras are nil when the content does not parse. File
	// is an *ast.Script for .kts URIs.
	Source *ast.Source
	File   ast.Entry
	Extras *ast.ExtrasMap

	Errors  []cerrors.CompilerError
	Symbols []*Symbol

	used uint64
}

// Position is a zero-based line and rune column, as LSP counts them
type Position struct {
	Line      int
	Character int
}

// Range is a half-open span between two positions
type Range struct {
	Start Position
	End   Position
}

type Location struct {
	URI   string
	Range Range
}

// Symbol is a declaration shown in outlines and used for navigation
type Symbol struct {
	Name          string
	Kind          SymbolKind
	Range         Range
	ContainerName string
	Detail        string // the declaration's signature
	Documentation string // KDoc text, if any
	Children      []*Symbol
}

// SymbolKind is the declaration keyword behind a symbol
type SymbolKind int

const (
	SymbolKindClass SymbolKind = iota
	SymbolKindInterface
	SymbolKindObject
	SymbolKindEnum
	SymbolKindEnumEntry
	SymbolKindFunction
	SymbolKindMethod
	SymbolKindProperty
	SymbolKindVariable
	SymbolKindConstructor
	SymbolKindTypeAlias
)

type Hover struct {
	Contents string // markdown
	Range    Range
}

// CompletionItem is one keyword or declared name offered while typing
type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindClass
	CompletionKindFunction
	CompletionKindProperty
	CompletionKindEnumMember
)

// Diagnostic represents a parse error or a tree invariant violation
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Code     string
	Message  string
	Source   string
}

type DiagnosticSeverity int

const (
	DiagnosticSeverityError DiagnosticSeverity = iota
	DiagnosticSeverityWarning
	DiagnosticSeverityInfo
	DiagnosticSeverityHint
)

// TextEdit replaces Range with NewText
type TextEdit struct {
	Range   Range
	NewText string
}

// NewAPI returns an API caching up to 100 documents
func NewAPI() *API {
	return NewAPIWithConfig(&Config{CacheSize: 100})
}

func NewAPIWithConfig(config *Config) *API {
	return &API{
		documents:   make(map[string]*Document),
		symbolIndex: NewSymbolIndex(),
		config:      config,
	}
}

// ParseFile parses content and caches it as version 1 of uri. Parse
// failures are recorded on the document, not returned.
func (a *API) ParseFile(uri, content string) (*Document, error) {
	return a.UpdateDocument(uri, content, 1)
}

// UpdateDocument replaces the cached content of uri
func (a *API) UpdateDocument(uri, content string, version int) (*Document, error) {
	a.docsMutex.Lock()
	if old, exists := a.documents[uri]; exists && old.Content == content {
		old.Version = version
		a.clock++
		old.used = a.clock
		a.docsMutex.Unlock()
		return old, nil
	}
	a.docsMutex.Unlock()

	// Parse without holding the lock
	doc := parseDocument(uri, content)
	doc.Version = version

	a.docsMutex.Lock()
	a.clock++
	doc.used = a.clock
	a.documents[uri] = doc
	evicted := a.evictLocked()
	a.docsMutex.Unlock()

	for _, u := range evicted {
		a.symbolIndex.RemoveDocument(u)
	}
	a.symbolIndex.Index(uri, doc.Symbols)
	return doc, nil
}

// parseDocument parses and validates content
func parseDocument(uri, content string) *Document {
	doc := &Document{URI: uri, Content: content}
	src := ast.NewSource(uri, content)
	file, extras, err := parser.ParseEntry(src)
	if err != nil {
		doc.Errors = withContext(cerrors.From(err), content)
		return doc
	}
	doc.Source, doc.File, doc.Extras = src, file, extras

	// A tree the parser built must validate; anything else is a parser bug
	if err := ast.Validate(file); err != nil {
		doc.Errors = withContext(cerrors.From(err), content)
	}
	doc.Symbols = extractSymbols(doc)
	return doc
}

func withContext(errs []cerrors.CompilerError, content string) []cerrors.CompilerError {
	for i := range errs {
		errs[i] = cerrors.EnrichError(errs[i], content)
	}
	return errs
}

// evictLocked drops the least recently used documents above the cache
// size and returns their URIs
func (a *API) evictLocked() []string {
	if a.config == nil || a.config.CacheSize <= 0 {
		return nil
	}
	var evicted []string
	for len(a.documents) > a.config.CacheSize {
		var oldest *Document
		for _, d := range a.documents {
			if oldest == nil || d.used < oldest.used {
				oldest = d
			}
		}
		delete(a.documents, oldest.URI)
		evicted = append(evicted, oldest.URI)
	}
	return evicted
}

// GetDocument returns the cached document of uri
func (a *API) GetDocument(uri string) (*Document, bool) {
	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()

	doc, exists := a.documents[uri]
	return doc, exists
}

func (a *API) lookup(uri string) (*Document, error) {
	if doc, ok := a.GetDocument(uri); ok {
		return doc, nil
	}
	return nil, fmt.Errorf("document not found: %s", uri)
}

// CloseDocument forgets uri and its indexed symbols
func (a *API) CloseDocument(uri string) {
	a.docsMutex.Lock()
	delete(a.documents, uri)
	a.docsMutex.Unlock()

	a.symbolIndex.RemoveDocument(uri)
}

// GetDiagnostics reports the parse errors and violations stored for uri.
// Unknown URIs have none.
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil
	}

	src := doc.Source
	if src == nil {
		src = ast.NewSource(uri, doc.Content)
	}
	diagnostics := make([]Diagnostic, 0, len(doc.Errors))
	for _, err := range doc.Errors {
		severity := DiagnosticSeverityError
		if err.IsWarning() {
			severity = DiagnosticSeverityWarning
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    spanRange(src, ast.Span{Start: err.Location.Offset, End: err.Location.Offset + err.Location.Length}),
			Severity: severity,
			Code:     err.Code,
			Message:  err.Message,
			Source:   "kastree",
		})
	}
	return diagnostics
}

// GetHover describes the declaration under pos, or returns nil when pos
// is not on a declaration
func (a *API) GetHover(uri string, pos Position) (*Hover, error) {
	doc, err := a.lookup(uri)
	if err != nil {
		return nil, err
	}

	symbol := findSymbolAtPosition(doc.Symbols, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil hover is valid when no symbol at position
	}
	return buildHover(symbol), nil
}

// GetDefinition returns where the word at pos is declared.
// Returns (nil, nil) if no declaration is known.
func (a *API) GetDefinition(uri string, pos Position) (*Location, error) {
	doc, err := a.lookup(uri)
	if err != nil {
		return nil, err
	}

	word := wordAtPosition(doc.Content, pos)
	if word == "" {
		return nil, nil //nolint:nilnil // nil location is valid when no word at position
	}
	def := a.symbolIndex.FindDefinition(word)
	if def == nil {
		return nil, nil //nolint:nilnil // unknown names have no definition
	}
	return &Location{URI: def.URI, Range: def.Range}, nil
}

// GetReferences returns the declarations of, and name references to, the
// word at pos across all cached documents
func (a *API) GetReferences(uri string, pos Position) ([]Location, error) {
	doc, err := a.lookup(uri)
	if err != nil {
		return nil, err
	}

	word := wordAtPosition(doc.Content, pos)
	if word == "" {
		return []Location{}, nil
	}

	locations := a.symbolIndex.FindReferences(word)
	if locations == nil {
		locations = []Location{}
	}

	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()
	for _, d := range a.documents {
		if d.File == nil {
			continue
		}
		ast.Inspect(d.File, func(n ast.Node) bool {
			if name, ok := n.(*ast.Name); ok && name.Name == word && !name.Loc.Synthesized() {
				locations = append(locations, Location{URI: d.URI, Range: spanRange(d.Source, name.Loc.Span)})
			}
			return true
		})
	}
	return locations, nil
}

// GetDocumentSymbols returns the top-level symbols of a document; members
// are their Children
func (a *API) GetDocumentSymbols(uri string) ([]*Symbol, error) {
	doc, err := a.lookup(uri)
	if err != nil {
		return nil, err
	}
	return doc.Symbols, nil
}

// GetWorkspaceSymbols returns the declarations in every cached document
// whose name contains query
func (a *API) GetWorkspaceSymbols(query string) []*IndexedSymbol {
	return a.symbolIndex.SearchSymbols(query)
}

// spanRange converts a byte span to a zero-based range
func spanRange(src *ast.Source, span ast.Span) Range {
	start := src.Position(span.Start)
	end := src.Position(span.End)
	return Range{
		Start: Position{Line: start.Line - 1, Character: start.Column - 1},
		End:   Position{Line: end.Line - 1, Character: end.Column - 1},
	}
}
