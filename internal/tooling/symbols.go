package tooling

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/writer"
)

// SymbolIndex maintains a searchable index of declarations across documents
type SymbolIndex struct {
	symbols map[string][]*IndexedSymbol // by name
	mutex   sync.RWMutex
}

// IndexedSymbol represents a symbol with its document
type IndexedSymbol struct {
	URI string
	*Symbol
}

// NewSymbolIndex creates a new symbol index
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		symbols: make(map[string][]*IndexedSymbol),
	}
}

// Index replaces the symbols of a document, nested members included
func (si *SymbolIndex) Index(uri string, symbols []*Symbol) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)
	var add func([]*Symbol)
	add = func(list []*Symbol) {
		for _, sym := range list {
			si.symbols[sym.Name] = append(si.symbols[sym.Name], &IndexedSymbol{URI: uri, Symbol: sym})
			add(sym.Children)
		}
	}
	add(symbols)
}

// RemoveDocument removes all symbols from a document
func (si *SymbolIndex) RemoveDocument(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)
}

func (si *SymbolIndex) removeDocumentLocked(uri string) {
	for name, syms := range si.symbols {
		filtered := syms[:0]
		for _, sym := range syms {
			if sym.URI != uri {
				filtered = append(filtered, sym)
			}
		}
		if len(filtered) > 0 {
			si.symbols[name] = filtered
		} else {
			delete(si.symbols, name)
		}
	}
}

// FindDefinition finds the declaration of name, preferring types over
// members
func (si *SymbolIndex) FindDefinition(name string) *IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms := si.symbols[name]
	if len(syms) == 0 {
		return nil
	}
	for _, sym := range syms {
		switch sym.Kind {
		case SymbolKindClass, SymbolKindInterface, SymbolKindObject, SymbolKindEnum, SymbolKindTypeAlias:
			return sym
		}
	}
	return syms[0]
}

// FindReferences returns the locations of every declaration named name
func (si *SymbolIndex) FindReferences(name string) []Location {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms, ok := si.symbols[name]
	if !ok {
		return nil
	}
	locations := make([]Location, len(syms))
	for i, sym := range syms {
		locations[i] = Location{URI: sym.URI, Range: sym.Range}
	}
	return locations
}

// SearchSymbols returns symbols whose name contains query, ignoring case
func (si *SymbolIndex) SearchSymbols(query string) []*IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	query = strings.ToLower(query)
	result := make([]*IndexedSymbol, 0)
	for name, syms := range si.symbols {
		if strings.Contains(strings.ToLower(name), query) {
			result = append(result, syms...)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].URI < result[j].URI
	})
	return result
}

// extractSymbols builds the symbol outline of a parsed document
func extractSymbols(doc *Document) []*Symbol {
	if doc.File == nil {
		return nil
	}
	x := &extractor{src: doc.Source, extras: doc.Extras}
	return x.decls(topLevel(doc.File), "")
}

// topLevel returns the declarations of a file, or those among the
// statements of a script
func topLevel(e ast.Entry) []ast.Decl {
	switch e := e.(type) {
	case *ast.File:
		return e.Decls
	case *ast.Script:
		var decls []ast.Decl
		for _, s := range e.Stmts {
			if ds, ok := s.(*ast.DeclStmt); ok {
				decls = append(decls, ds.Decl)
			}
		}
		return decls
	}
	return nil
}

type extractor struct {
	src    *ast.Source
	extras *ast.ExtrasMap
}

func (x *extractor) decls(decls []ast.Decl, container string) []*Symbol {
	var symbols []*Symbol
	for _, d := range decls {
		symbols = append(symbols, x.decl(d, container)...)
	}
	return symbols
}

func (x *extractor) decl(d ast.Decl, container string) []*Symbol {
	sym := &Symbol{
		ContainerName: container,
		Range:         spanRange(x.src, d.Anchor().Span),
		Detail:        signature(d),
		Documentation: x.kdoc(d),
	}
	switch d := d.(type) {
	case *ast.Structured:
		sym.Name = d.Name
		if sym.Name == "" {
			sym.Name = "Companion"
		}
		sym.Kind = structuredKind(d.Form)
		sym.Children = x.decls(d.Members, sym.Name)
	case *ast.EnumEntry:
		sym.Name = d.Name
		sym.Kind = SymbolKindEnumEntry
		sym.Children = x.decls(d.Members, d.Name)
	case *ast.Func:
		if d.Name == "" {
			return nil
		}
		sym.Name = d.Name
		sym.Kind = SymbolKindFunction
		if container != "" {
			sym.Kind = SymbolKindMethod
		}
	case *ast.Property:
		// A destructuring declaration yields one symbol per variable
		var symbols []*Symbol
		for _, v := range d.Vars {
			if v == nil {
				continue
			}
			s := *sym
			s.Name = v.Name
			s.Kind = SymbolKindProperty
			if !v.Loc.Synthesized() {
				s.Range = spanRange(x.src, v.Loc.Span)
			}
			symbols = append(symbols, &s)
		}
		return symbols
	case *ast.Constructor:
		sym.Name = "constructor"
		sym.Kind = SymbolKindConstructor
	case *ast.TypeAlias:
		sym.Name = d.Name
		sym.Kind = SymbolKindTypeAlias
	default:
		return nil
	}
	return []*Symbol{sym}
}

func structuredKind(form ast.StructuredForm) SymbolKind {
	switch form {
	case ast.FormInterface, ast.FormFunInterface:
		return SymbolKindInterface
	case ast.FormObject, ast.FormCompanionObject:
		return SymbolKindObject
	case ast.FormEnumClass:
		return SymbolKindEnum
	default:
		return SymbolKindClass
	}
}

// kdoc returns the text of the last `/** */` comment before d
func (x *extractor) kdoc(d ast.Decl) string {
	var doc string
	for _, e := range x.extras.Before(d) {
		if c, ok := e.(*ast.Comment); ok && strings.HasPrefix(c.Text, "/**") {
			doc = c.Text
		}
	}
	if doc == "" {
		return ""
	}
	doc = strings.TrimSuffix(strings.TrimPrefix(doc, "/**"), "*/")
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// signature renders d without its body
func signature(d ast.Decl) string {
	var head ast.Decl
	switch d := d.(type) {
	case *ast.Structured:
		c := *d
		c.Members = nil
		head = &c
	case *ast.EnumEntry:
		c := *d
		c.Members = nil
		head = &c
	case *ast.Func:
		c := *d
		c.Body = nil
		head = &c
	case *ast.Property:
		c := *d
		c.Expr, c.Delegated, c.Accessors = nil, false, nil
		head = &c
	case *ast.Constructor:
		c := *d
		c.Block = nil
		head = &c
	default:
		head = d
	}
	out, err := writer.Write(head, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func findSymbolAtPosition(symbols []*Symbol, pos Position) *Symbol {
	for _, sym := range symbols {
		if positionInRange(pos, sym.Range) {
			// Prefer the innermost declaration
			if inner := findSymbolAtPosition(sym.Children, pos); inner != nil {
				return inner
			}
			return sym
		}
	}
	return nil
}

// positionInRange checks if a position is within a range
func positionInRange(pos Position, r Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}

// wordAtPosition returns the identifier under pos
func wordAtPosition(content string, pos Position) string {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	line := []rune(lines[pos.Line])
	if pos.Character < 0 || pos.Character > len(line) {
		return ""
	}
	isWord := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
	start, end := pos.Character, pos.Character
	for start > 0 && isWord(line[start-1]) {
		start--
	}
	for end < len(line) && isWord(line[end]) {
		end++
	}
	return string(line[start:end])
}
