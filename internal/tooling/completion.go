package tooling

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// softKeywords complete alongside the hard keywords and modifiers
var softKeywords = []string{
	"by", "catch", "companion", "constructor", "field", "finally",
	"get", "import", "init", "set", "where",
}

// GetCompletions returns keywords and declared names that start with the
// identifier prefix before pos. Document symbols come first, then keywords,
// each sorted by label.
func (a *API) GetCompletions(uri string, pos Position) ([]CompletionItem, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	prefix := prefixAtPosition(doc.Content, pos)
	items := make([]CompletionItem, 0)
	seen := make(map[string]bool)

	var symbols []CompletionItem
	var walk func([]*Symbol)
	walk = func(list []*Symbol) {
		for _, sym := range list {
			if !seen[sym.Name] && strings.HasPrefix(sym.Name, prefix) && sym.Name != prefix {
				seen[sym.Name] = true
				symbols = append(symbols, CompletionItem{
					Label:  sym.Name,
					Kind:   completionKind(sym.Kind),
					Detail: sym.Detail,
				})
			}
			walk(sym.Children)
		}
	}
	walk(doc.Symbols)
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Label < symbols[j].Label })
	items = append(items, symbols...)

	for _, kw := range keywords() {
		if !seen[kw] && strings.HasPrefix(kw, prefix) && kw != prefix {
			seen[kw] = true
			items = append(items, CompletionItem{Label: kw, Kind: CompletionKindKeyword, Detail: "keyword"})
		}
	}
	return items, nil
}

func completionKind(kind SymbolKind) CompletionKind {
	switch kind {
	case SymbolKindFunction, SymbolKindMethod, SymbolKindConstructor:
		return CompletionKindFunction
	case SymbolKindProperty, SymbolKindVariable:
		return CompletionKindProperty
	case SymbolKindEnumEntry:
		return CompletionKindEnumMember
	default:
		return CompletionKindClass
	}
}

// keywords returns hard, modifier and soft keywords, sorted
func keywords() []string {
	set := make(map[string]bool)
	for _, kw := range lexer.Keywords() {
		set[kw] = true
	}
	for k := ast.Keyword(0); k.Valid(); k++ {
		set[k.String()] = true
	}
	for _, kw := range softKeywords {
		set[kw] = true
	}
	words := make([]string, 0, len(set))
	for kw := range set {
		words = append(words, kw)
	}
	sort.Strings(words)
	return words
}

// prefixAtPosition returns the identifier characters directly before pos
func prefixAtPosition(content string, pos Position) string {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	line := []rune(lines[pos.Line])
	end := min(max(pos.Character, 0), len(line))
	start := end
	for start > 0 && (unicode.IsLetter(line[start-1]) || unicode.IsDigit(line[start-1]) || line[start-1] == '_') {
		start--
	}
	return string(line[start:end])
}
