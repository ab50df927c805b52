package tooling

import (
	"fmt"
	"strings"
)

// buildHover renders a symbol's signature, KDoc and container as markdown
func buildHover(symbol *Symbol) *Hover {
	var content strings.Builder

	content.WriteString("```kotlin\n")
	if symbol.Detail != "" {
		content.WriteString(symbol.Detail)
	} else {
		content.WriteString(symbol.Name)
	}
	content.WriteString("\n```\n")

	if symbol.Documentation != "" {
		content.WriteString("\n")
		content.WriteString(symbol.Documentation)
		content.WriteString("\n")
	}

	if symbol.ContainerName != "" {
		content.WriteString(fmt.Sprintf("\n*%s in* `%s`\n", symbol.Kind, symbol.ContainerName))
	}

	return &Hover{
		Contents: content.String(),
		Range:    symbol.Range,
	}
}

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindClass:
		return "class"
	case SymbolKindInterface:
		return "interface"
	case SymbolKindObject:
		return "object"
	case SymbolKindEnum:
		return "enum"
	case SymbolKindEnumEntry:
		return "enum entry"
	case SymbolKindFunction:
		return "function"
	case SymbolKindMethod:
		return "method"
	case SymbolKindProperty:
		return "property"
	case SymbolKindVariable:
		return "variable"
	case SymbolKindConstructor:
		return "constructor"
	case SymbolKindTypeAlias:
		return "type alias"
	default:
		return "symbol"
	}
}
