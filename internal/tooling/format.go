package tooling

import (
	"fmt"
	"strings"

	"github.com/kastree-lang/kastree/internal/format"
)

// Format returns the edits that turn a document into its canonical
// layout: a single whole-document replacement, or none when the document is
// already canonical
func (a *API) Format(uri string, cfg *format.Config) ([]TextEdit, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	formatted, err := format.New(cfg).FormatNamed(uri, doc.Content)
	if err != nil {
		return nil, err
	}
	if formatted == doc.Content {
		return []TextEdit{}, nil
	}

	lines := strings.Split(doc.Content, "\n")
	last := lines[len(lines)-1]
	return []TextEdit{{
		Range: Range{
			Start: Position{Line: 0, Character: 0},
			End:   Position{Line: len(lines) - 1, Character: len([]rune(last))},
		},
		NewText: formatted,
	}}, nil
}
