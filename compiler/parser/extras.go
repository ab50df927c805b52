package parser

import (
	"sort"
	"strings"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// attacher assigns trivia runs to the nodes they precede
type attacher struct {
	src     *ast.Source
	root    ast.Node         // the File or Script
	nodes   []ast.Node       // pre-order
	starts  map[int]ast.Node // outermost node starting at an offset
	byStart []ast.Node       // nodes with a width, sorted by start
	extras  *ast.ExtrasMap
}

// attachExtras turns whitespace and comment tokens into extras. Trivia is
// attached before the outermost node that starts at the following token,
// or within the innermost node a closing delimiter belongs to.
func attachExtras(root ast.Node, src *ast.Source, all []lexer.Token) *ast.ExtrasMap {
	a := &attacher{
		src:    src,
		root:   root,
		starts: make(map[int]ast.Node),
		extras: ast.NewExtrasMap(),
	}
	ast.Inspect(root, func(n ast.Node) bool {
		a.nodes = append(a.nodes, n)
		loc := n.Anchor()
		if loc.Synthesized() || loc.Span.Len() == 0 || n == root {
			return true
		}
		if _, seen := a.starts[loc.Span.Start]; !seen {
			a.starts[loc.Span.Start] = n
		}
		a.byStart = append(a.byStart, n)
		return true
	})
	sort.SliceStable(a.byStart, func(i, j int) bool {
		return a.byStart[i].Anchor().Span.Start < a.byStart[j].Anchor().Span.Start
	})

	var run []lexer.Token
	prevEnd := -1
	for _, t := range all {
		if t.IsTrivia() {
			run = append(run, t)
			continue
		}
		if len(run) > 0 {
			a.attachRun(run, prevEnd, t)
			run = nil
		}
		prevEnd = t.End
	}
	return a.extras
}

func (a *attacher) attachRun(run []lexer.Token, prevEnd int, next lexer.Token) {
	var extras []ast.Extra
	for _, t := range run {
		loc := ast.Anchor{Span: ast.Span{Start: t.Start, End: t.End}, Src: a.src}
		if t.Type == lexer.TOKEN_WHITESPACE {
			count := strings.Count(t.Lexeme, "\n")
			if t.Start > 0 {
				count--
			}
			if count > 0 {
				loc.Prod = ast.ProdWhitespace
				extras = append(extras, &ast.BlankLines{Count: count, Loc: loc})
			}
			continue
		}
		loc.Prod = ast.ProdComment
		extras = append(extras, &ast.Comment{
			Text:       t.Lexeme,
			StartsLine: prevEnd < 0 || strings.Contains(a.src.Text[prevEnd:t.Start], "\n"),
			EndsLine:   next.Type == lexer.TOKEN_EOF || strings.Contains(a.src.Text[t.End:next.Start], "\n"),
			Loc:        loc,
		})
	}
	if len(extras) == 0 {
		return
	}

	if next.Type == lexer.TOKEN_EOF {
		a.extras.AddWithin(a.root, extras...)
		return
	}
	if n, ok := a.starts[next.Start]; ok {
		a.extras.AddBefore(n, extras...)
		return
	}
	if closesNode(next.Type) {
		a.extras.AddWithin(a.innermost(next.Start), extras...)
		return
	}
	if n := a.following(next.Start); n != nil {
		a.extras.AddBefore(n, extras...)
		return
	}
	a.extras.AddWithin(a.innermost(next.Start), extras...)
}

func closesNode(t lexer.TokenType) bool {
	switch t {
	case lexer.TOKEN_RBRACE, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_GREATER,
		lexer.TOKEN_STRING_END, lexer.TOKEN_TEMPLATE_END:
		return true
	}
	return false
}

// innermost returns the deepest node whose span holds offset
func (a *attacher) innermost(offset int) ast.Node {
	found := a.root
	for _, n := range a.nodes {
		loc := n.Anchor()
		if loc.Synthesized() {
			continue
		}
		if loc.Span.Start <= offset && offset < loc.Span.End {
			found = n
		}
	}
	return found
}

// following returns the first node starting after offset
func (a *attacher) following(offset int) ast.Node {
	i := sort.Search(len(a.byStart), func(i int) bool {
		return a.byStart[i].Anchor().Span.Start > offset
	})
	if i == len(a.byStart) {
		return nil
	}
	return a.starts[a.byStart[i].Anchor().Span.Start]
}
