// Package writer renders syntax trees back to Kotlin source.
//
// Output follows one canonical layout. Source already in that layout comes
// back byte for byte; anything else comes back reformatted. Blank lines and
// comments are taken from the trivia recorded by the parser.
package writer

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/kastree-lang/kastree/compiler/ast"
)

// Config controls the rendered layout
type Config struct {
	Indent string // one level of indentation
}

// DefaultConfig returns the default configuration: four spaces per level
func DefaultConfig() *Config {
	return &Config{Indent: "    "}
}

// Writer renders trees to source text
type Writer struct {
	config  *Config
	buf     *bytes.Buffer
	indent  int
	pending bool // at the start of a line, indentation not yet written
	extras  *ast.ExtrasMap
}

// New creates a new Writer with the given configuration
func New(config *Config) *Writer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Writer{
		config: config,
		buf:    new(bytes.Buffer),
	}
}

// Write renders node with the default configuration. extras may be nil.
func Write(node ast.Node, extras *ast.ExtrasMap) (string, error) {
	return New(nil).Write(node, extras)
}

// Write renders node and the trivia recorded for it. A tree that cannot
// exist is reported as an *ast.InvariantViolation.
func (w *Writer) Write(node ast.Node, extras *ast.ExtrasMap) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(*ast.InvariantViolation)
			if !ok {
				panic(r)
			}
			out, err = "", v
		}
	}()

	w.buf.Reset()
	w.indent = 0
	w.pending = true
	w.extras = extras

	w.node(node)
	if _, isEntry := node.(ast.Entry); isEntry && w.buf.Len() > 0 {
		w.newline()
	}
	return w.buf.String(), nil
}

// node writes n between its leading and enclosed trivia
func (w *Writer) node(n ast.Node) {
	if isNil(n) {
		panic(ast.Violation(nil, "missing node"))
	}
	w.wrap(n, func() { w.dispatch(n) })
}

// wrap writes the trivia before n, runs fn, then any trivia within n that
// fn did not place itself
func (w *Writer) wrap(n ast.Node, fn func()) {
	w.extraList(w.extras.Before(n))
	fn()
	if !placesWithin(n) {
		w.extraList(w.extras.Within(n))
	}
}

// placesWithin reports whether n's renderer writes its enclosed trivia
// ahead of a closing delimiter
func placesWithin(n ast.Node) bool {
	switch n.(type) {
	case *ast.File, *ast.Script, *ast.Block, *ast.Brace, *ast.Structured, *ast.Object, *ast.When,
		*ast.EnumEntry, *ast.Call, *ast.Paren, *ast.CollLit:
		return true
	}
	return false
}

func (w *Writer) within(n ast.Node) {
	w.extraList(w.extras.Within(n))
}

func (w *Writer) hasWithin(n ast.Node) bool {
	return len(w.extras.Within(n)) > 0
}

func (w *Writer) dispatch(n ast.Node) {
	switch n := n.(type) {
	case *ast.File:
		w.file(n)
	case *ast.Script:
		w.script(n)
	case *ast.Package:
		w.pkg(n)
	case *ast.Import:
		w.importDirective(n)
	case *ast.Block:
		w.block(n)
	case *ast.DeclStmt:
		w.node(n.Decl)
	case *ast.ExprStmt:
		w.node(n.Expr)
	case ast.Decl:
		w.decl(n)
	case ast.Expr:
		w.expr(n)
	case ast.TypeRef:
		w.typeRef(n)
	case ast.Modifier:
		w.modifier(n)
	default:
		w.part(n)
	}
}

// Output primitives

// write appends s, indenting first when at the start of a line
func (w *Writer) write(s string) {
	if s == "" {
		return
	}
	if w.pending {
		w.buf.WriteString(strings.Repeat(w.config.Indent, w.indent))
		w.pending = false
	}
	w.buf.WriteString(s)
}

// newline ends the current line. Repeated calls do not add blank lines.
func (w *Writer) newline() {
	if !w.pending {
		w.buf.WriteByte('\n')
		w.pending = true
	}
}

func (w *Writer) lastByte() byte {
	if w.buf.Len() == 0 {
		return 0
	}
	return w.buf.Bytes()[w.buf.Len()-1]
}

// Trivia

func (w *Writer) extraList(extras []ast.Extra) {
	for _, e := range extras {
		switch e := e.(type) {
		case *ast.BlankLines:
			// Blank lines only survive at the start of a line
			if w.pending && e.Count > 0 {
				w.buf.WriteString(strings.Repeat("\n", e.Count))
			}
		case *ast.Comment:
			w.comment(e)
		default:
			panic(ast.Violation(nil, "unknown extra %T", e))
		}
	}
}

func (w *Writer) comment(c *ast.Comment) {
	switch {
	case c.StartsLine:
		w.newline()
	case w.pending && w.lastByte() == '\n':
		// Move the comment back to the end of the previous line
		w.buf.Truncate(w.buf.Len() - 1)
		w.pending = false
		w.write(" ")
	case !w.pending:
		if b := w.lastByte(); b != ' ' && b != '(' && b != '[' {
			w.write(" ")
		}
	}
	w.write(c.Text)
	if c.EndsLine || strings.HasPrefix(c.Text, "//") {
		w.newline()
	} else {
		w.write(" ")
	}
}

// Lists

// joined writes each node of list separated by sep
func joined[T ast.Node](w *Writer, list []T, sep string) {
	for i, n := range list {
		if i > 0 {
			w.write(sep)
		}
		w.node(n)
	}
}

// lines writes each node of list on its own line
func lines[T ast.Node](w *Writer, list []T) {
	for _, n := range list {
		w.newline()
		w.node(n)
	}
}

// sameLine reports whether b started on the source line where a started.
// Synthesized nodes never do.
func sameLine(a, b ast.Node) bool {
	la, lb := a.Anchor(), b.Anchor()
	if la.Synthesized() || lb.Synthesized() || la.Src != lb.Src || lb.Span.Start < la.Span.Start {
		return false
	}
	return !strings.Contains(la.Src.Text[la.Span.Start:lb.Span.Start], "\n")
}

// endsLine reports whether n was the last thing on its source line, not
// counting a line comment. Synthesized nodes always are.
func endsLine(n ast.Node) bool {
	loc := n.Anchor()
	if loc.Synthesized() {
		return true
	}
	rest := strings.TrimLeft(loc.Src.Text[loc.Span.End:], " \t")
	return rest == "" || rest[0] == '\n' || rest[0] == '\r' || strings.HasPrefix(rest, "//")
}

// isNil reports whether n is a nil interface or holds a nil pointer
func isNil(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// File structure

func (w *Writer) file(f *ast.File) {
	w.header(f)
	lines(w, f.Decls)
	w.closeEntry(f)
}

func (w *Writer) script(s *ast.Script) {
	w.header(s)
	lines(w, s.Stmts)
	w.closeEntry(s)
}

// header writes the file annotations, package directive and imports of e
func (w *Writer) header(e ast.Entry) {
	for _, set := range e.Annotations() {
		w.newline()
		w.node(set)
	}
	if pkg := e.Package(); pkg != nil {
		w.newline()
		w.node(pkg)
	}
	lines(w, e.ImportList())
}

// closeEntry ends the last line, then writes the trailing trivia of e
func (w *Writer) closeEntry(e ast.Entry) {
	if w.buf.Len() > 0 {
		w.newline()
	}
	w.within(e)
}

func (w *Writer) pkg(p *ast.Package) {
	w.modifiers(p.Mods, false)
	w.write("package " + strings.Join(p.Names, "."))
}

func (w *Writer) importDirective(imp *ast.Import) {
	w.write("import " + strings.Join(imp.Names, "."))
	switch {
	case imp.Wildcard:
		w.write(".*")
	case imp.Alias != "":
		w.write(" as " + imp.Alias)
	}
}

// block writes a braced statement list
func (w *Writer) block(b *ast.Block) {
	w.write("{")
	w.body(b, func() { w.statements(b) })
	w.write("}")
}

// body writes the inside of a braced construct: fn on indented lines, then
// the trivia within n. It writes nothing when both are empty.
func (w *Writer) body(n ast.Node, fn func()) {
	start := w.buf.Len()
	w.indent++
	fn()
	w.within(n)
	w.indent--
	if w.buf.Len() > start {
		w.newline()
	}
}

func (w *Writer) statements(b *ast.Block) {
	lines(w, b.Stmts)
}
