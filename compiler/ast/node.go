// Package ast defines the lossless syntax tree for Kotlin source.
//
// Every kind of node (declaration, expression, type reference, modifier,
// trivia) is a closed set of variants: an interface with an unexported
// marker method, implemented only by the types in this package. Consumers
// switch over the variants exhaustively and report an InvariantViolation
// from the default branch.
//
// Each node carries an Anchor back into the Source it was parsed from.
// Some nodes derive their anchor from a child (BinaryOp uses its
// operator's anchor), and a few carry an Either when the same shape can be
// produced by two different productions.
package ast

// Node is the base interface for all syntax tree nodes.
type Node interface {
	// Anchor returns the production and span the node was derived from.
	Anchor() Anchor
	// Tag returns the opaque per-node slot. The tree never reads it.
	Tag() any
	// SetTag replaces the opaque per-node slot.
	SetTag(tag any)
	node()
}

// Scratch is the mutable tag slot embedded in every node. It has no meaning
// to this package. Passes sharing a tree across goroutines should prefer a
// SideTable.
type Scratch struct {
	tag any
}

func (s *Scratch) Tag() any       { return s.tag }
func (s *Scratch) SetTag(tag any) { s.tag = tag }

// WithAnnotations is implemented by nodes that carry annotation sets.
type WithAnnotations interface {
	Node
	Annotations() []*AnnotationSet
}

// WithModifiers is implemented by nodes that carry an ordered modifier list.
// Annotations() is the annotation-set subsequence of Modifiers().
type WithModifiers interface {
	WithAnnotations
	Modifiers() []Modifier
}

// Entry is a node that can root a compilation unit: a File or a Script.
type Entry interface {
	WithAnnotations
	Package() *Package
	ImportList() []*Import
}

// File is a whole compilation unit.
type File struct {
	Scratch
	Anns    []*AnnotationSet // file annotations, @file:...
	Pkg     *Package         // nil when no package directive is written
	Imports []*Import
	Decls   []Decl
	Loc     Anchor
}

func (f *File) node()                         {}
func (f *File) Anchor() Anchor                { return f.Loc }
func (f *File) Annotations() []*AnnotationSet { return f.Anns }
func (f *File) Package() *Package             { return f.Pkg }
func (f *File) ImportList() []*Import         { return f.Imports }

// Script is a compilation unit of top-level statements, such as a .kts
// file or a fragment of code.
type Script struct {
	Scratch
	Anns    []*AnnotationSet
	Pkg     *Package
	Imports []*Import
	Stmts   []Stmt
	Loc     Anchor
}

func (s *Script) node()                         {}
func (s *Script) Anchor() Anchor                { return s.Loc }
func (s *Script) Annotations() []*AnnotationSet { return s.Anns }
func (s *Script) Package() *Package             { return s.Pkg }
func (s *Script) ImportList() []*Import         { return s.Imports }

// Package is the package directive.
type Package struct {
	Scratch
	Mods  []Modifier
	Names []string
	Loc   Anchor
}

func (p *Package) node()                         {}
func (p *Package) Anchor() Anchor                { return p.Loc }
func (p *Package) Modifiers() []Modifier         { return p.Mods }
func (p *Package) Annotations() []*AnnotationSet { return annotationsOf(p.Mods) }

// Import is a single import directive.
type Import struct {
	Scratch
	Names    []string
	Wildcard bool   // import a.b.*
	Alias    string // "" when no `as` alias is written
	Loc      Anchor
}

func (i *Import) node()          {}
func (i *Import) Anchor() Anchor { return i.Loc }

// Block is a braced statement list. Inside a Brace it covers only the
// statements, without the braces.
type Block struct {
	Scratch
	Stmts []Stmt
	Loc   Anchor
}

func (b *Block) node()          {}
func (b *Block) Anchor() Anchor { return b.Loc }

// Stmt is either a declaration or an expression in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// DeclStmt is a local declaration. Its anchor is the declaration's.
type DeclStmt struct {
	Scratch
	Decl Decl
}

// ExprStmt is an expression statement. Its anchor is the expression's.
type ExprStmt struct {
	Scratch
	Expr Expr
}

func (s *DeclStmt) node()          {}
func (s *DeclStmt) stmtNode()      {}
func (s *DeclStmt) Anchor() Anchor { return anchorOf(s.Decl) }
func (s *ExprStmt) node()          {}
func (s *ExprStmt) stmtNode()      {}
func (s *ExprStmt) Anchor() Anchor { return anchorOf(s.Expr) }

// anchorOf returns the anchor of a possibly nil node.
func anchorOf(n Node) Anchor {
	if isNil(n) {
		return Anchor{}
	}
	return n.Anchor()
}

func annotationsOf(mods []Modifier) []*AnnotationSet {
	var anns []*AnnotationSet
	for _, m := range mods {
		if set, ok := m.(*AnnotationSet); ok {
			anns = append(anns, set)
		}
	}
	return anns
}
