package writer

import (
	"github.com/kastree-lang/kastree/compiler/ast"
)

func (w *Writer) decl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.Structured:
		w.structured(d)
	case *ast.Init:
		w.write("init ")
		w.node(d.Block)
	case *ast.Func:
		w.function(d)
	case *ast.Property:
		w.property(d)
	case *ast.TypeAlias:
		w.modifiers(d.Mods, true)
		w.write("typealias " + d.Name)
		w.typeParams(d.TypeParams)
		w.write(" = ")
		w.node(d.Type)
	case *ast.Constructor:
		w.constructor(d)
	case *ast.EnumEntry:
		w.enumEntry(d)
	default:
		panic(ast.Violation(d, "unknown declaration variant %T", d))
	}
}

// modifiers writes mods, each followed by a space. With ownLines, the
// annotation sets before the first keyword each go on a line of their own,
// unless the source had them share the line with what follows.
func (w *Writer) modifiers(mods []ast.Modifier, ownLines bool) {
	leading := ownLines
	for _, m := range mods {
		if _, isSet := m.(*ast.AnnotationSet); !isSet {
			leading = false
		}
		w.node(m)
		if leading && endsLine(m) {
			w.newline()
		} else {
			w.write(" ")
		}
	}
}

func (w *Writer) structured(s *ast.Structured) {
	if !s.Form.Valid() {
		panic(ast.Violation(s, "unknown structured form %d", s.Form))
	}
	w.modifiers(s.Mods, true)
	w.write(s.Form.String())
	if s.Name != "" {
		w.write(" " + s.Name)
	}
	w.typeParams(s.TypeParams)
	if pc := s.PrimaryConstructor; pc != nil {
		if len(pc.Mods) > 0 {
			w.write(" ")
		}
		w.node(pc)
	}
	if len(s.Parents) > 0 {
		w.write(" : ")
		for _, set := range s.ParentAnns {
			w.node(set)
			w.write(" ")
		}
		joined(w, s.Parents, ", ")
	} else if len(s.ParentAnns) > 0 {
		panic(ast.Violation(s, "parent annotations without parents"))
	}
	w.typeConstraints(s.TypeConstraints)
	if len(s.Members) > 0 || w.hasWithin(s) {
		w.write(" ")
		w.classBody(s, s.Members, s.Form == ast.FormEnumClass)
	}
}

// classBody writes `{ members }`. Enum entries are comma-separated and
// closed by a semicolon when other members follow.
func (w *Writer) classBody(owner ast.Node, members []ast.Decl, enum bool) {
	w.write("{")
	w.body(owner, func() {
		if !enum {
			lines(w, members)
			return
		}
		entries := 0
		for entries < len(members) {
			if _, ok := members[entries].(*ast.EnumEntry); !ok {
				break
			}
			entries++
		}
		for i, m := range members[:entries] {
			if i > 0 {
				w.write(",")
			}
			w.newline()
			w.node(m)
		}
		rest := members[entries:]
		if len(rest) > 0 {
			if entries == 0 {
				w.newline()
			}
			w.write(";")
			lines(w, rest)
		}
	})
	w.write("}")
}

func (w *Writer) enumEntry(e *ast.EnumEntry) {
	w.modifiers(e.Mods, false)
	w.write(e.Name)
	if len(e.Args) > 0 {
		w.valueArgs(e.Args)
	}
	if len(e.Members) > 0 || w.hasWithin(e) {
		w.write(" ")
		w.classBody(e, e.Members, false)
	}
}

func (w *Writer) function(f *ast.Func) {
	w.modifiers(f.Mods, true)
	w.write("fun")
	if len(f.TypeParams) > 0 {
		w.write(" ")
		w.typeParams(f.TypeParams)
	}
	if f.Name != "" || f.Receiver != nil {
		w.write(" ")
	}
	if f.Receiver != nil {
		w.node(f.Receiver)
		w.write(".")
	}
	w.write(f.Name)
	w.typeParams(f.ParamTypeParams)
	w.params(f.Params)
	if f.Type != nil {
		w.write(": ")
		w.node(f.Type)
	}
	w.typeConstraints(f.TypeConstraints)
	if f.Body != nil {
		w.funcBody(f.Body)
	}
}

// funcBody writes a block body or an expression body, with the space or
// ` = ` that separates it from the signature
func (w *Writer) funcBody(body ast.FuncBody) {
	switch b := body.(type) {
	case *ast.BlockBody:
		w.write(" ")
		w.node(b)
	case *ast.ExprBody:
		w.write(" = ")
		w.node(b)
	default:
		panic(ast.Violation(body, "unknown function body variant %T", body))
	}
}

func (w *Writer) params(params []*ast.Param) {
	w.write("(")
	joined(w, params, ", ")
	w.write(")")
}

func (w *Writer) property(p *ast.Property) {
	if len(p.Vars) == 0 {
		panic(ast.Violation(p, "property without variables"))
	}
	w.modifiers(p.Mods, true)
	if p.ReadOnly {
		w.write("val")
	} else {
		w.write("var")
	}
	if len(p.TypeParams) > 0 {
		w.write(" ")
		w.typeParams(p.TypeParams)
	}
	w.write(" ")
	if p.Receiver != nil {
		w.node(p.Receiver)
		w.write(".")
	}
	if p.Destructured {
		w.destructured(p.Vars)
	} else {
		if len(p.Vars) != 1 || p.Vars[0] == nil {
			panic(ast.Violation(p, "property needs exactly one variable"))
		}
		w.node(p.Vars[0])
	}
	w.typeConstraints(p.TypeConstraints)
	if p.Expr != nil {
		if p.Delegated {
			w.write(" by ")
		} else {
			w.write(" = ")
		}
		w.node(p.Expr)
	}
	if p.Accessors != nil {
		w.indent++
		if sameLine(p.Vars[0], p.Accessors) {
			w.write(" ")
		} else {
			w.newline()
		}
		w.node(p.Accessors)
		w.indent--
	}
}

// destructured writes `(a, _, c: Int)`; a nil variable is the placeholder
func (w *Writer) destructured(vars []*ast.PropertyVar) {
	w.write("(")
	for i, v := range vars {
		if i > 0 {
			w.write(", ")
		}
		if v == nil {
			w.write("_")
			continue
		}
		w.node(v)
	}
	w.write(")")
}

func (w *Writer) accessors(a *ast.Accessors) {
	if isNil(a.First) {
		panic(ast.Violation(a, "accessors without a first accessor"))
	}
	w.node(a.First)
	if isNil(a.Second) {
		return
	}
	_, firstGetter := a.First.(*ast.Getter)
	_, secondGetter := a.Second.(*ast.Getter)
	if firstGetter == secondGetter {
		panic(ast.Violation(a, "two accessors of the same kind"))
	}
	w.newline()
	w.node(a.Second)
}

func (w *Writer) getter(g *ast.Getter) {
	w.modifiers(g.Mods, false)
	w.write("get")
	if g.Body == nil {
		if g.Type != nil {
			panic(ast.Violation(g, "getter type without a body"))
		}
		return
	}
	w.write("()")
	if g.Type != nil {
		w.write(": ")
		w.node(g.Type)
	}
	w.funcBody(g.Body)
}

func (w *Writer) setter(s *ast.Setter) {
	w.modifiers(s.Mods, false)
	w.write("set")
	if s.Body == nil {
		return
	}
	if s.ParamName == "" {
		panic(ast.Violation(s, "setter body without a parameter"))
	}
	w.write("(")
	w.modifiers(s.ParamMods, false)
	w.write(s.ParamName)
	if s.ParamType != nil {
		w.write(": ")
		w.node(s.ParamType)
	}
	w.write(")")
	w.funcBody(s.Body)
}

func (w *Writer) constructor(c *ast.Constructor) {
	w.modifiers(c.Mods, true)
	w.write("constructor")
	w.params(c.Params)
	if c.DelegationCall != nil {
		w.write(" : ")
		w.node(c.DelegationCall)
	}
	if c.Block != nil {
		w.write(" ")
		w.node(c.Block)
	}
}

func (w *Writer) typeParams(params []*ast.TypeParam) {
	if len(params) == 0 {
		return
	}
	w.write("<")
	joined(w, params, ", ")
	w.write(">")
}

func (w *Writer) typeConstraints(constraints []*ast.TypeConstraint) {
	if len(constraints) == 0 {
		return
	}
	w.write(" where ")
	joined(w, constraints, ", ")
}

// part writes the nodes that only occur inside other nodes
func (w *Writer) part(n ast.Node) {
	switch n := n.(type) {
	case *ast.PrimaryConstructor:
		if len(n.Mods) > 0 {
			w.modifiers(n.Mods, false)
			w.write("constructor")
		}
		w.params(n.Params)
	case *ast.CallConstructorParent:
		w.node(n.Type)
		w.valueArgs(n.Args)
		if n.Lambda != nil {
			w.write(" ")
			w.node(n.Lambda)
		}
	case *ast.TypeParent:
		w.node(n.Type)
		if n.By != nil {
			w.write(" by ")
			w.node(n.By)
		}
	case *ast.Param:
		w.modifiers(n.Mods, false)
		if n.ReadOnly != nil {
			if *n.ReadOnly {
				w.write("val ")
			} else {
				w.write("var ")
			}
		}
		w.write(n.Name)
		if n.Type != nil {
			w.write(": ")
			w.node(n.Type)
		}
		if n.Default != nil {
			w.write(" = ")
			w.node(n.Default)
		}
	case *ast.BlockBody:
		w.node(n.Block)
	case *ast.ExprBody:
		w.node(n.Expr)
	case *ast.PropertyVar:
		w.write(n.Name)
		if n.Type != nil {
			w.write(": ")
			w.node(n.Type)
		}
	case *ast.Accessors:
		w.accessors(n)
	case *ast.Getter:
		w.getter(n)
	case *ast.Setter:
		w.setter(n)
	case *ast.DelegationCall:
		if !n.Target.Valid() {
			panic(ast.Violation(n, "unknown delegation target %d", n.Target))
		}
		w.write(n.Target.String())
		w.valueArgs(n.Args)
	case *ast.TypeParam:
		w.modifiers(n.Mods, false)
		w.write(n.Name)
		if n.Type != nil {
			w.write(" : ")
			w.node(n.Type)
		}
	case *ast.TypeConstraint:
		for _, set := range n.Anns {
			w.node(set)
			w.write(" ")
		}
		w.write(n.Name + " : ")
		w.node(n.Type)
	default:
		w.exprPart(n)
	}
}
