package writer

import (
	"github.com/kastree-lang/kastree/compiler/ast"
)

func (w *Writer) typeRef(t ast.TypeRef) {
	switch t := t.(type) {
	case *ast.SimpleType:
		if len(t.Pieces) == 0 {
			panic(ast.Violation(t, "simple type without pieces"))
		}
		joined(w, t.Pieces, ".")
	case *ast.NullableType:
		w.node(t.Ref)
		w.write("?")
	case *ast.FuncType:
		if t.Receiver != nil {
			w.node(t.Receiver)
			w.write(".")
		}
		w.write("(")
		joined(w, t.Params, ", ")
		w.write(") -> ")
		w.node(t.Type)
	case *ast.ParenType:
		w.write("(")
		w.modifiers(t.Mods, false)
		w.node(t.Ref)
		w.write(")")
	case *ast.DynamicType:
		w.write("dynamic")
	default:
		panic(ast.Violation(t, "unknown type variant %T", t))
	}
}

// typeArgs writes `<A, *, out B>`; a nil argument is the star projection
func (w *Writer) typeArgs(args []*ast.Type) {
	w.write("<")
	for i, arg := range args {
		if i > 0 {
			w.write(", ")
		}
		if arg == nil {
			w.write("*")
			continue
		}
		w.node(arg)
	}
	w.write(">")
}

func (w *Writer) modifier(m ast.Modifier) {
	switch m := m.(type) {
	case *ast.KeywordModifier:
		if !m.Keyword.Valid() {
			panic(ast.Violation(m, "unknown modifier keyword %d", m.Keyword))
		}
		w.write(m.Keyword.String())
	case *ast.AnnotationSet:
		if len(m.Anns) == 0 {
			panic(ast.Violation(m, "empty annotation set"))
		}
		if !m.Target.Valid() {
			panic(ast.Violation(m, "unknown annotation target %d", m.Target))
		}
		w.write("@")
		if m.Target != ast.TargetNone {
			w.write(m.Target.String() + ":")
		}
		if !m.Bracketed() {
			w.node(m.Anns[0])
			return
		}
		w.write("[")
		joined(w, m.Anns, " ")
		w.write("]")
	default:
		panic(ast.Violation(m, "unknown modifier variant %T", m))
	}
}
