package ast

// Type is a type reference with its modifiers (annotations, suspend,
// variance).
type Type struct {
	Scratch
	Mods []Modifier
	Ref  TypeRef
	Loc  Anchor
}

func (t *Type) node()                         {}
func (t *Type) Anchor() Anchor                { return t.Loc }
func (t *Type) Modifiers() []Modifier         { return t.Mods }
func (t *Type) Annotations() []*AnnotationSet { return annotationsOf(t.Mods) }

// TypeRef is the closed set of type shapes. Nullability and parentheses are
// wrappers so that nested forms such as ((T?))? are kept exactly.
type TypeRef interface {
	Node
	typeRef()
}

// SimpleType is a dotted, possibly generic, type name such as a.B<C>.D.
type SimpleType struct {
	Scratch
	Pieces []*TypePiece
	Loc    Anchor
}

// TypePiece is one dotted segment of a SimpleType. A nil element of
// TypeArgs is the `*` projection; an empty TypeArgs means no <...>.
type TypePiece struct {
	Scratch
	Name     string
	TypeArgs []*Type
	Loc      Anchor
}

// NullableType is Ref followed by `?`.
type NullableType struct {
	Scratch
	Ref TypeRef
	Loc Anchor
}

// FuncType is `Receiver.(Params) -> Type`.
type FuncType struct {
	Scratch
	Receiver *Type // nil when not an extension function type
	Params   []*FuncTypeParam
	Type     *Type
	Loc      Anchor
}

// FuncTypeParam is a function type parameter, optionally named.
type FuncTypeParam struct {
	Scratch
	Name string // "" when unnamed
	Type *Type
	Loc  Anchor
}

// ParenType is a parenthesized type, carrying modifiers written inside the
// parentheses.
type ParenType struct {
	Scratch
	Mods []Modifier
	Ref  TypeRef
	Loc  Anchor
}

// DynamicType is the `dynamic` type.
type DynamicType struct {
	Scratch
	Loc Anchor
}

func (t *SimpleType) node()                        {}
func (t *SimpleType) typeRef()                     {}
func (t *SimpleType) Anchor() Anchor               { return t.Loc }
func (t *TypePiece) node()                         {}
func (t *TypePiece) Anchor() Anchor                { return t.Loc }
func (t *NullableType) node()                      {}
func (t *NullableType) typeRef()                   {}
func (t *NullableType) Anchor() Anchor             { return t.Loc }
func (t *FuncType) node()                          {}
func (t *FuncType) typeRef()                       {}
func (t *FuncType) Anchor() Anchor                 { return t.Loc }
func (t *FuncTypeParam) node()                     {}
func (t *FuncTypeParam) Anchor() Anchor            { return t.Loc }
func (t *ParenType) node()                         {}
func (t *ParenType) typeRef()                      {}
func (t *ParenType) Anchor() Anchor                { return t.Loc }
func (t *ParenType) Modifiers() []Modifier         { return t.Mods }
func (t *ParenType) Annotations() []*AnnotationSet { return annotationsOf(t.Mods) }
func (t *DynamicType) node()                       {}
func (t *DynamicType) typeRef()                    {}
func (t *DynamicType) Anchor() Anchor              { return t.Loc }

// NamedType builds an unanchored simple type from dotted names, for tooling
// that synthesizes trees.
func NamedType(names ...string) *Type {
	st := &SimpleType{}
	for _, n := range names {
		st.Pieces = append(st.Pieces, &TypePiece{Name: n})
	}
	return &Type{Ref: st}
}
