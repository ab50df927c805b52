package ast

// Decl is the closed set of declarations.
type Decl interface {
	Node
	declNode()
}

// StructuredForm discriminates the kinds of Structured declarations.
type StructuredForm int

const (
	FormClass StructuredForm = iota
	FormEnumClass
	FormInterface
	FormObject
	FormCompanionObject
	FormFunInterface
)

var formNames = [...]string{
	FormClass:           "class",
	FormEnumClass:       "enum class",
	FormInterface:       "interface",
	FormObject:          "object",
	FormCompanionObject: "companion object",
	FormFunInterface:    "fun interface",
}

func (f StructuredForm) Valid() bool { return f >= 0 && int(f) < len(formNames) }

func (f StructuredForm) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return formNames[f]
}

// Structured is a class-like declaration. Form says which keywords
// introduce it.
type Structured struct {
	Scratch
	Mods               []Modifier
	Form               StructuredForm
	Name               string              // "" only for an unnamed companion object
	TypeParams         []*TypeParam
	PrimaryConstructor *PrimaryConstructor // nil when none is written
	ParentAnns         []*AnnotationSet    // annotations directly after the colon
	Parents            []Parent
	TypeConstraints    []*TypeConstraint
	Members            []Decl
	Loc                Anchor
}

// PrimaryConstructor is the parameter list after a class name, with its
// optional `constructor` keyword modifiers.
type PrimaryConstructor struct {
	Scratch
	Mods   []Modifier
	Params []*Param
	Loc    Anchor
}

// Parent is a single supertype entry.
type Parent interface {
	Node
	parentNode()
}

// CallConstructorParent is a supertype invoked with a constructor call.
type CallConstructorParent struct {
	Scratch
	Type   *SimpleType
	Args   []*ValueArg
	Lambda *TrailLambda // nil when no trailing lambda is written
	Loc    Anchor
}

// TypeParent is a supertype named without a call, optionally delegated.
type TypeParent struct {
	Scratch
	Type *SimpleType
	By   Expr // nil when not delegated with `by`
	Loc  Anchor
}

// Init is an `init { }` block.
type Init struct {
	Scratch
	Block *Block
	Loc   Anchor
}

// Func is a named or anonymous function.
type Func struct {
	Scratch
	Mods            []Modifier
	TypeParams      []*TypeParam
	Receiver        *Type  // nil when not an extension
	Name            string // "" for anonymous functions
	ParamTypeParams []*TypeParam
	Params          []*Param
	Type            *Type // nil when the return type is not written
	TypeConstraints []*TypeConstraint
	Body            FuncBody // nil for abstract and interface declarations
	Loc             Anchor
}

// Param is a function, constructor or lambda parameter.
type Param struct {
	Scratch
	Mods     []Modifier
	ReadOnly *bool  // nil for a plain parameter, true for val, false for var
	Name     string // verbatim, backticks included
	Type     *Type  // nil only where the grammar allows inference
	Default  Expr   // nil when no default value is written
	Loc      Anchor
}

// FuncBody is the body of a function or accessor.
type FuncBody interface {
	Node
	funcBody()
}

// BlockBody is a `{ }` body. Its anchor is the block's.
type BlockBody struct {
	Scratch
	Block *Block
}

// ExprBody is an `= expr` body. Its anchor is the expression's.
type ExprBody struct {
	Scratch
	Expr Expr
}

// Property is a val/var declaration or a destructuring declaration. Its
// anchor is Left for a property and Right for a destructuring declaration.
type Property struct {
	Scratch
	Mods            []Modifier
	ReadOnly        bool // val
	TypeParams      []*TypeParam
	Receiver        *Type // nil when not an extension
	Vars            []*PropertyVar
	Destructured    bool // parenthesized var list; a nil var is a `_` placeholder
	TypeConstraints []*TypeConstraint
	Delegated       bool // Expr follows `by` rather than `=`
	Expr            Expr // nil when no initializer or delegate is written
	Accessors       *Accessors
	Loc             Either
}

// PropertyVar is one name introduced by a property, loop or lambda.
type PropertyVar struct {
	Scratch
	Name string
	Type *Type // nil when inferred
	Loc  Anchor
}

// Accessors holds a property's getter and/or setter in source order.
// Second is nil when only one accessor is written and is never of the same
// kind as First.
type Accessors struct {
	Scratch
	First  Accessor
	Second Accessor
	Loc    Anchor
}

// Accessor is a getter or setter.
type Accessor interface {
	Node
	accessorNode()
}

// Getter is `get` or `get() ...`.
type Getter struct {
	Scratch
	Mods []Modifier
	Type *Type    // nil when not written
	Body FuncBody // nil for a bare `get`
	Loc  Anchor
}

// Setter is `set` or `set(value) ...`.
type Setter struct {
	Scratch
	Mods      []Modifier
	ParamMods []Modifier
	ParamName string // "" for a bare `set`
	ParamType *Type
	Body      FuncBody
	Loc       Anchor
}

// TypeAlias is `typealias Name<T> = Type`.
type TypeAlias struct {
	Scratch
	Mods       []Modifier
	Name       string
	TypeParams []*TypeParam
	Type       *Type
	Loc        Anchor
}

// Constructor is a secondary constructor.
type Constructor struct {
	Scratch
	Mods           []Modifier
	Params         []*Param
	DelegationCall *DelegationCall // nil when no `: this(...)` is written
	Block          *Block          // nil when no body is written
	Loc            Anchor
}

// DelegationTarget is the callee of a constructor delegation call.
type DelegationTarget int

const (
	DelegateThis DelegationTarget = iota
	DelegateSuper
)

func (t DelegationTarget) Valid() bool { return t == DelegateThis || t == DelegateSuper }

func (t DelegationTarget) String() string {
	switch t {
	case DelegateThis:
		return "this"
	case DelegateSuper:
		return "super"
	}
	return "unknown"
}

// DelegationCall is the `: this(...)` or `: super(...)` of a constructor.
type DelegationCall struct {
	Scratch
	Target DelegationTarget
	Args   []*ValueArg
	Loc    Anchor
}

// EnumEntry is a single enum constant.
type EnumEntry struct {
	Scratch
	Mods    []Modifier
	Name    string
	Args    []*ValueArg
	Members []Decl
	Loc     Anchor
}

// TypeParam is a declared type parameter.
type TypeParam struct {
	Scratch
	Mods []Modifier
	Name string
	Type *Type // upper bound, nil when unbounded
	Loc  Anchor
}

// TypeConstraint is one `where T : Bound` clause.
type TypeConstraint struct {
	Scratch
	Anns []*AnnotationSet
	Name string
	Type *Type
	Loc  Anchor
}

func (d *Structured) node()                     {}
func (d *Structured) declNode()                 {}
func (d *Structured) Anchor() Anchor            { return d.Loc }
func (d *Init) node()                           {}
func (d *Init) declNode()                       {}
func (d *Init) Anchor() Anchor                  { return d.Loc }
func (d *Func) node()                           {}
func (d *Func) declNode()                       {}
func (d *Func) Anchor() Anchor                  { return d.Loc }
func (d *Property) node()                       {}
func (d *Property) declNode()                   {}
func (d *Property) Anchor() Anchor              { return eitherAnchor(d.Loc) }
func (d *TypeAlias) node()                      {}
func (d *TypeAlias) declNode()                  {}
func (d *TypeAlias) Anchor() Anchor             { return d.Loc }
func (d *Constructor) node()                    {}
func (d *Constructor) declNode()                {}
func (d *Constructor) Anchor() Anchor           { return d.Loc }
func (d *EnumEntry) node()                      {}
func (d *EnumEntry) declNode()                  {}
func (d *EnumEntry) Anchor() Anchor             { return d.Loc }
func (n *PrimaryConstructor) node()             {}
func (n *PrimaryConstructor) Anchor() Anchor    { return n.Loc }
func (n *CallConstructorParent) node()          {}
func (n *CallConstructorParent) parentNode()    {}
func (n *CallConstructorParent) Anchor() Anchor { return n.Loc }
func (n *TypeParent) node()                     {}
func (n *TypeParent) parentNode()               {}
func (n *TypeParent) Anchor() Anchor            { return n.Loc }
func (n *Param) node()                          {}
func (n *Param) Anchor() Anchor                 { return n.Loc }
func (n *BlockBody) node()                      {}
func (n *BlockBody) funcBody()                  {}
func (n *BlockBody) Anchor() Anchor             { return anchorOf(n.Block) }
func (n *ExprBody) node()                       {}
func (n *ExprBody) funcBody()                   {}
func (n *ExprBody) Anchor() Anchor              { return anchorOf(n.Expr) }
func (n *PropertyVar) node()                    {}
func (n *PropertyVar) Anchor() Anchor           { return n.Loc }
func (n *Accessors) node()                      {}
func (n *Accessors) Anchor() Anchor             { return n.Loc }
func (n *Getter) node()                         {}
func (n *Getter) accessorNode()                 {}
func (n *Getter) Anchor() Anchor                { return n.Loc }
func (n *Setter) node()                         {}
func (n *Setter) accessorNode()                 {}
func (n *Setter) Anchor() Anchor                { return n.Loc }
func (n *DelegationCall) node()                 {}
func (n *DelegationCall) Anchor() Anchor        { return n.Loc }
func (n *TypeParam) node()                      {}
func (n *TypeParam) Anchor() Anchor             { return n.Loc }
func (n *TypeConstraint) node()                 {}
func (n *TypeConstraint) Anchor() Anchor        { return n.Loc }

func (d *Structured) Modifiers() []Modifier          { return d.Mods }
func (d *Structured) Annotations() []*AnnotationSet  { return annotationsOf(d.Mods) }
func (d *Func) Modifiers() []Modifier                { return d.Mods }
func (d *Func) Annotations() []*AnnotationSet        { return annotationsOf(d.Mods) }
func (d *Property) Modifiers() []Modifier            { return d.Mods }
func (d *Property) Annotations() []*AnnotationSet    { return annotationsOf(d.Mods) }
func (d *TypeAlias) Modifiers() []Modifier           { return d.Mods }
func (d *TypeAlias) Annotations() []*AnnotationSet   { return annotationsOf(d.Mods) }
func (d *Constructor) Modifiers() []Modifier         { return d.Mods }
func (d *Constructor) Annotations() []*AnnotationSet { return annotationsOf(d.Mods) }
func (d *EnumEntry) Modifiers() []Modifier           { return d.Mods }
func (d *EnumEntry) Annotations() []*AnnotationSet   { return annotationsOf(d.Mods) }
func (n *PrimaryConstructor) Modifiers() []Modifier  { return n.Mods }
func (n *PrimaryConstructor) Annotations() []*AnnotationSet {
	return annotationsOf(n.Mods)
}
func (n *Param) Modifiers() []Modifier                  { return n.Mods }
func (n *Param) Annotations() []*AnnotationSet          { return annotationsOf(n.Mods) }
func (n *Getter) Modifiers() []Modifier                 { return n.Mods }
func (n *Getter) Annotations() []*AnnotationSet         { return annotationsOf(n.Mods) }
func (n *Setter) Modifiers() []Modifier                 { return n.Mods }
func (n *Setter) Annotations() []*AnnotationSet         { return annotationsOf(n.Mods) }
func (n *TypeParam) Modifiers() []Modifier              { return n.Mods }
func (n *TypeParam) Annotations() []*AnnotationSet      { return annotationsOf(n.Mods) }
func (n *TypeConstraint) Annotations() []*AnnotationSet { return n.Anns }

// Bool returns a pointer to b, for building Param.ReadOnly.
func Bool(b bool) *bool { return &b }
