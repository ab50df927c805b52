package ast

// Expr is the closed set of expressions.
type Expr interface {
	Node
	exprNode()
}

// If is `if (Expr) Body else ElseBody`.
type If struct {
	Scratch
	Expr     Expr
	Body     Expr
	ElseBody Expr // nil when no else branch is written
	Loc      Anchor
}

// Try is `try { } catch (...) { } finally { }`.
type Try struct {
	Scratch
	Block   *Block
	Catches []*Catch
	Finally *Block // nil when no finally block is written
	Loc     Anchor
}

// Catch is one catch clause of a Try.
type Catch struct {
	Scratch
	Anns    []*AnnotationSet
	VarName string
	VarType *Type
	Block   *Block
	Loc     Anchor
}

// For is `for (Vars in InExpr) Body`.
type For struct {
	Scratch
	Anns         []*AnnotationSet
	Vars         []*PropertyVar // a nil var is a `_` placeholder
	Destructured bool
	InExpr       Expr
	Body         Expr
	Loc          Anchor
}

// While is a while or do-while loop.
type While struct {
	Scratch
	Expr    Expr
	Body    Expr
	DoWhile bool
	Loc     Anchor
}

// BinaryOp is a binary operation. Its anchor is the operator's, which
// covers the whole binary expression.
type BinaryOp struct {
	Scratch
	Lhs  Expr
	Oper BinaryOper
	Rhs  Expr
}

// BinaryOper is a token operator or a named infix function.
type BinaryOper interface {
	Node
	binaryOper()
}

// TokenOper is a built-in binary operator.
type TokenOper struct {
	Scratch
	Token BinaryToken
	Loc   Anchor
}

// InfixOper is a call of an infix function, such as `a shl 2`.
type InfixOper struct {
	Scratch
	Name string
	Loc  Anchor
}

// QualifiedOp is member access. Its anchor is the operator's.
type QualifiedOp struct {
	Scratch
	Lhs  Expr
	Oper QualifiedOper
	Rhs  Expr
}

// QualifiedOper is `.` or `?.`. The two are distinct productions.
type QualifiedOper interface {
	Node
	qualifiedOper()
}

// Dot is the plain member access operator.
type Dot struct {
	Scratch
	Loc Anchor
}

// Safe is the safe navigation operator `?.`.
type Safe struct {
	Scratch
	Loc Anchor
}

// UnaryOp is a prefix or postfix operation.
type UnaryOp struct {
	Scratch
	Expr   Expr
	Oper   UnaryToken
	Prefix bool
	Loc    Anchor
}

// TypeOp is `as`, `as?`, `is` or `!is`.
type TypeOp struct {
	Scratch
	Lhs  Expr
	Oper TypeToken
	Rhs  *Type
	Loc  Anchor
}

// DoubleColonRef is a `::` reference.
type DoubleColonRef interface {
	Expr
	doubleColonRef()
}

// CallableRef is `Recv::name`.
type CallableRef struct {
	Scratch
	Recv DoubleColonRecv // nil when no receiver is written
	Name string
	Loc  Anchor
}

// ClassLit is `Recv::class`.
type ClassLit struct {
	Scratch
	Recv DoubleColonRecv // nil when no receiver is written
	Loc  Anchor
}

// DoubleColonRecv is the receiver of a `::` reference.
type DoubleColonRecv interface {
	Node
	doubleColonRecv()
}

// ExprRecv is an expression receiver. Its anchor is the expression's.
type ExprRecv struct {
	Scratch
	Expr Expr
}

// TypeRecv is a type receiver such as List<String>?::class.
type TypeRecv struct {
	Scratch
	Type          *SimpleType
	QuestionMarks int
	Loc           Anchor
}

// Paren is a parenthesized expression.
type Paren struct {
	Scratch
	Expr Expr
	Loc  Anchor
}

// StringTmpl is a string literal with its elements.
type StringTmpl struct {
	Scratch
	Elems []StringElem
	Raw   bool // triple-quoted
	Loc   Anchor
}

// StringElem is one element of a string template.
type StringElem interface {
	Node
	stringElem()
}

// RegularElem is literal text.
type RegularElem struct {
	Scratch
	Str string
	Loc Anchor
}

// ShortTmplElem is `$name`.
type ShortTmplElem struct {
	Scratch
	Name string
	Loc  Anchor
}

// UnicodeEscElem is `\uXXXX`; Digits holds the four hex digits.
type UnicodeEscElem struct {
	Scratch
	Digits string
	Loc    Anchor
}

// RegularEscElem is a character escape such as `\n`; Char holds the
// decoded character.
type RegularEscElem struct {
	Scratch
	Char rune
	Loc  Anchor
}

// LongTmplElem is `${expr}`.
type LongTmplElem struct {
	Scratch
	Expr Expr
	Loc  Anchor
}

// ConstForm discriminates constant literals.
type ConstForm int

const (
	ConstBoolean ConstForm = iota
	ConstChar
	ConstInt
	ConstFloat
	ConstNull
)

func (f ConstForm) String() string {
	switch f {
	case ConstBoolean:
		return "boolean"
	case ConstChar:
		return "char"
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstNull:
		return "null"
	default:
		return "unknown"
	}
}

// Const is a literal constant. Value is the verbatim source text, so
// 0x1F, 1_000L and 'a' keep their spelling.
type Const struct {
	Scratch
	Value string
	Form  ConstForm
	Loc   Anchor
}

// Brace is a lambda literal, or a braced body of a control structure.
type Brace struct {
	Scratch
	Params []*BraceParam // empty when no `->` is written
	Block  *Block
	Loc    Anchor
}

// BraceParam is one lambda parameter, possibly destructured.
type BraceParam struct {
	Scratch
	Vars         []*PropertyVar // a nil var is a `_` placeholder
	Destructured bool
	DestructType *Type // type of a destructured parameter, nil when not written
	Loc          Anchor
}

// This is `this` or `this@label`.
type This struct {
	Scratch
	Label string
	Loc   Anchor
}

// Super is `super`, `super<T>` or `super<T>@label`.
type Super struct {
	Scratch
	TypeArg *Type // nil when no <T> is written
	Label   string
	Loc     Anchor
}

// When is a when expression.
type When struct {
	Scratch
	Expr    Expr // nil when there is no subject
	Entries []*WhenEntry
	Loc     Anchor
}

// WhenEntry is one branch of a When. Empty Conds is the else branch.
type WhenEntry struct {
	Scratch
	Conds []WhenCond
	Body  Expr
	Loc   Anchor
}

// WhenCond is a single condition of a when entry.
type WhenCond interface {
	Node
	whenCond()
}

// ExprCond matches by equality.
type ExprCond struct {
	Scratch
	Expr Expr
	Loc  Anchor
}

// InCond matches by range membership.
type InCond struct {
	Scratch
	Expr Expr
	Not  bool
	Loc  Anchor
}

// IsCond matches by type test.
type IsCond struct {
	Scratch
	Type *Type
	Not  bool
	Loc  Anchor
}

// Object is an object literal `object : Parents { Members }`.
type Object struct {
	Scratch
	Parents []Parent
	Members []Decl
	Loc     Anchor
}

// Throw is `throw Expr`.
type Throw struct {
	Scratch
	Expr Expr
	Loc  Anchor
}

// Return is `return@Label Expr`.
type Return struct {
	Scratch
	Label string // "" when unlabeled
	Expr  Expr   // nil for a bare return
	Loc   Anchor
}

// Continue is `continue@Label`.
type Continue struct {
	Scratch
	Label string
	Loc   Anchor
}

// Break is `break@Label`.
type Break struct {
	Scratch
	Label string
	Loc   Anchor
}

// CollLit is a collection literal `[a, b]`, legal in annotation arguments.
type CollLit struct {
	Scratch
	Exprs []Expr
	Loc   Anchor
}

// Name is a simple name reference.
type Name struct {
	Scratch
	Name string
	Loc  Anchor
}

// Labeled is `label@ Expr`.
type Labeled struct {
	Scratch
	Label string
	Expr  Expr
	Loc   Anchor
}

// Annotated is an annotated expression.
type Annotated struct {
	Scratch
	Anns []*AnnotationSet
	Expr Expr
	Loc  Anchor
}

// Call is a call with an ordinary argument list and at most one trailing
// lambda.
type Call struct {
	Scratch
	Expr        Expr
	TypeArgs    []*Type
	Args        []*ValueArg
	EmptyParens bool         // "()" written before Lambda with no arguments
	Lambda      *TrailLambda // nil when no trailing lambda is written
	Loc         Anchor
}

// TrailLambda is a lambda passed after the argument list.
type TrailLambda struct {
	Scratch
	Anns  []*AnnotationSet
	Label string
	Func  *Brace
	Loc   Anchor
}

// ValueArg is one call argument.
type ValueArg struct {
	Scratch
	Name   string // "" for a positional argument
	Spread bool   // *array
	Expr   Expr
	Loc    Anchor
}

// ArrayAccess is `Expr[Indices]`.
type ArrayAccess struct {
	Scratch
	Expr    Expr
	Indices []Expr
	Loc     Anchor
}

// AnonFunc is an anonymous function expression. Its anchor is the
// function's.
type AnonFunc struct {
	Scratch
	Func *Func
}

// PropertyExpr is a property declared in expression position, such as a
// when subject. Its anchor is the property's.
type PropertyExpr struct {
	Scratch
	Decl *Property
}

func (e *If) node()                                  {}
func (e *If) exprNode()                              {}
func (e *If) Anchor() Anchor                         { return e.Loc }
func (e *Try) node()                                 {}
func (e *Try) exprNode()                             {}
func (e *Try) Anchor() Anchor                        { return e.Loc }
func (e *Catch) node()                               {}
func (e *Catch) Anchor() Anchor                      { return e.Loc }
func (e *For) node()                                 {}
func (e *For) exprNode()                             {}
func (e *For) Anchor() Anchor                        { return e.Loc }
func (e *While) node()                               {}
func (e *While) exprNode()                           {}
func (e *While) Anchor() Anchor                      { return e.Loc }
func (e *BinaryOp) node()                            {}
func (e *BinaryOp) exprNode()                        {}
func (e *BinaryOp) Anchor() Anchor                   { return anchorOf(e.Oper) }
func (o *TokenOper) node()                           {}
func (o *TokenOper) binaryOper()                     {}
func (o *TokenOper) Anchor() Anchor                  { return o.Loc }
func (o *InfixOper) node()                           {}
func (o *InfixOper) binaryOper()                     {}
func (o *InfixOper) Anchor() Anchor                  { return o.Loc }
func (e *QualifiedOp) node()                         {}
func (e *QualifiedOp) exprNode()                     {}
func (e *QualifiedOp) Anchor() Anchor                { return anchorOf(e.Oper) }
func (o *Dot) node()                                 {}
func (o *Dot) qualifiedOper()                        {}
func (o *Dot) Anchor() Anchor                        { return o.Loc }
func (o *Safe) node()                                {}
func (o *Safe) qualifiedOper()                       {}
func (o *Safe) Anchor() Anchor                       { return o.Loc }
func (e *UnaryOp) node()                             {}
func (e *UnaryOp) exprNode()                         {}
func (e *UnaryOp) Anchor() Anchor                    { return e.Loc }
func (e *TypeOp) node()                              {}
func (e *TypeOp) exprNode()                          {}
func (e *TypeOp) Anchor() Anchor                     { return e.Loc }
func (e *CallableRef) node()                         {}
func (e *CallableRef) exprNode()                     {}
func (e *CallableRef) doubleColonRef()               {}
func (e *CallableRef) Anchor() Anchor                { return e.Loc }
func (e *ClassLit) node()                            {}
func (e *ClassLit) exprNode()                        {}
func (e *ClassLit) doubleColonRef()                  {}
func (e *ClassLit) Anchor() Anchor                   { return e.Loc }
func (r *ExprRecv) node()                            {}
func (r *ExprRecv) doubleColonRecv()                 {}
func (r *ExprRecv) Anchor() Anchor                   { return anchorOf(r.Expr) }
func (r *TypeRecv) node()                            {}
func (r *TypeRecv) doubleColonRecv()                 {}
func (r *TypeRecv) Anchor() Anchor                   { return r.Loc }
func (e *Paren) node()                               {}
func (e *Paren) exprNode()                           {}
func (e *Paren) Anchor() Anchor                      { return e.Loc }
func (e *StringTmpl) node()                          {}
func (e *StringTmpl) exprNode()                      {}
func (e *StringTmpl) Anchor() Anchor                 { return e.Loc }
func (s *RegularElem) node()                         {}
func (s *RegularElem) stringElem()                   {}
func (s *RegularElem) Anchor() Anchor                { return s.Loc }
func (s *ShortTmplElem) node()                       {}
func (s *ShortTmplElem) stringElem()                 {}
func (s *ShortTmplElem) Anchor() Anchor              { return s.Loc }
func (s *UnicodeEscElem) node()                      {}
func (s *UnicodeEscElem) stringElem()                {}
func (s *UnicodeEscElem) Anchor() Anchor             { return s.Loc }
func (s *RegularEscElem) node()                      {}
func (s *RegularEscElem) stringElem()                {}
func (s *RegularEscElem) Anchor() Anchor             { return s.Loc }
func (s *LongTmplElem) node()                        {}
func (s *LongTmplElem) stringElem()                  {}
func (s *LongTmplElem) Anchor() Anchor               { return s.Loc }
func (e *Const) node()                               {}
func (e *Const) exprNode()                           {}
func (e *Const) Anchor() Anchor                      { return e.Loc }
func (e *Brace) node()                               {}
func (e *Brace) exprNode()                           {}
func (e *Brace) Anchor() Anchor                      { return e.Loc }
func (p *BraceParam) node()                          {}
func (p *BraceParam) Anchor() Anchor                 { return p.Loc }
func (e *This) node()                                {}
func (e *This) exprNode()                            {}
func (e *This) Anchor() Anchor                       { return e.Loc }
func (e *Super) node()                               {}
func (e *Super) exprNode()                           {}
func (e *Super) Anchor() Anchor                      { return e.Loc }
func (e *When) node()                                {}
func (e *When) exprNode()                            {}
func (e *When) Anchor() Anchor                       { return e.Loc }
func (e *WhenEntry) node()                           {}
func (e *WhenEntry) Anchor() Anchor                  { return e.Loc }
func (c *ExprCond) node()                            {}
func (c *ExprCond) whenCond()                        {}
func (c *ExprCond) Anchor() Anchor                   { return c.Loc }
func (c *InCond) node()                              {}
func (c *InCond) whenCond()                          {}
func (c *InCond) Anchor() Anchor                     { return c.Loc }
func (c *IsCond) node()                              {}
func (c *IsCond) whenCond()                          {}
func (c *IsCond) Anchor() Anchor                     { return c.Loc }
func (e *Object) node()                              {}
func (e *Object) exprNode()                          {}
func (e *Object) Anchor() Anchor                     { return e.Loc }
func (e *Throw) node()                               {}
func (e *Throw) exprNode()                           {}
func (e *Throw) Anchor() Anchor                      { return e.Loc }
func (e *Return) node()                              {}
func (e *Return) exprNode()                          {}
func (e *Return) Anchor() Anchor                     { return e.Loc }
func (e *Continue) node()                            {}
func (e *Continue) exprNode()                        {}
func (e *Continue) Anchor() Anchor                   { return e.Loc }
func (e *Break) node()                               {}
func (e *Break) exprNode()                           {}
func (e *Break) Anchor() Anchor                      { return e.Loc }
func (e *CollLit) node()                             {}
func (e *CollLit) exprNode()                         {}
func (e *CollLit) Anchor() Anchor                    { return e.Loc }
func (e *Name) node()                                {}
func (e *Name) exprNode()                            {}
func (e *Name) Anchor() Anchor                       { return e.Loc }
func (e *Labeled) node()                             {}
func (e *Labeled) exprNode()                         {}
func (e *Labeled) Anchor() Anchor                    { return e.Loc }
func (e *Annotated) node()                           {}
func (e *Annotated) exprNode()                       {}
func (e *Annotated) Anchor() Anchor                  { return e.Loc }
func (e *Annotated) Annotations() []*AnnotationSet   { return e.Anns }
func (e *Call) node()                                {}
func (e *Call) exprNode()                            {}
func (e *Call) Anchor() Anchor                       { return e.Loc }
func (l *TrailLambda) node()                         {}
func (l *TrailLambda) Anchor() Anchor                { return l.Loc }
func (l *TrailLambda) Annotations() []*AnnotationSet { return l.Anns }
func (a *ValueArg) node()                            {}
func (a *ValueArg) Anchor() Anchor                   { return a.Loc }
func (e *ArrayAccess) node()                         {}
func (e *ArrayAccess) exprNode()                     {}
func (e *ArrayAccess) Anchor() Anchor                { return e.Loc }
func (e *AnonFunc) node()                            {}
func (e *AnonFunc) exprNode()                        {}
func (e *AnonFunc) Anchor() Anchor                   { return anchorOf(e.Func) }
func (e *PropertyExpr) node()                        {}
func (e *PropertyExpr) exprNode()                    {}
func (e *PropertyExpr) Anchor() Anchor               { return anchorOf(e.Decl) }
func (c *Catch) Annotations() []*AnnotationSet       { return c.Anns }
func (e *For) Annotations() []*AnnotationSet         { return e.Anns }
