package ast

import "reflect"

// Children returns the direct children of n in source order. Absent
// optional children are skipped; trivia is never included. It panics with
// an *InvariantViolation when n is not a known variant.
func Children(n Node) []Node {
	var c collector
	switch n := n.(type) {
	case *File:
		addAll(&c, n.Anns)
		c.add(n.Pkg)
		addAll(&c, n.Imports)
		addAll(&c, n.Decls)
	case *Script:
		addAll(&c, n.Anns)
		c.add(n.Pkg)
		addAll(&c, n.Imports)
		addAll(&c, n.Stmts)
	case *Package:
		addAll(&c, n.Mods)
	case *Import:
	case *Block:
		addAll(&c, n.Stmts)
	case *DeclStmt:
		c.add(n.Decl)
	case *ExprStmt:
		c.add(n.Expr)

	// Declarations
	case *Structured:
		addAll(&c, n.Mods)
		addAll(&c, n.TypeParams)
		c.add(n.PrimaryConstructor)
		addAll(&c, n.ParentAnns)
		addAll(&c, n.Parents)
		addAll(&c, n.TypeConstraints)
		addAll(&c, n.Members)
	case *PrimaryConstructor:
		addAll(&c, n.Mods)
		addAll(&c, n.Params)
	case *CallConstructorParent:
		c.add(n.Type)
		addAll(&c, n.Args)
		c.add(n.Lambda)
	case *TypeParent:
		c.add(n.Type)
		c.add(n.By)
	case *Init:
		c.add(n.Block)
	case *Func:
		addAll(&c, n.Mods)
		addAll(&c, n.TypeParams)
		c.add(n.Receiver)
		addAll(&c, n.ParamTypeParams)
		addAll(&c, n.Params)
		c.add(n.Type)
		addAll(&c, n.TypeConstraints)
		c.add(n.Body)
	case *Param:
		addAll(&c, n.Mods)
		c.add(n.Type)
		c.add(n.Default)
	case *BlockBody:
		c.add(n.Block)
	case *ExprBody:
		c.add(n.Expr)
	case *Property:
		addAll(&c, n.Mods)
		addAll(&c, n.TypeParams)
		c.add(n.Receiver)
		addAll(&c, n.Vars)
		addAll(&c, n.TypeConstraints)
		c.add(n.Expr)
		c.add(n.Accessors)
	case *PropertyVar:
		c.add(n.Type)
	case *Accessors:
		c.add(n.First)
		c.add(n.Second)
	case *Getter:
		addAll(&c, n.Mods)
		c.add(n.Type)
		c.add(n.Body)
	case *Setter:
		addAll(&c, n.Mods)
		addAll(&c, n.ParamMods)
		c.add(n.ParamType)
		c.add(n.Body)
	case *TypeAlias:
		addAll(&c, n.Mods)
		addAll(&c, n.TypeParams)
		c.add(n.Type)
	case *Constructor:
		addAll(&c, n.Mods)
		addAll(&c, n.Params)
		c.add(n.DelegationCall)
		c.add(n.Block)
	case *DelegationCall:
		addAll(&c, n.Args)
	case *EnumEntry:
		addAll(&c, n.Mods)
		addAll(&c, n.Args)
		addAll(&c, n.Members)
	case *TypeParam:
		addAll(&c, n.Mods)
		c.add(n.Type)
	case *TypeConstraint:
		addAll(&c, n.Anns)
		c.add(n.Type)

	// Types
	case *Type:
		addAll(&c, n.Mods)
		c.add(n.Ref)
	case *SimpleType:
		addAll(&c, n.Pieces)
	case *TypePiece:
		addAll(&c, n.TypeArgs)
	case *NullableType:
		c.add(n.Ref)
	case *FuncType:
		c.add(n.Receiver)
		addAll(&c, n.Params)
		c.add(n.Type)
	case *FuncTypeParam:
		c.add(n.Type)
	case *ParenType:
		addAll(&c, n.Mods)
		c.add(n.Ref)
	case *DynamicType:

	// Expressions
	case *If:
		c.add(n.Expr)
		c.add(n.Body)
		c.add(n.ElseBody)
	case *Try:
		c.add(n.Block)
		addAll(&c, n.Catches)
		c.add(n.Finally)
	case *Catch:
		addAll(&c, n.Anns)
		c.add(n.VarType)
		c.add(n.Block)
	case *For:
		addAll(&c, n.Anns)
		addAll(&c, n.Vars)
		c.add(n.InExpr)
		c.add(n.Body)
	case *While:
		if n.DoWhile {
			c.add(n.Body)
			c.add(n.Expr)
		} else {
			c.add(n.Expr)
			c.add(n.Body)
		}
	case *BinaryOp:
		c.add(n.Lhs)
		c.add(n.Oper)
		c.add(n.Rhs)
	case *TokenOper, *InfixOper:
	case *QualifiedOp:
		c.add(n.Lhs)
		c.add(n.Oper)
		c.add(n.Rhs)
	case *Dot, *Safe:
	case *UnaryOp:
		c.add(n.Expr)
	case *TypeOp:
		c.add(n.Lhs)
		c.add(n.Rhs)
	case *CallableRef:
		c.add(n.Recv)
	case *ClassLit:
		c.add(n.Recv)
	case *ExprRecv:
		c.add(n.Expr)
	case *TypeRecv:
		c.add(n.Type)
	case *Paren:
		c.add(n.Expr)
	case *StringTmpl:
		addAll(&c, n.Elems)
	case *RegularElem, *ShortTmplElem, *UnicodeEscElem, *RegularEscElem:
	case *LongTmplElem:
		c.add(n.Expr)
	case *Const:
	case *Brace:
		addAll(&c, n.Params)
		c.add(n.Block)
	case *BraceParam:
		addAll(&c, n.Vars)
		c.add(n.DestructType)
	case *This:
	case *Super:
		c.add(n.TypeArg)
	case *When:
		c.add(n.Expr)
		addAll(&c, n.Entries)
	case *WhenEntry:
		addAll(&c, n.Conds)
		c.add(n.Body)
	case *ExprCond:
		c.add(n.Expr)
	case *InCond:
		c.add(n.Expr)
	case *IsCond:
		c.add(n.Type)
	case *Object:
		addAll(&c, n.Parents)
		addAll(&c, n.Members)
	case *Throw:
		c.add(n.Expr)
	case *Return:
		c.add(n.Expr)
	case *Continue, *Break:
	case *CollLit:
		addAll(&c, n.Exprs)
	case *Name:
	case *Labeled:
		c.add(n.Expr)
	case *Annotated:
		addAll(&c, n.Anns)
		c.add(n.Expr)
	case *Call:
		c.add(n.Expr)
		addAll(&c, n.TypeArgs)
		addAll(&c, n.Args)
		c.add(n.Lambda)
	case *TrailLambda:
		addAll(&c, n.Anns)
		c.add(n.Func)
	case *ValueArg:
		c.add(n.Expr)
	case *ArrayAccess:
		c.add(n.Expr)
		addAll(&c, n.Indices)
	case *AnonFunc:
		c.add(n.Func)
	case *PropertyExpr:
		c.add(n.Decl)

	// Modifiers
	case *AnnotationSet:
		addAll(&c, n.Anns)
	case *Annotation:
		addAll(&c, n.TypeArgs)
		addAll(&c, n.Args)
	case *KeywordModifier:

	default:
		panic(Violation(n, "unknown node variant %T", n))
	}
	return c.nodes
}

// Inspect traverses the tree rooted at n in pre-order. If f returns false,
// the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

type collector struct {
	nodes []Node
}

func (c *collector) add(n Node) {
	if !isNil(n) {
		c.nodes = append(c.nodes, n)
	}
}

func addAll[T Node](c *collector, list []T) {
	for _, n := range list {
		c.add(n)
	}
}

// isNil reports whether n is a nil interface or holds a nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
