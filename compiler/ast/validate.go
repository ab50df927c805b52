package ast

// Validate checks the structural invariants of the tree rooted at n and
// returns the first *InvariantViolation found, or nil.
//
// Checked: every anchored node uses a production legal for its kind, child
// anchors lie within their parent's, dual anchors agree with the node's
// shape, and the field-level rules documented on each node hold.
func Validate(n Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(*InvariantViolation)
			if !ok {
				panic(r)
			}
			err = v
		}
	}()
	validateNode(n, nil)
	return nil
}

func validateNode(n Node, parent Node) {
	checkAnchor(n)
	if parent != nil {
		checkContainment(parent, n)
	}
	checkShape(n)
	for _, child := range Children(n) {
		validateNode(child, n)
	}
}

func checkAnchor(n Node) {
	a := n.Anchor()
	if a.Synthesized() {
		return
	}
	legal := legalProductions(n)
	if legal == nil {
		// derived anchor, checked through the node it is derived from
		return
	}
	for _, p := range legal {
		if a.Prod == p {
			return
		}
	}
	panic(Violation(n, "production %q is not legal here", a.Prod))
}

func checkContainment(parent, child Node) {
	pa, ca := parent.Anchor(), child.Anchor()
	if pa.Synthesized() || ca.Synthesized() || pa.Src != ca.Src {
		return
	}
	if !pa.Span.Contains(ca.Span) {
		panic(Violation(child, "anchor %d..%d escapes parent %T %d..%d",
			ca.Span.Start, ca.Span.End, parent, pa.Span.Start, pa.Span.End))
	}
}

// legalProductions returns the productions n may be anchored at, or nil
// when n derives its anchor from a child.
func legalProductions(n Node) []Production {
	switch n := n.(type) {
	case *File:
		return []Production{ProdFile}
	case *Script:
		return []Production{ProdScript}
	case *Package:
		return []Production{ProdPackageDirective}
	case *Import:
		return []Production{ProdImportDirective}
	case *Block:
		return []Production{ProdBlock}
	case *Structured:
		if n.Form == FormObject || n.Form == FormCompanionObject {
			return []Production{ProdObjectDeclaration}
		}
		return []Production{ProdClass}
	case *PrimaryConstructor:
		return []Production{ProdPrimaryConstructor}
	case *CallConstructorParent:
		return []Production{ProdSuperTypeCallEntry}
	case *TypeParent:
		if n.By != nil {
			return []Production{ProdDelegatedSuperTypeEntry}
		}
		return []Production{ProdSuperTypeEntry}
	case *Init:
		return []Production{ProdClassInitializer}
	case *Func:
		return []Production{ProdNamedFunction}
	case *Param:
		return []Production{ProdParameter}
	case *Property:
		switch n.Loc.(type) {
		case Left:
			return []Production{ProdProperty}
		case Right:
			return []Production{ProdDestructuringDeclaration}
		}
		return []Production{ProdProperty, ProdDestructuringDeclaration}
	case *PropertyVar:
		return []Production{ProdVariable, ProdDestructuringEntry}
	case *Accessors:
		return []Production{ProdPropertyAccessors}
	case *Getter, *Setter:
		return []Production{ProdPropertyAccessor}
	case *TypeAlias:
		return []Production{ProdTypeAlias}
	case *Constructor:
		return []Production{ProdSecondaryConstructor}
	case *DelegationCall:
		return []Production{ProdConstructorDelegationCall}
	case *EnumEntry:
		return []Production{ProdEnumEntry}
	case *TypeParam:
		return []Production{ProdTypeParameter}
	case *TypeConstraint:
		return []Production{ProdTypeConstraint}
	case *Type:
		return []Production{ProdTypeReference, ProdTypeProjection}
	case *SimpleType, *TypePiece:
		return []Production{ProdUserType}
	case *NullableType:
		return []Production{ProdNullableType}
	case *FuncType:
		return []Production{ProdFunctionType}
	case *FuncTypeParam:
		return []Production{ProdFunctionTypeParameter}
	case *ParenType:
		return []Production{ProdParenthesizedType}
	case *DynamicType:
		return []Production{ProdDynamicType}
	case *ValueArg:
		return []Production{ProdValueArgument}
	case *If:
		return []Production{ProdIfExpression}
	case *Try:
		return []Production{ProdTryExpression}
	case *Catch:
		return []Production{ProdCatchClause}
	case *For:
		return []Production{ProdForExpression}
	case *While:
		if n.DoWhile {
			return []Production{ProdDoWhileExpression}
		}
		return []Production{ProdWhileExpression}
	case *TokenOper, *InfixOper:
		return []Production{ProdBinaryExpression}
	case *Dot:
		return []Production{ProdDotQualifiedExpression}
	case *Safe:
		return []Production{ProdSafeQualifiedExpression}
	case *UnaryOp:
		if n.Prefix {
			return []Production{ProdPrefixExpression}
		}
		return []Production{ProdPostfixExpression}
	case *TypeOp:
		if n.Oper == OpIs || n.Oper == OpNotIs {
			return []Production{ProdIsExpression}
		}
		return []Production{ProdBinaryWithTypeRHS}
	case *CallableRef:
		return []Production{ProdCallableReference}
	case *ClassLit:
		return []Production{ProdClassLiteral}
	case *TypeRecv:
		return []Production{ProdReceiverType}
	case *Paren:
		return []Production{ProdParenthesizedExpression}
	case *StringTmpl:
		return []Production{ProdStringTemplate}
	case *RegularElem:
		return []Production{ProdLiteralStringEntry}
	case *ShortTmplElem:
		return []Production{ProdShortTemplateEntry}
	case *UnicodeEscElem, *RegularEscElem:
		return []Production{ProdEscapeStringEntry}
	case *LongTmplElem:
		return []Production{ProdLongTemplateEntry}
	case *Const:
		return []Production{ProdConstantExpression}
	case *Brace:
		return []Production{ProdLambdaExpression, ProdBlock}
	case *BraceParam:
		return []Production{ProdLambdaParameter}
	case *This:
		return []Production{ProdThisExpression}
	case *Super:
		return []Production{ProdSuperExpression}
	case *When:
		return []Production{ProdWhenExpression}
	case *WhenEntry:
		return []Production{ProdWhenEntry}
	case *ExprCond:
		return []Production{ProdWhenConditionExpression}
	case *InCond:
		return []Production{ProdWhenConditionInRange}
	case *IsCond:
		return []Production{ProdWhenConditionIsPattern}
	case *Object:
		return []Production{ProdObjectLiteral}
	case *Throw:
		return []Production{ProdThrowExpression}
	case *Return:
		return []Production{ProdReturnExpression}
	case *Continue:
		return []Production{ProdContinueExpression}
	case *Break:
		return []Production{ProdBreakExpression}
	case *CollLit:
		return []Production{ProdCollectionLiteral}
	case *Name:
		return []Production{ProdNameReference}
	case *Labeled:
		return []Production{ProdLabeledExpression}
	case *Annotated:
		return []Production{ProdAnnotatedExpression}
	case *Call:
		return []Production{ProdCallExpression}
	case *TrailLambda:
		return []Production{ProdLambdaArgument}
	case *ArrayAccess:
		return []Production{ProdArrayAccess}
	case *AnnotationSet:
		switch n.Loc.(type) {
		case Left:
			return []Production{ProdAnnotation}
		case Right:
			return []Production{ProdAnnotationEntry}
		}
		return []Production{ProdAnnotation, ProdAnnotationEntry}
	case *Annotation:
		return []Production{ProdAnnotationEntry}
	case *KeywordModifier:
		return []Production{ProdModifier}
	case *DeclStmt, *ExprStmt, *BlockBody, *ExprBody, *BinaryOp, *QualifiedOp,
		*ExprRecv, *AnonFunc, *PropertyExpr:
		return nil
	default:
		panic(Violation(n, "unknown node variant %T", n))
	}
}

// checkShape enforces the field-level rules of each node kind.
func checkShape(n Node) {
	switch n := n.(type) {
	case *File:
		noNils(n, "declaration", n.Decls)
	case *Script:
		noNils(n, "statement", n.Stmts)
	case *Package:
		if len(n.Names) == 0 {
			panic(Violation(n, "package directive without a name"))
		}
	case *Import:
		if len(n.Names) == 0 {
			panic(Violation(n, "import without a name"))
		}
	case *Block:
		noNils(n, "statement", n.Stmts)
	case *DeclStmt:
		require(n, "declaration", n.Decl)
	case *ExprStmt:
		require(n, "expression", n.Expr)
	case *Structured:
		if !n.Form.Valid() {
			panic(Violation(n, "unknown structured form %d", n.Form))
		}
		if n.Name == "" && n.Form != FormCompanionObject {
			panic(Violation(n, "%s without a name", n.Form))
		}
		noNils(n, "member", n.Members)
		noNils(n, "parent", n.Parents)
	case *CallConstructorParent:
		require(n, "type", n.Type)
	case *TypeParent:
		require(n, "type", n.Type)
	case *Init:
		require(n, "block", n.Block)
	case *Func:
		noNils(n, "parameter", n.Params)
	case *Param:
		if n.Name == "" {
			panic(Violation(n, "parameter without a name"))
		}
	case *BlockBody:
		require(n, "block", n.Block)
	case *ExprBody:
		require(n, "expression", n.Expr)
	case *Property:
		checkProperty(n)
	case *PropertyVar:
		if n.Name == "" {
			panic(Violation(n, "variable without a name"))
		}
	case *Accessors:
		require(n, "first accessor", n.First)
		if !isNil(n.Second) && sameAccessorKind(n.First, n.Second) {
			panic(Violation(n, "both accessors are %T", n.First))
		}
	case *Getter:
	case *Setter:
		if n.ParamName == "" && (len(n.ParamMods) > 0 || n.ParamType != nil) {
			panic(Violation(n, "setter parameter modifiers or type without a name"))
		}
		if n.ParamName != "" && n.Body == nil {
			panic(Violation(n, "setter parameter without a body"))
		}
	case *TypeAlias:
		require(n, "type", n.Type)
	case *DelegationCall:
		if !n.Target.Valid() {
			panic(Violation(n, "unknown delegation target %d", n.Target))
		}
	case *EnumEntry:
		if n.Name == "" {
			panic(Violation(n, "enum entry without a name"))
		}
	case *TypeParam:
		if n.Name == "" {
			panic(Violation(n, "type parameter without a name"))
		}
	case *TypeConstraint:
		require(n, "type", n.Type)
	case *Type:
		require(n, "type reference", n.Ref)
	case *SimpleType:
		if len(n.Pieces) == 0 {
			panic(Violation(n, "simple type without pieces"))
		}
		noNils(n, "piece", n.Pieces)
	case *TypePiece:
		if n.Name == "" {
			panic(Violation(n, "type piece without a name"))
		}
	case *NullableType:
		require(n, "type reference", n.Ref)
	case *FuncType:
		require(n, "return type", n.Type)
	case *FuncTypeParam:
		require(n, "type", n.Type)
	case *ParenType:
		require(n, "type reference", n.Ref)
	case *If:
		require(n, "condition", n.Expr)
		require(n, "body", n.Body)
	case *Try:
		require(n, "block", n.Block)
		if len(n.Catches) == 0 && n.Finally == nil {
			panic(Violation(n, "try without catch or finally"))
		}
	case *Catch:
		require(n, "type", n.VarType)
		require(n, "block", n.Block)
	case *For:
		checkVars(n, n.Vars, n.Destructured)
		require(n, "iterable", n.InExpr)
		require(n, "body", n.Body)
	case *While:
		require(n, "condition", n.Expr)
		require(n, "body", n.Body)
	case *BinaryOp:
		require(n, "left operand", n.Lhs)
		require(n, "operator", n.Oper)
		require(n, "right operand", n.Rhs)
	case *TokenOper:
		if !n.Token.Valid() {
			panic(Violation(n, "unknown binary token %d", n.Token))
		}
	case *InfixOper:
		if n.Name == "" {
			panic(Violation(n, "infix operator without a name"))
		}
	case *QualifiedOp:
		require(n, "receiver", n.Lhs)
		require(n, "operator", n.Oper)
		require(n, "selector", n.Rhs)
	case *UnaryOp:
		require(n, "operand", n.Expr)
		if !n.Oper.Valid() {
			panic(Violation(n, "unknown unary token %d", n.Oper))
		}
	case *TypeOp:
		require(n, "operand", n.Lhs)
		require(n, "type", n.Rhs)
		if !n.Oper.Valid() {
			panic(Violation(n, "unknown type token %d", n.Oper))
		}
	case *CallableRef:
		if n.Name == "" {
			panic(Violation(n, "callable reference without a name"))
		}
	case *ExprRecv:
		require(n, "expression", n.Expr)
	case *TypeRecv:
		require(n, "type", n.Type)
	case *Paren:
		require(n, "expression", n.Expr)
	case *StringTmpl:
		noNils(n, "element", n.Elems)
		if n.Raw {
			for _, e := range n.Elems {
				switch e.(type) {
				case *UnicodeEscElem, *RegularEscElem:
					panic(Violation(n, "escape in raw string"))
				}
			}
		}
	case *LongTmplElem:
		require(n, "expression", n.Expr)
	case *UnicodeEscElem:
		if len(n.Digits) != 4 {
			panic(Violation(n, "unicode escape needs four hex digits, got %q", n.Digits))
		}
	case *Brace:
		require(n, "block", n.Block)
		noNils(n, "parameter", n.Params)
	case *BraceParam:
		if len(n.Vars) == 0 {
			panic(Violation(n, "lambda parameter without variables"))
		}
		if !n.Destructured && len(n.Vars) != 1 {
			panic(Violation(n, "%d variables in a non-destructured parameter", len(n.Vars)))
		}
	case *When:
		noNils(n, "entry", n.Entries)
		for i, e := range n.Entries {
			if len(e.Conds) == 0 && i != len(n.Entries)-1 {
				panic(Violation(n, "else branch is not last"))
			}
		}
	case *WhenEntry:
		require(n, "body", n.Body)
		noNils(n, "condition", n.Conds)
	case *ExprCond:
		require(n, "expression", n.Expr)
	case *InCond:
		require(n, "expression", n.Expr)
	case *IsCond:
		require(n, "type", n.Type)
	case *Throw:
		require(n, "expression", n.Expr)
	case *Name:
		if n.Name == "" {
			panic(Violation(n, "empty name"))
		}
	case *Labeled:
		if n.Label == "" {
			panic(Violation(n, "empty label"))
		}
		require(n, "expression", n.Expr)
	case *Annotated:
		if len(n.Anns) == 0 {
			panic(Violation(n, "annotated expression without annotations"))
		}
		require(n, "expression", n.Expr)
	case *Call:
		require(n, "callee", n.Expr)
		noNils(n, "argument", n.Args)
		if n.EmptyParens && (len(n.Args) > 0 || n.Lambda == nil) {
			panic(Violation(n, "empty parentheses flag needs a trailing lambda and no arguments"))
		}
	case *TrailLambda:
		require(n, "lambda", n.Func)
	case *ValueArg:
		require(n, "expression", n.Expr)
	case *ArrayAccess:
		require(n, "expression", n.Expr)
		if len(n.Indices) == 0 {
			panic(Violation(n, "array access without indices"))
		}
	case *AnonFunc:
		require(n, "function", n.Func)
		if n.Func.Name != "" {
			panic(Violation(n, "anonymous function named %q", n.Func.Name))
		}
	case *PropertyExpr:
		require(n, "property", n.Decl)
	case *AnnotationSet:
		if len(n.Anns) == 0 {
			panic(Violation(n, "empty annotation set"))
		}
		if _, ok := n.Loc.(Right); ok && len(n.Anns) != 1 {
			panic(Violation(n, "single annotation entry holds %d annotations", len(n.Anns)))
		}
		if !n.Target.Valid() {
			panic(Violation(n, "unknown annotation target %d", n.Target))
		}
	case *Annotation:
		if len(n.Names) == 0 {
			panic(Violation(n, "annotation without a name"))
		}
	case *KeywordModifier:
		if !n.Keyword.Valid() {
			panic(Violation(n, "unknown modifier keyword %d", n.Keyword))
		}
	}
}

func checkProperty(n *Property) {
	checkVars(n, n.Vars, n.Destructured)
	switch n.Loc.(type) {
	case Left:
		if n.Destructured {
			panic(Violation(n, "destructuring declaration anchored as a property"))
		}
	case Right:
		if !n.Destructured {
			panic(Violation(n, "property anchored as a destructuring declaration"))
		}
	}
	if n.Destructured && n.Accessors != nil {
		panic(Violation(n, "destructuring declaration with accessors"))
	}
	if n.Delegated && n.Expr == nil {
		panic(Violation(n, "delegated property without a delegate"))
	}
}

// checkVars enforces the var-list rule shared by properties and loops:
// more than one var, or a nil placeholder, needs a destructuring list.
func checkVars(n Node, vars []*PropertyVar, destructured bool) {
	if len(vars) == 0 {
		panic(Violation(n, "no variables declared"))
	}
	if destructured {
		return
	}
	if len(vars) > 1 {
		panic(Violation(n, "%d variables without destructuring", len(vars)))
	}
	if vars[0] == nil {
		panic(Violation(n, "placeholder outside a destructuring declaration"))
	}
}

func sameAccessorKind(a, b Accessor) bool {
	_, aGet := a.(*Getter)
	_, bGet := b.(*Getter)
	return aGet == bGet
}

func require(parent Node, what string, child Node) {
	if isNil(child) {
		panic(Violation(parent, "missing %s", what))
	}
}

func noNils[T Node](parent Node, what string, list []T) {
	for i, n := range list {
		if isNil(n) {
			panic(Violation(parent, "nil %s at index %d", what, i))
		}
	}
}
