package parser

import (
	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// file parses a whole compilation unit
func (p *Parser) file() *ast.File {
	f := &ast.File{}
	f.Anns, f.Pkg, f.Imports = p.header()
	for !p.isAtEnd() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		f.Decls = append(f.Decls, p.declaration(false))
		p.endStatement()
	}
	f.Loc = p.spanAnchor(ast.ProdFile, 0, len(p.src.Text))
	return f
}

// script parses a compilation unit of top-level statements. Declarations
// among them keep their top-level forms, accessors included.
func (p *Parser) script() *ast.Script {
	s := &ast.Script{}
	s.Anns, s.Pkg, s.Imports = p.header()
	for {
		for p.match(lexer.TOKEN_SEMICOLON) {
		}
		if p.isAtEnd() {
			break
		}
		if p.atDeclaration() {
			s.Stmts = append(s.Stmts, &ast.DeclStmt{Decl: p.declaration(false)})
		} else {
			s.Stmts = append(s.Stmts, &ast.ExprStmt{Expr: p.expression()})
		}
		p.endStatement()
	}
	s.Loc = p.spanAnchor(ast.ProdScript, 0, len(p.src.Text))
	return s
}

// header parses the file annotations, package directive and imports that
// open a compilation unit
func (p *Parser) header() (anns []*ast.AnnotationSet, pkg *ast.Package, imports []*ast.Import) {
	for p.check(lexer.TOKEN_AT) && p.checkSoftAt(1, "file") && p.checkAt(2, lexer.TOKEN_COLON) {
		anns = append(anns, p.annotationSet())
	}
	pkg = p.packageDirective()
	for p.checkSoft("import") && p.checkAt(1, lexer.TOKEN_IDENTIFIER) {
		imports = append(imports, p.importDirective())
	}
	return anns, pkg, imports
}

// packageDirective parses `package a.b`, returning nil when there is none
func (p *Parser) packageDirective() *ast.Package {
	saved := p.current
	start := p.peek().Start
	var mods []ast.Modifier
	if p.check(lexer.TOKEN_AT) || p.atKeywordModifier() {
		ok := p.speculate(func() { mods = p.modifiers() })
		if !ok || !p.check(lexer.TOKEN_PACKAGE) {
			p.current = saved
			return nil
		}
	}
	if !p.match(lexer.TOKEN_PACKAGE) {
		return nil
	}
	pkg := &ast.Package{Mods: mods, Names: p.dottedNames("package name")}
	pkg.Loc = p.anchor(ast.ProdPackageDirective, start)
	p.endStatement()
	p.match(lexer.TOKEN_SEMICOLON)
	return pkg
}

// importDirective parses `import a.b.C`, `import a.b.*` or `import a.B as C`
func (p *Parser) importDirective() *ast.Import {
	start := p.advance().Start
	imp := &ast.Import{Names: []string{p.ident("import name")}}
	for p.match(lexer.TOKEN_DOT) {
		if p.match(lexer.TOKEN_STAR) {
			imp.Wildcard = true
			break
		}
		imp.Names = append(imp.Names, p.ident("import name"))
	}
	if !imp.Wildcard && p.match(lexer.TOKEN_AS) {
		imp.Alias = p.ident("import alias")
	}
	imp.Loc = p.anchor(ast.ProdImportDirective, start)
	p.endStatement()
	p.match(lexer.TOKEN_SEMICOLON)
	return imp
}

func (p *Parser) dottedNames(what string) []string {
	names := []string{p.ident(what)}
	for p.check(lexer.TOKEN_DOT) && p.checkAt(1, lexer.TOKEN_IDENTIFIER) {
		p.advance()
		names = append(names, p.advance().Lexeme)
	}
	return names
}

// declaration parses any declaration. Local declarations (inside a
// function body) cannot be constructors or initializers and never take
// property accessors.
func (p *Parser) declaration(local bool) ast.Decl {
	start := p.peek().Start
	mods := p.modifiers()

	switch {
	case p.match(lexer.TOKEN_CLASS):
		return p.structured(start, mods, ast.FormClass)
	case p.checkSoft("enum") && p.checkAt(1, lexer.TOKEN_CLASS):
		p.advance()
		p.advance()
		return p.structured(start, mods, ast.FormEnumClass)
	case p.match(lexer.TOKEN_INTERFACE):
		return p.structured(start, mods, ast.FormInterface)
	case p.match(lexer.TOKEN_OBJECT):
		return p.structured(start, mods, ast.FormObject)
	case p.checkSoft("companion") && p.checkAt(1, lexer.TOKEN_OBJECT):
		p.advance()
		p.advance()
		return p.structured(start, mods, ast.FormCompanionObject)
	case p.check(lexer.TOKEN_FUN) && p.checkAt(1, lexer.TOKEN_INTERFACE):
		p.advance()
		p.advance()
		return p.structured(start, mods, ast.FormFunInterface)
	case p.check(lexer.TOKEN_FUN):
		return p.function(start, mods, false)
	case p.check(lexer.TOKEN_VAL) || p.check(lexer.TOKEN_VAR):
		return p.property(start, mods, !local)
	case p.check(lexer.TOKEN_TYPEALIAS):
		return p.typeAlias(start, mods)
	case !local && p.checkSoft("constructor"):
		return p.secondaryConstructor(start, mods)
	case !local && len(mods) == 0 && p.checkSoft("init") && p.checkAt(1, lexer.TOKEN_LBRACE):
		p.advance()
		init := &ast.Init{Block: p.block()}
		init.Loc = p.anchor(ast.ProdClassInitializer, start)
		return init
	}

	p.fail("Expecting a top level declaration")
	return nil
}

// atDeclaration reports whether a statement starts with a declaration
func (p *Parser) atDeclaration() bool {
	saved := p.current
	defer func() { p.current = saved }()
	if !p.speculate(func() { p.modifiers() }) {
		return false
	}
	switch p.peek().Type {
	case lexer.TOKEN_CLASS, lexer.TOKEN_INTERFACE, lexer.TOKEN_TYPEALIAS,
		lexer.TOKEN_VAL, lexer.TOKEN_VAR:
		return true
	case lexer.TOKEN_OBJECT:
		return p.checkAt(1, lexer.TOKEN_IDENTIFIER)
	case lexer.TOKEN_FUN:
		return !p.checkAt(1, lexer.TOKEN_LPAREN)
	case lexer.TOKEN_IDENTIFIER:
		return p.checkSoft("enum") && p.checkAt(1, lexer.TOKEN_CLASS)
	}
	return false
}

// structured parses the rest of a class, interface or object after its
// keyword
func (p *Parser) structured(start int, mods []ast.Modifier, form ast.StructuredForm) *ast.Structured {
	s := &ast.Structured{Mods: mods, Form: form}
	if form == ast.FormCompanionObject {
		if p.sameLine(lexer.TOKEN_IDENTIFIER) {
			s.Name = p.advance().Lexeme
		}
	} else {
		s.Name = p.ident(form.String() + " name")
	}
	if p.check(lexer.TOKEN_LESS) {
		s.TypeParams = p.typeParams()
	}
	s.PrimaryConstructor = p.primaryConstructor()
	if p.match(lexer.TOKEN_COLON) {
		for p.check(lexer.TOKEN_AT) {
			s.ParentAnns = append(s.ParentAnns, p.annotationSet())
		}
		s.Parents = p.parents()
	}
	if p.checkSoft("where") {
		s.TypeConstraints = p.typeConstraints()
	}
	if p.check(lexer.TOKEN_LBRACE) {
		if form == ast.FormEnumClass {
			s.Members = p.enumBody()
		} else {
			s.Members = p.classBody()
		}
	}

	prod := ast.ProdClass
	if form == ast.FormObject || form == ast.FormCompanionObject {
		prod = ast.ProdObjectDeclaration
	}
	s.Loc = p.anchor(prod, start)
	return s
}

// primaryConstructor parses `[mods constructor](params)` after a class
// name, returning nil when there is none
func (p *Parser) primaryConstructor() *ast.PrimaryConstructor {
	if p.newlineBefore() {
		return nil
	}
	start := p.peek().Start
	var mods []ast.Modifier
	switch {
	case p.check(lexer.TOKEN_LPAREN):
	case p.check(lexer.TOKEN_AT) || p.atKeywordModifier() || p.checkSoft("constructor"):
		saved := p.current
		ok := p.speculate(func() {
			mods = p.modifiers()
			p.consumeSoft("constructor")
		})
		if !ok || !p.check(lexer.TOKEN_LPAREN) {
			p.current = saved
			return nil
		}
	default:
		return nil
	}
	pc := &ast.PrimaryConstructor{Mods: mods, Params: p.params()}
	pc.Loc = p.anchor(ast.ProdPrimaryConstructor, start)
	return pc
}

// parents parses the comma-separated supertype list
func (p *Parser) parents() []ast.Parent {
	var parents []ast.Parent
	for {
		parents = append(parents, p.parent())
		if !p.match(lexer.TOKEN_COMMA) {
			return parents
		}
	}
}

func (p *Parser) parent() ast.Parent {
	start := p.peek().Start
	st := p.simpleType(false)
	if p.sameLine(lexer.TOKEN_LPAREN) {
		cp := &ast.CallConstructorParent{Type: st, Args: p.valueArgs()}
		cp.Loc = p.anchor(ast.ProdSuperTypeCallEntry, start)
		return cp
	}
	tp := &ast.TypeParent{Type: st}
	if p.checkSoft("by") {
		p.advance()
		tp.By = p.delegateExpr()
		tp.Loc = p.anchor(ast.ProdDelegatedSuperTypeEntry, start)
		return tp
	}
	tp.Loc = p.anchor(ast.ProdSuperTypeEntry, start)
	return tp
}

// delegateExpr parses a `by` delegate of a supertype. The class body
// follows, so a brace never starts a trailing lambda here.
func (p *Parser) delegateExpr() ast.Expr {
	saved := p.noLambda
	p.noLambda = true
	defer func() { p.noLambda = saved }()
	return p.expression()
}

// classBody parses `{ members }`
func (p *Parser) classBody() []ast.Decl {
	var members []ast.Decl
	p.consume(lexer.TOKEN_LBRACE, "Expecting '{'")
	p.withNewlines(true, func() { members = p.members() })
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	return members
}

func (p *Parser) members() []ast.Decl {
	var members []ast.Decl
	for {
		for p.match(lexer.TOKEN_SEMICOLON) {
		}
		if p.check(lexer.TOKEN_RBRACE) || p.isAtEnd() {
			return members
		}
		members = append(members, p.declaration(false))
		p.endStatement()
	}
}

// enumBody parses `{ ENTRY, ENTRY; members }`
func (p *Parser) enumBody() []ast.Decl {
	var members []ast.Decl
	p.consume(lexer.TOKEN_LBRACE, "Expecting '{'")
	p.withNewlines(true, func() {
		for p.atEnumEntry() {
			members = append(members, p.enumEntry())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		p.match(lexer.TOKEN_SEMICOLON)
		members = append(members, p.members()...)
	})
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	return members
}

func (p *Parser) atEnumEntry() bool {
	saved := p.current
	defer func() { p.current = saved }()
	if !p.speculate(func() { p.modifiers() }) || !p.check(lexer.TOKEN_IDENTIFIER) {
		return false
	}
	switch p.peekAt(1).Type {
	case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACE, lexer.TOKEN_COMMA,
		lexer.TOKEN_SEMICOLON, lexer.TOKEN_RBRACE:
		return true
	}
	return false
}

func (p *Parser) enumEntry() *ast.EnumEntry {
	start := p.peek().Start
	e := &ast.EnumEntry{Mods: p.modifiers()}
	e.Name = p.ident("enum entry name")
	if p.check(lexer.TOKEN_LPAREN) {
		e.Args = p.valueArgs()
	}
	if p.check(lexer.TOKEN_LBRACE) {
		e.Members = p.classBody()
	}
	e.Loc = p.anchor(ast.ProdEnumEntry, start)
	return e
}

// function parses a named function, or an anonymous one in expression
// position
func (p *Parser) function(start int, mods []ast.Modifier, anonymous bool) *ast.Func {
	p.consume(lexer.TOKEN_FUN, "Expecting 'fun'")
	fn := &ast.Func{Mods: mods}
	if p.check(lexer.TOKEN_LESS) {
		fn.TypeParams = p.typeParams()
	}
	if !anonymous || !p.check(lexer.TOKEN_LPAREN) {
		fn.Receiver, fn.Name = p.receiverAndName(anonymous)
	}
	if p.check(lexer.TOKEN_LESS) {
		fn.ParamTypeParams = p.typeParams()
	}
	fn.Params = p.params()
	if p.match(lexer.TOKEN_COLON) {
		fn.Type = p.parseType(ast.ProdTypeReference)
	}
	if p.checkSoft("where") {
		fn.TypeConstraints = p.typeConstraints()
	}
	fn.Body = p.functionBody()
	fn.Loc = p.anchor(ast.ProdNamedFunction, start)
	return fn
}

// receiverAndName parses `Receiver.name`, or just `name`. An anonymous
// function has a receiver and no name.
func (p *Parser) receiverAndName(anonymous bool) (*ast.Type, string) {
	var recv *ast.Type
	var name string
	ok := p.speculate(func() {
		recv = p.receiverType()
		if anonymous && p.check(lexer.TOKEN_LPAREN) {
			return
		}
		name = p.ident("function name")
	})
	if ok {
		return recv, name
	}
	return nil, p.ident("function name")
}

func (p *Parser) functionBody() ast.FuncBody {
	switch {
	case p.check(lexer.TOKEN_LBRACE):
		return &ast.BlockBody{Block: p.block()}
	case p.match(lexer.TOKEN_EQUAL):
		return &ast.ExprBody{Expr: p.expression()}
	}
	return nil
}

// params parses a parenthesized parameter list
func (p *Parser) params() []*ast.Param {
	var params []*ast.Param
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_RPAREN) {
			params = append(params, p.param())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	return params
}

func (p *Parser) param() *ast.Param {
	start := p.peek().Start
	prm := &ast.Param{Mods: p.modifiers()}
	switch {
	case p.match(lexer.TOKEN_VAL):
		prm.ReadOnly = ast.Bool(true)
	case p.match(lexer.TOKEN_VAR):
		prm.ReadOnly = ast.Bool(false)
	}
	prm.Name = p.ident("parameter name")
	if p.match(lexer.TOKEN_COLON) {
		prm.Type = p.parseType(ast.ProdTypeReference)
	}
	if p.match(lexer.TOKEN_EQUAL) {
		prm.Default = p.expression()
	}
	prm.Loc = p.anchor(ast.ProdParameter, start)
	return prm
}

// property parses a val/var declaration or a destructuring declaration
func (p *Parser) property(start int, mods []ast.Modifier, accessors bool) *ast.Property {
	prop := &ast.Property{Mods: mods}
	prop.ReadOnly = p.advance().Type == lexer.TOKEN_VAL
	if p.check(lexer.TOKEN_LESS) {
		prop.TypeParams = p.typeParams()
	}
	if p.check(lexer.TOKEN_LPAREN) {
		prop.Destructured = true
		prop.Vars = p.destructuringVars()
	} else {
		prop.Receiver = p.propertyReceiver()
		prop.Vars = []*ast.PropertyVar{p.propertyVar()}
	}
	if p.checkSoft("where") {
		prop.TypeConstraints = p.typeConstraints()
	}
	switch {
	case p.match(lexer.TOKEN_EQUAL):
		prop.Expr = p.expression()
	case p.checkSoft("by"):
		p.advance()
		prop.Delegated = true
		prop.Expr = p.expression()
	}
	if accessors && !prop.Destructured {
		prop.Accessors = p.accessors()
	}

	if prop.Destructured {
		prop.Loc = ast.Right{Loc: p.anchor(ast.ProdDestructuringDeclaration, start)}
	} else {
		prop.Loc = ast.Left{Loc: p.anchor(ast.ProdProperty, start)}
	}
	return prop
}

// propertyReceiver parses the `Receiver.` of an extension property,
// returning nil when the property has none
func (p *Parser) propertyReceiver() *ast.Type {
	var recv *ast.Type
	ok := p.speculate(func() {
		recv = p.receiverType()
		if !p.check(lexer.TOKEN_IDENTIFIER) {
			p.fail("Expecting property name")
		}
	})
	if !ok {
		return nil
	}
	return recv
}

// propertyVar parses `name` or `name: Type`
func (p *Parser) propertyVar() *ast.PropertyVar {
	start := p.peek().Start
	v := &ast.PropertyVar{Name: p.ident("variable name")}
	if p.match(lexer.TOKEN_COLON) {
		v.Type = p.parseType(ast.ProdTypeReference)
	}
	v.Loc = p.anchor(ast.ProdVariable, start)
	return v
}

// destructuringVars parses `(a, _, c: Int)`. An untyped `_` becomes a nil
// placeholder.
func (p *Parser) destructuringVars() []*ast.PropertyVar {
	var vars []*ast.PropertyVar
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_RPAREN) {
			start := p.peek().Start
			name := p.ident("variable name")
			if name == "_" && !p.check(lexer.TOKEN_COLON) {
				vars = append(vars, nil)
			} else {
				v := &ast.PropertyVar{Name: name}
				if p.match(lexer.TOKEN_COLON) {
					v.Type = p.parseType(ast.ProdTypeReference)
				}
				v.Loc = p.anchor(ast.ProdDestructuringEntry, start)
				vars = append(vars, v)
			}
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	return vars
}

// accessors parses a getter and/or setter following a property
func (p *Parser) accessors() *ast.Accessors {
	first := p.accessor(nil)
	if first == nil {
		return nil
	}
	acc := &ast.Accessors{First: first}
	acc.Second = p.accessor(first)
	acc.Loc = p.anchor(ast.ProdPropertyAccessors, first.Anchor().Span.Start)
	return acc
}

// accessor parses one accessor of the kind not already seen, or restores
// the position and returns nil
func (p *Parser) accessor(seen ast.Accessor) ast.Accessor {
	saved := p.current
	start := p.peek().Start
	var mods []ast.Modifier
	if !p.speculate(func() { mods = p.modifiers() }) {
		return nil
	}
	_, seenGetter := seen.(*ast.Getter)
	_, seenSetter := seen.(*ast.Setter)
	switch {
	case p.checkSoft("get") && !seenGetter && p.accessorFollows():
		return p.getter(start, mods)
	case p.checkSoft("set") && !seenSetter && p.accessorFollows():
		return p.setter(start, mods)
	}
	p.current = saved
	return nil
}

// accessorFollows reports whether the current get/set keyword is an
// accessor rather than the start of something else
func (p *Parser) accessorFollows() bool {
	next := p.current + 1
	switch p.peekAt(1).Type {
	case lexer.TOKEN_LPAREN, lexer.TOKEN_SEMICOLON, lexer.TOKEN_RBRACE, lexer.TOKEN_EOF:
		return true
	}
	return next < len(p.nlBefore) && p.nlBefore[next]
}

func (p *Parser) getter(start int, mods []ast.Modifier) *ast.Getter {
	p.advance()
	g := &ast.Getter{Mods: mods}
	if p.sameLine(lexer.TOKEN_LPAREN) {
		p.advance()
		p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
		if p.match(lexer.TOKEN_COLON) {
			g.Type = p.parseType(ast.ProdTypeReference)
		}
		g.Body = p.functionBody()
		if g.Body == nil {
			p.fail("Expecting getter body")
		}
	}
	g.Loc = p.anchor(ast.ProdPropertyAccessor, start)
	return g
}

func (p *Parser) setter(start int, mods []ast.Modifier) *ast.Setter {
	p.advance()
	s := &ast.Setter{Mods: mods}
	if p.sameLine(lexer.TOKEN_LPAREN) {
		p.advance()
		p.withNewlines(false, func() {
			s.ParamMods = p.modifiers()
			s.ParamName = p.ident("setter parameter name")
			if p.match(lexer.TOKEN_COLON) {
				s.ParamType = p.parseType(ast.ProdTypeReference)
			}
		})
		p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
		s.Body = p.functionBody()
		if s.Body == nil {
			p.fail("Expecting setter body")
		}
	}
	s.Loc = p.anchor(ast.ProdPropertyAccessor, start)
	return s
}

func (p *Parser) typeAlias(start int, mods []ast.Modifier) *ast.TypeAlias {
	p.advance()
	ta := &ast.TypeAlias{Mods: mods, Name: p.ident("type alias name")}
	if p.check(lexer.TOKEN_LESS) {
		ta.TypeParams = p.typeParams()
	}
	p.consume(lexer.TOKEN_EQUAL, "Expecting '='")
	ta.Type = p.parseType(ast.ProdTypeReference)
	ta.Loc = p.anchor(ast.ProdTypeAlias, start)
	return ta
}

func (p *Parser) secondaryConstructor(start int, mods []ast.Modifier) *ast.Constructor {
	p.advance()
	c := &ast.Constructor{Mods: mods, Params: p.params()}
	if p.match(lexer.TOKEN_COLON) {
		dstart := p.peek().Start
		dc := &ast.DelegationCall{}
		switch {
		case p.match(lexer.TOKEN_THIS):
			dc.Target = ast.DelegateThis
		case p.match(lexer.TOKEN_SUPER):
			dc.Target = ast.DelegateSuper
		default:
			p.fail("Expecting 'this' or 'super'")
		}
		dc.Args = p.valueArgs()
		dc.Loc = p.anchor(ast.ProdConstructorDelegationCall, dstart)
		c.DelegationCall = dc
	}
	if p.check(lexer.TOKEN_LBRACE) {
		c.Block = p.block()
	}
	c.Loc = p.anchor(ast.ProdSecondaryConstructor, start)
	return c
}

// typeParams parses `<T, out U : Bound>`
func (p *Parser) typeParams() []*ast.TypeParam {
	var params []*ast.TypeParam
	p.consume(lexer.TOKEN_LESS, "Expecting '<'")
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_GREATER) {
			start := p.peek().Start
			tp := &ast.TypeParam{Mods: p.modifierList(true)}
			tp.Name = p.ident("type parameter name")
			if p.match(lexer.TOKEN_COLON) {
				tp.Type = p.parseType(ast.ProdTypeReference)
			}
			tp.Loc = p.anchor(ast.ProdTypeParameter, start)
			params = append(params, tp)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_GREATER, "Expecting '>'")
	return params
}

// typeConstraints parses `where T : A, U : B`
func (p *Parser) typeConstraints() []*ast.TypeConstraint {
	var constraints []*ast.TypeConstraint
	p.consumeSoft("where")
	for {
		start := p.peek().Start
		tc := &ast.TypeConstraint{}
		for p.check(lexer.TOKEN_AT) {
			tc.Anns = append(tc.Anns, p.annotationSet())
		}
		tc.Name = p.ident("type parameter name")
		p.consume(lexer.TOKEN_COLON, "Expecting ':'")
		tc.Type = p.parseType(ast.ProdTypeReference)
		tc.Loc = p.anchor(ast.ProdTypeConstraint, start)
		constraints = append(constraints, tc)
		if !p.match(lexer.TOKEN_COMMA) {
			return constraints
		}
	}
}

// modifiers parses declaration modifiers: keywords and annotation sets
func (p *Parser) modifiers() []ast.Modifier {
	return p.modifierList(false)
}

// modifierList parses modifiers; variance also accepts the `in` keyword
func (p *Parser) modifierList(variance bool) []ast.Modifier {
	var mods []ast.Modifier
	for {
		switch {
		case p.check(lexer.TOKEN_AT):
			mods = append(mods, p.annotationSet())
		case variance && p.check(lexer.TOKEN_IN):
			mods = append(mods, p.keywordModifier(ast.KwIn))
		case p.atKeywordModifier():
			kw, _ := ast.LookupKeyword(p.peek().Lexeme)
			mods = append(mods, p.keywordModifier(kw))
		default:
			return mods
		}
	}
}

func (p *Parser) keywordModifier(kw ast.Keyword) *ast.KeywordModifier {
	tok := p.advance()
	return &ast.KeywordModifier{Keyword: kw, Loc: p.spanAnchor(ast.ProdModifier, tok.Start, tok.End)}
}

// atKeywordModifier reports whether the current identifier is a modifier
// keyword. Modifiers are soft keywords, so one only counts when something
// that can be modified follows it.
func (p *Parser) atKeywordModifier() bool {
	t := p.peek()
	if t.Type != lexer.TOKEN_IDENTIFIER {
		return false
	}
	if _, ok := ast.LookupKeyword(t.Lexeme); !ok {
		return false
	}
	switch p.peekAt(1).Type {
	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_CLASS, lexer.TOKEN_INTERFACE, lexer.TOKEN_FUN,
		lexer.TOKEN_VAL, lexer.TOKEN_VAR, lexer.TOKEN_OBJECT, lexer.TOKEN_TYPEALIAS, lexer.TOKEN_AT:
		return true
	}
	return false
}

// annotationSet parses `@A`, `@A(args)`, `@target:A` or `@[A B]`
func (p *Parser) annotationSet() *ast.AnnotationSet {
	start := p.consume(lexer.TOKEN_AT, "Expecting '@'").Start
	set := &ast.AnnotationSet{}
	if p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_COLON) {
		if target, ok := ast.LookupTarget(p.peek().Lexeme); ok {
			set.Target = target
			p.advance()
			p.advance()
		}
	}
	if p.match(lexer.TOKEN_LBRACKET) {
		p.withNewlines(false, func() {
			for !p.check(lexer.TOKEN_RBRACKET) {
				set.Anns = append(set.Anns, p.annotation(p.peek().Start))
			}
		})
		p.consume(lexer.TOKEN_RBRACKET, "Expecting ']'")
		if len(set.Anns) == 0 {
			p.fail("Expecting annotation")
		}
		set.Loc = ast.Left{Loc: p.anchor(ast.ProdAnnotation, start)}
		return set
	}
	set.Anns = []*ast.Annotation{p.annotation(start)}
	set.Loc = ast.Right{Loc: p.anchor(ast.ProdAnnotationEntry, start)}
	return set
}

// annotation parses a single annotation's names, type arguments and
// arguments. Both must directly follow the name.
func (p *Parser) annotation(start int) *ast.Annotation {
	ann := &ast.Annotation{Names: []string{p.ident("annotation name")}}
	for p.check(lexer.TOKEN_DOT) && p.adjacent() && p.checkAt(1, lexer.TOKEN_IDENTIFIER) {
		p.advance()
		ann.Names = append(ann.Names, p.advance().Lexeme)
	}
	if p.check(lexer.TOKEN_LESS) && p.adjacent() {
		ann.TypeArgs = p.typeArgs()
	}
	if p.check(lexer.TOKEN_LPAREN) && p.adjacent() {
		ann.Args = p.valueArgs()
	}
	ann.Loc = p.anchor(ast.ProdAnnotationEntry, start)
	return ann
}
