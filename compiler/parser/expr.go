package parser

import (
	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

var binaryTokens = map[lexer.TokenType]ast.BinaryToken{
	lexer.TOKEN_STAR:                ast.OpMul,
	lexer.TOKEN_SLASH:               ast.OpDiv,
	lexer.TOKEN_PERCENT:             ast.OpMod,
	lexer.TOKEN_PLUS:                ast.OpAdd,
	lexer.TOKEN_MINUS:               ast.OpSub,
	lexer.TOKEN_DOT_DOT:             ast.OpRange,
	lexer.TOKEN_DOT_DOT_LESS:        ast.OpRangeUntil,
	lexer.TOKEN_IN:                  ast.OpIn,
	lexer.TOKEN_NOT_IN:              ast.OpNotIn,
	lexer.TOKEN_GREATER:             ast.OpGt,
	lexer.TOKEN_GREATER_EQUAL:       ast.OpGte,
	lexer.TOKEN_LESS:                ast.OpLt,
	lexer.TOKEN_LESS_EQUAL:          ast.OpLte,
	lexer.TOKEN_EQUAL_EQUAL:         ast.OpEq,
	lexer.TOKEN_BANG_EQUAL:          ast.OpNeq,
	lexer.TOKEN_EQUAL_EQUAL_EQUAL:   ast.OpIdentityEq,
	lexer.TOKEN_BANG_EQUAL_EQUAL:    ast.OpIdentityNeq,
	lexer.TOKEN_EQUAL:               ast.OpAssign,
	lexer.TOKEN_STAR_EQUAL:          ast.OpMulAssign,
	lexer.TOKEN_SLASH_EQUAL:         ast.OpDivAssign,
	lexer.TOKEN_PERCENT_EQUAL:       ast.OpModAssign,
	lexer.TOKEN_PLUS_EQUAL:          ast.OpAddAssign,
	lexer.TOKEN_MINUS_EQUAL:         ast.OpSubAssign,
	lexer.TOKEN_PIPE_PIPE:           ast.OpOr,
	lexer.TOKEN_AMPERSAND_AMPERSAND: ast.OpAnd,
	lexer.TOKEN_ELVIS:               ast.OpElvis,
}

var prefixTokens = map[lexer.TokenType]ast.UnaryToken{
	lexer.TOKEN_MINUS:       ast.OpNeg,
	lexer.TOKEN_PLUS:        ast.OpPos,
	lexer.TOKEN_PLUS_PLUS:   ast.OpInc,
	lexer.TOKEN_MINUS_MINUS: ast.OpDec,
	lexer.TOKEN_BANG:        ast.OpNot,
}

var postfixTokens = map[lexer.TokenType]ast.UnaryToken{
	lexer.TOKEN_PLUS_PLUS:   ast.OpInc,
	lexer.TOKEN_MINUS_MINUS: ast.OpDec,
	lexer.TOKEN_BANG_BANG:   ast.OpNullDeref,
}

var assignmentOps = []lexer.TokenType{
	lexer.TOKEN_EQUAL,
	lexer.TOKEN_PLUS_EQUAL,
	lexer.TOKEN_MINUS_EQUAL,
	lexer.TOKEN_STAR_EQUAL,
	lexer.TOKEN_SLASH_EQUAL,
	lexer.TOKEN_PERCENT_EQUAL,
}

// Soft keywords that never name an infix function call
var notInfix = map[string]bool{
	"by":          true,
	"where":       true,
	"get":         true,
	"set":         true,
	"catch":       true,
	"finally":     true,
	"constructor": true,
	"init":        true,
}

// Expression parsing, by precedence from lowest to highest:
// assignment, ||, &&, equality, comparison, in/is, ?:, infix call, range,
// additive, multiplicative, as, prefix, postfix.

func (p *Parser) expression() ast.Expr {
	lhs := p.disjunction()
	if p.atBinaryOp(false, assignmentOps) {
		op := p.advance()
		rhs := p.expression()
		return p.binary(lhs, op, rhs)
	}
	return lhs
}

func (p *Parser) disjunction() ast.Expr {
	return p.binaryLevel(p.conjunction, true, lexer.TOKEN_PIPE_PIPE)
}

func (p *Parser) conjunction() ast.Expr {
	return p.binaryLevel(p.equality, true, lexer.TOKEN_AMPERSAND_AMPERSAND)
}

func (p *Parser) equality() ast.Expr {
	return p.binaryLevel(p.comparison, false,
		lexer.TOKEN_EQUAL_EQUAL, lexer.TOKEN_BANG_EQUAL,
		lexer.TOKEN_EQUAL_EQUAL_EQUAL, lexer.TOKEN_BANG_EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.binaryLevel(p.namedCheck, false,
		lexer.TOKEN_LESS, lexer.TOKEN_GREATER, lexer.TOKEN_LESS_EQUAL, lexer.TOKEN_GREATER_EQUAL)
}

// namedCheck parses `in`, `!in`, `is` and `!is`
func (p *Parser) namedCheck() ast.Expr {
	lhs := p.elvis()
	for !p.newlineBefore() {
		switch {
		case p.check(lexer.TOKEN_IN) || p.check(lexer.TOKEN_NOT_IN):
			op := p.advance()
			rhs := p.elvis()
			lhs = p.binary(lhs, op, rhs)
		case p.check(lexer.TOKEN_IS) || p.check(lexer.TOKEN_NOT_IS):
			oper := ast.OpIs
			if p.advance().Type == lexer.TOKEN_NOT_IS {
				oper = ast.OpNotIs
			}
			rhs := p.parseType(ast.ProdTypeReference)
			lhs = &ast.TypeOp{Lhs: lhs, Oper: oper, Rhs: rhs, Loc: p.anchor(ast.ProdIsExpression, startOf(lhs))}
		default:
			return lhs
		}
	}
	return lhs
}

func (p *Parser) elvis() ast.Expr {
	return p.binaryLevel(p.infixCall, true, lexer.TOKEN_ELVIS)
}

// infixCall parses calls of infix functions such as `a to b`
func (p *Parser) infixCall() ast.Expr {
	lhs := p.rangeExpr()
	for p.atInfixName() {
		name := p.advance().Lexeme
		rhs := p.rangeExpr()
		lhs = &ast.BinaryOp{
			Lhs:  lhs,
			Oper: &ast.InfixOper{Name: name, Loc: p.anchor(ast.ProdBinaryExpression, startOf(lhs))},
			Rhs:  rhs,
		}
	}
	return lhs
}

func (p *Parser) atInfixName() bool {
	if !p.check(lexer.TOKEN_IDENTIFIER) || p.newlineBefore() {
		return false
	}
	if p.checkAt(1, lexer.TOKEN_AT) && p.adjacentAt(0) {
		// label@
		return false
	}
	return !notInfix[p.peek().Lexeme]
}

func (p *Parser) rangeExpr() ast.Expr {
	return p.binaryLevel(p.additive, false, lexer.TOKEN_DOT_DOT, lexer.TOKEN_DOT_DOT_LESS)
}

func (p *Parser) additive() ast.Expr {
	return p.binaryLevel(p.multiplicative, false, lexer.TOKEN_PLUS, lexer.TOKEN_MINUS)
}

func (p *Parser) multiplicative() ast.Expr {
	return p.binaryLevel(p.asExpr, false, lexer.TOKEN_STAR, lexer.TOKEN_SLASH, lexer.TOKEN_PERCENT)
}

func (p *Parser) asExpr() ast.Expr {
	lhs := p.prefix()
	for p.check(lexer.TOKEN_AS) || p.check(lexer.TOKEN_AS_SAFE) {
		oper := ast.OpAs
		if p.advance().Type == lexer.TOKEN_AS_SAFE {
			oper = ast.OpAsSafe
		}
		rhs := p.parseType(ast.ProdTypeReference)
		lhs = &ast.TypeOp{Lhs: lhs, Oper: oper, Rhs: rhs, Loc: p.anchor(ast.ProdBinaryWithTypeRHS, startOf(lhs))}
	}
	return lhs
}

// binaryLevel parses a left-associative chain of the given operators.
// With newlineOK the operator may start a continuation line.
func (p *Parser) binaryLevel(next func() ast.Expr, newlineOK bool, ops ...lexer.TokenType) ast.Expr {
	lhs := next()
	for p.atBinaryOp(newlineOK, ops) {
		op := p.advance()
		rhs := next()
		lhs = p.binary(lhs, op, rhs)
	}
	return lhs
}

func (p *Parser) atBinaryOp(newlineOK bool, ops []lexer.TokenType) bool {
	if !newlineOK && p.newlineBefore() {
		return false
	}
	for _, op := range ops {
		if p.check(op) {
			return true
		}
	}
	return false
}

// binary builds a token operation. The operator node spans the whole
// expression.
func (p *Parser) binary(lhs ast.Expr, op lexer.Token, rhs ast.Expr) ast.Expr {
	return &ast.BinaryOp{
		Lhs:  lhs,
		Oper: &ast.TokenOper{Token: binaryTokens[op.Type], Loc: p.anchor(ast.ProdBinaryExpression, startOf(lhs))},
		Rhs:  rhs,
	}
}

func startOf(n ast.Node) int {
	return n.Anchor().Span.Start
}

func (p *Parser) prefix() ast.Expr {
	start := p.peek().Start
	switch {
	case p.check(lexer.TOKEN_AT):
		var anns []*ast.AnnotationSet
		for p.check(lexer.TOKEN_AT) {
			anns = append(anns, p.annotationSet())
		}
		expr := p.prefix()
		return &ast.Annotated{Anns: anns, Expr: expr, Loc: p.anchor(ast.ProdAnnotatedExpression, start)}
	case p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_AT) && p.adjacentAt(0):
		label := p.advance().Lexeme
		p.advance()
		expr := p.prefix()
		return &ast.Labeled{Label: label, Expr: expr, Loc: p.anchor(ast.ProdLabeledExpression, start)}
	case p.check(lexer.TOKEN_BANG_BANG):
		// `!!x` is a double negation
		p.advance()
		expr := p.prefix()
		inner := &ast.UnaryOp{Expr: expr, Oper: ast.OpNot, Prefix: true, Loc: p.anchor(ast.ProdPrefixExpression, start+1)}
		return &ast.UnaryOp{Expr: inner, Oper: ast.OpNot, Prefix: true, Loc: p.anchor(ast.ProdPrefixExpression, start)}
	}
	if oper, ok := prefixTokens[p.peek().Type]; ok {
		p.advance()
		expr := p.prefix()
		return &ast.UnaryOp{Expr: expr, Oper: oper, Prefix: true, Loc: p.anchor(ast.ProdPrefixExpression, start)}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Expr {
	start := p.peek().Start
	expr := p.primary()
	for {
		switch {
		case p.sameLine(lexer.TOKEN_PLUS_PLUS) || p.sameLine(lexer.TOKEN_MINUS_MINUS) || p.sameLine(lexer.TOKEN_BANG_BANG):
			oper := postfixTokens[p.advance().Type]
			expr = &ast.UnaryOp{Expr: expr, Oper: oper, Loc: p.anchor(ast.ProdPostfixExpression, start)}
		case p.check(lexer.TOKEN_DOT):
			p.advance()
			rhs := p.selector()
			expr = &ast.QualifiedOp{Lhs: expr, Oper: &ast.Dot{Loc: p.anchor(ast.ProdDotQualifiedExpression, start)}, Rhs: rhs}
		case p.check(lexer.TOKEN_QUESTION_DOT):
			p.advance()
			rhs := p.selector()
			expr = &ast.QualifiedOp{Lhs: expr, Oper: &ast.Safe{Loc: p.anchor(ast.ProdSafeQualifiedExpression, start)}, Rhs: rhs}
		case p.sameLine(lexer.TOKEN_COLON_COLON):
			p.advance()
			expr = p.doubleColonRef(&ast.ExprRecv{Expr: expr}, start)
		case p.sameLine(lexer.TOKEN_LBRACKET):
			expr = p.arrayAccess(expr, start)
		default:
			call := p.callSuffix(expr, start)
			if call == nil {
				return expr
			}
			expr = call
		}
	}
}

// selector parses the member after `.` or `?.`, with its call suffix
func (p *Parser) selector() ast.Expr {
	start := p.peek().Start
	name := p.ident("member name")
	var expr ast.Expr = &ast.Name{Name: name, Loc: p.anchor(ast.ProdNameReference, start)}
	if call := p.callSuffix(expr, start); call != nil {
		return call
	}
	return expr
}

// callSuffix parses type arguments, value arguments and a trailing lambda
// after a callee. It returns nil when none follow.
func (p *Parser) callSuffix(callee ast.Expr, start int) *ast.Call {
	_, named := callee.(*ast.Name)
	var typeArgs []*ast.Type
	if named && p.check(lexer.TOKEN_LESS) {
		ok := p.speculate(func() {
			typeArgs = p.typeArgs()
			if !p.sameLine(lexer.TOKEN_LPAREN) && !p.atTrailingLambda() {
				p.fail("Expecting call arguments")
			}
		})
		if !ok {
			return nil
		}
	}

	hasArgs := false
	var args []*ast.ValueArg
	if p.sameLine(lexer.TOKEN_LPAREN) {
		args = p.valueArgs()
		hasArgs = true
	}
	var lambda *ast.TrailLambda
	if named || hasArgs || typeArgs != nil {
		lambda = p.trailingLambda()
	}
	if !hasArgs && typeArgs == nil && lambda == nil {
		return nil
	}
	return &ast.Call{
		Expr:        callee,
		TypeArgs:    typeArgs,
		Args:        args,
		EmptyParens: hasArgs && len(args) == 0 && lambda != nil,
		Lambda:      lambda,
		Loc:         p.anchor(ast.ProdCallExpression, start),
	}
}

// atTrailingLambda reports whether a trailing lambda starts here
func (p *Parser) atTrailingLambda() bool {
	if p.noLambda || p.newlineBefore() {
		return false
	}
	return p.check(lexer.TOKEN_LBRACE) ||
		p.check(lexer.TOKEN_AT) ||
		(p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_AT) && p.adjacentAt(0) && p.checkAt(2, lexer.TOKEN_LBRACE))
}

// trailingLambda parses `{ }`, `label@{ }` or `@Ann { }` after a call
func (p *Parser) trailingLambda() *ast.TrailLambda {
	if !p.atTrailingLambda() {
		return nil
	}
	saved := p.current
	start := p.peek().Start
	tl := &ast.TrailLambda{}
	ok := p.speculate(func() {
		for p.check(lexer.TOKEN_AT) {
			tl.Anns = append(tl.Anns, p.annotationSet())
		}
		if p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_AT) && p.adjacentAt(0) {
			tl.Label = p.advance().Lexeme
			p.advance()
		}
		if !p.sameLine(lexer.TOKEN_LBRACE) {
			p.fail("Expecting '{'")
		}
	})
	if !ok {
		p.current = saved
		return nil
	}
	tl.Func = p.lambda()
	tl.Loc = p.anchor(ast.ProdLambdaArgument, start)
	return tl
}

// valueArgs parses a parenthesized argument list
func (p *Parser) valueArgs() []*ast.ValueArg {
	var args []*ast.ValueArg
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_RPAREN) {
			args = append(args, p.valueArg())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	return args
}

func (p *Parser) valueArg() *ast.ValueArg {
	start := p.peek().Start
	arg := &ast.ValueArg{}
	if p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_EQUAL) {
		arg.Name = p.advance().Lexeme
		p.advance()
	}
	arg.Spread = p.match(lexer.TOKEN_STAR)
	arg.Expr = p.expression()
	arg.Loc = p.anchor(ast.ProdValueArgument, start)
	return arg
}

func (p *Parser) arrayAccess(expr ast.Expr, start int) ast.Expr {
	aa := &ast.ArrayAccess{Expr: expr}
	p.consume(lexer.TOKEN_LBRACKET, "Expecting '['")
	p.withNewlines(false, func() {
		for {
			aa.Indices = append(aa.Indices, p.expression())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RBRACKET, "Expecting ']'")
	aa.Loc = p.anchor(ast.ProdArrayAccess, start)
	return aa
}

// doubleColonRef parses what follows `::`. recv is nil for `::name`.
func (p *Parser) doubleColonRef(recv ast.DoubleColonRecv, start int) ast.Expr {
	if p.match(lexer.TOKEN_CLASS) {
		return &ast.ClassLit{Recv: recv, Loc: p.anchor(ast.ProdClassLiteral, start)}
	}
	name := p.ident("callable reference name")
	return &ast.CallableRef{Recv: recv, Name: name, Loc: p.anchor(ast.ProdCallableReference, start)}
}

// atTypeReceiver reports whether the identifier at the current position
// may start a type receiver such as List<String>::class or T?::class
func (p *Parser) atTypeReceiver() bool {
	i := 1
	for p.checkAt(i, lexer.TOKEN_DOT) && p.checkAt(i+1, lexer.TOKEN_IDENTIFIER) {
		i += 2
	}
	switch p.peekAt(i).Type {
	case lexer.TOKEN_LESS, lexer.TOKEN_QUESTION:
		return true
	case lexer.TOKEN_ELVIS:
		return p.checkAt(i+1, lexer.TOKEN_COLON)
	}
	return false
}

// typeReceiverRef parses a `::` reference with a type receiver
func (p *Parser) typeReceiverRef() ast.Expr {
	start := p.peek().Start
	recv := &ast.TypeRecv{Type: p.simpleType(false)}
	for p.match(lexer.TOKEN_QUESTION) {
		recv.QuestionMarks++
	}
	if p.check(lexer.TOKEN_ELVIS) && p.checkAt(1, lexer.TOKEN_COLON) && p.adjacentAt(0) {
		// `?::` lexes as `?:` followed by `:`
		recv.QuestionMarks++
		recv.Loc = p.spanAnchor(ast.ProdReceiverType, start, p.peek().Start+1)
		p.advance()
		p.advance()
	} else {
		recv.Loc = p.anchor(ast.ProdReceiverType, start)
		p.consume(lexer.TOKEN_COLON_COLON, "Expecting '::'")
	}
	return p.doubleColonRef(recv, start)
}

func (p *Parser) primary() ast.Expr {
	start := p.peek().Start
	switch p.peek().Type {
	case lexer.TOKEN_LPAREN:
		p.advance()
		paren := &ast.Paren{}
		p.withNewlines(false, func() { paren.Expr = p.expression() })
		p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
		paren.Loc = p.anchor(ast.ProdParenthesizedExpression, start)
		return paren
	case lexer.TOKEN_INT_LITERAL:
		return p.constant(ast.ConstInt)
	case lexer.TOKEN_FLOAT_LITERAL:
		return p.constant(ast.ConstFloat)
	case lexer.TOKEN_CHAR_LITERAL:
		return p.constant(ast.ConstChar)
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		return p.constant(ast.ConstBoolean)
	case lexer.TOKEN_NULL:
		return p.constant(ast.ConstNull)
	case lexer.TOKEN_STRING_START, lexer.TOKEN_RAW_STRING_START:
		return p.stringTemplate()
	case lexer.TOKEN_THIS:
		p.advance()
		this := &ast.This{Label: p.jumpLabel()}
		this.Loc = p.anchor(ast.ProdThisExpression, start)
		return this
	case lexer.TOKEN_SUPER:
		p.advance()
		super := &ast.Super{}
		if p.check(lexer.TOKEN_LESS) && p.adjacent() {
			p.advance()
			super.TypeArg = p.parseType(ast.ProdTypeReference)
			p.consume(lexer.TOKEN_GREATER, "Expecting '>'")
		}
		super.Label = p.jumpLabel()
		super.Loc = p.anchor(ast.ProdSuperExpression, start)
		return super
	case lexer.TOKEN_IF:
		return p.ifExpr()
	case lexer.TOKEN_WHEN:
		return p.when()
	case lexer.TOKEN_TRY:
		return p.try()
	case lexer.TOKEN_FOR:
		return p.forExpr()
	case lexer.TOKEN_WHILE:
		return p.while()
	case lexer.TOKEN_DO:
		return p.doWhile()
	case lexer.TOKEN_THROW:
		p.advance()
		throw := &ast.Throw{Expr: p.expression()}
		throw.Loc = p.anchor(ast.ProdThrowExpression, start)
		return throw
	case lexer.TOKEN_RETURN:
		p.advance()
		ret := &ast.Return{Label: p.jumpLabel()}
		if p.canStartExpr() {
			ret.Expr = p.expression()
		}
		ret.Loc = p.anchor(ast.ProdReturnExpression, start)
		return ret
	case lexer.TOKEN_CONTINUE:
		p.advance()
		cont := &ast.Continue{Label: p.jumpLabel()}
		cont.Loc = p.anchor(ast.ProdContinueExpression, start)
		return cont
	case lexer.TOKEN_BREAK:
		p.advance()
		brk := &ast.Break{Label: p.jumpLabel()}
		brk.Loc = p.anchor(ast.ProdBreakExpression, start)
		return brk
	case lexer.TOKEN_LBRACE:
		return p.lambda()
	case lexer.TOKEN_LBRACKET:
		return p.collectionLiteral()
	case lexer.TOKEN_OBJECT:
		p.advance()
		obj := &ast.Object{}
		if p.match(lexer.TOKEN_COLON) {
			obj.Parents = p.parents()
		}
		obj.Members = p.classBody()
		obj.Loc = p.anchor(ast.ProdObjectLiteral, start)
		return obj
	case lexer.TOKEN_FUN:
		return &ast.AnonFunc{Func: p.function(start, nil, true)}
	case lexer.TOKEN_COLON_COLON:
		p.advance()
		return p.doubleColonRef(nil, start)
	case lexer.TOKEN_IDENTIFIER:
		if p.atTypeReceiver() {
			var ref ast.Expr
			if p.speculate(func() { ref = p.typeReceiverRef() }) {
				return ref
			}
		}
		name := p.advance().Lexeme
		return &ast.Name{Name: name, Loc: p.anchor(ast.ProdNameReference, start)}
	}

	p.fail("Expecting an element")
	return nil
}

func (p *Parser) constant(form ast.ConstForm) ast.Expr {
	tok := p.advance()
	return &ast.Const{Value: tok.Lexeme, Form: form, Loc: p.anchor(ast.ProdConstantExpression, tok.Start)}
}

// jumpLabel parses the `@label` directly after this, super, return,
// break or continue
func (p *Parser) jumpLabel() string {
	if p.check(lexer.TOKEN_AT) && p.adjacent() && p.checkAt(1, lexer.TOKEN_IDENTIFIER) && p.adjacentAt(0) {
		p.advance()
		return p.advance().Lexeme
	}
	return ""
}

// canStartExpr reports whether a `return` is followed by its value
func (p *Parser) canStartExpr() bool {
	if p.newlineBefore() {
		return false
	}
	switch p.peek().Type {
	case lexer.TOKEN_RBRACE, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_SEMICOLON,
		lexer.TOKEN_COMMA, lexer.TOKEN_EOF, lexer.TOKEN_ELSE, lexer.TOKEN_ARROW,
		lexer.TOKEN_TEMPLATE_END, lexer.TOKEN_COLON, lexer.TOKEN_ELVIS:
		return false
	}
	return true
}

func (p *Parser) collectionLiteral() ast.Expr {
	start := p.advance().Start
	lit := &ast.CollLit{}
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_RBRACKET) {
			lit.Exprs = append(lit.Exprs, p.expression())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RBRACKET, "Expecting ']'")
	lit.Loc = p.anchor(ast.ProdCollectionLiteral, start)
	return lit
}

// stringTemplate parses a string literal into its elements. Adjacent text
// pieces are merged.
func (p *Parser) stringTemplate() ast.Expr {
	open := p.advance()
	tmpl := &ast.StringTmpl{Raw: open.Type == lexer.TOKEN_RAW_STRING_START}
	for !p.check(lexer.TOKEN_STRING_END) {
		tok := p.peek()
		switch tok.Type {
		case lexer.TOKEN_STRING_TEXT:
			p.advance()
			if n := len(tmpl.Elems); n > 0 {
				if prev, ok := tmpl.Elems[n-1].(*ast.RegularElem); ok {
					prev.Str += tok.Lexeme
					prev.Loc = p.spanAnchor(ast.ProdLiteralStringEntry, prev.Loc.Span.Start, tok.End)
					continue
				}
			}
			tmpl.Elems = append(tmpl.Elems, &ast.RegularElem{
				Str: tok.Lexeme,
				Loc: p.spanAnchor(ast.ProdLiteralStringEntry, tok.Start, tok.End),
			})
		case lexer.TOKEN_STRING_ESCAPE:
			p.advance()
			loc := p.spanAnchor(ast.ProdEscapeStringEntry, tok.Start, tok.End)
			if tok.Lexeme[1] == 'u' {
				tmpl.Elems = append(tmpl.Elems, &ast.UnicodeEscElem{Digits: tok.Lexeme[2:], Loc: loc})
			} else {
				tmpl.Elems = append(tmpl.Elems, &ast.RegularEscElem{Char: unescape(tok.Lexeme[1]), Loc: loc})
			}
		case lexer.TOKEN_STRING_REF:
			p.advance()
			tmpl.Elems = append(tmpl.Elems, &ast.ShortTmplElem{
				Name: tok.Lexeme[1:],
				Loc:  p.spanAnchor(ast.ProdShortTemplateEntry, tok.Start, tok.End),
			})
		case lexer.TOKEN_TEMPLATE_START:
			p.advance()
			elem := &ast.LongTmplElem{}
			p.withNewlines(false, func() { elem.Expr = p.expression() })
			p.consume(lexer.TOKEN_TEMPLATE_END, "Expecting '}'")
			elem.Loc = p.anchor(ast.ProdLongTemplateEntry, tok.Start)
			tmpl.Elems = append(tmpl.Elems, elem)
		default:
			p.fail("Expecting '\"'")
		}
	}
	p.advance()
	tmpl.Loc = p.anchor(ast.ProdStringTemplate, open.Start)
	return tmpl
}

// unescape decodes the character of a backslash escape
func unescape(c byte) rune {
	switch c {
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	}
	return rune(c)
}
