package parser

import (
	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// parseType parses a type with its modifiers. Type arguments are anchored
// as projections and may carry variance.
func (p *Parser) parseType(prod ast.Production) *ast.Type {
	start := p.peek().Start
	t := &ast.Type{Mods: p.typeModifiers(prod == ast.ProdTypeProjection)}
	t.Ref = p.typeRef()
	t.Loc = p.anchor(prod, start)
	return t
}

// typeModifiers parses annotations, `suspend` and, in projections, variance
func (p *Parser) typeModifiers(projection bool) []ast.Modifier {
	var mods []ast.Modifier
	for {
		switch {
		case p.check(lexer.TOKEN_AT):
			mods = append(mods, p.annotationSet())
		case p.checkSoft("suspend") && (p.checkAt(1, lexer.TOKEN_LPAREN) || p.checkAt(1, lexer.TOKEN_IDENTIFIER)):
			mods = append(mods, p.keywordModifier(ast.KwSuspend))
		case projection && p.check(lexer.TOKEN_IN):
			mods = append(mods, p.keywordModifier(ast.KwIn))
		case projection && p.checkSoft("out") && !p.checkAt(1, lexer.TOKEN_COMMA) && !p.checkAt(1, lexer.TOKEN_GREATER):
			mods = append(mods, p.keywordModifier(ast.KwOut))
		default:
			return mods
		}
	}
}

func (p *Parser) typeRef() ast.TypeRef {
	start := p.peek().Start
	var ref ast.TypeRef
	switch {
	case p.check(lexer.TOKEN_LPAREN):
		if ft := p.tryFuncType(start); ft != nil {
			return ft
		}
		ref = p.parenType()
	case p.checkSoft("dynamic") && !p.checkAt(1, lexer.TOKEN_DOT) && !p.checkAt(1, lexer.TOKEN_LESS):
		p.advance()
		ref = &ast.DynamicType{Loc: p.anchor(ast.ProdDynamicType, start)}
	default:
		ref = p.simpleType(false)
	}
	ref = p.nullable(ref, start)

	// Receiver of a function type: T.() -> R, or T?.() -> R
	switch {
	case p.check(lexer.TOKEN_DOT) && p.checkAt(1, lexer.TOKEN_LPAREN):
		recv := &ast.Type{Ref: ref, Loc: p.anchor(ast.ProdTypeReference, start)}
		p.advance()
		return p.funcType(recv, start)
	case p.check(lexer.TOKEN_QUESTION_DOT) && p.checkAt(1, lexer.TOKEN_LPAREN):
		end := p.advance().Start + 1
		ref = &ast.NullableType{Ref: ref, Loc: p.spanAnchor(ast.ProdNullableType, start, end)}
		recv := &ast.Type{Ref: ref, Loc: p.spanAnchor(ast.ProdTypeReference, start, end)}
		return p.funcType(recv, start)
	}
	return ref
}

// tryFuncType parses `(params) -> R`, or restores the position and
// returns nil when the parentheses are not a function type
func (p *Parser) tryFuncType(start int) ast.TypeRef {
	var ft *ast.FuncType
	if !p.speculate(func() { ft = p.funcType(nil, start) }) {
		return nil
	}
	return ft
}

func (p *Parser) funcType(recv *ast.Type, start int) *ast.FuncType {
	ft := &ast.FuncType{Receiver: recv}
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for !p.check(lexer.TOKEN_RPAREN) {
			ft.Params = append(ft.Params, p.funcTypeParam())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	p.consume(lexer.TOKEN_ARROW, "Expecting '->' to specify return type of a function type")
	ft.Type = p.parseType(ast.ProdTypeReference)
	ft.Loc = p.anchor(ast.ProdFunctionType, start)
	return ft
}

func (p *Parser) funcTypeParam() *ast.FuncTypeParam {
	start := p.peek().Start
	param := &ast.FuncTypeParam{}
	if p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_COLON) {
		param.Name = p.advance().Lexeme
		p.advance()
	}
	param.Type = p.parseType(ast.ProdTypeReference)
	param.Loc = p.anchor(ast.ProdFunctionTypeParameter, start)
	return param
}

func (p *Parser) parenType() *ast.ParenType {
	start := p.consume(lexer.TOKEN_LPAREN, "Expecting '('").Start
	pt := &ast.ParenType{}
	p.withNewlines(false, func() {
		pt.Mods = p.typeModifiers(false)
		pt.Ref = p.typeRef()
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	pt.Loc = p.anchor(ast.ProdParenthesizedType, start)
	return pt
}

// nullable wraps ref once per trailing `?`
func (p *Parser) nullable(ref ast.TypeRef, start int) ast.TypeRef {
	for p.match(lexer.TOKEN_QUESTION) {
		ref = &ast.NullableType{Ref: ref, Loc: p.anchor(ast.ProdNullableType, start)}
	}
	return ref
}

// simpleType parses a dotted, possibly generic, type name. For a receiver
// it stops before the `.name` that is being declared.
func (p *Parser) simpleType(receiver bool) *ast.SimpleType {
	start := p.peek().Start
	st := &ast.SimpleType{}
	for {
		pieceStart := p.peek().Start
		piece := &ast.TypePiece{Name: p.ident("type name")}
		if p.check(lexer.TOKEN_LESS) {
			piece.TypeArgs = p.typeArgs()
		}
		piece.Loc = p.anchor(ast.ProdUserType, pieceStart)
		st.Pieces = append(st.Pieces, piece)

		if !p.check(lexer.TOKEN_DOT) || !p.checkAt(1, lexer.TOKEN_IDENTIFIER) {
			break
		}
		if receiver && !p.receiverContinues() {
			break
		}
		p.advance()
	}
	st.Loc = p.anchor(ast.ProdUserType, start)
	return st
}

// receiverContinues reports whether the `.Name` at the current position is
// still part of a receiver type, rather than the declared name
func (p *Parser) receiverContinues() bool {
	switch p.peekAt(2).Type {
	case lexer.TOKEN_DOT, lexer.TOKEN_QUESTION, lexer.TOKEN_QUESTION_DOT:
		return true
	case lexer.TOKEN_LESS:
		saved := p.current
		defer func() { p.current = saved }()
		p.current += 2
		if !p.speculate(func() { p.typeArgs() }) {
			return false
		}
		return p.check(lexer.TOKEN_DOT) || p.check(lexer.TOKEN_QUESTION) || p.check(lexer.TOKEN_QUESTION_DOT)
	}
	return false
}

// receiverType parses the receiver of an extension function or property
// and the dot that separates it from the name
func (p *Parser) receiverType() *ast.Type {
	start := p.peek().Start
	mods := p.typeModifiers(false)
	var ref ast.TypeRef
	if p.check(lexer.TOKEN_LPAREN) {
		ref = p.parenType()
	} else {
		ref = p.simpleType(true)
	}
	ref = p.nullable(ref, start)
	if p.check(lexer.TOKEN_QUESTION_DOT) {
		// `T?.name` lexes the nullable mark and the dot together
		end := p.advance().Start + 1
		ref = &ast.NullableType{Ref: ref, Loc: p.spanAnchor(ast.ProdNullableType, start, end)}
		return &ast.Type{Mods: mods, Ref: ref, Loc: p.spanAnchor(ast.ProdTypeReference, start, end)}
	}
	t := &ast.Type{Mods: mods, Ref: ref, Loc: p.anchor(ast.ProdTypeReference, start)}
	p.consume(lexer.TOKEN_DOT, "Expecting '.'")
	return t
}

// typeArgs parses `<A, *, out B>`; a star projection is a nil element
func (p *Parser) typeArgs() []*ast.Type {
	var args []*ast.Type
	p.consume(lexer.TOKEN_LESS, "Expecting '<'")
	p.withNewlines(false, func() {
		for {
			if p.match(lexer.TOKEN_STAR) {
				args = append(args, nil)
			} else {
				args = append(args, p.parseType(ast.ProdTypeProjection))
			}
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	})
	p.consume(lexer.TOKEN_GREATER, "Expecting '>'")
	return args
}
