package parser

import (
	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// block parses `{ statements }`; the anchor covers the braces
func (p *Parser) block() *ast.Block {
	start := p.consume(lexer.TOKEN_LBRACE, "Expecting '{'").Start
	b := &ast.Block{}
	p.withNewlines(true, func() { b.Stmts = p.statements() })
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	b.Loc = p.anchor(ast.ProdBlock, start)
	return b
}

// blockBrace parses the braced body of a control structure
func (p *Parser) blockBrace() *ast.Brace {
	start := p.consume(lexer.TOKEN_LBRACE, "Expecting '{'").Start
	br := &ast.Brace{}
	p.withNewlines(true, func() { br.Block = p.innerBlock() })
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	br.Loc = p.anchor(ast.ProdBlock, start)
	return br
}

// innerBlock parses the statements of a brace. Its anchor covers the
// statements only, and is empty at the closing brace when there are none.
func (p *Parser) innerBlock() *ast.Block {
	b := &ast.Block{Stmts: p.statements()}
	if len(b.Stmts) == 0 {
		b.Loc = p.spanAnchor(ast.ProdBlock, p.peek().Start, p.peek().Start)
		return b
	}
	b.Loc = p.spanAnchor(ast.ProdBlock, startOf(b.Stmts[0]), b.Stmts[len(b.Stmts)-1].Anchor().Span.End)
	return b
}

// statements parses statements up to a closing brace or the end of input
func (p *Parser) statements() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		for p.match(lexer.TOKEN_SEMICOLON) {
		}
		if p.check(lexer.TOKEN_RBRACE) || p.isAtEnd() {
			return stmts
		}
		stmts = append(stmts, p.statement())
		p.endStatement()
	}
}

func (p *Parser) statement() ast.Stmt {
	if p.atDeclaration() {
		return &ast.DeclStmt{Decl: p.declaration(true)}
	}
	return &ast.ExprStmt{Expr: p.expression()}
}

// controlBody parses the body of if, when entries and loops
func (p *Parser) controlBody() ast.Expr {
	if p.check(lexer.TOKEN_LBRACE) {
		return p.blockBrace()
	}
	return p.expression()
}

// parenExpr parses `( expr )` without producing a node for the parentheses
func (p *Parser) parenExpr() ast.Expr {
	var expr ast.Expr
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() { expr = p.expression() })
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	return expr
}

func (p *Parser) ifExpr() ast.Expr {
	start := p.advance().Start
	e := &ast.If{Expr: p.parenExpr()}
	if p.check(lexer.TOKEN_ELSE) || p.check(lexer.TOKEN_SEMICOLON) {
		p.fail("Expecting an expression")
	}
	e.Body = p.controlBody()

	// `if (c) a; else b` and an else on the next line both continue the if
	saved := p.current
	p.match(lexer.TOKEN_SEMICOLON)
	if p.match(lexer.TOKEN_ELSE) {
		if p.check(lexer.TOKEN_SEMICOLON) || p.check(lexer.TOKEN_RBRACE) {
			p.fail("Expecting an expression")
		}
		e.ElseBody = p.controlBody()
	} else {
		p.current = saved
	}
	e.Loc = p.anchor(ast.ProdIfExpression, start)
	return e
}

func (p *Parser) when() ast.Expr {
	start := p.advance().Start
	w := &ast.When{}
	if p.check(lexer.TOKEN_LPAREN) {
		p.advance()
		p.withNewlines(false, func() {
			if p.check(lexer.TOKEN_VAL) || p.check(lexer.TOKEN_VAR) {
				w.Expr = &ast.PropertyExpr{Decl: p.property(p.peek().Start, nil, false)}
				return
			}
			w.Expr = p.expression()
		})
		p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	}
	p.consume(lexer.TOKEN_LBRACE, "Expecting '{'")
	p.withNewlines(true, func() {
		for {
			for p.match(lexer.TOKEN_SEMICOLON) {
			}
			if p.check(lexer.TOKEN_RBRACE) {
				break
			}
			w.Entries = append(w.Entries, p.whenEntry())
			p.endStatement()
		}
	})
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	w.Loc = p.anchor(ast.ProdWhenExpression, start)
	return w
}

func (p *Parser) whenEntry() *ast.WhenEntry {
	start := p.peek().Start
	entry := &ast.WhenEntry{}
	if p.match(lexer.TOKEN_ELSE) {
		p.consume(lexer.TOKEN_ARROW, "Expecting '->'")
	} else {
		p.withNewlines(false, func() {
			for {
				entry.Conds = append(entry.Conds, p.whenCond())
				if !p.match(lexer.TOKEN_COMMA) || p.check(lexer.TOKEN_ARROW) {
					break
				}
			}
		})
		p.consume(lexer.TOKEN_ARROW, "Expecting '->'")
	}
	entry.Body = p.controlBody()
	entry.Loc = p.anchor(ast.ProdWhenEntry, start)
	return entry
}

func (p *Parser) whenCond() ast.WhenCond {
	start := p.peek().Start
	switch {
	case p.check(lexer.TOKEN_IN) || p.check(lexer.TOKEN_NOT_IN):
		not := p.advance().Type == lexer.TOKEN_NOT_IN
		expr := p.expression()
		return &ast.InCond{Expr: expr, Not: not, Loc: p.anchor(ast.ProdWhenConditionInRange, start)}
	case p.check(lexer.TOKEN_IS) || p.check(lexer.TOKEN_NOT_IS):
		not := p.advance().Type == lexer.TOKEN_NOT_IS
		t := p.parseType(ast.ProdTypeReference)
		return &ast.IsCond{Type: t, Not: not, Loc: p.anchor(ast.ProdWhenConditionIsPattern, start)}
	}
	expr := p.expression()
	return &ast.ExprCond{Expr: expr, Loc: p.anchor(ast.ProdWhenConditionExpression, start)}
}

func (p *Parser) try() ast.Expr {
	start := p.advance().Start
	t := &ast.Try{Block: p.block()}
	for p.checkSoft("catch") && p.checkAt(1, lexer.TOKEN_LPAREN) {
		t.Catches = append(t.Catches, p.catch())
	}
	if p.checkSoft("finally") && p.checkAt(1, lexer.TOKEN_LBRACE) {
		p.advance()
		t.Finally = p.block()
	}
	if len(t.Catches) == 0 && t.Finally == nil {
		p.fail("Expecting 'catch' or 'finally'")
	}
	t.Loc = p.anchor(ast.ProdTryExpression, start)
	return t
}

func (p *Parser) catch() *ast.Catch {
	start := p.advance().Start
	c := &ast.Catch{}
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for p.check(lexer.TOKEN_AT) {
			c.Anns = append(c.Anns, p.annotationSet())
		}
		c.VarName = p.ident("exception parameter name")
		p.consume(lexer.TOKEN_COLON, "Expecting ':'")
		c.VarType = p.parseType(ast.ProdTypeReference)
		p.match(lexer.TOKEN_COMMA)
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	c.Block = p.block()
	c.Loc = p.anchor(ast.ProdCatchClause, start)
	return c
}

func (p *Parser) forExpr() ast.Expr {
	start := p.advance().Start
	f := &ast.For{}
	p.consume(lexer.TOKEN_LPAREN, "Expecting '('")
	p.withNewlines(false, func() {
		for p.check(lexer.TOKEN_AT) {
			f.Anns = append(f.Anns, p.annotationSet())
		}
		if p.check(lexer.TOKEN_LPAREN) {
			f.Destructured = true
			f.Vars = p.destructuringVars()
		} else {
			f.Vars = []*ast.PropertyVar{p.propertyVar()}
		}
		p.consume(lexer.TOKEN_IN, "Expecting 'in'")
		f.InExpr = p.expression()
	})
	p.consume(lexer.TOKEN_RPAREN, "Expecting ')'")
	f.Body = p.loopBody()
	f.Loc = p.anchor(ast.ProdForExpression, start)
	return f
}

func (p *Parser) while() ast.Expr {
	start := p.advance().Start
	w := &ast.While{Expr: p.parenExpr()}
	w.Body = p.loopBody()
	w.Loc = p.anchor(ast.ProdWhileExpression, start)
	return w
}

// loopBody parses a loop body. `while (x);` has an empty one.
func (p *Parser) loopBody() ast.Expr {
	if p.check(lexer.TOKEN_SEMICOLON) {
		at := p.peek().Start
		return &ast.Brace{
			Block: &ast.Block{Loc: p.spanAnchor(ast.ProdBlock, at, at)},
			Loc:   p.spanAnchor(ast.ProdBlock, at, at),
		}
	}
	return p.controlBody()
}

func (p *Parser) doWhile() ast.Expr {
	start := p.advance().Start
	w := &ast.While{DoWhile: true}
	if p.check(lexer.TOKEN_WHILE) {
		at := p.peek().Start
		w.Body = &ast.Brace{
			Block: &ast.Block{Loc: p.spanAnchor(ast.ProdBlock, at, at)},
			Loc:   p.spanAnchor(ast.ProdBlock, at, at),
		}
	} else {
		w.Body = p.controlBody()
	}
	p.consume(lexer.TOKEN_WHILE, "Expecting 'while' followed by a post-condition")
	w.Expr = p.parenExpr()
	w.Loc = p.anchor(ast.ProdDoWhileExpression, start)
	return w
}

// lambda parses `{ params -> statements }`
func (p *Parser) lambda() *ast.Brace {
	start := p.consume(lexer.TOKEN_LBRACE, "Expecting '{'").Start
	br := &ast.Brace{}
	p.withNewlines(true, func() {
		if !p.match(lexer.TOKEN_ARROW) {
			var params []*ast.BraceParam
			if p.speculate(func() {
				params = p.lambdaParams()
				p.consume(lexer.TOKEN_ARROW, "Expecting '->'")
			}) {
				br.Params = params
			}
		}
		br.Block = p.innerBlock()
	})
	p.consume(lexer.TOKEN_RBRACE, "Expecting '}'")
	br.Loc = p.anchor(ast.ProdLambdaExpression, start)
	return br
}

func (p *Parser) lambdaParams() []*ast.BraceParam {
	var params []*ast.BraceParam
	p.withNewlines(false, func() {
		for {
			params = append(params, p.braceParam())
			if !p.match(lexer.TOKEN_COMMA) || p.check(lexer.TOKEN_ARROW) {
				break
			}
		}
	})
	return params
}

// braceParam parses `a`, `a: T` or `(a, b): T`
func (p *Parser) braceParam() *ast.BraceParam {
	start := p.peek().Start
	bp := &ast.BraceParam{}
	if p.check(lexer.TOKEN_LPAREN) {
		bp.Destructured = true
		bp.Vars = p.destructuringVars()
		if len(bp.Vars) == 0 {
			p.fail("Expecting a name")
		}
		if p.match(lexer.TOKEN_COLON) {
			bp.DestructType = p.parseType(ast.ProdTypeReference)
		}
	} else {
		bp.Vars = []*ast.PropertyVar{p.propertyVar()}
	}
	bp.Loc = p.anchor(ast.ProdLambdaParameter, start)
	return bp
}
