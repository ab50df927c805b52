// Package parser builds lossless syntax trees from Kotlin source.
//
// Parsing is a single recursive-descent pass over the significant tokens.
// The first error aborts the parse; no partial tree is returned. Trivia
// tokens are kept aside and attached to the finished tree as extras.
package parser

import (
	"fmt"
	"strings"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// Parser transforms a token stream into a syntax tree
type Parser struct {
	src      *ast.Source
	all      []lexer.Token // every token, trivia included
	tokens   []lexer.Token // significant tokens only
	nlBefore []bool        // whether a line break precedes tokens[i]
	current  int
	newlines []bool // stack: are newlines significant in the current bracket
	noLambda bool   // a brace ends the expression instead of starting a trailing lambda
}

// bailout carries the first error up to Parse
type bailout struct {
	err *ParseError
}

// ScriptExt is the file extension of Kotlin scripts
const ScriptExt = ".kts"

// Parse parses src into a File and its trivia. The error is a *ParseError.
func Parse(src *ast.Source) (*ast.File, *ast.ExtrasMap, error) {
	return parse(src, (*Parser).file)
}

// ParseString is a convenience wrapper around Parse
func ParseString(name, text string) (*ast.File, *ast.ExtrasMap, error) {
	return Parse(ast.NewSource(name, text))
}

// ParseScript parses src into a Script: top-level statements rather than
// declarations only. The error is a *ParseError.
func ParseScript(src *ast.Source) (*ast.Script, *ast.ExtrasMap, error) {
	return parse(src, (*Parser).script)
}

// ParseScriptString is a convenience wrapper around ParseScript
func ParseScriptString(name, text string) (*ast.Script, *ast.ExtrasMap, error) {
	return ParseScript(ast.NewSource(name, text))
}

// ParseEntry parses src as a Script when its name ends in ScriptExt and as
// a File otherwise
func ParseEntry(src *ast.Source) (ast.Entry, *ast.ExtrasMap, error) {
	if strings.HasSuffix(src.Name, ScriptExt) {
		script, extras, err := ParseScript(src)
		if err != nil {
			return nil, nil, err
		}
		return script, extras, nil
	}
	file, extras, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	return file, extras, nil
}

func parse[T ast.Node](src *ast.Source, root func(*Parser) T) (T, *ast.ExtrasMap, error) {
	var zero T
	all, lexErrors := lexer.New(src.Text, src.Name).ScanTokens()
	if len(lexErrors) > 0 {
		first := lexErrors[0]
		return zero, nil, &ParseError{
			Message:  first.Message,
			Position: src.Position(first.Offset),
			Lexical:  true,
		}
	}

	p := newParser(src, all)
	tree, err := run(p, root)
	if err != nil {
		return zero, nil, err
	}
	return tree, attachExtras(tree, src, all), nil
}

func newParser(src *ast.Source, all []lexer.Token) *Parser {
	p := &Parser{
		src:      src,
		all:      all,
		tokens:   make([]lexer.Token, 0, len(all)),
		newlines: []bool{true},
	}
	sawNewline := false
	for _, t := range all {
		if t.IsTrivia() {
			for i := 0; i < len(t.Lexeme); i++ {
				if t.Lexeme[i] == '\n' {
					sawNewline = true
					break
				}
			}
			continue
		}
		p.tokens = append(p.tokens, t)
		p.nlBefore = append(p.nlBefore, sawNewline)
		sawNewline = false
	}
	return p
}

// run runs the top-level production, turning a bailout into an error
func run[T ast.Node](p *Parser, root func(*Parser) T) (tree T, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			var zero T
			tree, err = zero, b.err
		}
	}()
	return root(p), nil
}

// Helper methods for token manipulation

// isAtEnd checks if we're at the end of the token stream
func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

// peek returns the current token without consuming it
func (p *Parser) peek() lexer.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead
func (p *Parser) peekAt(n int) lexer.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.current+n]
}

// previous returns the previous token
func (p *Parser) previous() lexer.Token {
	if p.current > 0 {
		return p.tokens[p.current-1]
	}
	return p.tokens[0]
}

// advance consumes and returns the current token
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check checks if the current token is of the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

// checkAt checks the type of the token n positions ahead
func (p *Parser) checkAt(n int, tokenType lexer.TokenType) bool {
	return p.peekAt(n).Type == tokenType
}

// checkSoft checks for a soft keyword, which lexes as an identifier
func (p *Parser) checkSoft(word string) bool {
	t := p.peek()
	return t.Type == lexer.TOKEN_IDENTIFIER && t.Lexeme == word
}

// checkSoftAt checks for a soft keyword n positions ahead
func (p *Parser) checkSoftAt(n int, word string) bool {
	t := p.peekAt(n)
	return t.Type == lexer.TOKEN_IDENTIFIER && t.Lexeme == word
}

// match checks if the current token matches any of the given types
// If it matches, consumes the token and returns true
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tokenType := range types {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

// consume consumes a token of the given type or fails
func (p *Parser) consume(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.fail(message)
	return lexer.Token{}
}

// consumeSoft consumes a soft keyword or fails
func (p *Parser) consumeSoft(word string) lexer.Token {
	if p.checkSoft(word) {
		return p.advance()
	}
	p.fail(fmt.Sprintf("Expecting '%s'", word))
	return lexer.Token{}
}

// ident consumes an identifier and returns its verbatim text
func (p *Parser) ident(what string) string {
	return p.consume(lexer.TOKEN_IDENTIFIER, "Expecting "+what).Lexeme
}

// newlineBefore reports whether a significant line break precedes the
// current token. Line breaks inside parentheses and brackets never are.
func (p *Parser) newlineBefore() bool {
	if !p.newlines[len(p.newlines)-1] {
		return false
	}
	return p.current < len(p.nlBefore) && p.nlBefore[p.current]
}

// sameLine reports whether the current token is of the given type and on
// the same line as the previous one
func (p *Parser) sameLine(tokenType lexer.TokenType) bool {
	return p.check(tokenType) && !p.newlineBefore()
}

// adjacent reports whether the current token directly follows the
// previous one with nothing in between
func (p *Parser) adjacent() bool {
	return p.current > 0 && p.previous().End == p.peek().Start
}

// adjacentAt reports whether tokens at offsets n and n+1 touch
func (p *Parser) adjacentAt(n int) bool {
	return p.peekAt(n).End == p.peekAt(n+1).Start
}

// withNewlines runs fn with line breaks significant or not. Brackets turn
// them off; braces turn them back on.
func (p *Parser) withNewlines(significant bool, fn func()) {
	savedNoLambda := p.noLambda
	p.newlines = append(p.newlines, significant)
	p.noLambda = false
	defer func() {
		p.newlines = p.newlines[:len(p.newlines)-1]
		p.noLambda = savedNoLambda
	}()
	fn()
}

// speculate runs fn and reports whether it parsed without error. On
// failure the token position is restored.
func (p *Parser) speculate(fn func()) (ok bool) {
	saved := p.current
	savedDepth := len(p.newlines)
	savedNoLambda := p.noLambda
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.current = saved
			p.newlines = p.newlines[:savedDepth]
			p.noLambda = savedNoLambda
			ok = false
		}
	}()
	fn()
	return true
}

// fail aborts the parse with an error at the current token
func (p *Parser) fail(message string) {
	t := p.peek()
	near := t.Lexeme
	if t.Type == lexer.TOKEN_EOF {
		message += " but reached end of file"
	}
	panic(bailout{err: &ParseError{
		Message:  message,
		Position: p.src.Position(t.Start),
		Near:     near,
	}})
}

// anchor builds an anchor from start to the end of the previous token
func (p *Parser) anchor(prod ast.Production, start int) ast.Anchor {
	end := p.previous().End
	if p.current == 0 || end < start {
		end = start
	}
	return ast.Anchor{Prod: prod, Span: ast.Span{Start: start, End: end}, Src: p.src}
}

// spanAnchor builds an anchor over an explicit span
func (p *Parser) spanAnchor(prod ast.Production, start, end int) ast.Anchor {
	return ast.Anchor{Prod: prod, Span: ast.Span{Start: start, End: end}, Src: p.src}
}

// endStatement requires a statement terminator after a statement
func (p *Parser) endStatement() {
	if p.check(lexer.TOKEN_SEMICOLON) || p.check(lexer.TOKEN_RBRACE) || p.isAtEnd() {
		return
	}
	if p.current < len(p.nlBefore) && p.nlBefore[p.current] {
		return
	}
	p.fail("Unexpected tokens (use ';' to separate expressions on the same line)")
}
