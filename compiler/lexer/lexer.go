package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type modeKind int

const (
	modeCode modeKind = iota
	modeString
	modeRawString
)

// mode is one level of the lexer's mode stack. Code inside ${ } is a
// template mode that ends at its matching }.
type mode struct {
	kind     modeKind
	template bool
	depth    int // unmatched { inside a template
}

// Lexer tokenizes Kotlin source code. Whitespace and comments are emitted
// as trivia tokens so that every byte of the input belongs to some token.
type Lexer struct {
	source      string     // Source code
	start       int        // Byte offset where the current token starts
	current     int        // Current byte offset
	line        int        // Current line number
	column      int        // Current column number, in runes
	startLine   int        // Line where the current token started
	startColumn int        // Column where the current token started
	file        string     // Source file path
	tokens      []Token    // Collected tokens
	errors      []LexError // Collected errors
	modes       []mode     // Code, string and template nesting
}

// New creates a new Lexer for the given source code
func New(source, file string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		file:   file,
		tokens: make([]Token, 0, len(source)/4), // Pre-allocate based on estimate
		errors: make([]LexError, 0),
		modes:  []mode{{kind: modeCode}},
	}
}

// ScanTokens scans all tokens from the source and returns them with any errors
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		switch l.mode().kind {
		case modeString, modeRawString:
			l.scanStringPart()
		default:
			l.scanToken()
		}
	}

	if len(l.modes) > 1 {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		if l.mode().kind == modeCode {
			l.addError("Unterminated template expression")
		} else {
			l.addError("Unterminated string literal")
		}
	}

	// Add EOF token
	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Line:   l.line,
		Column: l.column,
		File:   l.file,
		Start:  l.current,
		End:    l.current,
	})

	return l.tokens, l.errors
}

// Significant filters trivia out of a token stream
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

func (l *Lexer) mode() *mode {
	return &l.modes[len(l.modes)-1]
}

// scanToken scans a single token in code mode
func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case ' ', '\t', '\r', '\n', '\f':
		l.scanWhitespace()

	// Single-character tokens
	case '(':
		l.addToken(TOKEN_LPAREN)
	case ')':
		l.addToken(TOKEN_RPAREN)
	case '[':
		l.addToken(TOKEN_LBRACKET)
	case ']':
		l.addToken(TOKEN_RBRACKET)
	case ',':
		l.addToken(TOKEN_COMMA)
	case ';':
		l.addToken(TOKEN_SEMICOLON)
	case '@':
		l.addToken(TOKEN_AT)
	case '{':
		if m := l.mode(); m.template {
			m.depth++
		}
		l.addToken(TOKEN_LBRACE)
	case '}':
		if m := l.mode(); m.template {
			if m.depth == 0 {
				l.modes = l.modes[:len(l.modes)-1]
				l.addToken(TOKEN_TEMPLATE_END)
				return
			}
			m.depth--
		}
		l.addToken(TOKEN_RBRACE)

	// Potentially multi-character tokens
	case '.':
		if l.match('.') {
			if l.match('<') {
				l.addToken(TOKEN_DOT_DOT_LESS)
			} else {
				l.addToken(TOKEN_DOT_DOT)
			}
		} else if l.isDigit(l.peek()) {
			l.scanNumber()
		} else {
			l.addToken(TOKEN_DOT)
		}
	case ':':
		if l.match(':') {
			l.addToken(TOKEN_COLON_COLON)
		} else {
			l.addToken(TOKEN_COLON)
		}
	case '?':
		if l.match('.') {
			l.addToken(TOKEN_QUESTION_DOT)
		} else if l.match(':') {
			l.addToken(TOKEN_ELVIS)
		} else {
			l.addToken(TOKEN_QUESTION)
		}
	case '+':
		if l.match('+') {
			l.addToken(TOKEN_PLUS_PLUS)
		} else if l.match('=') {
			l.addToken(TOKEN_PLUS_EQUAL)
		} else {
			l.addToken(TOKEN_PLUS)
		}
	case '-':
		if l.match('-') {
			l.addToken(TOKEN_MINUS_MINUS)
		} else if l.match('=') {
			l.addToken(TOKEN_MINUS_EQUAL)
		} else if l.match('>') {
			l.addToken(TOKEN_ARROW)
		} else {
			l.addToken(TOKEN_MINUS)
		}
	case '*':
		if l.match('=') {
			l.addToken(TOKEN_STAR_EQUAL)
		} else {
			l.addToken(TOKEN_STAR)
		}
	case '%':
		if l.match('=') {
			l.addToken(TOKEN_PERCENT_EQUAL)
		} else {
			l.addToken(TOKEN_PERCENT)
		}
	case '/':
		if l.match('/') {
			l.scanLineComment()
		} else if l.match('*') {
			l.scanBlockComment()
		} else if l.match('=') {
			l.addToken(TOKEN_SLASH_EQUAL)
		} else {
			l.addToken(TOKEN_SLASH)
		}
	case '=':
		if l.match('=') {
			if l.match('=') {
				l.addToken(TOKEN_EQUAL_EQUAL_EQUAL)
			} else {
				l.addToken(TOKEN_EQUAL_EQUAL)
			}
		} else {
			l.addToken(TOKEN_EQUAL)
		}
	case '!':
		switch {
		case l.match('='):
			if l.match('=') {
				l.addToken(TOKEN_BANG_EQUAL_EQUAL)
			} else {
				l.addToken(TOKEN_BANG_EQUAL)
			}
		case l.match('!'):
			l.addToken(TOKEN_BANG_BANG)
		case l.matchWord("in"):
			l.addToken(TOKEN_NOT_IN)
		case l.matchWord("is"):
			l.addToken(TOKEN_NOT_IS)
		default:
			l.addToken(TOKEN_BANG)
		}
	case '<':
		if l.match('=') {
			l.addToken(TOKEN_LESS_EQUAL)
		} else {
			l.addToken(TOKEN_LESS)
		}
	case '>':
		if l.match('=') {
			l.addToken(TOKEN_GREATER_EQUAL)
		} else {
			l.addToken(TOKEN_GREATER)
		}
	case '&':
		if l.match('&') {
			l.addToken(TOKEN_AMPERSAND_AMPERSAND)
		} else {
			l.addError("Unexpected character: &")
		}
	case '|':
		if l.match('|') {
			l.addToken(TOKEN_PIPE_PIPE)
		} else {
			l.addError("Unexpected character: |")
		}

	// Literals
	case '"':
		if l.peek() == '"' && l.peekNext() == '"' {
			l.advance()
			l.advance()
			l.modes = append(l.modes, mode{kind: modeRawString})
			l.addToken(TOKEN_RAW_STRING_START)
		} else {
			l.modes = append(l.modes, mode{kind: modeString})
			l.addToken(TOKEN_STRING_START)
		}
	case '\'':
		l.scanChar()
	case '`':
		l.scanQuotedIdentifier()
	case '#':
		if l.start == 0 && l.match('!') {
			// Shebang line, kept as a comment
			l.scanLineComment()
		} else {
			l.addError("Unexpected character: #")
		}

	default:
		if l.isDigit(r) {
			l.scanNumber()
		} else if l.isAlpha(r) {
			l.scanIdentifier()
		} else {
			l.addError("Unexpected character: " + string(r))
		}
	}
}

// scanWhitespace scans a run of whitespace, newlines included
func (l *Lexer) scanWhitespace() {
	for isSpace(l.peek()) {
		l.advance()
	}
	l.addToken(TOKEN_WHITESPACE)
}

// scanLineComment scans a comment up to, not including, the line end
func (l *Lexer) scanLineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	l.addToken(TOKEN_COMMENT)
}

// scanBlockComment scans a /* */ comment. Block comments nest.
func (l *Lexer) scanBlockComment() {
	depth := 1
	for !l.isAtEnd() {
		if l.peek() == '/' && l.peekNext() == '*' {
			l.advance()
			l.advance()
			depth++
		} else if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			depth--
			if depth == 0 {
				l.addToken(TOKEN_COMMENT)
				return
			}
		} else {
			l.advance()
		}
	}
	l.addError("Unterminated block comment")
}

// scanStringPart scans the next piece of a string literal
func (l *Lexer) scanStringPart() {
	raw := l.mode().kind == modeRawString
	r := l.peek()

	switch {
	case raw && l.closesRawString():
		l.advance()
		l.advance()
		l.advance()
		l.modes = l.modes[:len(l.modes)-1]
		l.addToken(TOKEN_STRING_END)
	case !raw && r == '"':
		l.advance()
		l.modes = l.modes[:len(l.modes)-1]
		l.addToken(TOKEN_STRING_END)
	case !raw && r == '\\':
		l.scanEscape()
	case !raw && r == '\n':
		// Leave the newline to code mode so scanning can continue
		l.modes = l.modes[:len(l.modes)-1]
		l.addError("Unterminated string literal")
	case r == '$' && l.peekNext() == '{':
		l.advance()
		l.advance()
		l.modes = append(l.modes, mode{kind: modeCode, template: true})
		l.addToken(TOKEN_TEMPLATE_START)
	case r == '$' && l.isAlpha(l.peekNext()):
		l.advance()
		for l.isAlphaNumeric(l.peek()) {
			l.advance()
		}
		l.addToken(TOKEN_STRING_REF)
	default:
		l.scanStringText(raw)
	}
}

// scanStringText scans literal text up to the next escape, template or end
func (l *Lexer) scanStringText(raw bool) {
	for !l.isAtEnd() {
		r := l.peek()
		if l.current > l.start {
			if r == '$' && (l.peekNext() == '{' || l.isAlpha(l.peekNext())) {
				break
			}
			if raw && l.closesRawString() {
				break
			}
		}
		if !raw && (r == '"' || r == '\\' || r == '\n') {
			break
		}
		l.advance()
	}
	l.addToken(TOKEN_STRING_TEXT)
}

// closesRawString reports whether the current position starts the closing
// quotes of a raw string. Of a run of more than three quotes, only the last
// three close it.
func (l *Lexer) closesRawString() bool {
	rest := l.source[l.current:]
	return strings.HasPrefix(rest, `"""`) && !strings.HasPrefix(rest, `""""`)
}

// scanEscape scans a backslash escape inside a string
func (l *Lexer) scanEscape() {
	l.advance() // consume backslash
	if l.isAtEnd() {
		l.addError("Unterminated escape sequence")
		return
	}
	switch r := l.advance(); r {
	case 't', 'b', 'n', 'r', '\'', '"', '\\', '$':
		l.addToken(TOKEN_STRING_ESCAPE)
	case 'u':
		if !l.scanHexDigits(4) {
			l.addError("Invalid unicode escape")
			return
		}
		l.addToken(TOKEN_STRING_ESCAPE)
	default:
		l.addError("Illegal escape: \\" + string(r))
	}
}

// scanChar scans a character literal
func (l *Lexer) scanChar() {
	if l.peek() == '\\' {
		l.advance()
		switch r := l.advance(); r {
		case 't', 'b', 'n', 'r', '\'', '"', '\\', '$':
		case 'u':
			if !l.scanHexDigits(4) {
				l.addError("Invalid unicode escape")
				return
			}
		default:
			l.addError("Illegal escape: \\" + string(r))
			return
		}
	} else if l.peek() == '\'' || l.peek() == '\n' || l.isAtEnd() {
		l.addError("Empty character literal")
		return
	} else {
		l.advance()
	}
	if !l.match('\'') {
		l.addError("Unterminated character literal")
		return
	}
	l.addToken(TOKEN_CHAR_LITERAL)
}

func (l *Lexer) scanHexDigits(n int) bool {
	for i := 0; i < n; i++ {
		if !isHexDigit(l.peek()) {
			return false
		}
		l.advance()
	}
	return true
}

// scanNumber scans an integer or float literal, suffixes included. The
// lexeme keeps its original spelling.
func (l *Lexer) scanNumber() {
	first := l.source[l.start]
	isFloat := first == '.'

	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	} else if first == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.advance()
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
	} else {
		// Scan integer part, or the fraction after a leading '.'
		for l.isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}

		// Check for decimal point
		if !isFloat && l.peek() == '.' && l.isDigit(l.peekNext()) {
			isFloat = true
			l.advance()
			for l.isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
		}

		// Check for scientific notation
		if l.peek() == 'e' || l.peek() == 'E' {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			if !l.isDigit(l.peek()) {
				l.addError("Invalid scientific notation")
				return
			}
			for l.isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
		}

		if l.peek() == 'f' || l.peek() == 'F' {
			isFloat = true
			l.advance()
		}
	}

	if !isFloat {
		if l.peek() == 'u' || l.peek() == 'U' {
			l.advance()
		}
		if l.peek() == 'L' {
			l.advance()
		}
		l.addToken(TOKEN_INT_LITERAL)
		return
	}
	l.addToken(TOKEN_FLOAT_LITERAL)
}

// scanIdentifier scans an identifier or keyword
func (l *Lexer) scanIdentifier() {
	for l.isAlphaNumeric(l.peek()) {
		l.advance()
	}

	lexeme := l.source[l.start:l.current]
	tokenType, isKeyword := lookupKeyword(lexeme)
	if isKeyword {
		if tokenType == TOKEN_AS && l.match('?') {
			tokenType = TOKEN_AS_SAFE
		}
		l.addToken(tokenType)
		return
	}
	l.addToken(TOKEN_IDENTIFIER)
}

// scanQuotedIdentifier scans a `backticked` identifier, backticks included
func (l *Lexer) scanQuotedIdentifier() {
	for !l.isAtEnd() && l.peek() != '`' && l.peek() != '\n' {
		l.advance()
	}
	if !l.match('`') || l.current-l.start == 2 {
		l.addError("Unterminated quoted identifier")
		return
	}
	l.addToken(TOKEN_IDENTIFIER)
}

// Helper methods

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

// match checks if the current character matches the expected character
// If it matches, consumes it and returns true
func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

// matchWord consumes word if it follows and is not the prefix of a longer
// identifier
func (l *Lexer) matchWord(word string) bool {
	rest := l.source[l.current:]
	if !strings.HasPrefix(rest, word) {
		return false
	}
	if next, _ := utf8.DecodeRuneInString(rest[len(word):]); l.isAlphaNumeric(next) {
		return false
	}
	for range word {
		l.advance()
	}
	return true
}

// peek returns the current character without consuming it
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekNext returns the character after the current one without consuming it
func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return r
}

// isDigit checks if a rune is a digit
func (l *Lexer) isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isAlpha checks if a rune is alphabetic or underscore
func (l *Lexer) isAlpha(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isAlphaNumeric checks if a rune is alphanumeric or underscore
func (l *Lexer) isAlphaNumeric(r rune) bool {
	return l.isAlpha(r) || l.isDigit(r) || unicode.IsDigit(r)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f'
}

// addToken adds a token spanning the current lexeme
func (l *Lexer) addToken(tokenType TokenType) {
	l.tokens = append(l.tokens, Token{
		Type:   tokenType,
		Lexeme: l.source[l.start:l.current],
		Line:   l.startLine,
		Column: l.startColumn,
		File:   l.file,
		Start:  l.start,
		End:    l.current,
	})
}

// addError records an error at the start of the current lexeme
func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.startLine,
		Column:  l.startColumn,
		File:    l.file,
		Offset:  l.start,
	})
}
