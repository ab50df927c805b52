package lexer

import (
	"strings"
	"testing"
)

// Helper function to create a lexer and scan tokens
func scanSource(source string) ([]Token, []LexError) {
	lexer := New(source, "test.kt")
	return lexer.ScanTokens()
}

// Helper to check that the significant tokens match expected types
func checkTokenTypes(t *testing.T, tokens []Token, expected []TokenType) {
	t.Helper()

	// Remove trivia and the EOF token for comparison
	actual := Significant(tokens)
	if len(actual) > 0 && actual[len(actual)-1].Type == TOKEN_EOF {
		actual = actual[:len(actual)-1]
	}

	if len(actual) != len(expected) {
		t.Errorf("Expected %d tokens, got %d", len(expected), len(actual))
		t.Logf("Expected: %v", expected)
		t.Logf("Got: %v", tokensToTypes(actual))
		return
	}

	for i, token := range actual {
		if token.Type != expected[i] {
			t.Errorf("Token %d: expected %s, got %s", i, expected[i], token.Type)
		}
	}
}

func tokensToTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func TestLexer_Delimiters(t *testing.T) {
	source := "( ) { } [ ] , . ; : :: @ ->"
	tokens, errors := scanSource(source)

	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	expected := []TokenType{
		TOKEN_LPAREN, TOKEN_RPAREN,
		TOKEN_LBRACE, TOKEN_RBRACE,
		TOKEN_LBRACKET, TOKEN_RBRACKET,
		TOKEN_COMMA, TOKEN_DOT, TOKEN_SEMICOLON,
		TOKEN_COLON, TOKEN_COLON_COLON, TOKEN_AT, TOKEN_ARROW,
	}

	checkTokenTypes(t, tokens, expected)
}

func TestLexer_Operators(t *testing.T) {
	source := "+ - * / % ++ -- += -= *= /= %= = == === ! != !== !! < <= > >= && || ? ?. ?: .. ..<"
	tokens, errors := scanSource(source)

	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	expected := []TokenType{
		TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH, TOKEN_PERCENT,
		TOKEN_PLUS_PLUS, TOKEN_MINUS_MINUS,
		TOKEN_PLUS_EQUAL, TOKEN_MINUS_EQUAL, TOKEN_STAR_EQUAL, TOKEN_SLASH_EQUAL, TOKEN_PERCENT_EQUAL,
		TOKEN_EQUAL, TOKEN_EQUAL_EQUAL, TOKEN_EQUAL_EQUAL_EQUAL,
		TOKEN_BANG, TOKEN_BANG_EQUAL, TOKEN_BANG_EQUAL_EQUAL, TOKEN_BANG_BANG,
		TOKEN_LESS, TOKEN_LESS_EQUAL, TOKEN_GREATER, TOKEN_GREATER_EQUAL,
		TOKEN_AMPERSAND_AMPERSAND, TOKEN_PIPE_PIPE,
		TOKEN_QUESTION, TOKEN_QUESTION_DOT, TOKEN_ELVIS,
		TOKEN_DOT_DOT, TOKEN_DOT_DOT_LESS,
	}

	checkTokenTypes(t, tokens, expected)
}

func TestLexer_Keywords(t *testing.T) {
	source := "as as? in !in is !is val fun where by !inside"
	tokens, errors := scanSource(source)

	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	// Soft keywords are identifiers; !in only counts as a whole word
	expected := []TokenType{
		TOKEN_AS, TOKEN_AS_SAFE, TOKEN_IN, TOKEN_NOT_IN, TOKEN_IS, TOKEN_NOT_IS,
		TOKEN_VAL, TOKEN_FUN, TOKEN_IDENTIFIER, TOKEN_IDENTIFIER,
		TOKEN_BANG, TOKEN_IDENTIFIER,
	}

	checkTokenTypes(t, tokens, expected)
}

func TestLexer_Identifiers(t *testing.T) {
	source := "foo _bar baz9 `with spaces` ünïcode"
	tokens, errors := scanSource(source)

	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	significant := Significant(tokens)
	want := []string{"foo", "_bar", "baz9", "`with spaces`", "ünïcode"}
	for i, lexeme := range want {
		if significant[i].Type != TOKEN_IDENTIFIER {
			t.Errorf("Token %d: expected IDENTIFIER, got %s", i, significant[i].Type)
		}
		if significant[i].Lexeme != lexeme {
			t.Errorf("Token %d: expected lexeme %q, got %q", i, lexeme, significant[i].Lexeme)
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		source string
		want   TokenType
	}{
		{"1", TOKEN_INT_LITERAL},
		{"1_000", TOKEN_INT_LITERAL},
		{"0xFF", TOKEN_INT_LITERAL},
		{"0b101", TOKEN_INT_LITERAL},
		{"1L", TOKEN_INT_LITERAL},
		{"2u", TOKEN_INT_LITERAL},
		{"3uL", TOKEN_INT_LITERAL},
		{"1.5", TOKEN_FLOAT_LITERAL},
		{".5", TOKEN_FLOAT_LITERAL},
		{"1e10", TOKEN_FLOAT_LITERAL},
		{"2.5f", TOKEN_FLOAT_LITERAL},
		{"1.0E-3", TOKEN_FLOAT_LITERAL},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, errors := scanSource(tt.source)
			if len(errors) > 0 {
				t.Fatalf("Unexpected errors: %v", errors)
			}
			checkTokenTypes(t, tokens, []TokenType{tt.want})
			if tokens[0].Lexeme != tt.source {
				t.Errorf("Expected lexeme %q, got %q", tt.source, tokens[0].Lexeme)
			}
		})
	}
}

func TestLexer_Range(t *testing.T) {
	tokens, _ := scanSource("1..2")
	checkTokenTypes(t, tokens, []TokenType{TOKEN_INT_LITERAL, TOKEN_DOT_DOT, TOKEN_INT_LITERAL})
}

func TestLexer_Chars(t *testing.T) {
	tokens, errors := scanSource(`'a' '\n' 'A' '$'`)
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_CHAR_LITERAL, TOKEN_CHAR_LITERAL, TOKEN_CHAR_LITERAL, TOKEN_CHAR_LITERAL,
	})
}

func TestLexer_StringTemplates(t *testing.T) {
	tokens, errors := scanSource(`"a$b${c}\n"`)
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STRING_START,
		TOKEN_STRING_TEXT,
		TOKEN_STRING_REF,
		TOKEN_TEMPLATE_START, TOKEN_IDENTIFIER, TOKEN_TEMPLATE_END,
		TOKEN_STRING_ESCAPE,
		TOKEN_STRING_END,
	})

	if tokens[1].Lexeme != "a" || tokens[2].Lexeme != "$b" || tokens[6].Lexeme != `\n` {
		t.Errorf("Unexpected lexemes: %q %q %q", tokens[1].Lexeme, tokens[2].Lexeme, tokens[6].Lexeme)
	}
}

func TestLexer_NestedTemplates(t *testing.T) {
	tokens, errors := scanSource(`"${m["k"]} ${ f { 1 } }"`)
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	// Braces inside a template do not end it
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STRING_START,
		TOKEN_TEMPLATE_START,
		TOKEN_IDENTIFIER, TOKEN_LBRACKET,
		TOKEN_STRING_START, TOKEN_STRING_TEXT, TOKEN_STRING_END,
		TOKEN_RBRACKET,
		TOKEN_TEMPLATE_END,
		TOKEN_STRING_TEXT,
		TOKEN_TEMPLATE_START,
		TOKEN_IDENTIFIER, TOKEN_LBRACE, TOKEN_INT_LITERAL, TOKEN_RBRACE,
		TOKEN_TEMPLATE_END,
		TOKEN_STRING_END,
	})
}

func TestLexer_RawStrings(t *testing.T) {
	tokens, errors := scanSource(`"""a"b $x""""`)
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	// Of the four closing quotes, the first is text
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_RAW_STRING_START,
		TOKEN_STRING_TEXT,
		TOKEN_STRING_REF,
		TOKEN_STRING_TEXT,
		TOKEN_STRING_END,
	})
	if tokens[1].Lexeme != `a"b ` {
		t.Errorf("Expected text %q, got %q", `a"b `, tokens[1].Lexeme)
	}
	if tokens[3].Lexeme != `"` || tokens[4].Lexeme != `"""` {
		t.Errorf("Unexpected closing lexemes: %q %q", tokens[3].Lexeme, tokens[4].Lexeme)
	}
}

func TestLexer_Comments(t *testing.T) {
	source := "// line\n/* block /* nested */ */ x"
	tokens, errors := scanSource(source)
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}

	var comments []string
	for _, tok := range tokens {
		if tok.Type == TOKEN_COMMENT {
			comments = append(comments, tok.Lexeme)
		}
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d: %v", len(comments), comments)
	}
	if comments[0] != "// line" {
		t.Errorf("Expected line comment without newline, got %q", comments[0])
	}
	if comments[1] != "/* block /* nested */ */" {
		t.Errorf("Expected nested block comment, got %q", comments[1])
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_IDENTIFIER})
}

func TestLexer_Shebang(t *testing.T) {
	tokens, errors := scanSource("#!/usr/bin/env kotlin\nval x = 1")
	if len(errors) > 0 {
		t.Errorf("Unexpected errors: %v", errors)
	}
	if tokens[0].Type != TOKEN_COMMENT || tokens[0].Lexeme != "#!/usr/bin/env kotlin" {
		t.Errorf("Expected shebang comment, got %s %q", tokens[0].Type, tokens[0].Lexeme)
	}
}

// Every byte of the input belongs to exactly one token
func TestLexer_Lossless(t *testing.T) {
	source := `package demo

/** Doc. */
class A<T>(val x: T) : B() {
    fun f() = "s$x${x?.let { it }}" // trailing
}
`
	tokens, errors := scanSource(source)
	if len(errors) > 0 {
		t.Fatalf("Unexpected errors: %v", errors)
	}

	var sb strings.Builder
	offset := 0
	for _, tok := range tokens {
		if tok.Start != offset {
			t.Fatalf("Token %s at %d, expected %d", tok.Type, tok.Start, offset)
		}
		sb.WriteString(tok.Lexeme)
		offset = tok.End
	}
	if sb.String() != source {
		t.Errorf("Concatenated lexemes differ from source")
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens, _ := scanSource("val éé\n  = 1")
	significant := Significant(tokens)

	tests := []struct {
		lexeme string
		line   int
		column int
		start  int
	}{
		{"val", 1, 1, 0},
		{"éé", 1, 5, 4},
		{"=", 2, 3, 11},
		{"1", 2, 5, 13},
	}
	for i, tt := range tests {
		tok := significant[i]
		if tok.Lexeme != tt.lexeme || tok.Line != tt.line || tok.Column != tt.column || tok.Start != tt.start {
			t.Errorf("Token %d: expected %q at %d:%d (offset %d), got %q at %d:%d (offset %d)",
				i, tt.lexeme, tt.line, tt.column, tt.start, tok.Lexeme, tok.Line, tok.Column, tok.Start)
		}
	}

	eof := tokens[len(tokens)-1]
	if eof.Type != TOKEN_EOF || eof.Start != 14 {
		t.Errorf("Expected EOF at offset 14, got %s at %d", eof.Type, eof.Start)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"unterminated string", `"abc`, "Unterminated string literal"},
		{"string broken by newline", "\"abc\nval", "Unterminated string literal"},
		{"unterminated template", `"${x`, "Unterminated template expression"},
		{"unterminated comment", "/* x", "Unterminated block comment"},
		{"illegal escape", `"\q"`, `Illegal escape: \q`},
		{"bad unicode escape", `'\u00G1'`, "Invalid unicode escape"},
		{"empty char", "''", "Empty character literal"},
		{"unterminated char", "'ab'", "Unterminated character literal"},
		{"unterminated quoted identifier", "`abc", "Unterminated quoted identifier"},
		{"empty quoted identifier", "``", "Unterminated quoted identifier"},
		{"single ampersand", "a & b", "Unexpected character: &"},
		{"hash", "x # y", "Unexpected character: #"},
		{"bad exponent", "1e", "Invalid scientific notation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errors := scanSource(tt.source)
			if len(errors) == 0 {
				t.Fatalf("Expected an error for %q", tt.source)
			}
			if errors[0].Message != tt.message {
				t.Errorf("Expected %q, got %q", tt.message, errors[0].Message)
			}
		})
	}
}

func TestLexer_ErrorPosition(t *testing.T) {
	_, errors := scanSource("val x = 1\nval y = a & b")
	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errors))
	}
	err := errors[0]
	if err.Line != 2 || err.Column != 11 || err.Offset != 20 {
		t.Errorf("Expected error at 2:11 (offset 20), got %d:%d (offset %d)", err.Line, err.Column, err.Offset)
	}
	if err.Error() != "test.kt:2:11: Unexpected character: &" {
		t.Errorf("Unexpected error string %q", err.Error())
	}
}

func TestKeywords(t *testing.T) {
	words := Keywords()
	if len(words) != len(keywords) {
		t.Errorf("Expected %d keywords, got %d", len(keywords), len(words))
	}
	for _, w := range words {
		if !IsKeyword(w) {
			t.Errorf("%q listed but not a keyword", w)
		}
	}
	for _, soft := range []string{"where", "by", "data", "get", "private"} {
		if IsKeyword(soft) {
			t.Errorf("%q should not be a hard keyword", soft)
		}
	}
}

func TestTokenType_String(t *testing.T) {
	tests := map[TokenType]string{
		TOKEN_ARROW:        "->",
		TOKEN_AS_SAFE:      "as?",
		TOKEN_NOT_IN:       "!in",
		TOKEN_IDENTIFIER:   "IDENTIFIER",
		TOKEN_DOT_DOT_LESS: "..<",
		TokenType(999):     "UNKNOWN(999)",
	}
	for tokenType, want := range tests {
		if got := tokenType.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
