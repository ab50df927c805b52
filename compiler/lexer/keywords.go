package lexer

// keywords maps hard keywords to their token types for O(1) lookup.
// Soft keywords and modifiers (by, get, set, where, data, private, ...)
// are lexed as identifiers and recognized by the parser in context.
var keywords = map[string]TokenType{
	// Declarations
	"class":     TOKEN_CLASS,
	"fun":       TOKEN_FUN,
	"interface": TOKEN_INTERFACE,
	"object":    TOKEN_OBJECT,
	"package":   TOKEN_PACKAGE,
	"typealias": TOKEN_TYPEALIAS,
	"val":       TOKEN_VAL,
	"var":       TOKEN_VAR,

	// Control flow
	"break":    TOKEN_BREAK,
	"continue": TOKEN_CONTINUE,
	"do":       TOKEN_DO,
	"else":     TOKEN_ELSE,
	"for":      TOKEN_FOR,
	"if":       TOKEN_IF,
	"return":   TOKEN_RETURN,
	"throw":    TOKEN_THROW,
	"try":      TOKEN_TRY,
	"when":     TOKEN_WHEN,
	"while":    TOKEN_WHILE,

	// Operators
	"as": TOKEN_AS,
	"in": TOKEN_IN,
	"is": TOKEN_IS,

	// Values
	"false": TOKEN_FALSE,
	"null":  TOKEN_NULL,
	"super": TOKEN_SUPER,
	"this":  TOKEN_THIS,
	"true":  TOKEN_TRUE,
}

// lookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func lookupKeyword(lexeme string) (TokenType, bool) {
	if tokenType, ok := keywords[lexeme]; ok {
		return tokenType, true
	}
	return TOKEN_IDENTIFIER, false
}

// IsKeyword checks if a string is a hard keyword
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// Keywords returns every hard keyword, for tooling such as suggestions
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for k := range keywords {
		words = append(words, k)
	}
	return words
}
