package lexer

import "fmt"

// TokenType represents the type of token in Kotlin source
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_WHITESPACE
	TOKEN_COMMENT

	// Hard keywords
	TOKEN_AS
	TOKEN_AS_SAFE
	TOKEN_BREAK
	TOKEN_CLASS
	TOKEN_CONTINUE
	TOKEN_DO
	TOKEN_ELSE
	TOKEN_FALSE
	TOKEN_FOR
	TOKEN_FUN
	TOKEN_IF
	TOKEN_IN
	TOKEN_NOT_IN
	TOKEN_INTERFACE
	TOKEN_IS
	TOKEN_NOT_IS
	TOKEN_NULL
	TOKEN_OBJECT
	TOKEN_PACKAGE
	TOKEN_RETURN
	TOKEN_SUPER
	TOKEN_THIS
	TOKEN_THROW
	TOKEN_TRUE
	TOKEN_TRY
	TOKEN_TYPEALIAS
	TOKEN_VAL
	TOKEN_VAR
	TOKEN_WHEN
	TOKEN_WHILE

	// Literals
	TOKEN_IDENTIFIER
	TOKEN_INT_LITERAL
	TOKEN_FLOAT_LITERAL
	TOKEN_CHAR_LITERAL

	// String templates
	TOKEN_STRING_START     // "
	TOKEN_RAW_STRING_START // """
	TOKEN_STRING_END
	TOKEN_STRING_TEXT
	TOKEN_STRING_ESCAPE // \n, \uXXXX
	TOKEN_STRING_REF    // $name
	TOKEN_TEMPLATE_START
	TOKEN_TEMPLATE_END

	// Delimiters
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_COMMA
	TOKEN_DOT
	TOKEN_SEMICOLON
	TOKEN_COLON
	TOKEN_COLON_COLON
	TOKEN_AT
	TOKEN_ARROW

	// Operators
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_PERCENT
	TOKEN_PLUS_PLUS
	TOKEN_MINUS_MINUS
	TOKEN_PLUS_EQUAL
	TOKEN_MINUS_EQUAL
	TOKEN_STAR_EQUAL
	TOKEN_SLASH_EQUAL
	TOKEN_PERCENT_EQUAL
	TOKEN_EQUAL
	TOKEN_EQUAL_EQUAL
	TOKEN_EQUAL_EQUAL_EQUAL
	TOKEN_BANG
	TOKEN_BANG_EQUAL
	TOKEN_BANG_EQUAL_EQUAL
	TOKEN_BANG_BANG
	TOKEN_LESS
	TOKEN_LESS_EQUAL
	TOKEN_GREATER
	TOKEN_GREATER_EQUAL
	TOKEN_AMPERSAND_AMPERSAND
	TOKEN_PIPE_PIPE
	TOKEN_QUESTION
	TOKEN_QUESTION_DOT
	TOKEN_ELVIS
	TOKEN_DOT_DOT
	TOKEN_DOT_DOT_LESS
)

// Token represents a single token, trivia included
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
	File   string // Source file path
	Start  int    // Byte offset in source where token starts
	End    int    // Byte offset in source where token ends (exclusive)
}

// IsTrivia reports whether the token is whitespace or a comment
func (t Token) IsTrivia() bool {
	return t.Type == TOKEN_WHITESPACE || t.Type == TOKEN_COMMENT
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_WHITESPACE:
		return "WHITESPACE"
	case TOKEN_COMMENT:
		return "COMMENT"
	case TOKEN_AS:
		return "as"
	case TOKEN_AS_SAFE:
		return "as?"
	case TOKEN_BREAK:
		return "break"
	case TOKEN_CLASS:
		return "class"
	case TOKEN_CONTINUE:
		return "continue"
	case TOKEN_DO:
		return "do"
	case TOKEN_ELSE:
		return "else"
	case TOKEN_FALSE:
		return "false"
	case TOKEN_FOR:
		return "for"
	case TOKEN_FUN:
		return "fun"
	case TOKEN_IF:
		return "if"
	case TOKEN_IN:
		return "in"
	case TOKEN_NOT_IN:
		return "!in"
	case TOKEN_INTERFACE:
		return "interface"
	case TOKEN_IS:
		return "is"
	case TOKEN_NOT_IS:
		return "!is"
	case TOKEN_NULL:
		return "null"
	case TOKEN_OBJECT:
		return "object"
	case TOKEN_PACKAGE:
		return "package"
	case TOKEN_RETURN:
		return "return"
	case TOKEN_SUPER:
		return "super"
	case TOKEN_THIS:
		return "this"
	case TOKEN_THROW:
		return "throw"
	case TOKEN_TRUE:
		return "true"
	case TOKEN_TRY:
		return "try"
	case TOKEN_TYPEALIAS:
		return "typealias"
	case TOKEN_VAL:
		return "val"
	case TOKEN_VAR:
		return "var"
	case TOKEN_WHEN:
		return "when"
	case TOKEN_WHILE:
		return "while"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_INT_LITERAL:
		return "INT_LITERAL"
	case TOKEN_FLOAT_LITERAL:
		return "FLOAT_LITERAL"
	case TOKEN_CHAR_LITERAL:
		return "CHAR_LITERAL"
	case TOKEN_STRING_START:
		return "\""
	case TOKEN_RAW_STRING_START:
		return "\"\"\""
	case TOKEN_STRING_END:
		return "STRING_END"
	case TOKEN_STRING_TEXT:
		return "STRING_TEXT"
	case TOKEN_STRING_ESCAPE:
		return "STRING_ESCAPE"
	case TOKEN_STRING_REF:
		return "STRING_REF"
	case TOKEN_TEMPLATE_START:
		return "${"
	case TOKEN_TEMPLATE_END:
		return "TEMPLATE_END"
	case TOKEN_LPAREN:
		return "("
	case TOKEN_RPAREN:
		return ")"
	case TOKEN_LBRACE:
		return "{"
	case TOKEN_RBRACE:
		return "}"
	case TOKEN_LBRACKET:
		return "["
	case TOKEN_RBRACKET:
		return "]"
	case TOKEN_COMMA:
		return ","
	case TOKEN_DOT:
		return "."
	case TOKEN_SEMICOLON:
		return ";"
	case TOKEN_COLON:
		return ":"
	case TOKEN_COLON_COLON:
		return "::"
	case TOKEN_AT:
		return "@"
	case TOKEN_ARROW:
		return "->"
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_STAR:
		return "*"
	case TOKEN_SLASH:
		return "/"
	case TOKEN_PERCENT:
		return "%"
	case TOKEN_PLUS_PLUS:
		return "++"
	case TOKEN_MINUS_MINUS:
		return "--"
	case TOKEN_PLUS_EQUAL:
		return "+="
	case TOKEN_MINUS_EQUAL:
		return "-="
	case TOKEN_STAR_EQUAL:
		return "*="
	case TOKEN_SLASH_EQUAL:
		return "/="
	case TOKEN_PERCENT_EQUAL:
		return "%="
	case TOKEN_EQUAL:
		return "="
	case TOKEN_EQUAL_EQUAL:
		return "=="
	case TOKEN_EQUAL_EQUAL_EQUAL:
		return "==="
	case TOKEN_BANG:
		return "!"
	case TOKEN_BANG_EQUAL:
		return "!="
	case TOKEN_BANG_EQUAL_EQUAL:
		return "!=="
	case TOKEN_BANG_BANG:
		return "!!"
	case TOKEN_LESS:
		return "<"
	case TOKEN_LESS_EQUAL:
		return "<="
	case TOKEN_GREATER:
		return ">"
	case TOKEN_GREATER_EQUAL:
		return ">="
	case TOKEN_AMPERSAND_AMPERSAND:
		return "&&"
	case TOKEN_PIPE_PIPE:
		return "||"
	case TOKEN_QUESTION:
		return "?"
	case TOKEN_QUESTION_DOT:
		return "?."
	case TOKEN_ELVIS:
		return "?:"
	case TOKEN_DOT_DOT:
		return ".."
	case TOKEN_DOT_DOT_LESS:
		return "..<"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}

// LexError represents an error during lexical analysis
type LexError struct {
	Message string
	Line    int
	Column  int
	File    string
	Offset  int
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}
