package errors

import "strings"

// Phases
const (
	PhaseLexer  = "lexer"
	PhaseParser = "parser"
	PhaseWriter = "writer"
)

// Error codes by phase
// E001-E099: Lexer errors
// E100-E199: Parser errors
// E900-E999: Tree invariant violations

const (
	// Lexer errors (E001-E099)
	ErrUnterminatedString     = "E001"
	ErrInvalidCharacter       = "E002"
	ErrInvalidNumber          = "E003"
	ErrUnterminatedComment    = "E004"
	ErrInvalidEscape          = "E005"
	ErrInvalidUnicode         = "E006"
	ErrUnterminatedChar       = "E007"
	ErrEmptyChar              = "E008"
	ErrUnterminatedIdentifier = "E009"
	ErrUnterminatedTemplate   = "E010"
	ErrLexical                = "E099"

	// Parser errors (E100-E199)
	ErrUnexpectedToken       = "E100"
	ErrExpectedName          = "E101"
	ErrExpectedType          = "E102"
	ErrExpectedColon         = "E103"
	ErrExpectedBrace         = "E104"
	ErrExpectedParen         = "E105"
	ErrExpectedBracket       = "E106"
	ErrExpectedExpression    = "E107"
	ErrExpectedArrow         = "E108"
	ErrExpectedKeyword       = "E109"
	ErrMissingCatchOrFinally = "E110"
	ErrInvalidAccessor       = "E111"
	ErrInvalidAnnotation     = "E112"
	ErrUnexpectedEOF         = "E113"
	ErrExpectedDeclaration   = "E114"
	ErrExpectedAngle         = "E115"
	ErrSyntax                = "E199"

	// Invariant violations (E900-E999)
	ErrInvariantViolation = "E900"
	ErrIllegalProduction  = "E901"
	ErrAnchorContainment  = "E902"
	ErrMissingNode        = "E903"
	ErrUnknownVariant     = "E904"
	ErrInternal           = "E999"
)

// ErrorMessages maps error codes to their default messages
var ErrorMessages = map[string]string{
	ErrUnterminatedString:     "Unterminated string literal",
	ErrInvalidCharacter:       "Unexpected character",
	ErrInvalidNumber:          "Invalid number literal",
	ErrUnterminatedComment:    "Unterminated block comment",
	ErrInvalidEscape:          "Illegal escape sequence",
	ErrInvalidUnicode:         "Invalid unicode escape",
	ErrUnterminatedChar:       "Unterminated character literal",
	ErrEmptyChar:              "Empty character literal",
	ErrUnterminatedIdentifier: "Unterminated quoted identifier",
	ErrUnterminatedTemplate:   "Unterminated template expression",
	ErrLexical:                "Lexical error",

	ErrUnexpectedToken:       "Unexpected token",
	ErrExpectedName:          "Expected a name",
	ErrExpectedType:          "Expected a type",
	ErrExpectedColon:         "Expected ':'",
	ErrExpectedBrace:         "Expected a brace",
	ErrExpectedParen:         "Expected a parenthesis",
	ErrExpectedBracket:       "Expected a bracket",
	ErrExpectedExpression:    "Expected an expression",
	ErrExpectedArrow:         "Expected '->'",
	ErrExpectedKeyword:       "Expected a keyword",
	ErrMissingCatchOrFinally: "Try without catch or finally",
	ErrInvalidAccessor:       "Invalid property accessor",
	ErrInvalidAnnotation:     "Invalid annotation",
	ErrUnexpectedEOF:         "Unexpected end of file",
	ErrExpectedDeclaration:   "Expected a declaration",
	ErrExpectedAngle:         "Expected an angle bracket",
	ErrSyntax:                "Syntax error",

	ErrInvariantViolation: "Tree invariant violated",
	ErrIllegalProduction:  "Anchor production not legal for node",
	ErrAnchorContainment:  "Child anchor escapes its parent",
	ErrMissingNode:        "Required node missing",
	ErrUnknownVariant:     "Unknown node variant",
	ErrInternal:           "Internal error",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetPhaseForCode returns the phase name for an error code
func GetPhaseForCode(code string) string {
	if len(code) != 4 || code[0] != 'E' {
		return "unknown"
	}
	switch {
	case code >= "E001" && code <= "E099":
		return PhaseLexer
	case code >= "E100" && code <= "E199":
		return PhaseParser
	case code >= "E900" && code <= "E999":
		return PhaseWriter
	default:
		return "unknown"
	}
}

// lexicalCode classifies a lexer message
func lexicalCode(msg string) string {
	switch {
	case strings.HasPrefix(msg, "Unterminated string"):
		return ErrUnterminatedString
	case strings.HasPrefix(msg, "Unterminated template"):
		return ErrUnterminatedTemplate
	case strings.HasPrefix(msg, "Unterminated block comment"):
		return ErrUnterminatedComment
	case strings.HasPrefix(msg, "Unterminated character"):
		return ErrUnterminatedChar
	case strings.HasPrefix(msg, "Unterminated quoted identifier"):
		return ErrUnterminatedIdentifier
	case strings.HasPrefix(msg, "Unterminated escape"), strings.HasPrefix(msg, "Illegal escape"):
		return ErrInvalidEscape
	case strings.HasPrefix(msg, "Invalid unicode"):
		return ErrInvalidUnicode
	case strings.HasPrefix(msg, "Empty character"):
		return ErrEmptyChar
	case strings.HasPrefix(msg, "Unexpected character"):
		return ErrInvalidCharacter
	case strings.Contains(msg, "scientific notation"), strings.Contains(msg, "number"):
		return ErrInvalidNumber
	}
	return ErrLexical
}

// syntaxCode classifies a parser message
func syntaxCode(msg string) string {
	switch {
	case strings.HasSuffix(msg, "end of file"):
		return ErrUnexpectedEOF
	case strings.HasPrefix(msg, "Unexpected"):
		return ErrUnexpectedToken
	case strings.Contains(msg, "'catch' or 'finally'"):
		return ErrMissingCatchOrFinally
	case strings.Contains(msg, "getter"), strings.Contains(msg, "setter"):
		return ErrInvalidAccessor
	case strings.Contains(msg, "annotation"), msg == "Expecting '@'":
		return ErrInvalidAnnotation
	case strings.Contains(msg, "'->'"):
		return ErrExpectedArrow
	case strings.Contains(msg, "declaration"):
		return ErrExpectedDeclaration
	case strings.Contains(msg, "name"):
		return ErrExpectedName
	case strings.Contains(msg, "type"):
		return ErrExpectedType
	case strings.Contains(msg, "expression"), strings.Contains(msg, "element"), strings.Contains(msg, "arguments"):
		return ErrExpectedExpression
	case strings.Contains(msg, "'{'"), strings.Contains(msg, "'}'"):
		return ErrExpectedBrace
	case strings.Contains(msg, "'('"), strings.Contains(msg, "')'"):
		return ErrExpectedParen
	case strings.Contains(msg, "'['"), strings.Contains(msg, "']'"):
		return ErrExpectedBracket
	case strings.Contains(msg, "'<'"), strings.Contains(msg, "'>'"):
		return ErrExpectedAngle
	case strings.Contains(msg, "':'"):
		return ErrExpectedColon
	case strings.HasPrefix(msg, "Expecting '"):
		return ErrExpectedKeyword
	}
	return ErrSyntax
}

// violationCode classifies an invariant violation message
func violationCode(msg string) string {
	switch {
	case strings.HasPrefix(msg, "production "):
		return ErrIllegalProduction
	case strings.Contains(msg, "escapes parent"):
		return ErrAnchorContainment
	case strings.HasPrefix(msg, "missing"), strings.Contains(msg, "without"):
		return ErrMissingNode
	case strings.HasPrefix(msg, "unknown"):
		return ErrUnknownVariant
	}
	return ErrInvariantViolation
}
