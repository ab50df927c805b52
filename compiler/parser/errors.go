package parser

import (
	"fmt"

	"github.com/kastree-lang/kastree/compiler/ast"
)

// ParseError represents a parsing error. Parsing stops at the first one.
type ParseError struct {
	Message  string
	Position ast.Position
	Near     string // lexeme of the offending token, "" at end of input
	Lexical  bool   // reported by the lexer rather than the grammar
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s (near '%s')", e.Position, e.Message, e.Near)
}

// ErrorCode returns a unique error code for this error type
func (e *ParseError) ErrorCode() string {
	return "SYN001"
}

func (e *ParseError) kind() string {
	if e.Lexical {
		return "lexical"
	}
	return "syntax"
}

// Severity returns the severity level
func (e *ParseError) Severity() string {
	return "error"
}

// ToJSON converts the error to a JSON-compatible structure
func (e *ParseError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"code":     e.ErrorCode(),
		"type":     e.kind(),
		"severity": e.Severity(),
		"file":     e.Position.File,
		"line":     e.Position.Line,
		"column":   e.Position.Column,
		"message":  e.Message,
	}
}

// ParseErrorList collects the errors of several parses, for callers that
// check many sources before reporting
type ParseErrorList []*ParseError

// Error implements the error interface for error lists
func (el ParseErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (el ParseErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// HasErrors returns true if there are any errors
func (el ParseErrorList) HasErrors() bool {
	return len(el) > 0
}

// Count returns the number of errors
func (el ParseErrorList) Count() int {
	return len(el)
}

// ToJSON converts all errors to JSON-compatible structures
func (el ParseErrorList) ToJSON() map[string]interface{} {
	errors := make([]map[string]interface{}, len(el))
	for i, err := range el {
		errors[i] = err.ToJSON()
	}

	return map[string]interface{}{
		"status": "error",
		"errors": errors,
	}
}

// Format formats all errors as a human-readable string
func (el ParseErrorList) Format() string {
	if len(el) == 0 {
		return "No errors"
	}

	result := fmt.Sprintf("Found %d parsing error(s):\n\n", len(el))
	for i, err := range el {
		result += fmt.Sprintf("%d. %s\n", i+1, err.Error())
	}
	return result
}
