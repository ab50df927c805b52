// Package errors turns parser and writer failures into structured
// diagnostics for the command line and the language server.
package errors

import (
	"encoding/json"
	goerrors "errors"
	"fmt"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/parser"
)

// Severity orders diagnostics from informational to fatal
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

var severityNames = [...]string{Info: "info", Warning: "warning", Error: "error", Fatal: "fatal"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a severity name. Unknown names decode as Error.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = Error
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
		}
	}
	return nil
}

// SourceLocation is where a diagnostic points
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
	Length int    `json:"length"` // bytes covered, 0 for a point
}

// ErrorContext holds the source lines around a diagnostic
type ErrorContext struct {
	SourceLines []string  `json:"source_lines"`
	FirstLine   int       `json:"first_line"` // line number of SourceLines[0]
	Highlight   Highlight `json:"highlight"`
}

// Highlight specifies which part of the context to highlight
type Highlight struct {
	Line  int `json:"line"`  // index into SourceLines
	Start int `json:"start"` // column start, 0-based
	End   int `json:"end"`
}

// FixSuggestion is a replacement that would clear the diagnostic
type FixSuggestion struct {
	Description string  `json:"description"`
	OldCode     string  `json:"old_code"`
	NewCode     string  `json:"new_code"`
	Confidence  float64 `json:"confidence"` // 0.0 to 1.0
}

// CompilerError is a diagnostic produced by the lexer, the parser or the
// writer
type CompilerError struct {
	Phase      string         `json:"phase"` // "lexer", "parser" or "writer"
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Severity   Severity       `json:"severity"`
	Location   SourceLocation `json:"location"`
	Context    ErrorContext   `json:"context"`
	Suggestion *FixSuggestion `json:"suggestion"`
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		e.Location.File,
		e.Location.Line,
		e.Location.Column,
		e.Code,
		e.Message)
}

func NewCompilerError(phase, code, message string, location SourceLocation, severity Severity) CompilerError {
	return CompilerError{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Location: location,
		Severity: severity,
	}
}

// FromParseError converts a parse failure. Lexical failures get lexer codes.
func FromParseError(err *parser.ParseError) CompilerError {
	loc := SourceLocation{
		File:   err.Position.File,
		Line:   err.Position.Line,
		Column: err.Position.Column,
		Offset: err.Position.Offset,
		Length: len(err.Near),
	}
	if err.Lexical {
		return NewCompilerError(PhaseLexer, lexicalCode(err.Message), err.Message, loc, Error)
	}
	return NewCompilerError(PhaseParser, syntaxCode(err.Message), err.Message, loc, Error)
}

// FromViolation converts an invariant violation. Violations are bugs in
// whatever built the tree, so they are fatal.
func FromViolation(v *ast.InvariantViolation) CompilerError {
	var loc SourceLocation
	if v.Node != nil {
		if anchor := v.Node.Anchor(); !anchor.Synthesized() {
			pos := anchor.Src.Position(anchor.Span.Start)
			loc = SourceLocation{
				File:   pos.File,
				Line:   pos.Line,
				Column: pos.Column,
				Offset: pos.Offset,
				Length: anchor.Span.Len(),
			}
		}
	}
	return NewCompilerError(PhaseWriter, violationCode(v.Message), v.Message, loc, Fatal)
}

// From converts any error returned by the parser or the writer. Errors of
// other kinds are reported as fatal with no location.
func From(err error) []CompilerError {
	var list parser.ParseErrorList
	if goerrors.As(err, &list) {
		out := make([]CompilerError, 0, len(list))
		for _, e := range list {
			out = append(out, FromParseError(e))
		}
		return out
	}
	var pe *parser.ParseError
	if goerrors.As(err, &pe) {
		return []CompilerError{FromParseError(pe)}
	}
	var v *ast.InvariantViolation
	if goerrors.As(err, &v) {
		return []CompilerError{FromViolation(v)}
	}
	return []CompilerError{NewCompilerError("", ErrInternal, err.Error(), SourceLocation{}, Fatal)}
}

// WithContext attaches the surrounding source lines
func (e CompilerError) WithContext(ctx ErrorContext) CompilerError {
	e.Context = ctx
	return e
}

// WithSuggestion attaches a fix
func (e CompilerError) WithSuggestion(suggestion FixSuggestion) CompilerError {
	e.Suggestion = &suggestion
	return e
}

// IsError reports whether e fails a check
func (e CompilerError) IsError() bool {
	return e.Severity == Error || e.Severity == Fatal
}

func (e CompilerError) IsWarning() bool {
	return e.Severity == Warning
}
