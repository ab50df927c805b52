package errors

import (
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/parser"
)

func init() {
	color.NoColor = true
}

func TestFromParseError_Syntax(t *testing.T) {
	_, _, err := parser.ParseString("main.kt", "fn main() {}\n")
	require.Error(t, err)

	diags := From(err)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, PhaseParser, d.Phase)
	assert.Equal(t, ErrExpectedDeclaration, d.Code)
	assert.Equal(t, Error, d.Severity)
	assert.Equal(t, "main.kt", d.Location.File)
	assert.Equal(t, 1, d.Location.Line)
	assert.Equal(t, 1, d.Location.Column)
	assert.Equal(t, 2, d.Location.Length)
}

func TestFromParseError_Lexical(t *testing.T) {
	_, _, err := parser.ParseString("main.kt", "val s = \"open\n")
	require.Error(t, err)

	d := From(err)[0]
	assert.Equal(t, PhaseLexer, d.Phase)
	assert.Equal(t, ErrUnterminatedString, d.Code)
}

func TestFromViolation(t *testing.T) {
	src := ast.NewSource("a.kt", "val x = 1\n")
	name := &ast.Name{Name: "x", Loc: ast.Anchor{Prod: ast.ProdNameReference, Span: ast.Span{Start: 4, End: 5}, Src: src}}

	d := FromViolation(ast.Violation(name, "empty name"))
	assert.Equal(t, PhaseWriter, d.Phase)
	assert.Equal(t, Fatal, d.Severity)
	assert.Equal(t, ErrInvariantViolation, d.Code)
	assert.Equal(t, 1, d.Location.Line)
	assert.Equal(t, 5, d.Location.Column)
	assert.Equal(t, 1, d.Location.Length)

	d = FromViolation(ast.Violation(nil, "missing node"))
	assert.Equal(t, ErrMissingNode, d.Code)
	assert.Zero(t, d.Location.Line)
}

func TestFrom_ParseErrorList(t *testing.T) {
	list := parser.ParseErrorList{
		{Message: "Unterminated block comment", Lexical: true},
		{Message: "Expecting ')'", Near: "}"},
	}
	diags := From(list)
	require.Len(t, diags, 2)
	assert.Equal(t, ErrUnterminatedComment, diags[0].Code)
	assert.Equal(t, ErrExpectedParen, diags[1].Code)
}

func TestSyntaxCode(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Expecting '}' but reached end of file", ErrUnexpectedEOF},
		{"Unexpected tokens (use ';' to separate expressions on the same line)", ErrUnexpectedToken},
		{"Expecting 'catch' or 'finally'", ErrMissingCatchOrFinally},
		{"Expecting getter body", ErrInvalidAccessor},
		{"Expecting '->' to specify return type of a function type", ErrExpectedArrow},
		{"Expecting property name", ErrExpectedName},
		{"Expecting an expression", ErrExpectedExpression},
		{"Expecting ']'", ErrExpectedBracket},
		{"Expecting '>'", ErrExpectedAngle},
		{"Expecting ':'", ErrExpectedColon},
		{"Expecting 'in'", ErrExpectedKeyword},
		{"something else", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, syntaxCode(tt.msg))
		})
	}
}

func TestGetPhaseForCode(t *testing.T) {
	assert.Equal(t, PhaseLexer, GetPhaseForCode(ErrInvalidEscape))
	assert.Equal(t, PhaseParser, GetPhaseForCode(ErrExpectedBrace))
	assert.Equal(t, PhaseWriter, GetPhaseForCode(ErrAnchorContainment))
	assert.Equal(t, "unknown", GetPhaseForCode("X1"))
	assert.Equal(t, "Unknown error", GetErrorMessage("E555"))
}

func TestEnrichError_KeywordSuggestion(t *testing.T) {
	source := "package demo\n\nfn main() {}\n"
	_, _, err := parser.ParseString("main.kt", source)
	require.Error(t, err)

	d := EnrichError(From(err)[0], source)
	require.Len(t, d.Context.SourceLines, 4)
	assert.Equal(t, 1, d.Context.FirstLine)
	assert.Equal(t, 2, d.Context.Highlight.Line)

	require.NotNil(t, d.Suggestion)
	assert.Contains(t, d.Suggestion.Description, "did you mean 'fun'?")
	assert.Equal(t, "fun main() {}", d.Suggestion.NewCode)
}

func TestEnrichErrorFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/a.kt", []byte("val a = 1\nval b = \"x\n"), 0o644))

	d := NewCompilerError(PhaseLexer, ErrUnterminatedString, "Unterminated string literal",
		SourceLocation{File: "src/a.kt", Line: 2, Column: 9, Length: 1}, Error)
	d = EnrichErrorFromFile(fs, "", d)
	require.NotEmpty(t, d.Context.SourceLines)
	require.NotNil(t, d.Suggestion)
	assert.Equal(t, `val b = "x"`, d.Suggestion.NewCode)

	missing := NewCompilerError(PhaseLexer, ErrUnterminatedString, "x", SourceLocation{File: "nope.kt", Line: 1}, Error)
	assert.Empty(t, EnrichErrorFromFile(fs, "", missing).Context.SourceLines)

	shown := NewCompilerError(PhaseLexer, ErrUnterminatedString, "x", SourceLocation{File: "a.kt", Line: 2, Column: 9}, Error)
	assert.Equal(t, "val b = \"x", EnrichErrorFromFile(fs, "src/a.kt", shown).Context.SourceLines[1])
}

func TestFormatForTerminal(t *testing.T) {
	source := "class A {\n    fun f( {}\n}\n"
	d := NewCompilerError(PhaseParser, ErrExpectedParen, "Expecting ')'",
		SourceLocation{File: "a.kt", Line: 2, Column: 12, Length: 1}, Error)
	out := EnrichError(d, source).FormatForTerminal()

	assert.Contains(t, out, "Error[E105]: Expecting ')'")
	assert.Contains(t, out, "--> a.kt:2:12")
	assert.Contains(t, out, "2 |     fun f( {}")
	assert.Contains(t, out, "|            ^\n")
	assert.Contains(t, out, "Help: Add the missing ')'")
}

func TestFormatErrorsAsJSON(t *testing.T) {
	all := []CompilerError{
		NewCompilerError(PhaseParser, ErrSyntax, "bad", SourceLocation{File: "a.kt", Line: 1, Column: 1}, Error),
		NewCompilerError(PhaseParser, ErrSyntax, "meh", SourceLocation{File: "b.kt", Line: 1, Column: 1}, Warning),
	}
	out, err := FormatErrorsAsJSON(all)
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "error", decoded.Status)
	assert.Equal(t, 1, decoded.Summary.ErrorCount)
	assert.Equal(t, 1, decoded.Summary.WarningCount)
	assert.Equal(t, 2, decoded.Summary.TotalCount)
	assert.Equal(t, Warning, decoded.Warnings[0].Severity)
}

func TestCollector(t *testing.T) {
	c := NewCollectorWithMax(1)
	assert.Equal(t, "no errors", c.Error())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.kt", []byte("class {"), 0o644))
	_, _, err := parser.ParseString("a.kt", "class {")
	require.Error(t, err)
	c.AddFileError(fs, "/src/a.kt", err)
	c.Add(NewCompilerError(PhaseParser, ErrSyntax, "dropped", SourceLocation{}, Error))
	c.Add(NewCompilerError(PhaseParser, ErrSyntax, "kept", SourceLocation{}, Warning))

	assert.Equal(t, 1, c.ErrorCount())
	assert.Equal(t, 1, c.WarningCount())
	assert.True(t, c.HasErrors())
	assert.Len(t, c.ByCode(ErrSyntax), 1)
	assert.Equal(t, []string{"class {"}, c.Errors()[0].Context.SourceLines)
	assert.Contains(t, c.FormatForTerminal(), "error limit reached")
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("fun", "fun"))
	assert.Equal(t, 1, levenshtein("fn", "fun"))
	assert.Equal(t, 3, levenshtein("", "val"))
	assert.Equal(t, 1, levenshtein("clas", "cls"))
	assert.Equal(t, 2, levenshtein("vla", "val"))

	best, _ := closestWord("Overide", knownWords())
	assert.Equal(t, "override", best)
	best, _ = closestWord("zzzzzz", knownWords())
	assert.Empty(t, best)
}
