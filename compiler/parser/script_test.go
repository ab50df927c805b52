package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/kastree-lang/kastree/compiler/ast"
)

// parseScript parses a script and fails the test on any error
func parseScript(t *testing.T, source string) (*ast.Script, *ast.ExtrasMap) {
	t.Helper()

	script, extras, err := ParseScriptString("test.kts", source)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return script, extras
}

// TestParseScript tests an expression at the top level of a script
func TestParseScript(t *testing.T) {
	source := `if (x > 0) "pos" else "neg"`
	script, _ := parseScript(t, source)

	want := &ast.Script{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: &ast.If{
		Expr:     binary(name("x"), ast.OpGt, intConst("0")),
		Body:     str("pos"),
		ElseBody: str("neg"),
	}}}}
	if !ast.Equal(script, want) {
		t.Fatalf("Tree mismatch:\n%s", strings.Join(ast.Diff(script, want), "\n"))
	}
	if script.Loc.Prod != ast.ProdScript {
		t.Errorf("Expected script production, got %s", script.Loc.Prod)
	}
	if script.Loc.Text() != source {
		t.Errorf("Script anchor covers %q", script.Loc.Text())
	}
	if err := ast.Validate(script); err != nil {
		t.Fatalf("Parsed script is invalid: %v", err)
	}
}

// TestParseScript_Declarations tests a header and declarations mixed with
// statements
func TestParseScript_Declarations(t *testing.T) {
	source := "package demo\n\nimport kotlin.math.max\n\nval x = max(1, 2); println(x)\nfun twice(n: Int) = n * 2\n"
	script, extras := parseScript(t, source)

	if script.Pkg == nil || strings.Join(script.Pkg.Names, ".") != "demo" {
		t.Fatalf("Expected package demo, got %#v", script.Pkg)
	}
	if len(script.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(script.Imports))
	}
	if len(script.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(script.Stmts))
	}
	decl, ok := script.Stmts[0].(*ast.DeclStmt)
	if !ok {
		t.Fatalf("Expected a declaration first, got %T", script.Stmts[0])
	}
	if _, ok := decl.Decl.(*ast.Property); !ok {
		t.Errorf("Expected a property, got %T", decl.Decl)
	}
	if _, ok := script.Stmts[1].(*ast.ExprStmt); !ok {
		t.Errorf("Expected an expression statement, got %T", script.Stmts[1])
	}
	fn, ok := script.Stmts[2].(*ast.DeclStmt)
	if !ok || fn.Decl.(*ast.Func).Name != "twice" {
		t.Errorf("Expected function twice, got %#v", script.Stmts[2])
	}

	before := extras.Before(script.Stmts[0])
	if len(before) != 1 {
		t.Fatalf("Expected 1 extra before the first statement, got %d", len(before))
	}
	if blank, ok := before[0].(*ast.BlankLines); !ok || blank.Count != 1 {
		t.Errorf("Expected one blank line, got %#v", before[0])
	}
}

// TestParseScript_Errors tests that scripts still reject malformed input
func TestParseScript_Errors(t *testing.T) {
	_, _, err := ParseScriptString("test.kts", "val a = 1\n}\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Position.Line != 2 {
		t.Errorf("Expected the error on line 2, got %d", pe.Position.Line)
	}
}

// TestParseEntry tests that the file name picks the top-level production
func TestParseEntry(t *testing.T) {
	entry, _, err := ParseEntry(ast.NewSource("build.gradle.kts", "println(1)\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := entry.(*ast.Script); !ok {
		t.Errorf("Expected a script, got %T", entry)
	}

	entry, _, err = ParseEntry(ast.NewSource("Main.kt", "fun main() {}\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := entry.(*ast.File); !ok {
		t.Errorf("Expected a file, got %T", entry)
	}

	entry, _, err = ParseEntry(ast.NewSource("Main.kt", "println(1)\n"))
	if err == nil {
		t.Fatal("Expected a top-level expression to fail outside a script")
	}
	if entry != nil {
		t.Errorf("Expected no tree on error, got %T", entry)
	}
}
