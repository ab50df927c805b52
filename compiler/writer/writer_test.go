package writer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/parser"
)

func roundTrip(t *testing.T, w *Writer, source string) string {
	t.Helper()

	file, extras, err := parser.ParseString("test.kt", source)
	require.NoError(t, err)
	out, err := w.Write(file, extras)
	require.NoError(t, err)
	return out
}

func TestWrite_CanonicalRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"property", "val x = 1\n"},
		{"function", "fun main() {\n    val x = 1 + 2\n    println(x)\n}\n"},
		{"comments", "// header\nfun a() = 1 // trailing\n"},
		{"block comment", "val a = /* one */ 1\n"},
		{"class", "class Box(val size: Int) {\n    fun twice() = size * 2\n}\n"},
		{"header", "package demo\n\nimport kotlin.math.max\n\nfun main() {\n    val x = max(1, 2)\n    println(\"x = $x\")\n}\n"},
		{"enum", "enum class Color {\n    RED,\n    GREEN\n}\n"},
		{"when", "val s = when (n) {\n    0 -> \"zero\"\n    else -> \"big\"\n}\n"},
		{"if else", "val r = if (x > 0) \"pos\" else \"neg\"\n"},
		{"lambda", "val doubled = xs.map { x ->\n    x * 2\n}\n"},
		{"empty lambda", "val f = {}\n"},
		{"for loop", "fun f(items: List<Int>) {\n    for (item in items) {\n        println(item)\n    }\n}\n"},
		{"getter", "val total: Int\n    get() = 42\n"},
		{"comment before brace", "fun f() {\n    g()\n    // done\n}\n"},
		{"blank line", "fun f() {\n    a()\n\n    b()\n}\n"},
		{"destructuring", "val (a, _, c) = triple\n"},
		{"star projection", "val xs: List<*> = emptyList()\n"},
		{"safe call", "val n = s?.length ?: 0\n"},
		{"modifiers", "private data class P(val x: Int)\n"},
		{"fun interface", "fun interface F {\n    fun g()\n}\n"},
		{"one-line lambda", "val pos = xs.filter { it > 0 }\n"},
		{"destructured lambda", "val firsts = pairs.map { (a, _) -> a }\n"},
		{"annotation inline", "@field:Inject lateinit var s: String\n"},
		{"annotation line", "@Deprecated(\"old\")\nfun f() = 1\n"},
		{"extension getter", "val Int.double get() = this * 2\n"},
		{"trailing lambda", "val r = f { 1 }\n"},
		{"empty parentheses", "val r = f() { 1 }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.source, roundTrip(t, New(nil), tt.source))
		})
	}
}

func TestWrite_Script(t *testing.T) {
	tests := []string{
		"if (x > 0) \"pos\" else \"neg\"\n",
		"package demo\n\nimport kotlin.math.max\n\nval x = max(1, 2)\nprintln(x)\n",
	}

	for _, source := range tests {
		script, extras, err := parser.ParseScriptString("test.kts", source)
		require.NoError(t, err)
		out, err := Write(script, extras)
		require.NoError(t, err)
		assert.Equal(t, source, out)
	}
}

func TestWrite_Normalizes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "spacing and indentation",
			source: "fun   main( ) {\nval x=1+2\n  println( x )}\n",
			want:   "fun main() {\n    val x = 1 + 2\n    println(x)\n}\n",
		},
		{
			name:   "semicolons",
			source: "val a = 1;val b = 2",
			want:   "val a = 1\nval b = 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := roundTrip(t, New(nil), tt.source)
			assert.Equal(t, tt.want, out)

			// writing the output again changes nothing
			assert.Equal(t, out, roundTrip(t, New(nil), out))
		})
	}
}

func TestWrite_PreservesTree(t *testing.T) {
	source := "fun   main( ) {\nval x=1+2\n  println( x )}\n"
	file, extras, err := parser.ParseString("test.kt", source)
	require.NoError(t, err)

	out, err := Write(file, extras)
	require.NoError(t, err)

	reparsed, _, err := parser.ParseString("test.kt", out)
	require.NoError(t, err)
	assert.True(t, ast.Equal(file, reparsed), "diff: %v", ast.Diff(file, reparsed))
}

func TestWrite_Indent(t *testing.T) {
	w := New(&Config{Indent: "\t"})
	out := roundTrip(t, w, "class A {\n    fun f() {}\n}\n")
	assert.Equal(t, "class A {\n\tfun f() {}\n}\n", out)

	assert.Equal(t, "    ", DefaultConfig().Indent)
}

func TestWrite_SynthesizedTrees(t *testing.T) {
	name := func(n string) *ast.Name { return &ast.Name{Name: n} }

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{
			name: "function",
			node: &ast.File{Decls: []ast.Decl{&ast.Func{
				Name:   "twice",
				Params: []*ast.Param{{Name: "n", Type: ast.NamedType("Int")}},
				Type:   ast.NamedType("Int"),
				Body: &ast.ExprBody{Expr: &ast.BinaryOp{
					Lhs:  name("n"),
					Oper: &ast.TokenOper{Token: ast.OpMul},
					Rhs:  &ast.Const{Value: "2", Form: ast.ConstInt},
				}},
			}}},
			want: "fun twice(n: Int): Int = n * 2\n",
		},
		{
			name: "destructuring placeholder",
			node: &ast.Property{
				ReadOnly:     true,
				Destructured: true,
				Vars:         []*ast.PropertyVar{{Name: "a"}, nil},
				Expr:         name("p"),
			},
			want: "val (a, _) = p",
		},
		{
			name: "star projection",
			node: &ast.Type{Ref: &ast.SimpleType{Pieces: []*ast.TypePiece{{
				Name:     "Map",
				TypeArgs: []*ast.Type{ast.NamedType("String"), nil},
			}}}},
			want: "Map<String, *>",
		},
		{
			name: "nullable function type",
			node: &ast.Type{Ref: &ast.NullableType{Ref: &ast.ParenType{Ref: &ast.FuncType{
				Params: []*ast.FuncTypeParam{{Type: ast.NamedType("Int")}},
				Type:   ast.NamedType("Unit"),
			}}}},
			want: "((Int) -> Unit)?",
		},
		{
			name: "annotations",
			node: &ast.Structured{
				Mods: []ast.Modifier{
					&ast.AnnotationSet{Anns: []*ast.Annotation{{Names: []string{"A"}}}},
					&ast.KeywordModifier{Keyword: ast.KwData},
				},
				Form: ast.FormClass,
				Name: "P",
				PrimaryConstructor: &ast.PrimaryConstructor{Params: []*ast.Param{{
					ReadOnly: ast.Bool(true),
					Name:     "x",
					Type:     ast.NamedType("Int"),
				}}},
			},
			want: "@A\ndata class P(val x: Int)",
		},
		{
			name: "bracketed annotations",
			node: &ast.AnnotationSet{
				Target: ast.TargetField,
				Anns:   []*ast.Annotation{{Names: []string{"A"}}, {Names: []string{"B"}}},
			},
			want: "@field:[A B]",
		},
		{
			name: "escapes",
			node: &ast.StringTmpl{Elems: []ast.StringElem{
				&ast.RegularElem{Str: "a"},
				&ast.RegularEscElem{Char: '\n'},
				&ast.RegularEscElem{Char: '$'},
				&ast.RegularEscElem{Char: '\x01'},
				&ast.ShortTmplElem{Name: "x"},
			}},
			want: `"a\n\$\u0001$x"`,
		},
		{
			name: "nested negation",
			node: &ast.UnaryOp{Oper: ast.OpNeg, Prefix: true,
				Expr: &ast.UnaryOp{Oper: ast.OpNeg, Prefix: true, Expr: name("x")}},
			want: "- -x",
		},
		{
			name: "range",
			node: &ast.BinaryOp{Lhs: &ast.Const{Value: "0", Form: ast.ConstInt}, Oper: &ast.TokenOper{Token: ast.OpRangeUntil}, Rhs: name("n")},
			want: "0..<n",
		},
		{
			name: "infix call",
			node: &ast.BinaryOp{Lhs: name("a"), Oper: &ast.InfixOper{Name: "to"}, Rhs: name("b")},
			want: "a to b",
		},
		{
			name: "labeled return",
			node: &ast.Return{Label: "outer", Expr: name("x")},
			want: "return@outer x",
		},
		{
			name: "secondary constructor",
			node: &ast.Constructor{
				Params: []*ast.Param{{Name: "x", Type: ast.NamedType("Int")}},
				DelegationCall: &ast.DelegationCall{
					Target: ast.DelegateThis,
					Args:   []*ast.ValueArg{{Expr: name("x")}, {Expr: &ast.Const{Value: "0", Form: ast.ConstInt}}},
				},
			},
			want: "constructor(x: Int) : this(x, 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Write(tt.node, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestWrite_InvariantViolations(t *testing.T) {
	tests := []struct {
		name    string
		node    ast.Node
		message string
	}{
		{
			name:    "missing node",
			node:    &ast.If{Expr: &ast.Name{Name: "c"}},
			message: "missing node",
		},
		{
			name:    "try without handlers",
			node:    &ast.Try{Block: &ast.Block{}},
			message: "try without catch or finally",
		},
		{
			name:    "empty name",
			node:    &ast.Name{},
			message: "name reference without a name",
		},
		{
			name: "else not last",
			node: &ast.When{Entries: []*ast.WhenEntry{
				{Body: &ast.Name{Name: "a"}},
				{Conds: []ast.WhenCond{&ast.ExprCond{Expr: &ast.Name{Name: "b"}}}, Body: &ast.Name{Name: "c"}},
			}},
			message: "else branch must be the last entry",
		},
		{
			name:    "placeholder outside destructuring",
			node:    &ast.Property{Vars: []*ast.PropertyVar{nil}},
			message: "property needs exactly one variable",
		},
		{
			name:    "operator outside its operation",
			node:    &ast.TokenOper{Token: ast.OpAdd},
			message: "binary operator outside its operation",
		},
		{
			name:    "unknown structured form",
			node:    &ast.Structured{Form: 42, Name: "X"},
			message: "unknown structured form 42",
		},
		{
			name:    "unknown delegation target",
			node:    &ast.Constructor{DelegationCall: &ast.DelegationCall{Target: 9}},
			message: "unknown delegation target 9",
		},
		{
			name:    "short unicode escape",
			node:    &ast.StringTmpl{Elems: []ast.StringElem{&ast.UnicodeEscElem{Digits: "41"}}},
			message: `unicode escape needs four digits, got "41"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Write(tt.node, nil)
			require.Error(t, err)
			assert.Empty(t, out)

			var v *ast.InvariantViolation
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.message, v.Message)
		})
	}
}

func TestWriter_ReusableAfterError(t *testing.T) {
	w := New(nil)
	_, err := w.Write(&ast.Name{}, nil)
	require.Error(t, err)

	out, err := w.Write(&ast.Name{Name: "ok"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
