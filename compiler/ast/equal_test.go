package ast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"
)

func TestEqual_IgnoresAnchorsAndTags(t *testing.T) {
	src := NewSource("a.kt", "x + 1")
	parsed := &BinaryOp{
		Lhs:  &Name{Name: "x", Loc: Anchor{Prod: ProdNameReference, Span: Span{0, 1}, Src: src}},
		Oper: &TokenOper{Token: OpAdd, Loc: Anchor{Prod: ProdBinaryExpression, Span: Span{0, 5}, Src: src}},
		Rhs:  &Const{Value: "1", Form: ConstInt, Loc: Anchor{Prod: ProdConstantExpression, Span: Span{4, 5}, Src: src}},
	}
	parsed.SetTag("visited")

	built := &BinaryOp{
		Lhs:  &Name{Name: "x"},
		Oper: &TokenOper{Token: OpAdd},
		Rhs:  &Const{Value: "1", Form: ConstInt},
	}

	assert.True(t, Equal(parsed, built))
	assert.Empty(t, Diff(parsed, built))
}

func TestEqual_NilAndEmptySlices(t *testing.T) {
	assert.True(t, Equal(&Block{}, &Block{Stmts: []Stmt{}}))
	assert.True(t, Equal(&Call{Expr: &Name{Name: "f"}}, &Call{Expr: &Name{Name: "f"}, Args: []*ValueArg{}}))
}

func TestEqual_DetectsDifferences(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
	}{
		{"name", &Name{Name: "x"}, &Name{Name: "y"}},
		{"kind", &Name{Name: "x"}, &This{}},
		{"operator", &TokenOper{Token: OpAdd}, &TokenOper{Token: OpSub}},
		{"form", &Const{Value: "1", Form: ConstInt}, &Const{Value: "1", Form: ConstFloat}},
		{"flag", &Property{ReadOnly: true, Vars: []*PropertyVar{{Name: "a"}}}, &Property{Vars: []*PropertyVar{{Name: "a"}}}},
		{"placeholder", &Property{Destructured: true, Vars: []*PropertyVar{nil}}, &Property{Destructured: true, Vars: []*PropertyVar{{Name: "_"}}}},
		{"order", &CollLit{Exprs: []Expr{&Name{Name: "a"}, &Name{Name: "b"}}}, &CollLit{Exprs: []Expr{&Name{Name: "b"}, &Name{Name: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Equal(tt.a, tt.b))
			assert.NotEmpty(t, Diff(tt.a, tt.b))
		})
	}
}

func TestEqual_Nil(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal(nil, (*Name)(nil)))
	assert.False(t, Equal(nil, &Name{Name: "x"}))
}

func TestDump(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "name",
			node: &Name{Name: "x"},
			want: "Name\n  Name: \"x\"\n",
		},
		{
			name: "constant",
			node: &Const{Value: "1", Form: ConstInt},
			want: "Const\n  Value: \"1\"\n  Form: int\n",
		},
		{
			name: "nested",
			node: &Paren{Expr: &Name{Name: "x"}},
			want: "Paren\n  Expr: Name\n    Name: \"x\"\n",
		},
		{
			name: "zero fields omitted",
			node: &Return{},
			want: "Return\n",
		},
		{
			name: "character",
			node: &RegularEscElem{Char: '\n'},
			want: "RegularEscElem\n  Char: '\\n'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			trequire.NoError(t, Dump(&buf, tt.node))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDump_List(t *testing.T) {
	var buf bytes.Buffer
	block := &Block{Stmts: []Stmt{
		&ExprStmt{Expr: &Name{Name: "a"}},
		&ExprStmt{Expr: &Name{Name: "b"}},
	}}
	trequire.NoError(t, Dump(&buf, block))

	out := buf.String()
	assert.Contains(t, out, "Stmts:")
	assert.Contains(t, out, "- ExprStmt")
	assert.Contains(t, out, `Name: "a"`)
	assert.Contains(t, out, `Name: "b"`)
	assert.NotContains(t, out, "Loc")
	assert.NotContains(t, out, "Scratch")
}

func TestDumpGo(t *testing.T) {
	var buf bytes.Buffer
	trequire.NoError(t, DumpGo(&buf, &Name{Name: "counter"}))

	out := buf.String()
	assert.Contains(t, out, `"Name"`)
	assert.Contains(t, out, `"counter"`)
	assert.NotContains(t, out, "Src")
}
