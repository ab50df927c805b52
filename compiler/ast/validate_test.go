package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"
)

// anchoredProperty builds `val x = 1` with real anchors over src
func anchoredProperty(src *Source) *Property {
	return &Property{
		ReadOnly: true,
		Vars: []*PropertyVar{{
			Name: "x",
			Loc:  Anchor{Prod: ProdVariable, Span: Span{4, 5}, Src: src},
		}},
		Expr: &Const{Value: "1", Form: ConstInt, Loc: Anchor{Prod: ProdConstantExpression, Span: Span{8, 9}, Src: src}},
		Loc:  Left{Loc: Anchor{Prod: ProdProperty, Span: Span{0, 9}, Src: src}},
	}
}

func violationOf(t *testing.T, err error) *InvariantViolation {
	t.Helper()
	trequire.Error(t, err)
	var v *InvariantViolation
	trequire.True(t, errors.As(err, &v), "expected an InvariantViolation, got %T", err)
	return v
}

func TestValidate_ValidTree(t *testing.T) {
	src := NewSource("a.kt", "val x = 1")
	assert.NoError(t, Validate(anchoredProperty(src)))
}

func TestValidate_SynthesizedTree(t *testing.T) {
	fn := &Func{
		Name:   "twice",
		Params: []*Param{{Name: "n", Type: NamedType("Int")}},
		Body: &ExprBody{Expr: &BinaryOp{
			Lhs:  &Name{Name: "n"},
			Oper: &TokenOper{Token: OpMul},
			Rhs:  &Const{Value: "2", Form: ConstInt},
		}},
	}
	assert.NoError(t, Validate(fn))
}

func TestValidate_IllegalProduction(t *testing.T) {
	src := NewSource("a.kt", "val x = 1")
	prop := anchoredProperty(src)
	prop.Expr.(*Const).Loc.Prod = ProdNameReference

	v := violationOf(t, Validate(prop))
	assert.Equal(t, `production "name reference" is not legal here`, v.Message)
	assert.Same(t, prop.Expr, v.Node)
}

func TestValidate_Containment(t *testing.T) {
	src := NewSource("a.kt", "val x = 1")
	prop := anchoredProperty(src)
	prop.Expr.(*Const).Loc.Span = Span{8, 12}

	v := violationOf(t, Validate(prop))
	assert.Equal(t, "anchor 8..12 escapes parent *ast.Property 0..9", v.Message)
}

func TestValidate_DualAnchor(t *testing.T) {
	src := NewSource("a.kt", "val (a, _) = p")
	prop := &Property{
		ReadOnly:     true,
		Destructured: true,
		Vars:         []*PropertyVar{{Name: "a"}, nil},
		Expr:         &Name{Name: "p"},
		Loc:          Left{Loc: Anchor{Prod: ProdProperty, Span: Span{0, 14}, Src: src}},
	}

	v := violationOf(t, Validate(prop))
	assert.Equal(t, "destructuring declaration anchored as a property", v.Message)

	prop.Loc = Right{Loc: Anchor{Prod: ProdDestructuringDeclaration, Span: Span{0, 14}, Src: src}}
	assert.NoError(t, Validate(prop))
}

func TestValidate_ShapeRules(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "missing if body",
			node: &If{Expr: &Name{Name: "c"}},
			want: "missing body",
		},
		{
			name: "try without handlers",
			node: &Try{Block: &Block{}},
			want: "try without catch or finally",
		},
		{
			name: "placeholder outside destructuring",
			node: &Property{Vars: []*PropertyVar{nil}},
			want: "placeholder outside a destructuring declaration",
		},
		{
			name: "several vars without destructuring",
			node: &Property{Vars: []*PropertyVar{{Name: "a"}, {Name: "b"}}},
			want: "2 variables without destructuring",
		},
		{
			name: "else branch not last",
			node: &When{Entries: []*WhenEntry{
				{Body: &Name{Name: "a"}},
				{Conds: []WhenCond{&ExprCond{Expr: &Const{Value: "1", Form: ConstInt}}}, Body: &Name{Name: "b"}},
			}},
			want: "else branch is not last",
		},
		{
			name: "two getters",
			node: &Accessors{First: &Getter{}, Second: &Getter{}},
			want: "both accessors are *ast.Getter",
		},
		{
			name: "short unicode escape",
			node: &StringTmpl{Elems: []StringElem{&UnicodeEscElem{Digits: "41"}}},
			want: `unicode escape needs four hex digits, got "41"`,
		},
		{
			name: "escape in raw string",
			node: &StringTmpl{Raw: true, Elems: []StringElem{&RegularEscElem{Char: '\n'}}},
			want: "escape in raw string",
		},
		{
			name: "unknown keyword",
			node: &KeywordModifier{Keyword: Keyword(-1)},
			want: "unknown modifier keyword -1",
		},
		{
			name: "empty name",
			node: &Name{},
			want: "empty name",
		},
		{
			name: "unknown structured form",
			node: &Structured{Form: StructuredForm(9), Name: "X"},
			want: "unknown structured form 9",
		},
		{
			name: "unknown delegation target",
			node: &DelegationCall{Target: DelegationTarget(9)},
			want: "unknown delegation target 9",
		},
		{
			name: "empty parentheses with arguments",
			node: &Call{
				Expr:        &Name{Name: "f"},
				Args:        []*ValueArg{{Expr: &Name{Name: "x"}}},
				EmptyParens: true,
				Lambda:      &TrailLambda{Func: &Brace{Block: &Block{}}},
			},
			want: "empty parentheses flag needs a trailing lambda and no arguments",
		},
		{
			name: "delegated without delegate",
			node: &Property{Delegated: true, Vars: []*PropertyVar{{Name: "a"}}},
			want: "delegated property without a delegate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := violationOf(t, Validate(tt.node))
			assert.Equal(t, tt.want, v.Message)
		})
	}
}

func TestStructuredForm_Valid(t *testing.T) {
	assert.True(t, FormClass.Valid())
	assert.True(t, FormFunInterface.Valid())
	assert.Equal(t, "fun interface", FormFunInterface.String())
	assert.False(t, StructuredForm(-1).Valid())
	assert.False(t, StructuredForm(len(formNames)).Valid())
	assert.Equal(t, "unknown", StructuredForm(len(formNames)).String())
}

func TestDelegationTarget_Valid(t *testing.T) {
	assert.True(t, DelegateThis.Valid())
	assert.True(t, DelegateSuper.Valid())
	assert.False(t, DelegationTarget(9).Valid())
	assert.Equal(t, "unknown", DelegationTarget(9).String())
}

func TestInvariantViolation_Error(t *testing.T) {
	assert.Equal(t, "invariant violation: missing node", Violation(nil, "missing node").Error())
	assert.Equal(t,
		"invariant violation: empty name (*ast.Name at <synthesized>)",
		Violation(&Name{}, "empty name").Error())

	src := NewSource("a.kt", "x")
	n := &Name{Name: "x", Loc: Anchor{Prod: ProdNameReference, Span: Span{0, 1}, Src: src}}
	assert.Equal(t,
		"invariant violation: bad (*ast.Name at name reference@a.kt:1:1)",
		Violation(n, "bad").Error())
}
