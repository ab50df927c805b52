package ast

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"
)

// sampleFunc is `fun f(a: Int) = a + 1`, built by hand
func sampleFunc() *Func {
	return &Func{
		Name:   "f",
		Params: []*Param{{Name: "a", Type: NamedType("Int")}},
		Body: &ExprBody{Expr: &BinaryOp{
			Lhs:  &Name{Name: "a"},
			Oper: &TokenOper{Token: OpAdd},
			Rhs:  &Const{Value: "1", Form: ConstInt},
		}},
	}
}

func kinds(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, fmt.Sprintf("%T", n))
	}
	return out
}

func TestChildren_SourceOrder(t *testing.T) {
	fn := sampleFunc()
	assert.Equal(t, []string{"*ast.Param", "*ast.ExprBody"}, kinds(Children(fn)))

	op := fn.Body.(*ExprBody).Expr
	assert.Equal(t, []string{"*ast.Name", "*ast.TokenOper", "*ast.Const"}, kinds(Children(op)))
}

func TestChildren_SkipsAbsentChildren(t *testing.T) {
	ret := &Return{}
	assert.Empty(t, Children(ret))

	prop := &Property{Destructured: true, Vars: []*PropertyVar{{Name: "a"}, nil, {Name: "c"}}}
	assert.Len(t, Children(prop), 2)
}

func TestChildren_DoWhileOrder(t *testing.T) {
	loop := &While{DoWhile: true, Expr: &Name{Name: "c"}, Body: &Brace{Block: &Block{}}}
	assert.Equal(t, []string{"*ast.Brace", "*ast.Name"}, kinds(Children(loop)))
}

func TestInspect(t *testing.T) {
	var visited []string
	Inspect(sampleFunc(), func(n Node) bool {
		visited = append(visited, fmt.Sprintf("%T", n))
		return true
	})

	assert.Equal(t, []string{
		"*ast.Func",
		"*ast.Param",
		"*ast.Type",
		"*ast.SimpleType",
		"*ast.TypePiece",
		"*ast.ExprBody",
		"*ast.BinaryOp",
		"*ast.Name",
		"*ast.TokenOper",
		"*ast.Const",
	}, visited)
}

func TestInspect_SkipChildren(t *testing.T) {
	count := 0
	Inspect(sampleFunc(), func(n Node) bool {
		count++
		_, isParam := n.(*Param)
		return !isParam
	})
	assert.Equal(t, 7, count)
}

func TestInspect_Nil(t *testing.T) {
	called := false
	Inspect(nil, func(Node) bool {
		called = true
		return true
	})
	assert.False(t, called)
}

func TestTag(t *testing.T) {
	n := &Name{Name: "x"}
	assert.Nil(t, n.Tag())

	n.SetTag(42)
	assert.Equal(t, 42, n.Tag())

	n.SetTag(nil)
	assert.Nil(t, n.Tag())
}

func TestSideTable(t *testing.T) {
	st := NewSideTable[string]()
	a, b := &Name{Name: "a"}, &Name{Name: "a"}

	st.Set(a, "first")
	st.Set(b, "second")
	assert.Equal(t, 2, st.Len())

	v, ok := st.Get(a)
	trequire.True(t, ok)
	assert.Equal(t, "first", v)

	st.Delete(a)
	_, ok = st.Get(a)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())

	var seen []string
	st.Range(func(n Node, v string) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []string{"second"}, seen)
}

func TestSideTable_Concurrent(t *testing.T) {
	st := NewSideTable[int]()
	nodes := make([]*Name, 100)
	for i := range nodes {
		nodes[i] = &Name{Name: fmt.Sprintf("n%d", i)}
	}

	var wg sync.WaitGroup
	for i, n := range nodes {
		wg.Add(1)
		go func(i int, n *Name) {
			defer wg.Done()
			st.Set(n, i)
			st.Get(n)
		}(i, n)
	}
	wg.Wait()

	assert.Equal(t, 100, st.Len())
	v, ok := st.Get(nodes[42])
	trequire.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestSideTable_RangeStops(t *testing.T) {
	st := NewSideTable[int]()
	for i := 0; i < 5; i++ {
		st.Set(&Name{Name: "n"}, i)
	}

	calls := 0
	st.Range(func(Node, int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}
