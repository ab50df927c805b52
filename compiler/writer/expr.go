package writer

import (
	"strconv"
	"strings"

	"github.com/kastree-lang/kastree/compiler/ast"
)

func (w *Writer) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.If:
		w.write("if (")
		w.node(e.Expr)
		w.write(") ")
		w.node(e.Body)
		if e.ElseBody != nil {
			w.write(" else ")
			w.node(e.ElseBody)
		}
	case *ast.Try:
		w.write("try ")
		w.node(e.Block)
		for _, c := range e.Catches {
			w.write(" ")
			w.node(c)
		}
		if e.Finally != nil {
			w.write(" finally ")
			w.node(e.Finally)
		}
		if len(e.Catches) == 0 && e.Finally == nil {
			panic(ast.Violation(e, "try without catch or finally"))
		}
	case *ast.For:
		w.write("for (")
		for _, set := range e.Anns {
			w.node(set)
			w.write(" ")
		}
		if e.Destructured {
			w.destructured(e.Vars)
		} else {
			if len(e.Vars) != 1 || e.Vars[0] == nil {
				panic(ast.Violation(e, "loop needs exactly one variable"))
			}
			w.node(e.Vars[0])
		}
		w.write(" in ")
		w.node(e.InExpr)
		w.write(") ")
		w.node(e.Body)
	case *ast.While:
		if e.DoWhile {
			w.write("do ")
			w.node(e.Body)
			w.write(" while (")
			w.node(e.Expr)
			w.write(")")
			return
		}
		w.write("while (")
		w.node(e.Expr)
		w.write(") ")
		w.node(e.Body)
	case *ast.BinaryOp:
		w.binaryOper(e)
	case *ast.QualifiedOp:
		w.qualifiedOper(e)
	case *ast.UnaryOp:
		w.unary(e)
	case *ast.TypeOp:
		if !e.Oper.Valid() {
			panic(ast.Violation(e, "unknown type operator %d", e.Oper))
		}
		w.node(e.Lhs)
		w.write(" " + e.Oper.String() + " ")
		w.node(e.Rhs)
	case *ast.CallableRef:
		if e.Recv != nil {
			w.node(e.Recv)
		}
		w.write("::" + e.Name)
	case *ast.ClassLit:
		if e.Recv != nil {
			w.node(e.Recv)
		}
		w.write("::class")
	case *ast.Paren:
		w.write("(")
		w.node(e.Expr)
		w.within(e)
		w.write(")")
	case *ast.StringTmpl:
		quote := `"`
		if e.Raw {
			quote = `"""`
		}
		w.write(quote)
		for _, elem := range e.Elems {
			w.node(elem)
		}
		w.write(quote)
	case *ast.Const:
		if e.Value == "" {
			panic(ast.Violation(e, "constant without text"))
		}
		w.write(e.Value)
	case *ast.Brace:
		w.brace(e)
	case *ast.This:
		w.write("this")
		w.label(e.Label)
	case *ast.Super:
		w.write("super")
		if e.TypeArg != nil {
			w.write("<")
			w.node(e.TypeArg)
			w.write(">")
		}
		w.label(e.Label)
	case *ast.When:
		w.when(e)
	case *ast.Object:
		w.write("object")
		if len(e.Parents) > 0 {
			w.write(" : ")
			joined(w, e.Parents, ", ")
		}
		w.write(" ")
		w.classBody(e, e.Members, false)
	case *ast.Throw:
		w.write("throw ")
		w.node(e.Expr)
	case *ast.Return:
		w.write("return")
		w.label(e.Label)
		if e.Expr != nil {
			w.write(" ")
			w.node(e.Expr)
		}
	case *ast.Continue:
		w.write("continue")
		w.label(e.Label)
	case *ast.Break:
		w.write("break")
		w.label(e.Label)
	case *ast.CollLit:
		w.write("[")
		joined(w, e.Exprs, ", ")
		w.within(e)
		w.write("]")
	case *ast.Name:
		if e.Name == "" {
			panic(ast.Violation(e, "name reference without a name"))
		}
		w.write(e.Name)
	case *ast.Labeled:
		w.write(e.Label + "@ ")
		w.node(e.Expr)
	case *ast.Annotated:
		for _, set := range e.Anns {
			w.node(set)
			w.write(" ")
		}
		w.node(e.Expr)
	case *ast.Call:
		w.call(e)
	case *ast.ArrayAccess:
		w.node(e.Expr)
		w.write("[")
		joined(w, e.Indices, ", ")
		w.write("]")
	case *ast.AnonFunc:
		w.node(e.Func)
	case *ast.PropertyExpr:
		w.node(e.Decl)
	default:
		panic(ast.Violation(e, "unknown expression variant %T", e))
	}
}

func (w *Writer) label(label string) {
	if label != "" {
		w.write("@" + label)
	}
}

func (w *Writer) unary(e *ast.UnaryOp) {
	if !e.Oper.Valid() {
		panic(ast.Violation(e, "unknown unary operator %d", e.Oper))
	}
	op := e.Oper.String()
	if !e.Prefix {
		w.node(e.Expr)
		w.write(op)
		return
	}
	w.write(op)
	// `- -x` must not turn into `--x`
	if inner, ok := e.Expr.(*ast.UnaryOp); ok && inner.Prefix && op != "!" && inner.Oper.String()[0] == op[0] {
		w.write(" ")
	}
	w.node(e.Expr)
}

// binaryOper writes a whole binary operation. The operator node shares
// the expression's span, so its trivia is written around the operator.
func (w *Writer) binaryOper(e *ast.BinaryOp) {
	if isNil(e.Oper) {
		panic(ast.Violation(e, "binary operation without an operator"))
	}
	w.node(e.Lhs)
	w.wrap(e.Oper, func() {
		switch o := e.Oper.(type) {
		case *ast.TokenOper:
			if !o.Token.Valid() {
				panic(ast.Violation(o, "unknown binary operator %d", o.Token))
			}
			if o.Token == ast.OpRange || o.Token == ast.OpRangeUntil {
				w.write(o.Token.String())
			} else {
				w.write(" " + o.Token.String() + " ")
			}
		case *ast.InfixOper:
			if o.Name == "" {
				panic(ast.Violation(o, "infix call without a name"))
			}
			w.write(" " + o.Name + " ")
		default:
			panic(ast.Violation(e, "unknown binary operator variant %T", e.Oper))
		}
	})
	w.node(e.Rhs)
}

func (w *Writer) qualifiedOper(e *ast.QualifiedOp) {
	if isNil(e.Oper) {
		panic(ast.Violation(e, "qualified operation without an operator"))
	}
	w.node(e.Lhs)
	w.wrap(e.Oper, func() {
		switch e.Oper.(type) {
		case *ast.Dot:
			w.write(".")
		case *ast.Safe:
			w.write("?.")
		default:
			panic(ast.Violation(e, "unknown qualifier variant %T", e.Oper))
		}
	})
	w.node(e.Rhs)
}

func (w *Writer) call(c *ast.Call) {
	w.node(c.Expr)
	if len(c.TypeArgs) > 0 {
		w.typeArgs(c.TypeArgs)
	}
	if len(c.Args) > 0 || c.Lambda == nil || c.EmptyParens || w.hasWithin(c) {
		w.write("(")
		joined(w, c.Args, ", ")
		w.within(c)
		w.write(")")
	}
	if c.Lambda != nil {
		w.write(" ")
		w.node(c.Lambda)
	}
}

func (w *Writer) valueArgs(args []*ast.ValueArg) {
	w.write("(")
	joined(w, args, ", ")
	w.write(")")
}

// brace writes a lambda or the braced body of a control structure
func (w *Writer) brace(b *ast.Brace) {
	if b.Block == nil {
		panic(ast.Violation(b, "brace without a block"))
	}
	w.write("{")
	if len(b.Params) > 0 {
		w.write(" ")
		joined(w, b.Params, ", ")
		w.write(" ->")
	}
	empty := len(b.Block.Stmts) == 0 && !w.hasWithin(b) && !w.hasWithin(b.Block) &&
		len(w.extras.Before(b.Block)) == 0
	if empty {
		if len(b.Params) > 0 {
			w.write(" ")
		}
		w.write("}")
		return
	}
	if w.oneLine(b) {
		w.write(" ")
		w.node(b.Block.Stmts[0])
		w.write(" }")
		return
	}
	w.indent++
	w.wrap(b.Block, func() {
		w.statements(b.Block)
		w.within(b.Block)
	})
	w.within(b)
	w.indent--
	w.newline()
	w.write("}")
}

// oneLine reports whether b is a lambda of a single statement that stays
// on the line it opens. Parsed lambdas keep the layout of their source.
func (w *Writer) oneLine(b *ast.Brace) bool {
	if b.Loc.Prod == ast.ProdBlock || len(b.Block.Stmts) != 1 {
		return false
	}
	if w.hasWithin(b) || w.hasWithin(b.Block) || len(w.extras.Before(b.Block)) > 0 {
		return false
	}
	return b.Loc.Synthesized() || !strings.Contains(b.Loc.Text(), "\n")
}

func (w *Writer) when(e *ast.When) {
	w.write("when ")
	if e.Expr != nil {
		w.write("(")
		w.node(e.Expr)
		w.write(") ")
	}
	w.write("{")
	w.body(e, func() {
		for i, entry := range e.Entries {
			if len(entry.Conds) == 0 && i != len(e.Entries)-1 {
				panic(ast.Violation(entry, "else branch must be the last entry"))
			}
		}
		lines(w, e.Entries)
	})
	w.write("}")
}

// exprPart writes the nodes that only occur inside expressions and types
func (w *Writer) exprPart(n ast.Node) {
	switch n := n.(type) {
	case *ast.TokenOper, *ast.InfixOper:
		panic(ast.Violation(n, "binary operator outside its operation"))
	case *ast.Dot, *ast.Safe:
		panic(ast.Violation(n, "qualifier outside its operation"))
	case *ast.Catch:
		w.write("catch (")
		for _, set := range n.Anns {
			w.node(set)
			w.write(" ")
		}
		w.write(n.VarName + ": ")
		w.node(n.VarType)
		w.write(") ")
		w.node(n.Block)
	case *ast.ExprRecv:
		w.node(n.Expr)
	case *ast.TypeRecv:
		w.node(n.Type)
		w.write(strings.Repeat("?", n.QuestionMarks))
	case *ast.RegularElem:
		w.write(n.Str)
	case *ast.ShortTmplElem:
		w.write("$" + n.Name)
	case *ast.UnicodeEscElem:
		if len(n.Digits) != 4 {
			panic(ast.Violation(n, "unicode escape needs four digits, got %q", n.Digits))
		}
		w.write(`\u` + n.Digits)
	case *ast.RegularEscElem:
		w.write(escape(n.Char))
	case *ast.LongTmplElem:
		w.write("${")
		w.node(n.Expr)
		w.write("}")
	case *ast.BraceParam:
		if n.Destructured {
			w.destructured(n.Vars)
			if n.DestructType != nil {
				w.write(": ")
				w.node(n.DestructType)
			}
			return
		}
		if len(n.Vars) != 1 || n.Vars[0] == nil {
			panic(ast.Violation(n, "lambda parameter needs exactly one variable"))
		}
		w.node(n.Vars[0])
	case *ast.WhenEntry:
		if len(n.Conds) == 0 {
			w.write("else")
		} else {
			joined(w, n.Conds, ", ")
		}
		w.write(" -> ")
		w.node(n.Body)
	case *ast.ExprCond:
		w.node(n.Expr)
	case *ast.InCond:
		if n.Not {
			w.write("!")
		}
		w.write("in ")
		w.node(n.Expr)
	case *ast.IsCond:
		if n.Not {
			w.write("!")
		}
		w.write("is ")
		w.node(n.Type)
	case *ast.TrailLambda:
		for _, set := range n.Anns {
			w.node(set)
			w.write(" ")
		}
		if n.Label != "" {
			w.write(n.Label + "@")
		}
		w.node(n.Func)
	case *ast.ValueArg:
		if n.Name != "" {
			w.write(n.Name + " = ")
		}
		if n.Spread {
			w.write("*")
		}
		w.node(n.Expr)
	case *ast.Type:
		w.modifiers(n.Mods, false)
		w.node(n.Ref)
	case *ast.TypePiece:
		if n.Name == "" {
			panic(ast.Violation(n, "type piece without a name"))
		}
		w.write(n.Name)
		if len(n.TypeArgs) > 0 {
			w.typeArgs(n.TypeArgs)
		}
	case *ast.FuncTypeParam:
		if n.Name != "" {
			w.write(n.Name + ": ")
		}
		w.node(n.Type)
	case *ast.Annotation:
		if len(n.Names) == 0 {
			panic(ast.Violation(n, "annotation without a name"))
		}
		w.write(strings.Join(n.Names, "."))
		if len(n.TypeArgs) > 0 {
			w.typeArgs(n.TypeArgs)
		}
		if len(n.Args) > 0 {
			w.valueArgs(n.Args)
		}
	default:
		panic(ast.Violation(n, "unknown node variant %T", n))
	}
}

// escape encodes a character escape as written in a string literal
func escape(c rune) string {
	switch c {
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\'', '"', '\\', '$':
		return `\` + string(c)
	}
	// Anything else can only be written as a unicode escape
	return `\u` + leftPad(strconv.FormatInt(int64(c), 16), 4)
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
