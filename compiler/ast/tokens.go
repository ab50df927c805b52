package ast

// BinaryToken is a built-in binary operator.
type BinaryToken int

const (
	OpMul BinaryToken = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpRange
	OpRangeUntil
	OpIn
	OpNotIn
	OpGt
	OpGte
	OpLt
	OpLte
	OpEq
	OpNeq
	OpIdentityEq
	OpIdentityNeq
	OpAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpAddAssign
	OpSubAssign
	OpOr
	OpAnd
	OpElvis
)

var binaryTokenText = [...]string{
	OpMul:         "*",
	OpDiv:         "/",
	OpMod:         "%",
	OpAdd:         "+",
	OpSub:         "-",
	OpRange:       "..",
	OpRangeUntil:  "..<",
	OpIn:          "in",
	OpNotIn:       "!in",
	OpGt:          ">",
	OpGte:         ">=",
	OpLt:          "<",
	OpLte:         "<=",
	OpEq:          "==",
	OpNeq:         "!=",
	OpIdentityEq:  "===",
	OpIdentityNeq: "!==",
	OpAssign:      "=",
	OpMulAssign:   "*=",
	OpDivAssign:   "/=",
	OpModAssign:   "%=",
	OpAddAssign:   "+=",
	OpSubAssign:   "-=",
	OpOr:          "||",
	OpAnd:         "&&",
	OpElvis:       "?:",
}

// String returns the operator as written in source.
func (t BinaryToken) String() string {
	if t < 0 || int(t) >= len(binaryTokenText) {
		return "?"
	}
	return binaryTokenText[t]
}

// Valid reports whether t is one of the declared operators.
func (t BinaryToken) Valid() bool { return t >= 0 && int(t) < len(binaryTokenText) }

// UnaryToken is a prefix or postfix operator.
type UnaryToken int

const (
	OpNeg UnaryToken = iota
	OpPos
	OpInc
	OpDec
	OpNot
	OpNullDeref
)

var unaryTokenText = [...]string{
	OpNeg:       "-",
	OpPos:       "+",
	OpInc:       "++",
	OpDec:       "--",
	OpNot:       "!",
	OpNullDeref: "!!",
}

func (t UnaryToken) String() string {
	if t < 0 || int(t) >= len(unaryTokenText) {
		return "?"
	}
	return unaryTokenText[t]
}

func (t UnaryToken) Valid() bool { return t >= 0 && int(t) < len(unaryTokenText) }

// TypeToken is a type operator.
type TypeToken int

const (
	OpAs TypeToken = iota
	OpAsSafe
	OpIs
	OpNotIs
)

var typeTokenText = [...]string{
	OpAs:     "as",
	OpAsSafe: "as?",
	OpIs:     "is",
	OpNotIs:  "!is",
}

func (t TypeToken) String() string {
	if t < 0 || int(t) >= len(typeTokenText) {
		return "?"
	}
	return typeTokenText[t]
}

func (t TypeToken) Valid() bool { return t >= 0 && int(t) < len(typeTokenText) }
