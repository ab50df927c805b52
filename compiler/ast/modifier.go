package ast

// Modifier is a keyword modifier or an annotation set.
type Modifier interface {
	Node
	modifier()
}

// AnnotationTarget is the use-site target of an annotation set.
type AnnotationTarget int

const (
	TargetNone AnnotationTarget = iota
	TargetField
	TargetFile
	TargetProperty
	TargetGet
	TargetSet
	TargetReceiver
	TargetParam
	TargetSetParam
	TargetDelegate
)

var targetNames = [...]string{
	TargetNone:     "",
	TargetField:    "field",
	TargetFile:     "file",
	TargetProperty: "property",
	TargetGet:      "get",
	TargetSet:      "set",
	TargetReceiver: "receiver",
	TargetParam:    "param",
	TargetSetParam: "setparam",
	TargetDelegate: "delegate",
}

func (t AnnotationTarget) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return "?"
	}
	return targetNames[t]
}

func (t AnnotationTarget) Valid() bool { return t >= 0 && int(t) < len(targetNames) }

// LookupTarget resolves a use-site target name.
func LookupTarget(name string) (AnnotationTarget, bool) {
	for i, n := range targetNames {
		if n != "" && n == name {
			return AnnotationTarget(i), true
		}
	}
	return TargetNone, false
}

// AnnotationSet is `@Target:[A B]` or `@Target:A`. Its anchor is Left for
// the bracketed group and Right for a single annotation entry.
type AnnotationSet struct {
	Scratch
	Target AnnotationTarget
	Anns   []*Annotation
	Loc    Either
}

// Annotation is one annotation: dotted names, type arguments and arguments.
type Annotation struct {
	Scratch
	Names    []string
	TypeArgs []*Type
	Args     []*ValueArg
	Loc      Anchor
}

// Keyword is a modifier keyword.
type Keyword int

const (
	KwAbstract Keyword = iota
	KwFinal
	KwOpen
	KwAnnotation
	KwSealed
	KwData
	KwOverride
	KwLateinit
	KwInner
	KwPrivate
	KwProtected
	KwPublic
	KwInternal
	KwIn
	KwOut
	KwNoinline
	KwCrossinline
	KwVararg
	KwReified
	KwTailrec
	KwOperator
	KwInfix
	KwInline
	KwExternal
	KwSuspend
	KwConst
	KwActual
	KwExpect
	KwValue
)

var keywordNames = [...]string{
	KwAbstract:    "abstract",
	KwFinal:       "final",
	KwOpen:        "open",
	KwAnnotation:  "annotation",
	KwSealed:      "sealed",
	KwData:        "data",
	KwOverride:    "override",
	KwLateinit:    "lateinit",
	KwInner:       "inner",
	KwPrivate:     "private",
	KwProtected:   "protected",
	KwPublic:      "public",
	KwInternal:    "internal",
	KwIn:          "in",
	KwOut:         "out",
	KwNoinline:    "noinline",
	KwCrossinline: "crossinline",
	KwVararg:      "vararg",
	KwReified:     "reified",
	KwTailrec:     "tailrec",
	KwOperator:    "operator",
	KwInfix:       "infix",
	KwInline:      "inline",
	KwExternal:    "external",
	KwSuspend:     "suspend",
	KwConst:       "const",
	KwActual:      "actual",
	KwExpect:      "expect",
	KwValue:       "value",
}

var keywordsByName = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for i, n := range keywordNames {
		m[n] = Keyword(i)
	}
	return m
}()

func (k Keyword) String() string {
	if k < 0 || int(k) >= len(keywordNames) {
		return "?"
	}
	return keywordNames[k]
}

func (k Keyword) Valid() bool { return k >= 0 && int(k) < len(keywordNames) }

// LookupKeyword resolves a modifier keyword by its source spelling.
func LookupKeyword(name string) (Keyword, bool) {
	k, ok := keywordsByName[name]
	return k, ok
}

// KeywordModifier is a single modifier keyword.
type KeywordModifier struct {
	Scratch
	Keyword Keyword
	Loc     Anchor
}

func (m *AnnotationSet) node()            {}
func (m *AnnotationSet) modifier()        {}
func (m *AnnotationSet) Anchor() Anchor   { return eitherAnchor(m.Loc) }
func (a *Annotation) node()               {}
func (a *Annotation) Anchor() Anchor      { return a.Loc }
func (m *KeywordModifier) node()          {}
func (m *KeywordModifier) modifier()      {}
func (m *KeywordModifier) Anchor() Anchor { return m.Loc }

// Bracketed reports whether the set is written as @[A B]. Hand-built sets
// without an anchor are bracketed when they hold more than one annotation.
func (m *AnnotationSet) Bracketed() bool {
	switch m.Loc.(type) {
	case Left:
		return true
	case Right:
		return false
	default:
		return len(m.Anns) != 1
	}
}
