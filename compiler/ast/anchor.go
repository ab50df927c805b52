package ast

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Source is the original text a tree was parsed from. Anchors hold a
// non-owning pointer to it, so it must outlive every tree built over it.
type Source struct {
	Name  string
	Text  string
	lines []int // byte offset of the first byte of each line
}

// NewSource wraps text for parsing. Name is used in positions and errors.
func NewSource(name, text string) *Source {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Source{Name: name, Text: text, lines: lines}
}

// Position resolves a byte offset to a 1-indexed line and column.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
	col := utf8.RuneCountInString(s.Text[s.lines[line]:offset]) + 1
	return Position{File: s.Name, Offset: offset, Line: line + 1, Column: col}
}

// Slice returns the text covered by span.
func (s *Source) Slice(span Span) string {
	if span.Start < 0 || span.End > len(s.Text) || span.Start > span.End {
		return ""
	}
	return s.Text[span.Start:span.End]
}

// Position is a resolved location in a Source.
type Position struct {
	File   string
	Offset int
	Line   int // 1-indexed
	Column int // 1-indexed, counted in runes
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open byte interval [Start, End).
type Span struct {
	Start int
	End   int
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Anchor ties a node back to the production and span it was derived from.
// The zero Anchor marks a synthesized node built by tooling rather than parsed.
type Anchor struct {
	Prod Production
	Span Span
	Src  *Source
}

// Synthesized reports whether the anchor points at no real source.
func (a Anchor) Synthesized() bool { return a.Src == nil }

// Text returns the verbatim source text the anchor covers.
func (a Anchor) Text() string {
	if a.Src == nil {
		return ""
	}
	return a.Src.Slice(a.Span)
}

// Start resolves the first byte of the anchor.
func (a Anchor) Start() Position {
	if a.Src == nil {
		return Position{}
	}
	return a.Src.Position(a.Span.Start)
}

// End resolves the byte just past the anchor.
func (a Anchor) End() Position {
	if a.Src == nil {
		return Position{}
	}
	return a.Src.Position(a.Span.End)
}

func (a Anchor) String() string {
	if a.Src == nil {
		return "<synthesized>"
	}
	return fmt.Sprintf("%s@%s", a.Prod, a.Start())
}

// Either is the anchor of a node that can be derived from exactly two
// distinct productions. Which one was parsed is kept as Left or Right.
type Either interface {
	Anchor() Anchor
	either()
}

// Left is the first legal production of a dual-anchored node.
type Left struct{ Loc Anchor }

// Right is the second legal production of a dual-anchored node.
type Right struct{ Loc Anchor }

func (l Left) Anchor() Anchor  { return l.Loc }
func (r Right) Anchor() Anchor { return r.Loc }
func (Left) either()           {}
func (Right) either()          {}

func eitherAnchor(e Either) Anchor {
	if e == nil {
		return Anchor{}
	}
	return e.Anchor()
}
