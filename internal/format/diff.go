package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiffResult represents the difference between original and formatted code
type DiffResult struct {
	Original  string
	Formatted string
	Changed   bool
	ops       []lineOp
}

type opKind int

const (
	opKeep opKind = iota
	opRemove
	opAdd
)

// lineOp is one step of a line edit script
type lineOp struct {
	kind    opKind
	text    string
	oldLine int // 1-based, for opKeep and opRemove
	newLine int // 1-based, for opKeep and opAdd
}

// Diff compares original and formatted code and returns the difference
func Diff(original, formatted string) *DiffResult {
	d := &DiffResult{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
	if d.Changed {
		d.ops = editScript(splitLines(original), splitLines(formatted))
	}
	return d
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// editScript computes a shortest line edit script from a to b using the
// longest common subsequence
func editScript(a, b []string) []lineOp {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var ops []lineOp
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, lineOp{kind: opKeep, text: a[i], oldLine: i + 1, newLine: j + 1})
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, lineOp{kind: opRemove, text: a[i], oldLine: i + 1})
			i++
		default:
			ops = append(ops, lineOp{kind: opAdd, text: b[j], newLine: j + 1})
			j++
		}
	}
	return ops
}

// String returns a human-readable diff with color highlighting
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("No changes needed")
	}

	var buf bytes.Buffer
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	inHunk := false
	for _, op := range d.ops {
		switch op.kind {
		case opKeep:
			inHunk = false
		case opRemove:
			if !inHunk {
				cyan.Fprintf(&buf, "@@ Line %d @@\n", op.oldLine)
				inHunk = true
			}
			red.Fprintf(&buf, "- %s\n", op.text)
		case opAdd:
			if !inHunk {
				cyan.Fprintf(&buf, "@@ Line %d @@\n", op.newLine)
				inHunk = true
			}
			green.Fprintf(&buf, "+ %s\n", op.text)
		}
	}
	return buf.String()
}

// UnifiedDiff returns the changes in unified diff format, without context
// lines
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	for start := 0; start < len(d.ops); {
		if d.ops[start].kind == opKeep {
			start++
			continue
		}
		end := start
		for end < len(d.ops) && d.ops[end].kind != opKeep {
			end++
		}
		oldStart, newStart := hunkStart(d.ops, start)
		removed, added := 0, 0
		for _, op := range d.ops[start:end] {
			if op.kind == opRemove {
				removed++
			} else {
				added++
			}
		}
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", oldStart, removed, newStart, added)
		for _, op := range d.ops[start:end] {
			if op.kind == opRemove {
				fmt.Fprintf(&buf, "-%s\n", op.text)
			}
		}
		for _, op := range d.ops[start:end] {
			if op.kind == opAdd {
				fmt.Fprintf(&buf, "+%s\n", op.text)
			}
		}
		start = end
	}
	return buf.String()
}

// hunkStart returns the old and new line numbers where the hunk at index
// start begins
func hunkStart(ops []lineOp, start int) (int, int) {
	oldLine, newLine := 1, 1
	for _, op := range ops[:start] {
		if op.kind != opAdd {
			oldLine++
		}
		if op.kind != opRemove {
			newLine++
		}
	}
	return oldLine, newLine
}

// Stats returns statistics about the changes
func (d *DiffResult) Stats() string {
	if !d.Changed {
		return "No changes"
	}
	added, removed := 0, 0
	for _, op := range d.ops {
		switch op.kind {
		case opAdd:
			added++
		case opRemove:
			removed++
		}
	}
	return fmt.Sprintf("%d lines added, %d removed", added, removed)
}
