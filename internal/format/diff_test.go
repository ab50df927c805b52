package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_NoChanges(t *testing.T) {
	d := Diff("a\n", "a\n")
	assert.False(t, d.Changed)
	assert.Equal(t, "No changes needed", d.String())
	assert.Empty(t, d.UnifiedDiff("a.kt"))
	assert.Equal(t, "No changes", d.Stats())
}

func TestDiff_ChangedLine(t *testing.T) {
	d := Diff("a\nb\nc\n", "a\nB\nc\n")
	assert.True(t, d.Changed)
	assert.Equal(t, "@@ Line 2 @@\n- b\n+ B\n", d.String())
	assert.Equal(t, "--- a/x.kt\n+++ b/x.kt\n@@ -2,1 +2,1 @@\n-b\n+B\n", d.UnifiedDiff("x.kt"))
	assert.Equal(t, "1 lines added, 1 removed", d.Stats())
}

func TestDiff_InsertedLine(t *testing.T) {
	d := Diff("fun a() {}\nfun b() {}\n", "fun a() {}\n\nfun b() {}\n")
	assert.Equal(t, "@@ Line 2 @@\n+ \n", d.String())
	assert.Equal(t, "1 lines added, 0 removed", d.Stats())
}
