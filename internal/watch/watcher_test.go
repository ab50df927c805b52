package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Main.kt")
	require.NoError(t, os.WriteFile(source, []byte("val x = 1\n"), 0644))

	var mu sync.Mutex
	var batches [][]string

	w, err := New(
		func(path string) bool { return strings.HasSuffix(path, ".kt") },
		func(files []string) error {
			mu.Lock()
			defer mu.Unlock()
			batches = append(batches, files)
			return nil
		},
		nil,
	)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start([]string{dir}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(source, []byte("val x = 2\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, f := range batch {
			assert.True(t, strings.HasSuffix(f, ".kt"), "unexpected file %s", f)
		}
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := New(nil, func([]string) error { return nil }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(nil))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(nil, func([]string) error { return nil }, nil)
	require.NoError(t, err)
	defer w.Stop()

	err = w.Start([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch directory")
}

func TestDebouncer_Batches(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
	})

	d.Add("b.kt")
	d.Add("a.kt")
	d.Add("b.kt")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a.kt", "b.kt"}, batches[0])
}

func TestDebouncer_Stop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(20 * time.Millisecond)
	d.SetCallback(func([]string) { called <- struct{}{} })

	d.Add("a.kt")
	d.Stop()
	d.Add("b.kt")

	select {
	case <-called:
		t.Fatal("callback ran after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDirs(t *testing.T) {
	files := []string{
		filepath.Join("src", "b", "B.kt"),
		filepath.Join("src", "a", "A.kt"),
		filepath.Join("src", "a", "A2.kt"),
	}
	assert.Equal(t, []string{filepath.Join("src", "a"), filepath.Join("src", "b")}, Dirs(files))
	assert.Empty(t, Dirs(nil))
}

func TestHidden(t *testing.T) {
	assert.True(t, hidden("/p/.Main.kt.swp"))
	assert.True(t, hidden("/p/Main.kt~"))
	assert.False(t, hidden("/p/Main.kt"))
}
