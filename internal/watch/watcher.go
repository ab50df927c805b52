// Package watch reruns a callback when source files change on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a burst of changes must settle before the
// callback runs
const DefaultDelay = 100 * time.Millisecond

// Watcher monitors directories and reports changed source files in batches
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	match     func(path string) bool
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher. match selects the files worth reporting; onChange
// receives each settled batch of changed paths, sorted.
func New(match func(path string) bool, onChange func([]string) error, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher:   fsw,
		debouncer: NewDebouncer(DefaultDelay),
		match:     match,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	w.debouncer.SetCallback(func(files []string) {
		if err := onChange(files); err != nil {
			w.logger.Warn("change handler failed", zap.Error(err))
		}
	})
	return w, nil
}

// Start watches dirs and begins delivering events. Subdirectories are not
// followed; pass every directory to watch.
func (w *Watcher) Start(dirs []string) error {
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Debug("watching", zap.String("dir", dir))
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}

	w.wg.Wait()
	w.debouncer.Stop()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if hidden(event.Name) || (w.match != nil && !w.match(event.Name)) {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", event.Name))
			w.debouncer.Add(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

// hidden reports editor swap files and dotfiles
func hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}

// Dirs returns the distinct parent directories of files, sorted
func Dirs(files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Debouncer collects paths and hands them over once no new path has
// arrived for the configured delay
type Debouncer struct {
	delay    time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mu       sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a Debouncer with the given delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		files: make(map[string]struct{}),
	}
}

// Add records a path and restarts the delay
func (d *Debouncer) Add(file string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mu.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for f := range d.files {
		files = append(files, f)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mu.Unlock()

	sort.Strings(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the function receiving each batch
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Stop discards pending paths; later additions are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
	d.files = make(map[string]struct{})
}
