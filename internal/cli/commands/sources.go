package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// findSources resolves paths to the source files beneath them. Directories
// are walked, skipping excluded ones; files are taken as given. With no
// paths the working directory is walked.
func (a *app) findSources(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		abs := a.path(p)

		rel, err := filepath.Rel(a.dir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("path %s is outside working directory", p)
		}

		info, err := a.fs.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}

		err = afero.Walk(a.fs, abs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != abs && a.config.IsExcluded(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if a.config.IsSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// display shortens path for output
func (a *app) display(path string) string {
	if rel, err := filepath.Rel(a.dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
