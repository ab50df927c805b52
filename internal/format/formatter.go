// Package format rewrites Kotlin source into the writer's canonical layout.
package format

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/parser"
	"github.com/kastree-lang/kastree/compiler/writer"
)

// RoundTripError reports output that does not parse back to the input tree
type RoundTripError struct {
	Name  string
	Diffs []string
}

// Error implements the error interface
func (e *RoundTripError) Error() string {
	if len(e.Diffs) == 0 {
		return fmt.Sprintf("%s: formatted output does not parse back to the same tree", e.Name)
	}
	return fmt.Sprintf("%s: formatted output does not parse back to the same tree: %s", e.Name, e.Diffs[0])
}

// Formatter formats Kotlin source code
type Formatter struct {
	config *Config
	writer *writer.Writer
}

// New creates a new Formatter with the given configuration
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{
		config: config,
		writer: writer.New(config.Writer()),
	}
}

// Format formats source and returns the result. Parse errors are returned
// as is.
func (f *Formatter) Format(source string) (string, error) {
	return f.FormatNamed("", source)
}

// FormatNamed is Format with a file name for error positions. Names ending
// in .kts are formatted as scripts.
func (f *Formatter) FormatNamed(name, source string) (string, error) {
	file, extras, err := parser.ParseEntry(ast.NewSource(name, source))
	if err != nil {
		return "", err
	}

	out, err := f.writer.Write(file, extras)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	if f.config.CheckRoundTrip {
		if err := checkRoundTrip(name, file, out); err != nil {
			return "", err
		}
	}
	return out, nil
}

// checkRoundTrip parses out and compares it with the original tree
func checkRoundTrip(name string, file ast.Entry, out string) error {
	again, _, err := parser.ParseEntry(ast.NewSource(name, out))
	if err != nil {
		return fmt.Errorf("%s: formatted output does not parse: %w", name, err)
	}
	if !ast.Equal(file, again) {
		return &RoundTripError{Name: name, Diffs: ast.Diff(file, again)}
	}
	return nil
}

// FormatFile formats the file at path on fs
func FormatFile(fs afero.Fs, path string, config *Config) (string, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return New(config).FormatNamed(path, string(content))
}
