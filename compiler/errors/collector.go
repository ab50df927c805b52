package errors

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// MaxErrors is the default number of errors kept before further ones are
// dropped
const MaxErrors = 100

// Collector gathers diagnostics across files. The parser stops at the first
// error in a file, so a run over many files reports one error per file.
type Collector struct {
	errors   []CompilerError
	warnings []CompilerError
	maxCount int
}

// NewCollector creates a Collector keeping at most MaxErrors errors
func NewCollector() *Collector {
	return NewCollectorWithMax(MaxErrors)
}

// NewCollectorWithMax creates a Collector with a custom limit
func NewCollectorWithMax(maxCount int) *Collector {
	return &Collector{maxCount: maxCount}
}

// Add records a diagnostic. Errors past the limit are dropped; warnings
// are always kept.
func (c *Collector) Add(err CompilerError) {
	if err.IsError() {
		if len(c.errors) >= c.maxCount {
			return
		}
		c.errors = append(c.errors, err)
		return
	}
	c.warnings = append(c.warnings, err)
}

// AddFileError converts err with From and records the result, enriched
// with the content of path in fs
func (c *Collector) AddFileError(fs afero.Fs, path string, err error) {
	for _, e := range From(err) {
		c.Add(EnrichErrorFromFile(fs, path, e))
	}
}

// HasErrors returns true if there are any errors (not just warnings)
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// ErrorCount returns the number of errors
func (c *Collector) ErrorCount() int {
	return len(c.errors)
}

// WarningCount returns the number of warnings
func (c *Collector) WarningCount() int {
	return len(c.warnings)
}

// All returns errors followed by warnings
func (c *Collector) All() []CompilerError {
	all := make([]CompilerError, 0, len(c.errors)+len(c.warnings))
	all = append(all, c.errors...)
	return append(all, c.warnings...)
}

// Errors returns the errors, in the order they were added
func (c *Collector) Errors() []CompilerError {
	return c.errors
}

// ByCode returns the diagnostics with the given code
func (c *Collector) ByCode(code string) []CompilerError {
	var result []CompilerError
	for _, e := range c.All() {
		if e.Code == code {
			result = append(result, e)
		}
	}
	return result
}

// FormatForTerminal formats every diagnostic followed by a summary
func (c *Collector) FormatForTerminal() string {
	var sb strings.Builder
	for i, e := range c.All() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.FormatForTerminal())
	}
	if len(c.errors)+len(c.warnings) > 0 {
		sb.WriteString(FormatSummary(len(c.errors), len(c.warnings)))
	}
	if len(c.errors) >= c.maxCount {
		yellowColor.Fprintf(&sb, "\nNote: error limit reached (%d), further errors not shown\n", c.maxCount)
	}
	return sb.String()
}

// FormatAsJSON formats every diagnostic as JSON
func (c *Collector) FormatAsJSON() (string, error) {
	return FormatErrorsAsJSON(c.All())
}

// Error implements the error interface
func (c *Collector) Error() string {
	switch {
	case len(c.errors) == 0 && len(c.warnings) == 0:
		return "no errors"
	case len(c.errors) == 1 && len(c.warnings) == 0:
		return c.errors[0].Error()
	}
	return fmt.Sprintf("%d error(s) and %d warning(s)", len(c.errors), len(c.warnings))
}
