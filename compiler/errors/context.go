package errors

import (
	"strings"

	"github.com/spf13/afero"
)

// contextLines is how many lines are shown on each side of the error line
const contextLines = 3

// EnrichError adds source context and a suggestion to an error
func EnrichError(err CompilerError, source string) CompilerError {
	err = err.WithContext(extractSourceContext(err.Location, source))
	if suggestion := suggestFix(err); suggestion != nil {
		err = err.WithSuggestion(*suggestion)
	}
	return err
}

// EnrichErrorFromFile reads path from fs and enriches the error with it.
// An empty path reads err.Location.File. The error is returned unchanged
// when the file cannot be read.
func EnrichErrorFromFile(fs afero.Fs, path string, err CompilerError) CompilerError {
	if path == "" {
		path = err.Location.File
	}
	if path == "" {
		return err
	}
	content, readErr := afero.ReadFile(fs, path)
	if readErr != nil {
		return err
	}
	return EnrichError(err, string(content))
}

// extractSourceContext extracts the error line and the lines around it
func extractSourceContext(location SourceLocation, source string) ErrorContext {
	lines := strings.Split(source, "\n")
	if location.Line < 1 || location.Line > len(lines) {
		return ErrorContext{}
	}

	errorLine := location.Line - 1
	first := max(0, errorLine-contextLines)
	last := min(len(lines), errorLine+contextLines+1)

	context := make([]string, 0, last-first)
	for _, line := range lines[first:last] {
		context = append(context, strings.TrimRight(line, "\r"))
	}

	start := max(0, location.Column-1)
	end := start + location.Length
	if location.Length == 0 {
		end = start + 1
	}

	return ErrorContext{
		SourceLines: context,
		FirstLine:   first + 1,
		Highlight: Highlight{
			Line:  errorLine - first,
			Start: start,
			End:   end,
		},
	}
}
