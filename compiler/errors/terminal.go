package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	boldColor   = color.New(color.Bold)
	blueColor   = color.New(color.FgBlue)
	cyanColor   = color.New(color.FgCyan, color.Bold)
	grayColor   = color.New(color.FgHiBlack)
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
)

// FormatForTerminal formats a CompilerError for terminal output. Colors
// follow color.NoColor.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	severityColor(e.Severity).Fprintf(&sb, "%s[%s]", title(e.Severity.String()), e.Code)
	fmt.Fprintf(&sb, ": %s\n", e.Message)

	if e.Location.File != "" || e.Location.Line > 0 {
		fmt.Fprintf(&sb, "  %s %s:%d:%d\n",
			blueColor.Sprint("-->"),
			e.Location.File,
			e.Location.Line,
			e.Location.Column)
	}

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	return sb.String()
}

// formatSourceContext formats the source lines with a marker under the
// highlighted columns
func formatSourceContext(ctx ErrorContext) string {
	var sb strings.Builder
	width := len(fmt.Sprint(ctx.FirstLine + len(ctx.SourceLines)))
	gutter := strings.Repeat(" ", width+1) + blueColor.Sprint("|")

	sb.WriteString(gutter + "\n")
	for i, line := range ctx.SourceLines {
		number := fmt.Sprintf("%*d", width, ctx.FirstLine+i)
		if i != ctx.Highlight.Line {
			fmt.Fprintf(&sb, "%s %s %s\n", grayColor.Sprint(number), blueColor.Sprint("|"), line)
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s\n", blueColor.Sprint(number), blueColor.Sprint("|"), line)

		length := ctx.Highlight.End - ctx.Highlight.Start
		if length <= 0 {
			length = 1
		}
		fmt.Fprintf(&sb, "%s %s%s\n",
			gutter,
			strings.Repeat(" ", ctx.Highlight.Start),
			redColor.Sprint(strings.Repeat("^", length)))
	}
	sb.WriteString(gutter + "\n")

	return sb.String()
}

func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s %s\n", cyanColor.Sprint("Help:"), suggestion.Description)
	if suggestion.NewCode != "" {
		fmt.Fprintf(&sb, "%s\n", cyanColor.Sprint("Suggestion:"))
		for _, line := range strings.Split(suggestion.NewCode, "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
		if suggestion.Confidence < 1.0 {
			grayColor.Fprintf(&sb, "(Confidence: %d%%)\n", int(suggestion.Confidence*100))
		}
	}

	return sb.String()
}

func severityColor(severity Severity) *color.Color {
	switch severity {
	case Info:
		return color.New(color.FgBlue, color.Bold)
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// FormatSummary formats a summary of errors and warnings
func FormatSummary(errorCount, warningCount int) string {
	var parts []string
	if errorCount > 0 {
		parts = append(parts, redColor.Sprintf("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, yellowColor.Sprintf("%d warning(s)", warningCount))
	}
	if len(parts) == 0 {
		return blueColor.Sprint("No errors or warnings") + "\n"
	}
	return "\n" + boldColor.Sprint("Found ") + strings.Join(parts, " and ") + "\n"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
