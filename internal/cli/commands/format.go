package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	kerrors "github.com/kastree-lang/kastree/compiler/errors"
	"github.com/kastree-lang/kastree/internal/cli/ui"
	"github.com/kastree-lang/kastree/internal/format"
)

type formatOptions struct {
	write  bool
	check  bool
	config string
}

// newFormatCommand creates the format command
func newFormatCommand(a *app) *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format Kotlin source files",
		Long: `Format Kotlin source files (.kt, .kts) into the canonical layout.

Comments and blank lines are kept. By default, shows a diff preview of what
would change without modifying files. Use --write to apply formatting
changes, or --check to verify formatting.

Examples:
  kastree format                    # Show diff for all sources
  kastree format --write            # Format and save all files
  kastree format --check            # Exit with error if not formatted
  kastree format src/Main.kt        # Format a specific file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFormat(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Write formatted output to files")
	cmd.Flags().BoolVarP(&opts.check, "check", "c", false, "Check if files are formatted (exit 1 if not)")
	cmd.Flags().StringVar(&opts.config, "config", format.ConfigFile, "Path to formatting config file")

	return cmd
}

// formatterConfig prefers the formatting config file, then the project
// configuration
func (a *app) formatterConfig(path string) (*format.Config, error) {
	path = a.path(path)
	exists, err := afero.Exists(a.fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return a.config.FormatterConfig(), nil
	}
	a.logger.Debug("using formatting config", zap.String("path", path))
	return format.LoadConfig(a.fs, path)
}

func (a *app) runFormat(cmd *cobra.Command, args []string, opts *formatOptions) error {
	config, err := a.formatterConfig(opts.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	files, err := a.findSources(args)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no Kotlin source files found")
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	titleColor := color.New(color.FgCyan, color.Bold)
	formatter := format.New(config)

	hasChanges := false
	errorCount := 0

	for _, file := range files {
		name := a.display(file)
		a.logger.Debug("formatting", zap.String("file", name))

		original, err := afero.ReadFile(a.fs, file)
		if err != nil {
			ui.Failure(errOut, a.noColor, "Error reading %s: %v", name, err)
			errorCount++
			continue
		}

		formatted, err := formatter.FormatNamed(name, string(original))
		if err != nil {
			a.reportError(cmd, err, string(original))
			errorCount++
			continue
		}

		diff := format.Diff(string(original), formatted)
		if !diff.Changed {
			if !opts.check {
				ui.Success(out, a.noColor, "%s (no changes)", name)
			}
			continue
		}

		hasChanges = true

		switch {
		case opts.check:
			ui.Failure(errOut, a.noColor, "%s needs formatting", name)
		case opts.write:
			if err := afero.WriteFile(a.fs, file, []byte(formatted), 0o644); err != nil {
				ui.Failure(errOut, a.noColor, "Error writing %s: %v", name, err)
				errorCount++
				continue
			}
			ui.Success(out, a.noColor, "%s formatted", name)
		default:
			titleColor.Fprintf(out, "\n=== %s ===\n", name)
			fmt.Fprintln(out, diff.String())
			fmt.Fprintf(out, "\n%s\n", diff.Stats())
		}
	}

	if !opts.write && !opts.check && hasChanges {
		fmt.Fprintln(out)
		ui.Hint(out, a.noColor, "Run 'kastree format --write' to apply changes")
	}

	if opts.check && hasChanges {
		return fmt.Errorf("files need formatting")
	}
	if errorCount > 0 {
		return fmt.Errorf("%d files had errors", errorCount)
	}
	return nil
}

// reportError prints a parse or render failure with source context
func (a *app) reportError(cmd *cobra.Command, err error, source string) {
	for _, e := range kerrors.From(err) {
		fmt.Fprint(cmd.ErrOrStderr(), kerrors.EnrichError(e, source).FormatForTerminal())
	}
}
