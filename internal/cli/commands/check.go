package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kastree-lang/kastree/compiler/ast"
	kerrors "github.com/kastree-lang/kastree/compiler/errors"
	"github.com/kastree-lang/kastree/compiler/parser"
	"github.com/kastree-lang/kastree/compiler/writer"
	"github.com/kastree-lang/kastree/internal/cli/ui"
	"github.com/kastree-lang/kastree/internal/watch"
)

type checkOptions struct {
	json      bool
	roundTrip bool
	watch     bool
}

// newCheckCommand creates the check command
func newCheckCommand(a *app) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report syntax errors in Kotlin sources",
		Long: `Parse every Kotlin source under the given paths and report syntax errors.

Each parsed tree is also validated. With --round-trip, every tree is written
back out and the output must parse to the same tree.

Examples:
  kastree check                 # Check all sources
  kastree check --json src      # Machine-readable report
  kastree check --watch         # Check again whenever a source changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.roundTrip, "round-trip", false, "Also check that writing each tree reproduces it")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Keep running and check changed files again")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	files, err := a.findSources(args)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no Kotlin source files found")
	}

	if opts.watch {
		return a.watchCheck(cmd, files, opts)
	}
	return a.checkFiles(cmd, files, opts)
}

// checkFiles checks files once and reports the result
func (a *app) checkFiles(cmd *cobra.Command, files []string, opts *checkOptions) error {
	collector := kerrors.NewCollector()
	for _, file := range files {
		name := a.display(file)
		a.logger.Debug("checking", zap.String("file", name))

		content, err := afero.ReadFile(a.fs, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := checkSource(name, string(content), opts.roundTrip); err != nil {
			collector.AddFileError(a.fs, file, err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.json {
		report, err := collector.FormatAsJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report)
	} else if collector.HasErrors() {
		fmt.Fprint(cmd.ErrOrStderr(), collector.FormatForTerminal())
	} else {
		ui.Success(out, a.noColor, "%d file(s) checked, no errors", len(files))
	}

	if collector.HasErrors() {
		return fmt.Errorf("found %d error(s)", collector.ErrorCount())
	}
	return nil
}

// watchCheck checks files, then checks each settled batch of changes again
// until interrupted
func (a *app) watchCheck(cmd *cobra.Command, files []string, opts *checkOptions) error {
	if err := a.checkFiles(cmd, files, opts); err != nil {
		ui.Failure(cmd.ErrOrStderr(), a.noColor, "%v", err)
	}

	w, err := watch.New(a.config.IsSource, func(changed []string) error {
		ui.Hint(cmd.OutOrStdout(), a.noColor, "%d file(s) changed", len(changed))
		if err := a.checkFiles(cmd, changed, opts); err != nil {
			ui.Failure(cmd.ErrOrStderr(), a.noColor, "%v", err)
		}
		return nil
	}, a.logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(watch.Dirs(files)); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ui.Hint(cmd.OutOrStdout(), a.noColor, "watching for changes, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

// checkSource parses and validates source, and optionally writes it back
// out and compares the reparsed tree
func checkSource(name, source string, roundTrip bool) error {
	file, extras, err := parser.ParseEntry(ast.NewSource(name, source))
	if err != nil {
		return err
	}
	if err := ast.Validate(file); err != nil {
		return err
	}
	if !roundTrip {
		return nil
	}

	out, err := writer.Write(file, extras)
	if err != nil {
		return err
	}
	again, _, err := parser.ParseEntry(ast.NewSource(name, out))
	if err != nil {
		return fmt.Errorf("written output does not parse: %w", err)
	}
	if diffs := ast.Diff(file, again); len(diffs) > 0 {
		return fmt.Errorf("written output differs: %s", diffs[0])
	}
	return nil
}
