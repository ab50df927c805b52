package commands

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kastree-lang/kastree/internal/cli/config"
	"github.com/kastree-lang/kastree/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// app carries the state shared by every command
type app struct {
	fs      afero.Fs
	dir     string
	verbose bool
	noColor bool

	// set before each command runs
	config *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command over the OS filesystem
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "kastree",
		Short: "Lossless Kotlin syntax trees: parse, check, format",
		Long: color.CyanString(`kastree - lossless Kotlin syntax trees

kastree parses Kotlin sources into a typed syntax tree that keeps every
comment and blank line, and writes trees back out as Kotlin.

Features:
  • Parse and dump syntax trees
  • Report syntax errors with source context
  • Canonical formatting that preserves comments
  • Language server for editors`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", ".", "Run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newVersionCommand(a))
	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newFormatCommand(a))
	rootCmd.AddCommand(newSymbolsCommand(a))
	rootCmd.AddCommand(newLSPCommand(a))

	return rootCmd
}

// setup loads the project configuration and builds the logger
func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}

	dir, err := filepath.Abs(a.dir)
	if err != nil {
		return fmt.Errorf("invalid directory %s: %w", a.dir, err)
	}
	a.dir = dir

	a.config = config.Default()
	if root, err := config.FindProjectRoot(a.fs, dir); err == nil {
		cfg, err := config.Load(a.fs, root)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	if !a.verbose {
		a.logger = zap.NewNop()
		return nil
	}
	level, err := zapcore.ParseLevel(a.config.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

// path resolves a command-line path against the working directory
func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(a.dir, p)
}

// newVersionCommand creates the version command
func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the kastree version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), a.noColor)
			table.AddRow("kastree version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
