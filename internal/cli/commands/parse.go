package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/parser"
)

type parseOptions struct {
	goSyntax bool
	extras   bool
	script   bool
}

// newParseCommand creates the parse command
func newParseCommand(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:     "parse <file>",
		Aliases: []string{"dump"},
		Short:   "Print the syntax tree of a Kotlin file",
		Long: `Parse a Kotlin file and print its syntax tree without source positions.

Use - to read from standard input. With --extras, the comments and blank
lines kept alongside the tree are listed after it. Files ending in .kts,
and any input given --script, are parsed as scripts of statements.

Examples:
  kastree parse Main.kt
  kastree parse --go Main.kt
  echo 'val x = 1' | kastree parse -
  echo 'println(1 + 2)' | kastree parse --script -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.goSyntax, "go", false, "Print the tree as a Go value literal")
	cmd.Flags().BoolVar(&opts.extras, "extras", false, "List comments and blank lines")
	cmd.Flags().BoolVar(&opts.script, "script", false, "Parse the input as a script of statements")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, arg string, opts *parseOptions) error {
	name, source, err := a.readSource(cmd, arg)
	if err != nil {
		return err
	}

	var file ast.Entry
	var extras *ast.ExtrasMap
	if opts.script {
		file, extras, err = parser.ParseScriptString(name, source)
	} else {
		file, extras, err = parser.ParseEntry(ast.NewSource(name, source))
	}
	if err != nil {
		a.reportError(cmd, err, source)
		return fmt.Errorf("failed to parse %s", name)
	}

	out := cmd.OutOrStdout()
	if opts.goSyntax {
		err = ast.DumpGo(out, file)
	} else {
		err = ast.Dump(out, file)
	}
	if err != nil {
		return err
	}

	if opts.extras {
		fmt.Fprintln(out)
		writeExtras(out, file, extras)
	}
	return nil
}

// readSource reads arg from the filesystem, or stdin for "-"
func (a *app) readSource(cmd *cobra.Command, arg string) (string, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}

	path := a.path(arg)
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return a.display(path), string(data), nil
}

// writeExtras lists trivia in tree order, one per line
func writeExtras(w io.Writer, root ast.Node, extras *ast.ExtrasMap) {
	ast.Inspect(root, func(n ast.Node) bool {
		owner := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
		for _, e := range extras.Before(n) {
			fmt.Fprintf(w, "%s before %s: %s\n", e.Anchor().Start(), owner, describeExtra(e))
		}
		for _, e := range extras.Within(n) {
			fmt.Fprintf(w, "%s within %s: %s\n", e.Anchor().Start(), owner, describeExtra(e))
		}
		return true
	})
}

func describeExtra(e ast.Extra) string {
	switch e := e.(type) {
	case *ast.Comment:
		return fmt.Sprintf("%q", e.Text)
	case *ast.BlankLines:
		return fmt.Sprintf("%d blank line(s)", e.Count)
	default:
		return fmt.Sprintf("%T", e)
	}
}
