package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kastree-lang/kastree/internal/cli/ui"
	"github.com/kastree-lang/kastree/internal/tooling"
)

// newSymbolsCommand creates the symbols command
func newSymbolsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the declarations in a Kotlin file",
		Long: `List the declarations in a Kotlin file as an outline, with their kind,
line and signature. Members are indented under their container.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSymbols(cmd, args[0])
		},
	}
}

func (a *app) runSymbols(cmd *cobra.Command, arg string) error {
	name, source, err := a.readSource(cmd, arg)
	if err != nil {
		return err
	}

	api := tooling.NewAPI()
	doc, err := api.ParseFile(name, source)
	if err != nil {
		return err
	}
	if len(doc.Errors) > 0 {
		for _, e := range doc.Errors {
			fmt.Fprint(cmd.ErrOrStderr(), e.FormatForTerminal())
		}
		return fmt.Errorf("failed to parse %s", name)
	}

	if len(doc.Symbols) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No declarations")
		return nil
	}

	table := ui.NewTable(cmd.OutOrStdout(), []string{"NAME", "KIND", "LINE", "SIGNATURE"}, a.noColor)
	addSymbolRows(table, doc.Symbols, 0)
	table.Render()
	return nil
}

func addSymbolRows(table *ui.Table, symbols []*tooling.Symbol, depth int) {
	for _, sym := range symbols {
		table.AddRow(
			strings.Repeat("  ", depth)+sym.Name,
			sym.Kind.String(),
			fmt.Sprint(sym.Range.Start.Line+1),
			sym.Detail,
		)
		addSymbolRows(table, sym.Children, depth+1)
	}
}
