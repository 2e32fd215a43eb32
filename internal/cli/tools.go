package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/editor"
	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/query"
	"github.com/aidanlsb/rpcsh/internal/shell"
)

var completeCmd = &cobra.Command{
	Use:   "complete <line>",
	Short: "Print completions for a shell command line",
	Long: `Prints the candidates the interactive shell would offer for the end of
the given line. The line is read from the root namespace.

Examples:
  rpcsh complete "account user up"
  rpcsh complete "account user update 1 user_update={"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, root, err := loadTree(getConfig())
		if err != nil {
			return err
		}
		sh := shell.New(root, shell.Options{Out: os.Stdout, Err: os.Stderr})
		candidates := sh.Complete(commandContext(cmd), args[0])

		if isJSONOutput() {
			outputSuccess(map[string]any{"candidates": candidates})
			return nil
		}
		for _, c := range candidates {
			fmt.Println(c.Text)
		}
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template <method>",
	Short: "Print the argument editor template for a method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, root, err := loadTree(getConfig())
		if err != nil {
			return err
		}
		command, ok := root.CommandFor(args[0])
		if !ok {
			return handleError(ErrMethodNotFound, fmt.Errorf("method %s not found", args[0]), "")
		}
		text := editor.Render(command.EditorMethod.Accepts, nil, nil)

		if isJSONOutput() {
			outputSuccess(map[string]any{"command": command.FullName(), "template": text})
			return nil
		}
		fmt.Print(text)
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter <query>",
	Short: "Print the canonical filters of a query command",
	Long: `Parses a query in the form the shell accepts after a query command and
prints the filter list sent to the server.

Examples:
  rpcsh filter "username WHERE uid > 1000"
  rpcsh filter "* WHERE username in ('root', 'admin') and not locked"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := query.Parse(args[0])
		if err != nil {
			return queryError(err)
		}
		call := q.Args()
		if isJSONOutput() {
			outputSuccess(map[string]any{"columns": q.Columns, "filters": call[0]})
			return nil
		}
		if len(q.Columns) > 0 {
			fmt.Printf("columns: %s\n", strings.Join(q.Columns, ", "))
		}
		fmt.Println(parser.FormatValue(call[0]))
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format <arguments>",
	Short: "Parse command arguments and print them in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := parser.ParseWith(args[0], parser.Options{StrictLists: getConfig().StrictLists})
		if err != nil {
			return syntaxError(err)
		}
		formatted := parser.Format(inv)
		if isJSONOutput() {
			outputSuccess(map[string]any{
				"positionals": inv.Positionals,
				"keywords":    inv.Keywords,
				"interactive": inv.Interactive,
				"redirect":    inv.Redirect,
				"formatted":   formatted,
			})
			return nil
		}
		fmt.Println(formatted)
		return nil
	},
}

func syntaxError(err error) error {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return handleErrorWithDetails(ErrSyntax, err.Error(), "", map[string]any{
			"message": perr.Msg,
			"column":  perr.Column(),
		})
	}
	return handleError(ErrSyntax, err, "")
}

func queryError(err error) error {
	var unsupported *query.UnsupportedError
	if errors.As(err, &unsupported) {
		return handleError(ErrQueryInvalid, err, "")
	}
	return syntaxError(err)
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(formatCmd)
}
