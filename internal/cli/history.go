package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/history"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [prefix]",
	Short: "List recent shell input",
	Long: `Lists lines entered at the rpcsh prompt, oldest first.

With a prefix, only lines starting with it are listed, newest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readHistory(cmd, args)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		if isJSONOutput() {
			items := make([]map[string]any, len(entries))
			for i, e := range entries {
				items[i] = map[string]any{
					"line":      e.Line,
					"namespace": e.Namespace,
					"ok":        e.OK,
					"at":        e.At.Format("2006-01-02T15:04:05Z07:00"),
				}
			}
			outputSuccess(map[string]any{"entries": items})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println(ui.Hint("No history"))
			return nil
		}
		t := ui.NewTable(3)
		t.SetMaxWidth(ui.NewDisplayContext(os.Stdout).TermWidth)
		for _, e := range entries {
			t.AddRow(historyStatus(e), e.Namespace, e.Line)
		}
		fmt.Print(t.String())
		return nil
	},
}

func readHistory(cmd *cobra.Command, args []string) ([]history.Entry, error) {
	c := getConfig()
	path := c.GetHistoryFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	store, err := history.Open(path, c.GetHistorySize())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	if len(args) == 1 {
		return store.Search(ctx, args[0], historyLimit)
	}
	return store.Recent(ctx, historyLimit)
}

func historyStatus(e history.Entry) string {
	if e.OK {
		return " "
	}
	return ui.SymbolError
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of lines to list")
	rootCmd.AddCommand(historyCmd)
}
