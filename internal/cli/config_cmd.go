package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/config"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		_, statErr := os.Stat(path)
		values := effectiveValues(getConfig())

		if isJSONOutput() {
			data := map[string]any{"path": path, "exists": statErr == nil}
			settings := make(map[string]string, len(values))
			for _, kv := range values {
				settings[kv[0]] = kv[1]
			}
			data["settings"] = settings
			outputSuccess(data)
			return nil
		}

		fmt.Println(ui.Header("Config"))
		if statErr != nil {
			fmt.Printf("%s %s\n\n", path, ui.Hint("(not created; run 'rpcsh config init')"))
		} else {
			fmt.Printf("%s\n\n", path)
		}
		t := ui.NewTable(2)
		t.SetMaxWidth(ui.NewDisplayContext(os.Stdout).TermWidth)
		for _, kv := range values {
			t.AddRow(kv[0], kv[1])
		}
		fmt.Print(t.String())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{"path": path, "created": created})
			return nil
		}
		if created {
			fmt.Println(ui.Success("Created " + path))
		} else {
			fmt.Println(ui.Hint(path + " already exists"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Sets one key in the config file, keeping the other keys as they are.

Keys: catalogue, responses, host, editor, prompt, history_file, history_size,
log_level, log_dir, cache_dir, strict_lists, enum_cache_ttl, ui.accent`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		// Reload so flag overrides are not written back.
		fileCfg := &config.Config{}
		if _, err := os.Stat(path); err == nil {
			loaded, err := config.LoadFrom(path)
			if err != nil {
				return handleError(ErrConfigInvalid, err, "")
			}
			fileCfg = loaded
		}

		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(path, fileCfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{"path": path, "key": args[0], "value": args[1]})
			return nil
		}
		fmt.Println(ui.Success(fmt.Sprintf("Set %s in %s", args[0], path)))
		return nil
	},
}

// effectiveValues lists every setting with defaults applied, in key order.
func effectiveValues(c *config.Config) [][2]string {
	ttl, err := c.EnumTTL()
	ttlText := ttl.String()
	if err != nil {
		ttlText = c.EnumCacheTTL
	}
	return [][2]string{
		{"catalogue", c.GetCatalogue()},
		{"responses", c.GetResponses()},
		{"host", c.GetHost()},
		{"editor", c.GetEditor()},
		{"prompt", c.GetPrompt()},
		{"history_file", c.GetHistoryFile()},
		{"history_size", strconv.Itoa(c.GetHistorySize())},
		{"log_level", c.GetLogLevel()},
		{"log_dir", c.GetLogDir()},
		{"cache_dir", c.GetCacheDir()},
		{"strict_lists", strconv.FormatBool(c.StrictLists)},
		{"enum_cache_ttl", ttlText},
		{"ui.accent", c.UI.Accent},
	}
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
