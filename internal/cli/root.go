// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/config"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

var (
	// Global flags
	configPath    string
	catalogueFlag string
	responsesFlag string

	// Root command flags
	commandLine   string
	interactive   bool
	printTemplate bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
)

// errReported is returned after a failure has already been shown.
var errReported = errors.New("reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rpcsh",
	Short: "rpcsh - an interactive shell for a remote method catalogue",
	Long: `rpcsh turns a catalogue of remote methods into a navigable command tree.
Services become namespaces, methods become commands, and arguments are
typed as literals or edited as a commented YAML document.

Run without arguments for an interactive session, or pass -c to run a
single command line.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version", "init":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Check "+config.ResolvePath(configPath))
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
	RunE: runRoot,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&catalogueFlag, "catalogue", "", "Path to the method catalogue (overrides catalogue in config)")
	rootCmd.PersistentFlags().StringVar(&responsesFlag, "responses", "", "Path to canned method results (overrides responses in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")

	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "Run a single command line and exit")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "With -c, edit arguments in the external editor")
	rootCmd.Flags().BoolVar(&printTemplate, "print-template", false, "With -c, print the argument template instead of running")
	rootCmd.MarkFlagsMutuallyExclusive("interactive", "print-template")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

// getConfigPath returns the resolved config path.
func getConfigPath() string {
	return resolvedConfigPath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolvePath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	if catalogueFlag != "" {
		loadedCfg.Catalogue = catalogueFlag
	}
	if responsesFlag != "" {
		loadedCfg.Responses = responsesFlag
	}
	return loadedCfg, resolvedPath, nil
}
