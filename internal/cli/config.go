package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keycool/hotsearch/internal/config"
	"github.com/keycool/hotsearch/internal/output"
	"github.com/keycool/hotsearch/internal/paths"
	"github.com/spf13/cobra"
)

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hotsearch configuration",
	Long: `Manage hotsearch configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HOTSEARCH_*, then the legacy names)
3. Config file (<root>/config/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration and where each value came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, nil)
		if err != nil {
			return err
		}

		if a.resolved.File != "" {
			a.out.Info("Configuration file: %s", a.resolved.File)
		} else {
			a.out.Info("No configuration file found (using defaults)")
		}
		a.out.Info("Project root: %s", a.root)
		a.out.Header("Current Configuration")

		table := output.NewTable(a.out.Out(), []string{"Key", "Value", "Source", "Description"})
		table.AddRows(a.resolved.Rows())
		if err := table.Render(); err != nil {
			return fmt.Errorf("render table: %w", err)
		}

		a.out.Print("")
		a.out.Print("Override any key with %s_<KEY>, e.g. %s_ANALYSIS_TOPIC_COUNT=30", config.EnvPrefix, config.EnvPrefix)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create config/config.yaml under the project root with every option documented.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		// The existing file may be broken, so it is not loaded here.
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		out := output.NewPrinter(output.PrinterOptions{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})

		configPath := cfgFile
		if configPath == "" {
			configPath = paths.ConfigFile(root)
		}

		// Check if config already exists
		if _, statErr := os.Stat(configPath); statErr == nil && !forceInit {
			return fmt.Errorf("config file already exists: %s\nUse 'hotsearch config show' to view it, or pass --force to overwrite", configPath)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		if err := config.WriteDefault(f); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		// Helpful comments at the end
		_, err = fmt.Fprint(f, `
# API keys (recommended to use environment variables instead):
#   export TIANAPI_KEY=...
#   export ANTHROPIC_API_KEY=...      # or ANTHROPIC_AUTH_TOKEN
#   export ANTHROPIC_BASE_URL=https://open.bigmodel.cn/api/anthropic
`)
		if err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		out.Success("Created default configuration: %s", configPath)
		out.Print("\nTo view the configuration:\n  hotsearch config show")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
}
