package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marketpulse/pkg/config"
	"marketpulse/pkg/ui"
)

const defaultConfigPath = ".marketpulse.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage marketpulse configuration files.

Configuration is loaded from, highest priority first:
  - MARKETPULSE_* environment variables (and .env files)
  - The file named by $MARKETPULSE_CONFIG, or .marketpulse.yaml, or
    ~/.config/marketpulse/config.yaml
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with every default value",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file %s already exists, remove it first", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		ui.PrintSuccess(cmd.OutOrStdout(), "Configuration written to "+path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the configuration from every source and check it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		ui.PrintSuccess(cmd.OutOrStdout(), "Configuration is valid")
		ui.PrintInfo(cmd.OutOrStdout(), "Hashtags", fmt.Sprintf("%v", cfg.Campaign.Hashtags))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
