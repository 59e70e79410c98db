package main

import (
	"github.com/spf13/cobra"

	"marketpulse/pkg/pacing"
	"marketpulse/pkg/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in manually and save a fresh session",
	Long: `Open a visible browser, wait for you to log in and press Enter, then save
the session cookies. The saved session is reused by later runs until it is
older than session.max_age_days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := newSessionStore(cfg)
		if err != nil {
			return err
		}
		auth := newAuthenticator(cfg, store, pacing.New(cfg.Timing.Seed, nil), log, newNotifier(cfg))
		if err := auth.Regenerate(cmd.Context()); err != nil {
			return err
		}
		ui.PrintSuccess(cmd.OutOrStdout(), "Session saved to "+store.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
