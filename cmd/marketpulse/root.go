package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"marketpulse/pkg/config"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	skipScraping bool
)

// rootCmd runs the whole pipeline when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "marketpulse",
	Short: "Crawl market hashtags and turn the posts into sentiment signals",
	Long: `marketpulse collects recent posts for a list of market hashtags through a
real browser session, cleans their text and scores them into a composite
trading signal.

Stages:
  - Session check: reuses the saved login, or opens a browser for a manual login
  - Campaign: crawls each hashtag in turn with human-like pacing
  - Processing: cleans the text of every raw file
  - Analysis: lexicon polarity, engagement and VADER scores, hourly chart,
    ranked RSS feed and the combined signal dataset

Run with --skip-scraping to analyse the existing processed files only.

Settings come from .marketpulse.yaml, ~/.config/marketpulse/config.yaml or
the file named by $MARKETPULSE_CONFIG, overridden by MARKETPULSE_*
environment variables. Run 'marketpulse config init' for a starting file.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintLogo(os.Stdout)
		}
	},
	RunE: runPipeline,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(os.Stderr, "Error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&skipScraping, "skip-scraping", false, "skip scraping and processing, run only the analysis step")

	rootCmd.SetVersionTemplate(`marketpulse {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration and sets up the global logger
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.GetLogger(), nil
}

func newNotifier(cfg *config.Config) *ui.Notifier {
	if !cfg.UI.Notifications {
		return ui.NewNotifierWithSender(nil, os.Stdout)
	}
	return ui.NewNotifier()
}
