package main

import (
	"errors"

	"github.com/spf13/cobra"

	"marketpulse/pkg/history"
	"marketpulse/pkg/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [hashtag]",
	Short: "Show recent hashtag crawls",
	Example: `  # Last 20 crawls of any hashtag
  marketpulse history

  # Last 5 crawls of #nifty50
  marketpulse history nifty50 --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Paths.HistoryDB == "" {
			return errors.New("crawl history is disabled (paths.history_db is empty)")
		}

		ledger, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			return err
		}
		defer ledger.Close()

		hashtag := ""
		if len(args) == 1 {
			hashtag = args[0]
		}
		runs, err := ledger.Recent(cmd.Context(), hashtag, historyLimit)
		if err != nil {
			return err
		}

		rows := make([]ui.CrawlRun, len(runs))
		for i, r := range runs {
			rows[i] = ui.CrawlRun{
				StartedAt: r.StartedAt,
				Hashtag:   r.Hashtag,
				State:     r.State,
				Reason:    r.Reason,
				Collected: r.Collected,
				Duration:  r.FinishedAt.Sub(r.StartedAt),
				Error:     r.Error,
			}
		}
		ui.PrintCrawlHistory(cmd.OutOrStdout(), rows)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of crawls to show")
	rootCmd.AddCommand(historyCmd)
}
