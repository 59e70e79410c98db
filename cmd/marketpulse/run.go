package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"marketpulse/internal/pipeline"
	"marketpulse/pkg/campaign"
	"marketpulse/pkg/config"
	"marketpulse/pkg/crawler"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/normalize"
	"marketpulse/pkg/pacing"
	"marketpulse/pkg/signal"
	"marketpulse/pkg/ui"
	"marketpulse/pkg/ui/tui"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	notifier := newNotifier(cfg)
	pacer := pacing.New(cfg.Timing.Seed, nil)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.LogComponentStart(log, "pipeline", map[string]interface{}{
		"skip_scraping": skipScraping,
		"hashtags":      cfg.Campaign.Hashtags,
		"total_target":  cfg.Campaign.TotalTarget,
		"progress":      cfg.UI.Progress,
	})

	stages, cleanup, err := buildStages(cfg, pacer, log, notifier, cancel)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := pipeline.Run(ctx, pipeline.Options{SkipScraping: skipScraping}, stages, log)
	report(out)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			notifier.NotifyError("Pipeline failed", err.Error())
		}
		return err
	}
	logger.LogComponentStop(log, "pipeline", "completed")
	return nil
}

// buildStages wires the real components into the pipeline. Scraping
// components are only built when scraping runs. interrupt cancels the run
// when the operator quits the progress view.
func buildStages(cfg *config.Config, pacer *pacing.Policy, log logger.Logger, notifier *ui.Notifier, interrupt func()) (pipeline.Stages, func(), error) {
	cleanup := func() {}
	aggregator := signal.NewAggregator(cfg, log)
	stages := pipeline.Stages{
		Analyze: aggregator.Run,
		Normalize: func() (normalize.Report, error) {
			return normalize.ProcessDir(cfg.Paths.RawDir, cfg.Paths.ProcessedDir, log)
		},
	}
	if skipScraping {
		return stages, cleanup, nil
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return stages, cleanup, err
	}
	auth := newAuthenticator(cfg, store, pacer, log, notifier)

	var view *tui.TUI
	var observer crawler.Observer
	if progressEnabled(cfg, log) {
		view = tui.NewTUI(interrupt)
		observer = view
	}
	c, err := newCrawler(cfg, store, pacer, log, observer)
	if err != nil {
		return stages, cleanup, err
	}

	orchestrator := campaign.New(cfg, c, pacer, log)
	if view != nil {
		orchestrator.WithObserver(view)
	}
	if ledger := openLedger(cfg, log); ledger != nil {
		orchestrator.WithRecorder(ledger)
		cleanup = func() { ledger.Close() }
	}

	stages.Authenticate = auth.Ensure
	stages.Crawl = func(ctx context.Context) campaign.Summary {
		run := func() campaign.Summary { return orchestrator.Run(ctx, cfg.Campaign.Hashtags) }
		var sum campaign.Summary
		if view != nil {
			sum = runWithProgress(view, log, run)
		} else {
			sum = run()
		}
		notifier.Notify("Campaign finished", fmt.Sprintf("%d posts saved across %d hashtags", sum.TotalPersisted, len(sum.Results)))
		return sum
	}
	return stages, cleanup, nil
}

// progressEnabled reports whether the live progress view should replace
// console logging during the campaign
func progressEnabled(cfg *config.Config, log logger.Logger) bool {
	if !cfg.UI.Progress {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Warn("Progress view needs an interactive terminal, logging instead")
		return false
	}
	return true
}

// runWithProgress runs the campaign with the progress view on screen. Console
// logs are muted meanwhile. If the operator quits the view, the campaign has
// already been interrupted and is waited for.
func runWithProgress(view *tui.TUI, log logger.Logger, run func() campaign.Summary) campaign.Summary {
	restore := logger.MuteConsole()
	defer restore()

	campaignDone := make(chan campaign.Summary, 1)
	go func() {
		campaignDone <- run()
	}()

	viewDone := make(chan error, 1)
	go func() {
		viewDone <- view.Start()
	}()

	select {
	case sum := <-campaignDone:
		view.Stop()
		<-viewDone
		return sum
	case err := <-viewDone:
		if err != nil {
			log.WithError(err).Warn("Progress view failed")
		}
		return <-campaignDone
	}
}

func report(out pipeline.Outcome) {
	if out.Campaign != nil {
		ui.PrintCampaignSummary(os.Stdout, *out.Campaign)
	}
	if out.Normalize != nil && len(out.Normalize.Failed) > 0 {
		ui.PrintInfo(os.Stdout, "Files that failed processing", fmt.Sprintf("%d", len(out.Normalize.Failed)))
	}
	if out.NoData {
		ui.PrintError(os.Stdout, "No processed data found, analysis skipped", nil)
	}
	if out.Analysis != nil {
		ui.PrintSuccess(os.Stdout, fmt.Sprintf("\nAnalysis complete. Final data saved to '%s'", out.Analysis.DatasetPath))
		ui.PrintInfo(os.Stdout, "Chart", out.Analysis.ChartPath)
		if out.Analysis.ImagePath != "" {
			ui.PrintInfo(os.Stdout, "Chart image", out.Analysis.ImagePath)
		}
		if out.Analysis.FeedPath != "" {
			ui.PrintInfo(os.Stdout, "Top signals feed", out.Analysis.FeedPath)
		}
		ui.PrintSignalSample(os.Stdout, out.Analysis.Sample)
	}
	ui.PrintElapsed(os.Stdout, out.Elapsed)
}
