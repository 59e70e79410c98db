// Package pipeline sequences the stages of one run: session check, campaign,
// normalization and analysis.
package pipeline

import (
	"context"
	"time"

	"marketpulse/pkg/campaign"
	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/normalize"
	"marketpulse/pkg/signal"
)

// Stages are the steps of a run. The command wires them to real components;
// tests replace them.
type Stages struct {
	Authenticate func(ctx context.Context) error
	Crawl        func(ctx context.Context) campaign.Summary
	Normalize    func() (normalize.Report, error)
	Analyze      func() (signal.Report, error)
}

// Options select which stages run
type Options struct {
	// SkipScraping runs only the analysis over existing processed files
	SkipScraping bool
}

// Outcome collects what each stage produced. Stages that did not run leave
// their field nil.
type Outcome struct {
	Campaign  *campaign.Summary
	Normalize *normalize.Report
	Analysis  *signal.Report
	NoData    bool
	Elapsed   time.Duration
}

// Run executes the stages in order. Only an authentication failure, a
// cancelled context or an analysis failure other than missing data is
// returned as an error.
func Run(ctx context.Context, opts Options, stages Stages, log logger.Logger) (Outcome, error) {
	start := time.Now()
	var out Outcome

	if opts.SkipScraping {
		log.Info("Skipping scraping and processing")
	} else {
		if err := stages.Authenticate(ctx); err != nil {
			out.Elapsed = time.Since(start)
			return out, err
		}

		log.Info("Starting scraping phase")
		sum := stages.Crawl(ctx)
		out.Campaign = &sum
		if err := ctx.Err(); err != nil {
			out.Elapsed = time.Since(start)
			return out, err
		}

		log.Info("Starting processing phase")
		report, err := stages.Normalize()
		if err != nil {
			log.WithError(err).Error("Processing phase failed")
		} else {
			out.Normalize = &report
		}
	}

	log.Info("Starting analysis phase")
	report, err := stages.Analyze()
	switch {
	case errs.IsType(err, errs.ErrorTypeNoData):
		log.WithError(err).Warn("No processed data to analyse")
		out.NoData = true
	case err != nil:
		out.Elapsed = time.Since(start)
		return out, err
	default:
		out.Analysis = &report
	}

	out.Elapsed = time.Since(start)
	return out, nil
}
