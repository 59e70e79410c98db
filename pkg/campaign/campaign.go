package campaign

import (
	"context"
	"time"

	"marketpulse/pkg/config"
	"marketpulse/pkg/crawler"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/pacing"
)

// Crawler crawls a single hashtag
type Crawler interface {
	Crawl(ctx context.Context, hashtag string, limit int) crawler.Result
}

// Recorder stores crawl outcomes
type Recorder interface {
	RecordCrawl(ctx context.Context, campaignID string, res crawler.Result) error
}

// Observer follows a campaign between crawls
type Observer interface {
	CampaignStarted(hashtags []string, perHashtag int)
	CoolingDown(kind string, d time.Duration)
}

// Summary is the outcome of a whole campaign
type Summary struct {
	CampaignID     string
	Results        []crawler.Result
	TotalPersisted int
	Aborted        int
	// Interrupted is set when the context ended the campaign early
	Interrupted bool
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Orchestrator runs the crawler over every hashtag in order
type Orchestrator struct {
	cfg      *config.Config
	crawler  Crawler
	pacer    *pacing.Policy
	recorder Recorder
	observer Observer
	log      logger.Logger
	now      func() time.Time
}

// New creates an Orchestrator
func New(cfg *config.Config, c Crawler, pacer *pacing.Policy, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		crawler: c,
		pacer:   pacer,
		log:     log.WithField("component", "campaign"),
		now:     time.Now,
	}
}

// WithRecorder makes the orchestrator record every crawl outcome
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// WithObserver reports campaign progress to obs
func (o *Orchestrator) WithObserver(obs Observer) *Orchestrator {
	o.observer = obs
	return o
}

// PerHashtagLimit splits totalTarget evenly across hashtagCount hashtags,
// rounding down. Without a positive target or any hashtags the quota is
// unbounded.
func PerHashtagLimit(totalTarget, hashtagCount int) int {
	if totalTarget <= 0 || hashtagCount <= 0 {
		return crawler.Unbounded
	}
	return totalTarget / hashtagCount
}

// Run crawls hashtags one after another, each in a fresh browser. A hashtag
// that aborts does not stop the campaign. Between hashtags, but not after
// the last one, the orchestrator sleeps a randomized delay.
func (o *Orchestrator) Run(ctx context.Context, hashtags []string) Summary {
	sum := Summary{StartedAt: o.now()}
	sum.CampaignID = sum.StartedAt.UTC().Format("20060102T150405Z")
	limit := PerHashtagLimit(o.cfg.Campaign.TotalTarget, len(hashtags))

	logger.LogComponentStart(o.log, "campaign", map[string]interface{}{
		"hashtags":    hashtags,
		"per_hashtag": limit,
	})
	if o.observer != nil {
		o.observer.CampaignStarted(hashtags, limit)
	}

	for i, tag := range hashtags {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}

		res := o.crawler.Crawl(ctx, tag, limit)
		sum.Results = append(sum.Results, res)
		if res.State == crawler.StateAborted {
			sum.Aborted++
		}
		sum.TotalPersisted += res.Collected
		o.record(ctx, sum.CampaignID, res)

		o.log.WithFields(map[string]interface{}{
			"hashtag":         tag,
			"collected":       res.Collected,
			"total_persisted": sum.TotalPersisted,
		}).Info("Hashtag complete")

		if i == len(hashtags)-1 {
			break
		}
		d := o.pacer.Duration(pacing.Range(o.cfg.Timing.InterTaskDelay))
		logger.LogCooldown(o.log, "inter_hashtag", d)
		if o.observer != nil {
			o.observer.CoolingDown("inter_hashtag", d)
		}
		if err := o.pacer.SleepFor(ctx, d); err != nil {
			sum.Interrupted = true
			break
		}
	}

	sum.FinishedAt = o.now()
	reason := "completed"
	if sum.Interrupted {
		reason = "interrupted"
	}
	logger.LogComponentStop(o.log, "campaign", reason)
	return sum
}

func (o *Orchestrator) record(ctx context.Context, campaignID string, res crawler.Result) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordCrawl(context.WithoutCancel(ctx), campaignID, res); err != nil {
		o.log.WithError(err).Warn("Failed to record crawl outcome")
	}
}
