package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"marketpulse/pkg/config"
	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/extract"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/pacing"
	"marketpulse/pkg/ratelimit"
	"marketpulse/pkg/session"
)

// Deps are the collaborators of a Crawler
type Deps struct {
	Launch   LaunchFunc
	Sessions SessionSource
	Sink     Sink
	Pacer    *pacing.Policy
	Logger   logger.Logger
	// Observer is optional
	Observer Observer
}

// Crawler collects the recent posts of one hashtag at a time
type Crawler struct {
	cfg  *config.Config
	deps Deps
	log  logger.Logger
	now  func() time.Time
}

// New creates a Crawler. cfg is read, never modified.
func New(cfg *config.Config, deps Deps) *Crawler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	return &Crawler{
		cfg:  cfg,
		deps: deps,
		log:  log.WithField("component", "crawler"),
		now:  time.Now,
	}
}

// SearchURL is the search page listing posts tagged with hashtag
func SearchURL(siteURL, hashtag string) string {
	q := url.Values{}
	q.Set("q", "#"+hashtag)
	q.Set("src", "typed_query")
	return strings.TrimRight(siteURL, "/") + "/search?" + q.Encode()
}

// Crawl runs one hashtag through the full state machine. limit is the
// per-hashtag quota or Unbounded. The browser is always released before
// Crawl returns, and nothing is persisted for an aborted crawl.
func (c *Crawler) Crawl(ctx context.Context, hashtag string, limit int) Result {
	res := Result{Hashtag: hashtag, State: StateInit, StartedAt: c.now()}
	log := c.log.WithField("hashtag", hashtag)

	c.deps.Observer.CrawlStarted(hashtag, limit)
	if limit == 0 {
		res.State, res.Reason = StateDone, ReasonQuotaMet
		res.FinishedAt = c.now()
		c.deps.Observer.CrawlFinished(res)
		return res
	}

	st := newCrawlState(limit, res.StartedAt.Add(-c.cfg.Campaign.TimeWindow))

	page, err := c.deps.Launch(ctx)
	if err != nil {
		if errs.TypeOf(err) == "" {
			err = errs.Wrap(errs.ErrorTypeBrowser, "launch", err)
		}
		return c.abort(ctx, log, res, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.WithError(err).Warn("Failed to close browser")
		}
	}()

	res.State = StateAuthenticating
	if err := c.authenticate(ctx, page); err != nil {
		return c.abort(ctx, log, res, err)
	}

	res.State = StateNavigating
	if err := page.Navigate(ctx, SearchURL(c.cfg.Browser.SiteURL, hashtag)); err != nil {
		return c.abort(ctx, log, res, err)
	}

	res.State = StateSearching
	if err := page.ClickTab(ctx, extract.LatestTab, c.cfg.Browser.TabWaitTimeout); err != nil {
		return c.abort(ctx, log, res, err)
	}

	res.State = StateScrollLoop
	reason, err := c.scrollLoop(ctx, log, page, st, &res)
	if err != nil {
		return c.abort(ctx, log, res, err)
	}
	res.Reason = reason

	res.State = StateFlushing
	posts := dedup(st.collected)
	if len(posts) > 0 {
		path, err := c.deps.Sink.SavePosts(hashtag, posts)
		if err != nil {
			return c.abort(ctx, log, res, errs.Wrap(errs.ErrorTypeProcessing, "flush", err))
		}
		res.OutputPath = path
	} else {
		log.Warn("No posts collected, nothing written")
	}

	res.Collected = len(posts)
	res.State = StateDone
	res.FinishedAt = c.now()
	logger.LogCrawlOutcome(log, hashtag, res.Reason.String(), res.Collected, res.Elapsed(), nil)
	c.deps.Observer.CrawlFinished(res)
	return res
}

// authenticate injects the saved session. The browser must be on the site's
// own domain before cookies can be set, so the bare site is loaded first.
func (c *Crawler) authenticate(ctx context.Context, page Page) error {
	if err := page.Navigate(ctx, c.cfg.Browser.SiteURL); err != nil {
		return err
	}

	cookies, err := c.deps.Sessions.Load()
	if err != nil {
		return err
	}
	scoped := session.FilterDomains(cookies, c.cfg.Browser.CookieDomains)
	c.log.WithFields(map[string]interface{}{
		"loaded":   len(cookies),
		"injected": len(scoped),
	}).Debug("Injecting session cookies")

	if err := page.SetCookies(ctx, scoped); err != nil {
		return err
	}
	if err := page.Reload(ctx); err != nil {
		return err
	}
	return c.deps.Pacer.SleepFor(ctx, c.cfg.Timing.ReloadSettle)
}

func (c *Crawler) scrollLoop(ctx context.Context, log logger.Logger, page Page, st *crawlState, res *Result) (Reason, error) {
	budget := ratelimit.NewBatchBudget(c.cfg.Campaign.BatchSize)

	for {
		if st.quotaReached() {
			return ReasonQuotaMet, nil
		}
		res.Passes++

		if err := page.WaitForItems(ctx, c.cfg.Browser.ItemWaitTimeout); err != nil {
			return ReasonAborted, err
		}
		items, err := page.Items(ctx)
		if err != nil {
			return ReasonAborted, err
		}

		added, stale := c.scanPass(log, items, st)
		log.WithFields(map[string]interface{}{
			"pass":      res.Passes,
			"new":       added,
			"collected": len(st.collected),
		}).Debug("Pass scanned")
		c.deps.Observer.PassScanned(res.Hashtag, res.Passes, len(st.collected))

		if stale {
			return ReasonTimeWindowPassed, nil
		}
		if st.quotaReached() {
			return ReasonQuotaMet, nil
		}
		if added == 0 {
			st.emptyPasses++
			if st.emptyPasses >= c.cfg.Campaign.MaxPatience {
				return ReasonExhausted, nil
			}
		} else {
			st.emptyPasses = 0
		}

		budget.Consume(added)
		if budget.Exhausted() {
			if err := c.coolDown(ctx, log, page); err != nil {
				return ReasonAborted, err
			}
			budget.Reset()
		}

		if err := c.scroll(ctx, page); err != nil {
			return ReasonAborted, err
		}
	}
}

// scanPass walks the rendered items top to bottom. The feed is newest first,
// so the first item older than the time floor ends the pass.
func (c *Crawler) scanPass(log logger.Logger, items []extract.Item, st *crawlState) (added int, stale bool) {
	for _, item := range items {
		if st.quotaReached() {
			return added, false
		}

		post, err := extract.Extract(item)
		if errs.IsType(err, errs.ErrorTypeEngagement) {
			log.WithError(err).Debug("Engagement counters read as zero")
		} else if err != nil {
			log.WithError(err).Debug("Skipping item")
			continue
		}
		if st.isSeen(post.TweetID) {
			continue
		}
		if post.Timestamp.Before(st.timeFloor) {
			return added, true
		}

		st.accept(post)
		added++
	}
	return added, false
}

// coolDown wiggles the pointer for a while, then takes a long pause. Pointer
// failures are only logged.
func (c *Crawler) coolDown(ctx context.Context, log logger.Logger, page Page) error {
	if err := c.jitterMouse(ctx, page); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("Mouse jitter failed")
	}

	d := c.deps.Pacer.Duration(pacing.Range(c.cfg.Timing.BatchPause))
	logger.LogCooldown(log, "batch", d)
	c.deps.Observer.CoolingDown("batch", d)
	return c.deps.Pacer.SleepFor(ctx, d)
}

func (c *Crawler) jitterMouse(ctx context.Context, page Page) error {
	width, height, err := page.Viewport(ctx)
	if err != nil {
		return err
	}

	moves := c.deps.Pacer.Int(pacing.IntRange(c.cfg.Timing.JitterMoves))
	for i := 0; i < moves; i++ {
		x := c.deps.Pacer.Float(0, float64(width))
		y := c.deps.Pacer.Float(0, float64(height))
		if err := page.MoveMouse(ctx, x, y); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if _, err := c.deps.Pacer.Sleep(ctx, pacing.Range(c.cfg.Timing.JitterDelay)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) scroll(ctx context.Context, page Page) error {
	n := c.deps.Pacer.Int(pacing.IntRange(c.cfg.Timing.ScrollCount))
	for i := 0; i < n; i++ {
		if err := page.ScrollPage(ctx); err != nil {
			return err
		}
		if _, err := c.deps.Pacer.Sleep(ctx, pacing.Range(c.cfg.Timing.ScrollDelay)); err != nil {
			return err
		}
	}
	_, err := c.deps.Pacer.Sleep(ctx, pacing.Range(c.cfg.Timing.PassPause))
	return err
}

// abort discards the collection. Timeouts and browser or session faults are
// expected on a live site and only warn; anything else is logged as an error.
func (c *Crawler) abort(ctx context.Context, log logger.Logger, res Result, err error) Result {
	res.AbortedIn = res.State
	res.State = StateAborted
	res.Reason = ReasonAborted
	res.Err = err
	res.Collected = 0
	res.OutputPath = ""
	res.FinishedAt = c.now()

	log = log.WithField("state", res.AbortedIn.String())
	switch {
	case ctx.Err() != nil:
		log.WithError(err).Info("Hashtag crawl cancelled")
	case errs.AbortsHashtag(err):
		logger.LogCrawlOutcome(log, res.Hashtag, res.Reason.String(), 0, res.Elapsed(), err)
	default:
		log.WithError(err).WithField("elapsed", res.Elapsed().Round(time.Millisecond).String()).Error("Hashtag crawl failed, nothing saved")
	}
	c.deps.Observer.CrawlFinished(res)
	return res
}
