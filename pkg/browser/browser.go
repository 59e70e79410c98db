package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/extract"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/ratelimit"
	"marketpulse/pkg/session"
)

// Options controls how the browser process is started
type Options struct {
	Headless       bool
	UserAgent      string
	ExecPath       string
	MinNavInterval time.Duration
	WindowWidth    int
	WindowHeight   int
}

// Page is one browser process with a single tab
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
	nav    ratelimit.Limiter
	log    logger.Logger
	once   sync.Once
}

const itemsScript = `Array.from(document.querySelectorAll('` + extract.FeedItem + `')).map(e => e.outerHTML)`

// Launch starts a fresh browser. The process lives until Close is called or
// ctx is cancelled.
func Launch(ctx context.Context, opts Options, log logger.Logger) (*Page, error) {
	width, height := opts.WindowWidth, opts.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1366, 900
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"),
		chromedp.WindowSize(width, height),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, errs.Wrap(errs.ErrorTypeBrowser, "launch", err)
	}

	log.WithField("headless", opts.Headless).Debug("Browser started")
	return &Page{
		ctx:    tabCtx,
		cancel: cancel,
		nav:    ratelimit.NewIntervalLimiter(opts.MinNavInterval),
		log:    log,
	}, nil
}

// run executes actions on the tab. The run is abandoned when ctx is done or
// timeout (if positive) elapses.
func (p *Page) run(ctx context.Context, op string, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if timeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, timeout)
		defer tcancel()
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return errs.Wrap(errs.ErrorTypeTimeout, op, err)
		}
		return errs.Wrap(errs.ErrorTypeBrowser, op, err)
	}
	return nil
}

// Navigate loads url, waiting for the navigation limiter first
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.nav.Wait(ctx); err != nil {
		return err
	}
	p.log.WithField("url", url).Debug("Navigating")
	return p.run(ctx, "navigate", 0, chromedp.Navigate(url))
}

// Reload reloads the current document
func (p *Page) Reload(ctx context.Context) error {
	if err := p.nav.Wait(ctx); err != nil {
		return err
	}
	return p.run(ctx, "reload", 0, chromedp.Reload())
}

// SetCookies injects cookies into the browser. The current document must
// already belong to the cookies' site.
func (p *Page) SetCookies(ctx context.Context, cookies []session.Cookie) error {
	return p.run(ctx, "set_cookies", 0, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			params := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly)
			if c.Expiry > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expiry), 0))
				params = params.WithExpires(&expires)
			}
			if err := params.Do(ctx); err != nil {
				return fmt.Errorf("cookie %s: %w", c.Name, err)
			}
		}
		return nil
	}))
}

// Cookies returns every cookie held by the browser
func (p *Page) Cookies(ctx context.Context) ([]session.Cookie, error) {
	var out []session.Cookie
	err := p.run(ctx, "cookies", 0, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, session.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
				SameSite: string(c.SameSite),
				Expiry:   c.Expires,
			})
		}
		return nil
	}))
	return out, err
}

// ClickTab clicks the link whose label text is label, waiting at most
// timeout for it to become clickable
func (p *Page) ClickTab(ctx context.Context, label string, timeout time.Duration) error {
	sel := fmt.Sprintf(`//a[.//span[text()=%q]]`, label)
	return p.run(ctx, "select_tab", timeout, chromedp.Click(sel, chromedp.BySearch))
}

// WaitForItems waits at most timeout for at least one feed item
func (p *Page) WaitForItems(ctx context.Context, timeout time.Duration) error {
	return p.run(ctx, "wait_items", timeout, chromedp.WaitReady(extract.FeedItem, chromedp.ByQuery))
}

// Items snapshots the feed items currently in the document
func (p *Page) Items(ctx context.Context) ([]extract.Item, error) {
	var html []string
	if err := p.run(ctx, "items", 0, chromedp.Evaluate(itemsScript, &html)); err != nil {
		return nil, err
	}

	items := make([]extract.Item, 0, len(html))
	for _, h := range html {
		item, err := extract.NewHTMLItem(h)
		if err != nil {
			p.log.WithError(err).Debug("Skipping unparsable item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ScrollPage sends one page-down keystroke
func (p *Page) ScrollPage(ctx context.Context) error {
	return p.run(ctx, "scroll", 0, chromedp.KeyEvent(kb.PageDown))
}

// Viewport returns the inner size of the window
func (p *Page) Viewport(ctx context.Context) (int, int, error) {
	var size []int
	if err := p.run(ctx, "viewport", 0, chromedp.Evaluate(`[window.innerWidth, window.innerHeight]`, &size)); err != nil {
		return 0, 0, err
	}
	if len(size) != 2 {
		return 0, 0, errs.New(errs.ErrorTypeBrowser, "viewport", "unexpected viewport result")
	}
	return size[0], size[1], nil
}

// MoveMouse moves the pointer to (x, y) in viewport coordinates
func (p *Page) MoveMouse(ctx context.Context, x, y float64) error {
	return p.run(ctx, "mouse", 0, chromedp.MouseEvent(input.MouseMoved, x, y))
}

// Close shuts the browser down. It is safe to call more than once.
func (p *Page) Close() error {
	p.once.Do(func() {
		p.cancel()
		p.log.Debug("Browser closed")
	})
	return nil
}
