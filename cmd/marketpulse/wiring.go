package main

import (
	"context"
	"fmt"

	"marketpulse/pkg/browser"
	"marketpulse/pkg/config"
	"marketpulse/pkg/crawler"
	"marketpulse/pkg/history"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/pacing"
	"marketpulse/pkg/session"
	"marketpulse/pkg/storage"
	"marketpulse/pkg/ui"
)

func browserOptions(cfg *config.Config, headless bool) browser.Options {
	return browser.Options{
		Headless:       headless,
		UserAgent:      cfg.Browser.UserAgent,
		ExecPath:       cfg.Browser.ExecPath,
		MinNavInterval: cfg.Browser.MinNavInterval,
	}
}

func newSessionStore(cfg *config.Config) (*session.Store, error) {
	var sealer *session.Sealer
	if cfg.Session.Encrypt {
		passphrase, err := session.Passphrase()
		if err != nil {
			return nil, fmt.Errorf("failed to get session passphrase: %w", err)
		}
		sealer = session.NewSealer(passphrase)
	}
	return session.NewStore(cfg.Paths.SessionFile, cfg.Session.MaxAgeDays, sealer), nil
}

func newAuthenticator(cfg *config.Config, store *session.Store, pacer *pacing.Policy, log logger.Logger, notifier *ui.Notifier) *session.Authenticator {
	return &session.Authenticator{
		Store: store,
		Launch: func(ctx context.Context) (session.LoginPage, error) {
			// the operator has to see the page to log in
			page, err := browser.Launch(ctx, browserOptions(cfg, false), log)
			if err != nil {
				return nil, err
			}
			return page, nil
		},
		Pacer:     pacer,
		WarmupURL: cfg.Browser.WarmupURL,
		SiteURL:   cfg.Browser.SiteURL,
		Warmup:    pacing.Range(cfg.Timing.LoginWarmup),
		Logger:    log,
		Notify:    notifier.Notify,
	}
}

func newCrawler(cfg *config.Config, store *session.Store, pacer *pacing.Policy, log logger.Logger, obs crawler.Observer) (*crawler.Crawler, error) {
	sink, err := storage.NewManager(cfg.Paths.RawDir)
	if err != nil {
		return nil, err
	}
	return crawler.New(cfg, crawler.Deps{
		Launch: func(ctx context.Context) (crawler.Page, error) {
			page, err := browser.Launch(ctx, browserOptions(cfg, cfg.Browser.Headless), log)
			if err != nil {
				return nil, err
			}
			return page, nil
		},
		Sessions: store,
		Sink:     sink,
		Pacer:    pacer,
		Logger:   log,
		Observer: obs,
	}), nil
}

// openLedger opens the crawl history, or returns nil when it is disabled or
// cannot be opened
func openLedger(cfg *config.Config, log logger.Logger) *history.Ledger {
	if cfg.Paths.HistoryDB == "" {
		return nil
	}
	ledger, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		log.WithError(err).Warn("Crawl history disabled")
		return nil
	}
	return ledger
}
