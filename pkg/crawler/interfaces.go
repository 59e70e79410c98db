package crawler

import (
	"context"
	"time"

	"marketpulse/pkg/extract"
	"marketpulse/pkg/models"
	"marketpulse/pkg/session"
)

// Page is the browser surface the crawler drives. Errors that should abort
// the hashtag carry the timeout or browser error type.
type Page interface {
	Navigate(ctx context.Context, url string) error
	SetCookies(ctx context.Context, cookies []session.Cookie) error
	Reload(ctx context.Context) error
	ClickTab(ctx context.Context, label string, timeout time.Duration) error
	WaitForItems(ctx context.Context, timeout time.Duration) error
	Items(ctx context.Context) ([]extract.Item, error)
	ScrollPage(ctx context.Context) error
	Viewport(ctx context.Context) (width, height int, err error)
	MoveMouse(ctx context.Context, x, y float64) error
	Close() error
}

// LaunchFunc opens a fresh browser for one hashtag
type LaunchFunc func(ctx context.Context) (Page, error)

// SessionSource provides the persisted session cookies
type SessionSource interface {
	Load() ([]session.Cookie, error)
}

// Sink persists the collection of one hashtag in a single write and returns
// where it went
type Sink interface {
	SavePosts(hashtag string, posts []models.Post) (string, error)
}

// Observer follows crawls as they run. It is called on the crawling
// goroutine and must not block.
type Observer interface {
	CrawlStarted(hashtag string, limit int)
	PassScanned(hashtag string, pass, collected int)
	CoolingDown(kind string, d time.Duration)
	CrawlFinished(res Result)
}

type nopObserver struct{}

func (nopObserver) CrawlStarted(string, int)          {}
func (nopObserver) PassScanned(string, int, int)      {}
func (nopObserver) CoolingDown(string, time.Duration) {}
func (nopObserver) CrawlFinished(Result)              {}
