package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"marketpulse/pkg/crawler"
)

// TUI is the live progress view of a campaign. It implements the crawler
// and campaign observers, so it can be handed to both.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a TUI. interrupt is called when the operator quits the
// view; it should cancel the campaign.
func NewTUI(interrupt func()) *TUI {
	model := NewModel(interrupt)
	program := tea.NewProgram(model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   model,
	}
}

// Start runs the view until Stop is called or the operator quits
func (t *TUI) Start() error {
	go func() {
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// CampaignStarted implements campaign.Observer
func (t *TUI) CampaignStarted(hashtags []string, perHashtag int) {
	t.Send(CampaignStartMsg{Hashtags: hashtags, PerHashtag: perHashtag})
}

// CrawlStarted implements crawler.Observer
func (t *TUI) CrawlStarted(hashtag string, limit int) {
	t.Send(CrawlStartMsg{Hashtag: hashtag, Limit: limit})
}

// PassScanned implements crawler.Observer
func (t *TUI) PassScanned(hashtag string, pass, collected int) {
	t.Send(PassMsg{Hashtag: hashtag, Pass: pass, Collected: collected})
}

// CoolingDown implements crawler.Observer and campaign.Observer
func (t *TUI) CoolingDown(kind string, d time.Duration) {
	t.Send(CooldownMsg{Kind: kind, Duration: d})
}

// CrawlFinished implements crawler.Observer
func (t *TUI) CrawlFinished(res crawler.Result) {
	t.Send(CrawlDoneMsg{Result: res})
}
