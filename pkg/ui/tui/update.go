package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"marketpulse/pkg/crawler"
)

// CampaignStartMsg announces the hashtags of the campaign
type CampaignStartMsg struct {
	Hashtags   []string
	PerHashtag int
}

// CrawlStartMsg is sent when a hashtag crawl begins
type CrawlStartMsg struct {
	Hashtag string
	Limit   int
}

// PassMsg is sent after every scanned pass of the feed
type PassMsg struct {
	Hashtag   string
	Pass      int
	Collected int
}

// CooldownMsg is sent when a long pause begins
type CooldownMsg struct {
	Kind     string
	Duration time.Duration
}

// CrawlDoneMsg is sent when a hashtag crawl ends, aborted or not
type CrawlDoneMsg struct {
	Result crawler.Result
}

// TickMsg is sent periodically to refresh countdowns
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			if m.interrupt != nil {
				m.interrupt()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.cooldownKind != "" && m.cooldownLeft() == 0 {
			m.cooldownKind = ""
		}
		return m, tickCmd()

	case CampaignStartMsg:
		m.perHashtag = msg.PerHashtag
		for _, tag := range msg.Hashtags {
			m.row(tag)
		}
		m.addLog("INFO", fmt.Sprintf("Campaign of %d hashtags started", len(msg.Hashtags)))
		return m, nil

	case CrawlStartMsg:
		for _, r := range m.hashtags {
			r.active = false
		}
		m.row(msg.Hashtag).active = true
		m.current = msg.Hashtag
		m.limit = msg.Limit
		m.pass = 0
		m.collected = 0
		m.cooldownKind = ""
		m.addLog("INFO", "Crawling #"+msg.Hashtag)
		return m, nil

	case PassMsg:
		if msg.Hashtag == m.current {
			m.pass = msg.Pass
			m.collected = msg.Collected
		}
		return m, nil

	case CooldownMsg:
		m.cooldownKind = msg.Kind
		m.cooldownUntil = m.now().Add(msg.Duration)
		m.addLog("WARN", fmt.Sprintf("Cooling down (%s) for %s", msg.Kind, msg.Duration.Round(time.Second)))
		return m, nil

	case CrawlDoneMsg:
		res := msg.Result
		r := m.row(res.Hashtag)
		r.active = false
		r.finished = true
		r.collected = res.Collected
		m.saved += res.Collected
		if res.State == crawler.StateAborted {
			r.aborted = true
			m.addLog("ERROR", fmt.Sprintf("#%s aborted in %s", res.Hashtag, res.AbortedIn))
		} else {
			m.addLog("SUCCESS", fmt.Sprintf("#%s %s, %d posts", res.Hashtag, res.Reason, res.Collected))
		}
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
