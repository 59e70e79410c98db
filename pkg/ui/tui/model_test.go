package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/pkg/crawler"
)

var viewNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestModel(interrupt func()) *Model {
	m := NewModel(interrupt)
	m.now = func() time.Time { return viewNow }
	m.startedAt = viewNow
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestModelFollowsCampaign(t *testing.T) {
	m := newTestModel(nil)

	m.Update(CampaignStartMsg{Hashtags: []string{"nifty50", "sensex"}, PerHashtag: 500})
	m.Update(CrawlStartMsg{Hashtag: "nifty50", Limit: 500})
	m.Update(PassMsg{Hashtag: "nifty50", Pass: 3, Collected: 250})

	require.Len(t, m.hashtags, 2)
	assert.True(t, m.hashtags[0].active)
	assert.Equal(t, 3, m.pass)
	assert.Equal(t, 0.5, m.percent())

	view := m.View()
	assert.Contains(t, view, "#nifty50")
	assert.Contains(t, view, "250 / 500")
	assert.Contains(t, view, "#sensex")

	m.Update(CrawlDoneMsg{Result: crawler.Result{Hashtag: "nifty50", State: crawler.StateDone, Reason: crawler.ReasonQuotaMet, Collected: 500}})
	assert.False(t, m.hashtags[0].active)
	assert.True(t, m.hashtags[0].finished)
	assert.Equal(t, 500, m.saved)
	assert.Contains(t, m.View(), "#nifty50 500 posts")
}

func TestModelPassForOtherHashtagIgnored(t *testing.T) {
	m := newTestModel(nil)
	m.Update(CrawlStartMsg{Hashtag: "sensex", Limit: 10})

	m.Update(PassMsg{Hashtag: "nifty50", Pass: 9, Collected: 9})

	assert.Zero(t, m.pass)
	assert.Zero(t, m.collected)
}

func TestModelUnboundedCrawl(t *testing.T) {
	m := newTestModel(nil)
	m.Update(CrawlStartMsg{Hashtag: "intraday", Limit: crawler.Unbounded})
	m.Update(PassMsg{Hashtag: "intraday", Pass: 1, Collected: 42})

	assert.Equal(t, -1.0, m.percent())
	assert.Contains(t, m.View(), "42 (no quota)")
}

func TestModelCooldownCountdown(t *testing.T) {
	m := newTestModel(nil)
	m.Update(CrawlStartMsg{Hashtag: "nifty50", Limit: 100})
	m.Update(CooldownMsg{Kind: "batch", Duration: 90 * time.Second})

	assert.Equal(t, 90*time.Second, m.cooldownLeft())
	assert.Contains(t, m.View(), "batch pause, 1m30s left")

	m.now = func() time.Time { return viewNow.Add(2 * time.Minute) }
	m.Update(TickMsg(viewNow.Add(2 * time.Minute)))
	assert.Zero(t, m.cooldownLeft())
	assert.Empty(t, m.cooldownKind)
}

func TestModelAbortedCrawl(t *testing.T) {
	m := newTestModel(nil)
	m.Update(CrawlStartMsg{Hashtag: "sensex", Limit: 100})
	m.Update(CrawlDoneMsg{Result: crawler.Result{Hashtag: "sensex", State: crawler.StateAborted, AbortedIn: crawler.StateScrollLoop}})

	assert.True(t, m.hashtags[0].aborted)
	require.NotEmpty(t, m.logs)
	assert.Equal(t, "ERROR", m.logs[len(m.logs)-1].level)
	assert.Contains(t, m.View(), "sensex aborted in scroll_loop")
}

func TestModelLogIsBounded(t *testing.T) {
	m := newTestModel(nil)
	for i := 0; i < maxLogLines+5; i++ {
		m.Update(CooldownMsg{Kind: "batch", Duration: time.Second})
	}
	assert.Len(t, m.logs, maxLogLines)
}

func TestQuitInterruptsCampaign(t *testing.T) {
	interrupted := 0
	m := newTestModel(func() { interrupted++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, 1, interrupted)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewBeforeWindowSize(t *testing.T) {
	assert.Equal(t, "Initializing...", NewModel(nil).View())
}
