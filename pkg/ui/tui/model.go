package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketpulse/pkg/crawler"
	"marketpulse/pkg/ui"
)

const maxLogLines = 8

// hashtagRow is one line of the campaign panel
type hashtagRow struct {
	name      string
	active    bool
	finished  bool
	aborted   bool
	collected int
}

type logLine struct {
	at      time.Time
	level   string
	message string
}

// Model is the progress view of a running campaign
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	hashtags   []*hashtagRow
	perHashtag int
	saved      int

	// current crawl
	current   string
	limit     int
	pass      int
	collected int

	cooldownKind  string
	cooldownUntil time.Time

	logs []logLine

	width     int
	height    int
	startedAt time.Time
	now       func() time.Time

	// interrupt is called when the operator quits the view
	interrupt func()
}

// NewModel creates a Model. interrupt may be nil.
func NewModel(interrupt func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.NeonCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		spinner:   s,
		progress:  p,
		limit:     crawler.Unbounded,
		startedAt: time.Now(),
		now:       time.Now,
		interrupt: interrupt,
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) row(name string) *hashtagRow {
	for _, r := range m.hashtags {
		if r.name == name {
			return r
		}
	}
	r := &hashtagRow{name: name}
	m.hashtags = append(m.hashtags, r)
	return r
}

func (m *Model) addLog(level, message string) {
	m.logs = append(m.logs, logLine{at: m.now(), level: level, message: message})
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// percent is the share of the current quota collected, or -1 when the
// crawl is unbounded
func (m *Model) percent() float64 {
	if m.limit <= 0 {
		return -1
	}
	p := float64(m.collected) / float64(m.limit)
	if p > 1 {
		p = 1
	}
	return p
}

// cooldownLeft is the remaining pause, zero when none is running
func (m *Model) cooldownLeft() time.Duration {
	if m.cooldownKind == "" {
		return 0
	}
	left := m.cooldownUntil.Sub(m.now())
	if left < 0 {
		return 0
	}
	return left
}
