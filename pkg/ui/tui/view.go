package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the progress view
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.renderCrawlPanel(), m.renderCampaignPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderLogPanel())

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("MARKETPULSE CAMPAIGN"),
		body,
		helpStyle.Render("q: stop the campaign"),
	)
}

func (m *Model) renderCrawlPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CURRENT CRAWL") + "\n\n")

	if m.current == "" {
		b.WriteString(m.spinner.View() + " waiting for the first hashtag")
		return panelStyle.Render(b.String())
	}

	b.WriteString(stat("Hashtag", "#"+m.current))
	b.WriteString(stat("Pass", fmt.Sprintf("%d", m.pass)))
	if pct := m.percent(); pct >= 0 {
		b.WriteString(stat("Collected", fmt.Sprintf("%d / %d", m.collected, m.limit)))
		b.WriteString(m.progress.ViewAs(pct) + "\n")
	} else {
		b.WriteString(stat("Collected", fmt.Sprintf("%d (no quota)", m.collected)))
	}

	if left := m.cooldownLeft(); left > 0 {
		b.WriteString("\n" + cooldownStyle.Render(fmt.Sprintf("%s %s pause, %s left", m.spinner.View(), m.cooldownKind, left.Round(time.Second))))
	} else {
		b.WriteString("\n" + m.spinner.View() + " scrolling")
	}
	return panelStyle.Render(b.String())
}

func (m *Model) renderCampaignPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HASHTAGS") + "\n\n")
	for _, r := range m.hashtags {
		switch {
		case r.active:
			b.WriteString(activeStyle.Render(fmt.Sprintf("▶ #%s", r.name)))
		case r.aborted:
			b.WriteString(doneStyle.Render(fmt.Sprintf("✗ #%s aborted", r.name)))
		case r.finished:
			b.WriteString(doneStyle.Render(fmt.Sprintf("✓ #%s %d posts", r.name, r.collected)))
		default:
			b.WriteString(pendingStyle.Render(fmt.Sprintf("· #%s", r.name)))
		}
		b.WriteString("\n")
	}
	if m.perHashtag > 0 {
		b.WriteString("\n" + stat("Quota per hashtag", fmt.Sprintf("%d", m.perHashtag)))
	} else {
		b.WriteString("\n")
	}
	b.WriteString(stat("Saved", fmt.Sprintf("%d", m.saved)))
	b.WriteString(stat("Elapsed", m.now().Sub(m.startedAt).Round(time.Second).String()))
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderLogPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("EVENTS") + "\n\n")
	if len(m.logs) == 0 {
		b.WriteString(pendingStyle.Render("nothing yet"))
	}
	for _, l := range m.logs {
		b.WriteString(logTimeStyle.Render(l.at.Format("15:04:05")) + " " + levelStyle(l.level).Render(l.message) + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func stat(label, value string) string {
	return statsLabelStyle.Render(label+":") + " " + statsValueStyle.Render(value) + "\n"
}
