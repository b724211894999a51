package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections,
		m.renderHeader(),
		m.renderStatus(),
		m.renderHelp(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	st := m.styles
	timer := lipgloss.JoinVertical(lipgloss.Center,
		st.Label.Render("Timer"),
		st.Value.Render(usecase.FormatElapsed(m.elapsed.Elapsed())),
	)
	count := lipgloss.JoinVertical(lipgloss.Center,
		st.Label.Render("Images"),
		st.Value.Render(fmt.Sprint(m.state.WorkCount)),
	)
	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(20).Align(lipgloss.Center).Render(timer),
		lipgloss.NewStyle().Width(20).Align(lipgloss.Center).Render(count),
	)
	return st.Card.Render(lipgloss.JoinVertical(lipgloss.Center, st.Title.Render(m.title), cols))
}

func (m Model) renderStatus() string {
	st := m.styles
	badge := st.Badge(m.state.Phase).Render(m.state.Phase.Label())

	var b strings.Builder
	b.WriteString("Status " + badge + "\n")
	b.WriteString(st.Muted.Render(m.state.StatusMessage) + "\n\n")
	b.WriteString("Activity Log\n")
	for _, e := range scrape.RecentLog(m.state, m.logLines) {
		b.WriteString(st.Muted.Render(e.String()) + "\n")
	}
	return st.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHelp() string {
	start := "s start"
	if m.state.IsPaused() {
		start = "s resume"
	}
	keys := []string{start}
	if m.state.CanPause() {
		keys = append(keys, "p pause")
	}
	keys = append(keys, "x stop", "q quit")
	return m.styles.HelpBar.Render(strings.Join(keys, " • "))
}

func (m Model) renderToasts() string {
	toasts := m.toasts.List()
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, len(toasts))
	for i, t := range toasts {
		lines[i] = m.styles.Toast(t.Notice.Kind).Render(t.Notice.Emoji + " " + t.Notice.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
