package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/whhaicheng/news-scraper/internal/domain/notice"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "s", "enter", " ":
			return m, m.command(Commander.Toggle)
		case "p":
			return m, m.command(Commander.Pause)
		case "x":
			return m, m.command(Commander.Stop)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SnapshotMsg:
		s := scrape.State(msg)
		if n, ok := notice.FromTransition(m.state, s); ok {
			m.toasts.Push(n)
		}
		m.elapsed.Observe(s)
		m.state = s
		return m, m.waitForSnapshot()

	case TickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// command runs a controller command off the event loop. The controller
// publishes synchronously, so calling it here could stall rendering.
func (m Model) command(fn func(Commander)) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		fn(ctrl)
		return nil
	}
}
