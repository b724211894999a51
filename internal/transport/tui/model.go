// Package tui provides the terminal dashboard built on bubbletea.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// refreshInterval is how often the timer and toasts are redrawn.
const refreshInterval = 250 * time.Millisecond

// Commander issues run commands from key presses.
type Commander interface {
	Toggle()
	Pause()
	Stop()
}

// Model is the TUI application model
type Model struct {
	ctrl    Commander
	queue   *usecase.SnapshotQueue
	ctx     context.Context
	elapsed *usecase.ElapsedTimer
	toasts  *usecase.ToastQueue
	styles  Styles

	state    scrape.State
	title    string
	logLines int

	width    int
	height   int
	quitting bool
}

// ModelConfig holds the collaborators of the TUI model
type ModelConfig struct {
	Title         string
	LogLines      int
	ToastDuration time.Duration
	Clock         clock.Clock

	Controller Commander
	// Queue receives the controller snapshots.
	Queue *usecase.SnapshotQueue
	// Initial is the controller state when the queue was attached.
	Initial scrape.State
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, cfg ModelConfig) Model {
	if cfg.LogLines <= 0 {
		cfg.LogLines = 10
	}
	elapsed := usecase.NewElapsedTimer(cfg.Clock, nil)
	elapsed.Observe(cfg.Initial)

	return Model{
		ctrl:     cfg.Controller,
		queue:    cfg.Queue,
		ctx:      ctx,
		elapsed:  elapsed,
		toasts:   usecase.NewToastQueue(cfg.Clock, cfg.ToastDuration, nil),
		styles:   DefaultStyles(),
		state:    cfg.Initial,
		title:    cfg.Title,
		logLines: cfg.LogLines,
	}
}

// SnapshotMsg carries a controller snapshot.
type SnapshotMsg scrape.State

// TickMsg triggers a redraw of time-dependent parts.
type TickMsg time.Time

// Init starts listening for snapshots and the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), tickCmd())
}

// State returns the last rendered snapshot.
func (m Model) State() scrape.State {
	return m.state
}

// Close releases the timers owned by the model.
func (m Model) Close() {
	m.elapsed.Close()
	m.toasts.Close()
}

func (m Model) waitForSnapshot() tea.Cmd {
	if m.queue == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := m.queue.Pop(m.ctx)
		if !ok {
			return nil
		}
		return SnapshotMsg(s)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run starts the terminal dashboard and blocks until the user quits.
func Run(ctx context.Context, cfg ModelConfig) error {
	model := NewModel(ctx, cfg)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
