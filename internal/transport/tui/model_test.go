package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	model Model
	ctrl  *usecase.RunController
	clock *clock.Fake
	queue *usecase.SnapshotQueue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := clock.NewFake(epoch)
	queue := usecase.NewSnapshotQueue()
	ctrl := usecase.NewRunController(queue.Push, usecase.WithClock(fake))
	t.Cleanup(ctrl.Close)

	model := NewModel(context.Background(), ModelConfig{
		Title:      "News Scraper",
		LogLines:   3,
		Clock:      fake,
		Controller: ctrl,
		Queue:      queue,
		Initial:    ctrl.Snapshot(),
	})
	t.Cleanup(model.Close)
	return &harness{model: model, ctrl: ctrl, clock: fake, queue: queue}
}

// press sends a key and runs the resulting command.
func (h *harness) press(t *testing.T, key tea.KeyMsg) {
	t.Helper()
	next, cmd := h.model.Update(key)
	h.model = next.(Model)
	if cmd != nil {
		cmd()
	}
	h.drain(t)
}

// drain feeds every queued snapshot to the model.
func (h *harness) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	for {
		s, ok := h.queue.Pop(ctx)
		if !ok {
			return
		}
		next, _ := h.model.Update(SnapshotMsg(s))
		h.model = next.(Model)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	h := newHarness(t)

	if h.model.State().Phase != scrape.PhaseStopped {
		t.Errorf("phase = %s, want stopped", h.model.State().Phase)
	}
	if h.model.logLines != 3 {
		t.Errorf("logLines = %d, want 3", h.model.logLines)
	}

	view := h.model.View()
	for _, want := range []string{"News Scraper", "00:00:00", "Stopped", "Ready to start", "Application initialized", "s start"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_KeysDriveController(t *testing.T) {
	h := newHarness(t)

	h.press(t, runes("s"))
	if got := h.model.State().Phase; got != scrape.PhaseRunning {
		t.Fatalf("after s: phase = %s, want running", got)
	}
	if !strings.Contains(h.model.View(), "Scraping started!") {
		t.Error("start toast not shown")
	}

	h.clock.Advance(4 * time.Second)
	h.drain(t)
	if got := h.model.State().WorkCount; got != 2 {
		t.Errorf("work count = %d, want 2", got)
	}
	if !strings.Contains(h.model.View(), "00:00:04") {
		t.Error("timer not advanced")
	}

	h.press(t, runes("p"))
	if !h.model.State().IsPaused() {
		t.Fatal("after p: want paused")
	}
	if !strings.Contains(h.model.View(), "s resume") {
		t.Error("help bar should offer resume")
	}

	h.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	if got := h.model.State().StatusMessage; got != scrape.StatusResumed {
		t.Errorf("after enter: status = %q, want %q", got, scrape.StatusResumed)
	}

	h.press(t, runes("x"))
	if got := h.model.State().Phase; got != scrape.PhaseStopped {
		t.Errorf("after x: phase = %s, want stopped", got)
	}
	if !strings.Contains(h.model.View(), "00:00:00") {
		t.Error("timer should reset on stop")
	}
}

func TestModel_ToastsExpire(t *testing.T) {
	h := newHarness(t)

	h.press(t, runes("s"))
	if !strings.Contains(h.model.View(), "Scraping started!") {
		t.Fatal("start toast not shown")
	}

	h.clock.Advance(usecase.DefaultToastDuration)
	h.drain(t)
	if strings.Contains(h.model.View(), "Scraping started!") {
		t.Error("toast should expire")
	}
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t)

	next, cmd := h.model.Update(runes("q"))
	model := next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if model.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestModel_WindowSizeAndTick(t *testing.T) {
	h := newHarness(t)

	next, _ := h.model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := next.(Model)
	if model.width != 80 || model.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", model.width, model.height)
	}

	_, cmd := model.Update(TickMsg(epoch))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}
