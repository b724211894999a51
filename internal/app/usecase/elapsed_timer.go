package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// elapsedStep is the resolution of the elapsed time display.
const elapsedStep = time.Second

// ElapsedTimer measures the active time of a run for display. It counts
// in whole seconds while the run is active, freezes while paused and
// resets to zero when the run stops.
type ElapsedTimer struct {
	mu      sync.Mutex
	clock   clock.Clock
	onTick  func(time.Duration)
	elapsed time.Duration
	ticker  *clock.Ticker
	gen     uint64
}

// NewElapsedTimer creates a timer. onTick, if set, receives the elapsed
// time after every change.
func NewElapsedTimer(c clock.Clock, onTick func(time.Duration)) *ElapsedTimer {
	if c == nil {
		c = clock.System
	}
	return &ElapsedTimer{clock: c, onTick: onTick}
}

// Observe follows the phase of a snapshot. It can be used as a Sink.
func (t *ElapsedTimer) Observe(s scrape.State) {
	t.mu.Lock()
	reset := false
	switch s.Phase {
	case scrape.PhaseRunning:
		if t.ticker == nil {
			t.gen++
			gen := t.gen
			t.ticker = clock.Every(t.clock, elapsedStep, func() { t.step(gen) })
		}
	case scrape.PhasePaused:
		t.release()
	case scrape.PhaseStopped:
		t.release()
		t.elapsed = 0
		reset = true
	}
	t.mu.Unlock()

	if reset {
		t.notify(0)
	}
}

// Elapsed returns the accumulated active time.
func (t *ElapsedTimer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Close stops counting.
func (t *ElapsedTimer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
}

func (t *ElapsedTimer) step(gen uint64) {
	t.mu.Lock()
	if t.ticker == nil || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.elapsed += elapsedStep
	elapsed := t.elapsed
	t.mu.Unlock()

	t.notify(elapsed)
}

func (t *ElapsedTimer) release() {
	t.ticker.Stop()
	t.ticker = nil
}

func (t *ElapsedTimer) notify(d time.Duration) {
	if t.onTick != nil {
		t.onTick(d)
	}
}

// FormatElapsed renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
