// Package usecase provides the scraping run controller and the
// collaborators that observe its snapshots.
package usecase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// DefaultTickInterval is the cadence of simulated work.
const DefaultTickInterval = 2 * time.Second

// RejectHook is notified when a command is ignored because its guard
// does not hold. It runs on its own goroutine and cannot affect the run.
type RejectHook func(cmd scrape.Command, phase scrape.Phase)

// Option configures a RunController.
type Option func(*RunController)

// WithClock sets the time source used for timestamps and ticks.
func WithClock(c clock.Clock) Option {
	return func(rc *RunController) {
		if c != nil {
			rc.clock = c
		}
	}
}

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(rc *RunController) {
		if d > 0 {
			rc.interval = d
		}
	}
}

// WithLogCapacity caps the activity log to the newest n entries.
// Zero keeps every entry.
func WithLogCapacity(n int) Option {
	return func(rc *RunController) {
		if n >= 0 {
			rc.logCap = n
		}
	}
}

// WithRejectHook registers a hook for ignored commands.
func WithRejectHook(h RejectHook) Option {
	return func(rc *RunController) {
		rc.onReject = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rc *RunController) {
		if l != nil {
			rc.logger = l
		}
	}
}

// RunController owns the state of a single scraping run and the ticker
// that generates simulated work while the run is active.
//
// Commands and ticks are serialized: every transition is applied under one
// lock and published to the sink before the next one starts. The sink is
// called with the lock held and must not call back into the controller.
type RunController struct {
	mu       sync.Mutex
	state    scrape.State
	sink     Sink
	clock    clock.Clock
	interval time.Duration
	logCap   int
	onReject RejectHook
	logger   *slog.Logger
	newRunID func() string

	// ticker is the active work generator, nil when no simulation runs.
	ticker *clock.Ticker
	// gen identifies the active ticker; ticks carrying an older value are dropped.
	gen    uint64
	closed bool
}

// NewRunController creates a controller in the stopped phase.
// A nil sink discards snapshots.
func NewRunController(sink Sink, opts ...Option) *RunController {
	c := &RunController{
		sink:     sink,
		clock:    clock.System,
		interval: DefaultTickInterval,
		logger:   slog.Default(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = func(scrape.State) {}
	}
	c.state = scrape.NewState(c.clock.Now())
	return c
}

// Snapshot returns a copy of the current state.
func (c *RunController) Snapshot() scrape.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Start begins a run, or continues a paused one. It is ignored while the
// run is already active. Starting from the stopped phase assigns a new run ID.
func (c *RunController) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start()
}

// Pause suspends an active run. It is ignored unless the run is active.
func (c *RunController) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state.Phase != scrape.PhaseRunning {
		c.reject(scrape.CommandPause)
		return
	}

	c.stopSimulation()
	next := c.state
	next.Phase = scrape.PhasePaused
	next.StatusMessage = scrape.StatusPaused
	c.appendLog(&next, scrape.LogPaused)
	c.commit(next)

	c.logger.Info("Scraping paused", "run_id", next.RunID, "work_count", next.WorkCount)
}

// Resume continues a paused run. It is ignored unless the run is paused.
func (c *RunController) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resume()
}

// Stop ends the run. It always applies, including when already stopped,
// in which case it logs the stop again. The work count is kept.
func (c *RunController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.stopSimulation()
	next := c.state
	next.Phase = scrape.PhaseStopped
	next.StatusMessage = scrape.StatusStopped
	c.appendLog(&next, scrape.LogStopped)
	c.commit(next)

	c.logger.Info("Scraping stopped", "run_id", next.RunID, "work_count", next.WorkCount)
}

// Toggle resumes a paused run and starts otherwise, like the combined
// start/resume button. The choice and the transition happen under one lock.
func (c *RunController) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == scrape.PhasePaused {
		c.resume()
		return
	}
	c.start()
}

// Dispatch runs the named command.
func (c *RunController) Dispatch(cmd scrape.Command) {
	switch cmd {
	case scrape.CommandStart:
		c.Start()
	case scrape.CommandPause:
		c.Pause()
	case scrape.CommandResume:
		c.Resume()
	case scrape.CommandStop:
		c.Stop()
	default:
		c.logger.Warn("Unknown command", "command", string(cmd))
	}
}

// Close releases the ticker. Commands issued afterwards are ignored.
// Close is idempotent.
func (c *RunController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopSimulation()
}

// Interval returns the tick interval.
func (c *RunController) Interval() time.Duration {
	return c.interval
}

// start applies the start transition. Must be called with mu held.
func (c *RunController) start() {
	if c.closed {
		return
	}
	if c.state.Phase == scrape.PhaseRunning {
		c.reject(scrape.CommandStart)
		return
	}

	next := c.state
	if next.Phase == scrape.PhaseStopped {
		next.RunID = c.newRunID()
	}
	next.Phase = scrape.PhaseRunning
	next.StatusMessage = scrape.StatusStarted
	c.appendLog(&next, scrape.LogStarted)
	c.commit(next)
	c.startSimulation()

	c.logger.Info("Scraping started", "run_id", next.RunID, "work_count", next.WorkCount)
}

// resume applies the resume transition. Must be called with mu held.
func (c *RunController) resume() {
	if c.closed {
		return
	}
	if c.state.Phase != scrape.PhasePaused {
		c.reject(scrape.CommandResume)
		return
	}

	next := c.state
	next.Phase = scrape.PhaseRunning
	next.StatusMessage = scrape.StatusResumed
	c.appendLog(&next, scrape.LogResumed)
	c.commit(next)
	c.startSimulation()

	c.logger.Info("Scraping resumed", "run_id", next.RunID, "work_count", next.WorkCount)
}

// startSimulation acquires a ticker unless one is already active.
// Must be called with mu held.
func (c *RunController) startSimulation() {
	if c.ticker != nil {
		return
	}
	c.gen++
	gen := c.gen
	c.ticker = clock.Every(c.clock, c.interval, func() { c.tick(gen) })
}

// stopSimulation releases the active ticker, if any.
// Must be called with mu held.
func (c *RunController) stopSimulation() {
	c.ticker.Stop()
	c.ticker = nil
}

func (c *RunController) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil || gen != c.gen || c.state.Phase != scrape.PhaseRunning {
		return
	}

	next := c.state
	next.WorkCount++
	next.StatusMessage = scrape.UnitStatus(next.WorkCount)
	c.appendLog(&next, scrape.UnitLog(next.WorkCount))
	c.commit(next)

	c.logger.Debug("Unit created", "run_id", next.RunID, "unit", next.WorkCount)
}

func (c *RunController) appendLog(s *scrape.State, message string) {
	s.AppendEntry(scrape.LogEntry{Timestamp: c.clock.Now(), Message: message}, c.logCap)
}

// commit installs next as the current state and publishes it.
func (c *RunController) commit(next scrape.State) {
	c.state = next
	c.sink(next)
}

func (c *RunController) reject(cmd scrape.Command) {
	phase := c.state.Phase
	c.logger.Debug("Command ignored", "command", cmd.String(), "phase", phase.String())
	if c.onReject != nil {
		go c.onReject(cmd, phase)
	}
}
