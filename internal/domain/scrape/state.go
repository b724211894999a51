package scrape

import (
	"fmt"
	"time"
)

// Status and log texts produced by the controller.
const (
	InitialStatus  = "Ready to start"
	InitialMessage = "Application initialized"

	StatusStarted = "Scraping started..."
	StatusPaused  = "Scraping paused"
	StatusResumed = "Scraping resumed..."
	StatusStopped = "Scraping stopped"

	LogStarted = "Scraping started"
	LogPaused  = "Scraping paused"
	LogResumed = "Scraping resumed"
	LogStopped = "Scraping stopped"
)

// logTimeLayout matches a locale-style wall clock, e.g. "14:03:27".
const logTimeLayout = "15:04:05"

// LogEntry is a single timestamped line of the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// String renders the entry as "<time>: <message>".
func (e LogEntry) String() string {
	return e.Timestamp.Format(logTimeLayout) + ": " + e.Message
}

// State is a snapshot of a scraping run.
// Snapshots handed out by the controller are never modified afterwards.
type State struct {
	RunID         string     `json:"run_id,omitempty"`
	Phase         Phase      `json:"phase"`
	WorkCount     int        `json:"work_count"`
	StatusMessage string     `json:"status_message"`
	Log           []LogEntry `json:"log"`

	// LogTotal counts every entry ever appended, including ones dropped
	// by a capped log.
	LogTotal int `json:"log_total"`
}

// NewState returns the state of a freshly constructed controller.
func NewState(now time.Time) State {
	return State{
		Phase:         PhaseStopped,
		StatusMessage: InitialStatus,
		Log:           []LogEntry{{Timestamp: now, Message: InitialMessage}},
		LogTotal:      1,
	}
}

// IsRunning reports whether a run is in progress (running or paused).
func (s State) IsRunning() bool {
	return s.Phase != PhaseStopped
}

// IsPaused reports whether the run is paused.
func (s State) IsPaused() bool {
	return s.Phase == PhasePaused
}

// IsActive reports whether the run is producing work.
func (s State) IsActive() bool {
	return s.Phase == PhaseRunning
}

// CanStart reports whether the start/resume button should be enabled.
func (s State) CanStart() bool {
	return !s.IsActive()
}

// CanPause reports whether the pause button should be enabled.
func (s State) CanPause() bool {
	return s.IsActive()
}

// LastLog returns the most recent log entry.
func (s State) LastLog() (LogEntry, bool) {
	if len(s.Log) == 0 {
		return LogEntry{}, false
	}
	return s.Log[len(s.Log)-1], true
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Log = make([]LogEntry, len(s.Log))
	copy(c.Log, s.Log)
	return c
}

// RecentLog returns up to n entries, newest first.
func RecentLog(s State, n int) []LogEntry {
	if n <= 0 || len(s.Log) == 0 {
		return nil
	}
	if n > len(s.Log) {
		n = len(s.Log)
	}
	out := make([]LogEntry, 0, n)
	for i := len(s.Log) - 1; i >= len(s.Log)-n; i-- {
		out = append(out, s.Log[i])
	}
	return out
}

// UnitStatus returns the status message shown while unit n is processed.
func UnitStatus(n int) string {
	return fmt.Sprintf("Processing unit %d...", n)
}

// UnitLog returns the log message recorded when unit n is created.
func UnitLog(n int) string {
	return fmt.Sprintf("Unit %d created", n)
}

// ParseUnitLog reports whether message was produced by UnitLog, and for which unit.
func ParseUnitLog(message string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(message, "Unit %d created", &n); err != nil {
		return 0, false
	}
	return n, UnitLog(n) == message
}
