// Package history provides the recorded run session domain model.
package history

import (
	"time"

	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Session represents one recorded scraping run, from a start out of the
// stopped phase until the next stop.
type Session struct {
	ID        string       `json:"id"`         // Run ID (UUID)
	StartedAt time.Time    `json:"started_at"` // First start of the run
	UpdatedAt time.Time    `json:"updated_at"` // Last recorded change
	StoppedAt *time.Time   `json:"stopped_at,omitempty"`
	Phase     scrape.Phase `json:"phase"`      // Last recorded phase
	WorkCount int          `json:"work_count"` // Work counter at last change
}

// IsFinished reports whether the session has been stopped.
func (s *Session) IsFinished() bool {
	return s.StoppedAt != nil
}

// Duration returns the wall time between start and stop, or between
// start and the last update for sessions still in progress.
func (s *Session) Duration() time.Duration {
	end := s.UpdatedAt
	if s.StoppedAt != nil {
		end = *s.StoppedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// LogRecord is an activity log entry stored for a session.
type LogRecord struct {
	RunID     string    `json:"run_id"`
	Seq       int       `json:"seq"` // Position in the controller log, starting at 1
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Entry converts the record back to a log entry.
func (r LogRecord) Entry() scrape.LogEntry {
	return scrape.LogEntry{Timestamp: r.Timestamp, Message: r.Message}
}
