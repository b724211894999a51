// Package notice derives user-facing toast notices from run state transitions.
package notice

import (
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Kind is the visual variant of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is a short message shown as a toast.
type Notice struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
	Emoji   string `json:"emoji,omitempty"`
}

// FromTransition returns the notice for the edge prev -> next, if any.
// Ticks never produce a notice. A stop always does, because stop always
// records a log entry even when the run was already stopped.
func FromTransition(prev, next scrape.State) (Notice, bool) {
	if next.LogTotal <= prev.LogTotal {
		return Notice{}, false
	}
	last, ok := next.LastLog()
	if !ok {
		return Notice{}, false
	}

	switch last.Message {
	case scrape.LogStarted:
		return Notice{Message: "Scraping started!", Kind: KindSuccess, Emoji: "🚀"}, true
	case scrape.LogPaused:
		return Notice{Message: "Scraping paused", Kind: KindWarning, Emoji: "⏸️"}, true
	case scrape.LogResumed:
		return Notice{Message: "Scraping resumed", Kind: KindInfo, Emoji: "▶️"}, true
	case scrape.LogStopped:
		return Notice{Message: "Scraping stopped", Kind: KindInfo, Emoji: "🛑"}, true
	}
	return Notice{}, false
}
