package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

func withLog(s scrape.State, phase scrape.Phase, msg string) scrape.State {
	n := s.Clone()
	n.Phase = phase
	n.AppendEntry(scrape.LogEntry{Timestamp: time.Now(), Message: msg}, 0)
	return n
}

func TestFromTransition(t *testing.T) {
	initial := scrape.NewState(time.Now())
	running := withLog(initial, scrape.PhaseRunning, scrape.LogStarted)
	paused := withLog(running, scrape.PhasePaused, scrape.LogPaused)
	resumed := withLog(paused, scrape.PhaseRunning, scrape.LogResumed)
	stopped := withLog(resumed, scrape.PhaseStopped, scrape.LogStopped)
	stoppedAgain := withLog(stopped, scrape.PhaseStopped, scrape.LogStopped)
	ticked := withLog(running, scrape.PhaseRunning, scrape.UnitLog(1))

	tests := []struct {
		name     string
		prev     scrape.State
		next     scrape.State
		wantOK   bool
		wantKind Kind
	}{
		{"start", initial, running, true, KindSuccess},
		{"pause", running, paused, true, KindWarning},
		{"resume", paused, resumed, true, KindInfo},
		{"stop", resumed, stopped, true, KindInfo},
		{"stop while stopped", stopped, stoppedAgain, true, KindInfo},
		{"tick", running, ticked, false, ""},
		{"unchanged", running, running, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := FromTransition(tt.prev, tt.next)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, n.Kind)
			if ok {
				assert.NotEmpty(t, n.Message)
				assert.NotEmpty(t, n.Emoji)
			}
		})
	}
}
