// Package scrape provides the run state domain model for the scraper dashboard.
package scrape

// Phase represents the lifecycle phase of a scraping run.
type Phase string

const (
	PhaseStopped Phase = "stopped" // Idle, no ticker active
	PhaseRunning Phase = "running" // Producing work units
	PhasePaused  Phase = "paused"  // Suspended, only reachable from running
)

// IsValid checks if the phase is one of the known phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseStopped, PhaseRunning, PhasePaused:
		return true
	default:
		return false
	}
}

// Label returns the badge text shown for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// String implements Stringer interface.
func (p Phase) String() string {
	return string(p)
}

// Command names a controller operation.
type Command string

const (
	CommandStart  Command = "start"
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandStop   Command = "stop"
)

// ParseCommand converts a string to a Command.
// Returns false for unknown values.
func ParseCommand(s string) (Command, bool) {
	switch Command(s) {
	case CommandStart, CommandPause, CommandResume, CommandStop:
		return Command(s), true
	default:
		return "", false
	}
}

// String implements Stringer interface.
func (c Command) String() string {
	return string(c)
}
