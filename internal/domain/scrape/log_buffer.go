package scrape

// AppendLog appends entry to log, dropping the oldest entries so that at most
// capacity entries remain. A capacity of zero or less keeps every entry.
// The input slice is never modified.
func AppendLog(log []LogEntry, entry LogEntry, capacity int) []LogEntry {
	start := 0
	if capacity > 0 && len(log)+1 > capacity {
		start = len(log) + 1 - capacity
	}
	out := make([]LogEntry, 0, len(log)-start+1)
	out = append(out, log[start:]...)
	return append(out, entry)
}

// AppendEntry appends entry to the state's log honoring capacity.
func (s *State) AppendEntry(entry LogEntry, capacity int) {
	s.Log = AppendLog(s.Log, entry, capacity)
	s.LogTotal++
}
