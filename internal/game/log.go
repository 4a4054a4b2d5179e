package game

import "time"

// DefaultLogSize is the number of log entries retained when no override is
// configured
const DefaultLogSize = 10

// Entry is one line in the game log. The log is ordered newest first.
// Private entries carry an owner id so the session host can withhold them
// from everyone else when building per-recipient views.
type Entry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
	Private bool      `json:"private,omitempty"`
	Owner   string    `json:"owner,omitempty"`
}

// AppendLog prepends an entry and truncates the result to size. The input
// slice is never modified; the returned slice shares no backing storage
// with it.
func AppendLog(log []Entry, size int, e Entry) []Entry {
	if size <= 0 {
		return nil
	}
	keep := len(log)
	if keep > size-1 {
		keep = size - 1
	}
	out := make([]Entry, 0, keep+1)
	out = append(out, e)
	out = append(out, log[:keep]...)
	return out
}
