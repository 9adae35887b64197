package vision

import "fmt"

// Status is the lifecycle state of a camera channel.
type Status int8

const (
	// StatusStarting: session accepted, first frame not yet decoded.
	// Connect retries within the retry budget stay in Starting.
	StatusStarting Status = iota
	// StatusRunning: frames are flowing.
	StatusRunning
	// StatusDegraded: the stream dropped after running; reconnect in progress.
	StatusDegraded
	// StatusError: retry budget exhausted, no further attempts. Terminal until
	// the channel is stopped.
	StatusError
	// StatusStopped: session shut down by request.
	StatusStopped
)

var statusNames = [...]string{"starting", "running", "degraded", "error", "stopped"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int8(s))
	}
	return statusNames[s]
}

// MarshalJSON renders the status as its lowercase name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Stopped is reachable from every state; Error only via the retry
// budget, never directly from Starting to Degraded.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return false
	}
	switch s {
	case StatusStarting:
		return next == StatusRunning || next == StatusError || next == StatusStopped
	case StatusRunning:
		return next == StatusDegraded || next == StatusError || next == StatusStopped
	case StatusDegraded:
		return next == StatusRunning || next == StatusError || next == StatusStopped
	case StatusError:
		return next == StatusStopped
	default:
		return false
	}
}
