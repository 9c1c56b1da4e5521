package domain

// State is the lifecycle position of a classifier handle
type State int32

const (
	// StatePending means init has not finished
	StatePending State = iota
	// StateReady accepts classifications
	StateReady
	// StateFailed means init failed, the handle rejects every call
	StateFailed
	// StateClosed means the handle was released at shutdown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}
