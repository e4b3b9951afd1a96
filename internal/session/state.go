package session

// State enumerates the provisioning session's lifecycle. Transitions are
// owned exclusively by Session.Run; no other component mutates state.
type State int

const (
	// StateCollecting gathers missing parameters from flags or prompts.
	StateCollecting State = iota
	// StateValidating normalizes and checks every gathered parameter.
	StateValidating
	// StateMutating tears down prior domain state and rewrites the
	// network identity files under backup.
	StateMutating
	// StateExecuting runs the external provisioning command sequence.
	StateExecuting
	// StateFailedRetryable rolls back and prepares a re-prompt.
	StateFailedRetryable
	// StateFailedFatal is terminal: the process exits non-zero.
	StateFailedFatal
	// StateFinalized is terminal: provisioning succeeded.
	StateFinalized
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateValidating:
		return "validating"
	case StateMutating:
		return "mutating"
	case StateExecuting:
		return "executing"
	case StateFailedRetryable:
		return "failed-retryable"
	case StateFailedFatal:
		return "failed-fatal"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// terminal reports whether the state ends the session loop.
func (s State) terminal() bool {
	return s == StateFailedFatal || s == StateFinalized
}
