package manager

// Outcome classifies how an operation ended. Operations that return an error report OutcomeFailed.
type Outcome int

const (
	// OutcomeSuccess means every step of the operation was applied.
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the order does not exist; nothing was changed.
	OutcomeNotFound
	// OutcomeInvalidTransition means the order's status has no edge for the event; nothing was changed.
	OutcomeInvalidTransition
	// OutcomeSyncTimeout means an awaited status did not appear in time and the operation
	// carried on with the last state it read.
	OutcomeSyncTimeout
	// OutcomeFailed accompanies every non-nil error; whether anything was changed is
	// described by the error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalidTransition:
		return "invalid_transition"
	case OutcomeSyncTimeout:
		return "sync_timeout"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}
