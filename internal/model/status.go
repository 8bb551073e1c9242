package model

import "fmt"

const (
	StatusPending    = "pending"
	StatusAttempting = "attempting"
	StatusSkipped    = "skipped"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusPending: true,
	},
	StatusPending: {
		StatusPending:    true,
		StatusAttempting: true,
		StatusSkipped:    true,
	},
	StatusAttempting: {
		StatusAttempting: true,
		StatusSucceeded:  true,
		StatusFailed:     true,
	},
	// Terminal states. A failed item is never re-queued within the same run.
	StatusSkipped:   {StatusSkipped: true},
	StatusSucceeded: {StatusSucceeded: true},
	StatusFailed:    {StatusFailed: true},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// TransitionRecord moves an item record to toStatus, rejecting transitions the
// per-item state machine does not allow.
func TransitionRecord(rec *ItemRecord, toStatus string, detail string) error {
	from := rec.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid item status transition: %q -> %q (item=%s name=%s)", from, toStatus, rec.Item.ID, rec.DerivedName)
	}
	rec.Status = toStatus
	if detail != "" {
		rec.Detail = detail
	}
	return nil
}
