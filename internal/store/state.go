// Package store holds the in-memory record collections and orchestrates
// their lifecycle: validate, call the remote collaborator, and only
// then mutate local state. Everything else in the core works on
// snapshots handed out from here.
package store

import "github.com/google/uuid"

// RecordState tracks where a mutation stands for a given record.
type RecordState int

const (
	StateDraft RecordState = iota
	StateValidating
	StateInvalid
	StateSubmitting
	StatePersisted
	StateFailed
)

func (s RecordState) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	case StatePersisted:
		return "persisted"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// deleteStage is the two-phase delete machine. A record can only be
// removed after a request has been opened and then explicitly
// confirmed; a single call cannot do it.
type deleteStage int

const (
	deleteClosed deleteStage = iota
	deleteOpen
	deleteConfirming
)

// newTempID mints a client-temporary identifier. It is visible locally
// until the server-assigned id replaces it and is never sent on the
// wire.
func newTempID() string {
	return "tmp-" + uuid.NewString()
}
