package domain

import (
	"errors"
	"time"
)

// MutationState is a step of the mutation lifecycle:
//
//	pending → authorizing → rejected
//	                      → executing → committed
//	                                  → rolled_back
type MutationState string

const (
	MutationPending     MutationState = "pending"
	MutationAuthorizing MutationState = "authorizing"
	MutationRejected    MutationState = "rejected"
	MutationExecuting   MutationState = "executing"
	MutationCommitted   MutationState = "committed"
	MutationRolledBack  MutationState = "rolled_back"
)

// Terminal reports whether no further transition is possible.
func (s MutationState) Terminal() bool {
	return s == MutationRejected || s == MutationCommitted || s == MutationRolledBack
}

// MutationRecord is one audit trail entry describing how a mutation ended.
type MutationRecord struct {
	Action     string        `json:"action" bson:"action"`
	Resource   string        `json:"resource" bson:"resource"`
	ActorID    *int64        `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	State      MutationState `json:"state" bson:"state"`
	Reason     string        `json:"reason,omitempty" bson:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at" bson:"occurred_at"`
}

// OutcomeOf maps the error a mutation finished with to its terminal state.
// Authorization failures and missing targets happen before anything is
// written and count as rejections.
func OutcomeOf(err error) MutationState {
	switch {
	case err == nil:
		return MutationCommitted
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrForbidden), errors.Is(err, ErrNotFound):
		return MutationRejected
	default:
		return MutationRolledBack
	}
}
