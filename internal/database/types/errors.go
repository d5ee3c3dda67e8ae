package types

import "errors"

var (
	// ErrNotFound is returned when a referenced submission or vote does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotVotable is returned when a vote targets a submission that is not approved.
	ErrNotVotable = errors.New("submission is not open for voting")
	// ErrContentionTimeout is returned when a serializing lock could not be acquired in time.
	// Callers may retry the operation.
	ErrContentionTimeout = errors.New("timed out waiting for lock")
	// ErrConstraintViolation is returned when a write breaks a uniqueness or check constraint.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrPersistenceFailure wraps any other storage error.
	ErrPersistenceFailure = errors.New("persistence failure")

	ErrInvalidSubmitter  = errors.New("submission needs exactly one of user or visitor token")
	ErrSlotLimitReached  = errors.New("submitter has no free submission slots")
	ErrSequenceExhausted = errors.New("public id sequence exhausted for year")
	ErrInvalidPublicID   = errors.New("invalid public id")
	ErrInvalidVoteType   = errors.New("invalid vote type")
	ErrInvalidCursor     = errors.New("invalid gallery cursor")
	ErrMissingVisitor    = errors.New("visitor token is required")
)

// IsRetryable reports whether the caller may safely retry after err.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContentionTimeout)
}
