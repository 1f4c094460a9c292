package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the service layer. Controllers map these onto
// HTTP statuses; nothing below the controller layer knows about HTTP.
var (
	// ErrValidation covers malformed or missing input, including self-likes.
	ErrValidation = errors.New("validation error")
	// ErrNotFound covers absent profiles/matches and callers that are not a
	// party to the match they act on.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned after a concurrent write was detected by the
	// optimistic version check and a single retry also lost the race.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDependency covers unavailable stores. It must never be degraded
	// into an inconsistent match state or a silently granted like.
	ErrDependency = errors.New("dependency unavailable")
)

// QuotaExceededError carries the structured payload the client needs to
// render a precise upsell message.
type QuotaExceededError struct {
	Remaining int
	Limit     int
	IsPremium bool
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily like limit reached (%d/%d)", e.Limit-e.Remaining, e.Limit)
}

// AsQuotaExceeded unwraps err into a QuotaExceededError if there is one.
func AsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
