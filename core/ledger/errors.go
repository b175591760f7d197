package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidPlan is matched by every ValidationError.
var ErrInvalidPlan = errors.New("invalid plan")

// ValidationError reports a plan or quota that cannot be reported on.
// Index is the 0-based year index of the offending entry.
type ValidationError struct {
	Index int
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("year %d: %s", e.Index+1, e.Msg)
}

// Unwrap allows errors.Is(err, ErrInvalidPlan).
func (e *ValidationError) Unwrap() error { return ErrInvalidPlan }
