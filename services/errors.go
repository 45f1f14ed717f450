package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects non-positive biometric or target values and
	// malformed macro priorities. Never partially applied.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoTargetsSet means the user has no active goal targets. Callers
	// treat this as "budget tracking unavailable", not a failure.
	ErrNoTargetsSet = errors.New("no macro targets set")

	// ErrConcurrencyConflict surfaces a write race the store could not
	// resolve transparently; the caller should retry the whole operation.
	ErrConcurrencyConflict = errors.New("concurrent write conflict")
)

// BlockedError is returned when a meal would be blocked and the caller did
// not override. It carries the verdict so the client can retry with
// was_override=true.
type BlockedError struct {
	Result PermissionResult
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("meal blocked: %s", e.Result.Reason)
}
