package workflow

import (
	"errors"
	"fmt"
)

// ErrApplicationNotFound is returned when a decision targets an application id
// that does not exist (or is soft-deleted).
var ErrApplicationNotFound = errors.New("application not found")

// ValidationError covers malformed or missing input. The caller can fix the
// request and resubmit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// AuthorizationError covers a caller whose role does not match the stage being
// decided. Distinct from state preconditions so the HTTP layer can answer 403.
type AuthorizationError struct {
	Role  string
	Stage int
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s may not decide stage %d", e.Role, e.Stage)
}

// StaleStateError covers decisions against an application that is not in the
// required status: the stage was already decided, or an earlier stage has not
// been approved yet. The caller should refresh and re-check before retrying.
type StaleStateError struct {
	Stage         int
	CurrentStatus string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stage %d is not decidable in status %s", e.Stage, e.CurrentStatus)
}

// DependencyError covers downstream collaborator failures (NOC generation,
// database). Notification failure is not a DependencyError; it is surfaced as
// a warning beside a committed decision.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
