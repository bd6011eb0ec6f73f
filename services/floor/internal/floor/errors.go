package floor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrRemote     = errors.New("remote store failure")

	// ErrPartialWrite is wrapped by gateways whose primary write landed but a
	// follow-up write of the same call did not.
	ErrPartialWrite = errors.New("write partially applied")
)

// ValidationError is a local rejection raised before any gateway call.
type ValidationError struct {
	Reasons []string
}

func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Reasons, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports a reference that no longer resolves in the snapshot.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s %s", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RemoteError wraps a gateway failure. Partial is set when an earlier write of
// the same command already reached the store.
type RemoteError struct {
	Op      string
	Partial bool
	Err     error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrRemote, e.Op)
	if e.Partial {
		msg += " (partially applied)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

func notFound(resource string, id uuid.UUID) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// remoteFailure classifies a gateway error. Stores that report a missing record
// with ErrNotFound surface as NotFoundError.
func remoteFailure(op, resource string, id uuid.UUID, err error) error {
	if errors.Is(err, ErrNotFound) && resource != "" {
		return notFound(resource, id)
	}
	return &RemoteError{Op: op, Err: err}
}
