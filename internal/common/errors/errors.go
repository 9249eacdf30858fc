// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeMalformedAIResponse     ErrorCode = "MALFORMED_AI_RESPONSE"
	ErrCodeCollaboratorUnavailable ErrorCode = "COLLABORATOR_UNAVAILABLE"

	ErrCodeMailboxDraftFailed ErrorCode = "MAILBOX_DRAFT_FAILED"

	ErrCodePersistenceReadFailed  ErrorCode = "PERSISTENCE_READ_FAILED"
	ErrCodePersistenceWriteFailed ErrorCode = "PERSISTENCE_WRITE_FAILED"
)

// maxExcerptLen bounds the diagnostic excerpt carried by malformed-response
// errors so a multi-kilobyte model reply never lands in a log line verbatim.
const maxExcerptLen = 200

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*StandardError); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// NewValidationError creates a non-retryable input validation error.
// The operation was never attempted.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Required input missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedAIResponseError creates a non-retryable error for model output
// that could not be reduced to the expected JSON value. It carries a truncated
// excerpt of the raw text for diagnostics.
func NewMalformedAIResponseError(details, raw string) *StandardError {
	excerpt := raw
	if len(excerpt) > maxExcerptLen {
		excerpt = excerpt[:maxExcerptLen] + "..."
	}
	return &StandardError{
		Code:      ErrCodeMalformedAIResponse,
		Message:   "AI response is not valid JSON",
		Details:   fmt.Sprintf("%s; excerpt: %q", details, excerpt),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCollaboratorUnavailableError creates a retryable error for a failed call
// to an external collaborator. The underlying failure is reported verbatim;
// no automatic retry is performed on behalf of the caller.
func NewCollaboratorUnavailableError(collaborator string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCollaboratorUnavailable,
		Message:   fmt.Sprintf("Collaborator %s unavailable", collaborator),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailboxDraftFailedError creates a retryable error for a failed mailbox
// draft creation.
func NewMailboxDraftFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailboxDraftFailed,
		Message:   "Mailbox draft creation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceReadError creates a persistence read error. Callers are
// expected to degrade to defaults rather than surface this to the user.
func NewPersistenceReadError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceReadFailed,
		Message:   "Persistent store read failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceWriteError creates a persistence write error. Durability is
// best-effort; callers log and continue.
func NewPersistenceWriteError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceWriteFailed,
		Message:   "Persistent store write failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
