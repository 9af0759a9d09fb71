package apiclient

import "fmt"

// The backend's failure modes map onto a closed taxonomy. Handlers match
// these with errors.As and decide between inline messages and redirects.

// AuthError means the session is missing or expired (401). The local session
// must be discarded and the user sent to the login boundary.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return e.Message
}

// PermissionError means the action is forbidden for this user (403). Never
// rendered inline; the caller redirects to a permitted view.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	if e.Message == "" {
		return "access forbidden"
	}
	return e.Message
}

// NotFoundError means the target entity is gone (404); the caller redirects
// to a safe parent view.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "resource not found"
	}
	return e.Message
}

// ValidationError carries field-level messages (422). Client-side
// precondition failures are reported through the same type so the UI treats
// both identically.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// TransientError covers network failures, 5xx responses and an open circuit
// breaker. Surfaced as a generic retry-able message; never retried
// automatically.
type TransientError struct {
	Message string
	Err     error
}

func (e *TransientError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "temporary failure"
}

func (e *TransientError) Unwrap() error { return e.Err }

// APIError is the fallback for remaining non-2xx statuses (e.g. 400); the
// server message is surfaced verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}
