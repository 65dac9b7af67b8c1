package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Every failed request comes
// back as an *APIError wrapping exactly one of these, so callers match
// with errors.Is.
var (
	// ErrAuthExpired: 401 received while a token was attached. The
	// session has already been cleared by the time the caller sees it.
	ErrAuthExpired = errors.New("session expired")

	// ErrForbidden: 403. The session stays intact.
	ErrForbidden = errors.New("access denied")

	// ErrNotFound: 404. No global notice is raised; the calling view
	// decides how to present it.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited: 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer: any 5xx.
	ErrServer = errors.New("server error")

	// ErrNetwork: no response was received (connection failure or
	// timeout).
	ErrNetwork = errors.New("network unreachable")

	// ErrClient: any other 4xx, usually carrying a server message.
	ErrClient = errors.New("request rejected")
)

// APIError is the classified form of a failed request.
type APIError struct {
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-supplied message when available
	kind    error  // one of the sentinels above
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.kind.Error(), e.Message)
	}
	return e.kind.Error()
}

func (e *APIError) Unwrap() error { return e.kind }

// Notice returns the user-facing message for this failure. For kinds
// that carry no server text it falls back to a fixed notice.
func (e *APIError) Notice() string {
	switch e.kind {
	case ErrAuthExpired:
		return "Your session has expired. Please log in again."
	case ErrForbidden:
		return "Access denied."
	case ErrRateLimited:
		return "Rate limited, retry later."
	case ErrServer:
		return "The server hit an error. Please try again."
	case ErrNetwork:
		return "Network unreachable. Check your connection and try again."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "The request could not be completed."
	}
}

func newAPIError(kind error, status int, message string) *APIError {
	return &APIError{Status: status, Message: message, kind: kind}
}
