package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials maps HTTP 401: the identity/secret pair (or the
	// forwarded token) was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied maps HTTP 403.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound maps HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrServerError maps 5xx responses and malformed response envelopes.
	ErrServerError = errors.New("server error")

	// ErrUnreachable indicates the backend could not be reached at all.
	ErrUnreachable = errors.New("backend unreachable")
)

// mapStatus translates an HTTP status into the error taxonomy. The message
// is the backend's own, so the rendering layer can show the specific reason
// instead of a generic failure.
func mapStatus(status int, message string) error {
	var kind error
	switch {
	case status == 401:
		kind = ErrInvalidCredentials
	case status == 403:
		kind = ErrAccessDenied
	case status == 404:
		kind = ErrNotFound
	default:
		kind = ErrServerError
	}
	if message == "" {
		return fmt.Errorf("%w: status %d", kind, status)
	}
	return fmt.Errorf("%w: %s", kind, message)
}
