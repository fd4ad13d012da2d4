package vault

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnknownCollection is returned for an unrecognized collection name.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnauthorized matches any APIError with status 401 or 403.
	ErrUnauthorized = errors.New("not signed in or session expired")

	// ErrNotFound matches any APIError with status 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidUpload is returned when an upload request fails validation.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrInvalidShare is returned when a share request fails validation.
	ErrInvalidShare = errors.New("invalid share")

	// ErrShareRejected is returned when the backend answers a share with success=false.
	ErrShareRejected = errors.New("share rejected")

	// ErrMissingCredentials is returned when a username, password or code is blank.
	ErrMissingCredentials = errors.New("missing credentials")
)

// APIError is a non-2xx response from the vault backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match the status-class sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}
