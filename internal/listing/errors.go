package listing

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	// ErrInvalidPageRequest is returned for out-of-range navigation. The request never
	// reaches the data source.
	ErrInvalidPageRequest = errors.New("page request out of range")

	// ErrFetchFailed matches every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrStaleResponse is returned when a response arrives after a newer fetch was
	// issued. The response is discarded.
	ErrStaleResponse = errors.New("response superseded by a newer request")

	// ErrInvalidPageSize is returned by NewEngine for a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be greater than zero")

	// ErrNilSource is returned by NewEngine without a data source.
	ErrNilSource = errors.New("data source cannot be nil")
)

// FetchError reports a data source failure. The engine state is unchanged.
type FetchError struct {
	Source  string
	Mode    Mode
	Request PageRequest
	Err     error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s %s page %d failed: %v", e.Source, e.Mode, e.Request.PageNumber, e.Err)
	}
	return fmt.Sprintf("%s page %d failed: %v", e.Mode, e.Request.PageNumber, e.Err)
}

// Unwrap returns the data source error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFetchFailed) true for every FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
