package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery      = errors.New("invalid availability query")
	ErrNetwork           = errors.New("network error")
	ErrHTTPStatus        = errors.New("unexpected http status")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrNotFound          = errors.New("campground not found")
)

type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("bad status from %s: %s", e.URL, e.Status)
}

func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// IsProviderFailure reports whether err is one of the errors that surface as a
// generic "could not fetch" failure.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrHTTPStatus) ||
		errors.Is(err, ErrMalformedResponse)
}
