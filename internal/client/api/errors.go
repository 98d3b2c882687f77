package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps transport-level failures: the backend could not be
	// reached at all.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized maps HTTP 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries a non-2xx backend response that is not an auth failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
