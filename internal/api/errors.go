package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired signals a 401 from any endpoint. The gateway has
// already cleared the local session when this is returned; the caller
// routes to re-authentication instead of rendering a generic error.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx, non-401 response from the server.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Message maps the status code to a user-facing message, with a generic
// fallback for unmapped codes.
func (e *APIError) Message() string {
	switch e.Status {
	case http.StatusBadRequest:
		return "The server rejected the request data."
	case http.StatusForbidden:
		return "You are not authorized to do that."
	case http.StatusNotFound:
		return "That record was not found."
	}
	return "The request failed. Please try again."
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
