package errs

import (
	"net/http"
	"strings"
)

// Classify maps an HTTP status and raw response body to a domain error.
// A zero status means no response was received at all.
//
// Stores call this after a failed gateway round-trip and may substitute
// a more specific error (for example NotFoundError with the entity id)
// where they know better.
func Classify(op string, status int, body string, cause error) error {
	switch {
	case status == 0:
		return &NetworkError{Op: op, Err: cause}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Resource: op}
	case status >= 400 && status < 500:
		return &ValidationError{Reason: strings.TrimSpace(body)}
	default:
		return &ServerError{Status: status, Body: strings.TrimSpace(body)}
	}
}
