// Package errs defines the error taxonomy shared by every store.
//
// The gateway surfaces transport and status level failures as a uniform
// *gateway.APIError; the stores map those into one of the typed errors
// below. Callers branch with the IsX helpers or errors.Is against the
// sentinels, never by string matching.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork      = errors.New("network failure")
	ErrServer       = errors.New("server failure")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("not authorized")
	ErrBusinessRule = errors.New("business rule rejected")
)

// NetworkError reports a transport failure where no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// ServerError reports a 5xx response or a malformed 2xx body.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Body)
}

func (e *ServerError) Unwrap() error { return ErrServer }

// NotFoundError reports an absent entity.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a client-side precondition failure or a 4xx
// rejection of malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthError reports a 401 or 403 response.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("not authorized (status %d)", e.Status)
}

func (e *AuthError) Unwrap() error { return ErrAuth }

// BusinessRuleError reports a domain-specific rejection, such as
// outstanding fees blocking a new loan. Rule carries the server's
// signal verbatim so callers can show a dedicated message.
type BusinessRuleError struct {
	Rule string
}

func (e *BusinessRuleError) Error() string { return e.Rule }

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRule }

func IsNetwork(err error) bool      { return errors.Is(err, ErrNetwork) }
func IsServer(err error) bool       { return errors.Is(err, ErrServer) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsAuth(err error) bool         { return errors.Is(err, ErrAuth) }
func IsBusinessRule(err error) bool { return errors.Is(err, ErrBusinessRule) }
