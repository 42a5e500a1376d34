package errs

import "errors"

// statusError is satisfied by gateway.APIError without this package
// importing the gateway (the gateway stays taxonomy-agnostic).
type statusError interface {
	error
	StatusCode() int
	ResponseBody() string
}

// From maps a failed gateway call to a domain error. Errors that do not
// carry an HTTP status (already-classified domain errors, decode
// failures) pass through unchanged.
func From(op string, err error) error {
	var se statusError
	if errors.As(err, &se) {
		return Classify(op, se.StatusCode(), se.ResponseBody(), errors.Unwrap(se))
	}
	return err
}
