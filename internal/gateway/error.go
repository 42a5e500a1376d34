package gateway

import "fmt"

// APIError is the uniform failure value for every gateway call.
// A zero Status means no response was received (transport failure or
// an open circuit breaker); Err then carries the cause. Body holds the
// raw response text as diagnostic material.
type APIError struct {
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusCode and ResponseBody let the stores classify failures without
// the gateway depending on the error taxonomy package.

func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) ResponseBody() string { return e.Body }
