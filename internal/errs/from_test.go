package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAPIError struct {
	status int
	body   string
}

func (e *stubAPIError) Error() string        { return "stub" }
func (e *stubAPIError) StatusCode() int      { return e.status }
func (e *stubAPIError) ResponseBody() string { return e.body }

func Test_From_MapsStatusErrors(t *testing.T) {
	assert.ErrorIs(t, From("book", &stubAPIError{status: http.StatusNotFound}), ErrNotFound)
	assert.ErrorIs(t, From("book", &stubAPIError{status: http.StatusUnauthorized}), ErrAuth)
	assert.ErrorIs(t, From("book", &stubAPIError{status: 0}), ErrNetwork)
}

func Test_From_PassesThroughDomainErrors(t *testing.T) {
	original := &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	assert.Equal(t, original, From("review", original))
}
