package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Classify(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		status   int
		body     string
		cause    error
		sentinel error
	}{
		{name: "no response is a network failure", status: 0, cause: cause, sentinel: ErrNetwork},
		{name: "401 is an auth failure", status: http.StatusUnauthorized, sentinel: ErrAuth},
		{name: "403 is an auth failure", status: http.StatusForbidden, sentinel: ErrAuth},
		{name: "404 is not found", status: http.StatusNotFound, sentinel: ErrNotFound},
		{name: "400 is a validation failure", status: http.StatusBadRequest, body: "bad rating", sentinel: ErrValidation},
		{name: "409 is a validation failure", status: http.StatusConflict, sentinel: ErrValidation},
		{name: "500 is a server failure", status: http.StatusInternalServerError, sentinel: ErrServer},
		{name: "malformed 2xx body is a server failure", status: http.StatusOK, body: "not json", sentinel: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("book", tt.status, tt.body, tt.cause)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func Test_Classify_NetworkKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Classify("books", 0, "", cause)

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func Test_Classify_ValidationCarriesBody(t *testing.T) {
	err := Classify("review", http.StatusBadRequest, "  rating out of range \n", nil)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "rating out of range", ve.Reason)
}

func Test_TypedErrors_Messages(t *testing.T) {
	assert.Equal(t, "book 42 not found", (&NotFoundError{Resource: "book", ID: 42}).Error())
	assert.Equal(t, "books not found", (&NotFoundError{Resource: "books"}).Error())
	assert.Equal(t, "rating: must be between 1 and 5", (&ValidationError{Field: "rating", Reason: "must be between 1 and 5"}).Error())
	assert.Equal(t, "Outstanding fees", (&BusinessRuleError{Rule: "Outstanding fees"}).Error())
	assert.Equal(t, "not authorized (status 403)", (&AuthError{Status: 403}).Error())
}

func Test_Helpers(t *testing.T) {
	assert.True(t, IsNotFound(&NotFoundError{Resource: "book"}))
	assert.True(t, IsValidation(&ValidationError{Reason: "blank"}))
	assert.True(t, IsAuth(&AuthError{Status: 401}))
	assert.True(t, IsBusinessRule(&BusinessRuleError{Rule: "Outstanding fees"}))
	assert.True(t, IsServer(&ServerError{Status: 500}))
	assert.True(t, IsNetwork(&NetworkError{Op: "books"}))

	assert.False(t, IsNotFound(&ValidationError{Reason: "blank"}))
	assert.False(t, IsBusinessRule(errors.New("plain")))
}
