package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = Validation("PLAN_MISMATCH", "selection count does not match plan")

func TestWithDetailsKeepsSentinelIdentity(t *testing.T) {
	err := errSample.WithDetails(map[string]any{"expected": 2, "got": 3})

	assert.True(t, errors.Is(err, errSample))
	assert.Equal(t, "PLAN_MISMATCH", err.Details["reason"])
	assert.Equal(t, 3, err.Details["got"])
	// sentinel untouched
	assert.NotContains(t, errSample.Details, "got")
}

func TestFromUnwrapsThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", errSample.WithDetails(nil))

	e, ok := From(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, CodeValidation, e.Code)
}

func TestFromUnknownIsGenericInternal(t *testing.T) {
	e, ok := From(errors.New("pq: connection refused"))

	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.NotContains(t, e.Message, "pq")
}

func TestWrapHidesCauseFromEnvelope(t *testing.T) {
	cause := errors.New("unique violation")
	err := New(http.StatusConflict, CodeOrderAlreadyExists, "order exists").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	env := err.Envelope()
	assert.False(t, env.Success)
	assert.Equal(t, "order exists", env.Error.Message)
}

func TestStatusCode(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          CodeValidation,
		http.StatusUnauthorized:        CodeUnauthenticated,
		http.StatusForbidden:           CodeForbidden,
		http.StatusNotFound:            CodeNotFound,
		http.StatusConflict:            CodeConflict,
		http.StatusServiceUnavailable:  CodeInternal,
		http.StatusInternalServerError: CodeInternal,
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusCode(status), "status %d", status)
	}
}
