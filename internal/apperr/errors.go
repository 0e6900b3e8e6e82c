// Package apperr carries the stable machine-readable error codes that cross
// the HTTP boundary. Domain packages declare sentinels with New and attach
// per-call details with WithDetails; errors.Is keeps matching the sentinel.
package apperr

import (
	"errors"
	"net/http"
)

const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeForbidden               = "FORBIDDEN"
	CodeTenantIDRequired        = "TENANT_ID_REQUIRED"
	CodeTenantMismatch          = "TENANT_MISMATCH"
	CodeNoActiveSubscription    = "NO_ACTIVE_SUBSCRIPTION"
	CodeNotFound                = "NOT_FOUND"
	CodeOrderAlreadyExists      = "ORDER_ALREADY_EXISTS"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeOrderNotReady           = "ORDER_NOT_READY"
	CodeConflict                = "CONFLICT"
	CodeInternal                = "INTERNAL_ERROR"
)

// Error is a client-facing error with an HTTP status and a stable code.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	parent *Error
	cause  error
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Validation builds a 400 VALIDATION_ERROR sentinel whose details carry reason.
func Validation(reason, message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: message,
		Details: map[string]any{"reason": reason},
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Code + ": " + e.Message
}

// Is matches the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur == t {
			return true
		}
	}
	return false
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetails returns a copy of e with extra details merged over its own.
func (e *Error) WithDetails(details map[string]any) *Error {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, Details: merged, parent: e, cause: e.cause}
}

// Wrap attaches an underlying cause, kept out of the client response.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, Details: e.Details, parent: e, cause: cause}
}

// Envelope is the JSON error body.
type Envelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// From resolves err to an *Error; anything unknown becomes the generic 500
// and ok reports false so the caller can log it.
func From(err error) (e *Error, ok bool) {
	if errors.As(err, &e) {
		return e, true
	}
	return Internal, false
}

var Internal = New(http.StatusInternalServerError, CodeInternal, "unexpected server error")

func (e *Error) Envelope() Envelope {
	return Envelope{
		Success: false,
		Error:   ErrorBody{Code: e.Code, Message: e.Message, Details: e.Details},
	}
}

// StatusCode maps a bare HTTP status (e.g. from a framework error) to a code.
func StatusCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	}
	if status >= 500 {
		return CodeInternal
	}
	return CodeValidation
}
