// Package apperr defines the error type handlers translate into HTTP
// responses. Every error carries a status, a machine code, and a message that
// is safe to show to clients; the underlying cause stays server-side.
package apperr

import "net/http"

// Error is an HTTP-mappable application error.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// BadRequest marks missing or malformed input.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// Unauthorized marks failed authentication. The same message is used whether
// the user is absent or the password is wrong, so callers cannot enumerate
// accounts.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// NotFound marks an absent user or an absent owner-scoped meme.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// Conflict marks a duplicate identity at signup.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: message}
}

// Internal wraps any database, storage or decode failure. Clients only ever
// see the generic message; the cause is kept for logging.
func Internal(cause error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Internal server error",
		cause:   cause,
	}
}
