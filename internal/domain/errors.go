package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failure so that transports can translate it
// into their own status codes.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindAlreadyReviewed   ErrorKind = "already_reviewed"
	KindNotAuthorized     ErrorKind = "not_authorized"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindValidation        ErrorKind = "validation_failed"
	KindConflict          ErrorKind = "conflict"
	KindUnavailable       ErrorKind = "unavailable"
	KindInternal          ErrorKind = "internal"
)

// HTTPStatus returns the status code the HTTP boundary uses for the kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyReviewed, KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindUnauthenticated, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error returned by usecases and repositories.
// Message is safe to show to API clients; the wrapped cause is not.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error of the same kind, so that
// errors.Is(ErrBookNotFound, ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying per-field details.
func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an unexpected failure. The client only ever sees "Server error".
func Internal(cause error) *Error {
	return ErrInternal.WithCause(cause)
}

// Validation builds a ValidationFailed error.
func Validation(message string) *Error {
	return NewError(KindValidation, message)
}

// AsError extracts the *Error from err. Untyped errors become Internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	return AsError(err).Kind
}

var (
	ErrNotFound          = NewError(KindNotFound, "Resource not found")
	ErrUserNotFound      = NewError(KindNotFound, "User not found")
	ErrBookNotFound      = NewError(KindNotFound, "Book not found")
	ErrReviewNotFound    = NewError(KindNotFound, "Review not found")
	ErrAlreadyReviewed   = NewError(KindAlreadyReviewed, "You have already reviewed this book")
	ErrNotAuthorized     = NewError(KindNotAuthorized, "You are not authorized to perform this action")
	ErrTokenRequired     = NewError(KindUnauthenticated, "Authentication token is required")
	ErrInvalidToken      = NewError(KindUnauthenticated, "Invalid or expired token")
	ErrInvalidCredential = NewError(KindInvalidCredential, "Invalid email or password")
	ErrEmailTaken        = NewError(KindConflict, "Email is already registered")
	ErrInvalidID         = NewError(KindValidation, "Invalid ID format")
	ErrStorageDisabled   = NewError(KindUnavailable, "File storage is not configured")
	ErrInternal          = NewError(KindInternal, "Server error")
)
