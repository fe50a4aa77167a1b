package api

import "fmt"

// ErrorKind classifies a failed operation so callers can route it to the
// right surface: inline field error, session teardown, transient toast,
// or retry-at-the-transport.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // rejected client-side, request never sent
	KindAuth       ErrorKind = "auth"       // 401; session is over
	KindResource   ErrorKind = "resource"   // any other 4xx/5xx
	KindNetwork    ErrorKind = "network"    // transport failure, no HTTP status
)

// Error is the single error type returned by the client adapter and the
// resource clients. StatusCode is zero for validation and network errors.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Field      string // set for validation errors only
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsAuth reports whether err is a terminal authentication failure.
func IsAuth(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == KindAuth
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == KindValidation
}

func validationErr(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}
