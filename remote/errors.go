package remote

import (
	"errors"
	"fmt"
)

// Machine-readable error codes carried by store errors. Servers and clients
// share these so "row not found" can be told apart from real failures.
const (
	CodeNotFound       = "not_found"
	CodeDuplicateName  = "duplicate_name"
	CodeDuplicateDate  = "duplicate_date"
	CodeEmailTaken     = "email_taken"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeNotImplemented = "not_implemented"
	CodeTransport      = "transport"
)

// Error is a failure reported by the remote store. Code is machine readable;
// Status is the HTTP status when the failure came off the wire, zero
// otherwise.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote store: %s", e.Code)
	}
	return fmt.Sprintf("remote store: %s: %s", e.Code, e.Message)
}

// CodeOf returns the store error code buried in err, or "" when err carries
// none.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err is the store's "row not found" sentinel.
// Absence is an expected outcome, never a failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsDuplicate reports whether err is a uniqueness-conflict rejection.
func IsDuplicate(err error) bool {
	code := CodeOf(err)
	return code == CodeDuplicateName || code == CodeDuplicateDate
}

// IsUnauthorized reports whether err means the caller's credentials were
// missing, expired or rejected.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}
