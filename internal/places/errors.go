package places

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an APIError so callers can present differentiated
// guidance without string-matching remote messages.
type ErrorKind int

const (
	// KindRemoteError is any remote status not classified below.
	KindRemoteError ErrorKind = iota

	// KindQuotaExceeded maps the OVER_QUERY_LIMIT status. Not retryable
	// within a run; the user has to wait or raise their quota.
	KindQuotaExceeded

	// KindRequestDenied maps the REQUEST_DENIED status, typically a
	// missing, invalid, or unauthorized API key.
	KindRequestDenied

	// KindTransport is a transport-level failure that survived every
	// retry attempt (timeout, connection error).
	KindTransport
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindRequestDenied:
		return "request denied"
	case KindTransport:
		return "transport failure"
	default:
		return "remote error"
	}
}

// APIError is a typed failure from the remote API.
//
// Design decision: One error type with a Kind field rather than one type per
// status, because callers branch on at most three cases and errors.As on a
// single type keeps that branching flat.
type APIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Status is the remote status field, empty for transport failures.
	Status string

	// Message is the remote error message, if any.
	Message string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("places: %s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("places: %s (%s): %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("places: %s (%s)", e.Kind, e.Status)
	}
}

// Unwrap returns the underlying transport error, if any.
func (e *APIError) Unwrap() error { return e.Err }

// IsQuotaExceeded reports whether err is an APIError with KindQuotaExceeded.
func IsQuotaExceeded(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindQuotaExceeded
}

// IsRequestDenied reports whether err is an APIError with KindRequestDenied.
func IsRequestDenied(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindRequestDenied
}

// statusError translates a non-success remote status into an APIError.
func statusError(status, message string) *APIError {
	kind := KindRemoteError
	switch status {
	case "OVER_QUERY_LIMIT":
		kind = KindQuotaExceeded
	case "REQUEST_DENIED":
		kind = KindRequestDenied
	}
	return &APIError{Kind: kind, Status: status, Message: message}
}
