// Package apperr defines the error taxonomy shared by services and handlers.
// Services attach a short localized message; the HTTP layer maps the kind to
// a status code and never relays raw upstream error bodies.
package apperr

import "errors"

type Kind int

const (
	// Validation rejects malformed or missing input before any state mutation.
	Validation Kind = iota + 1
	// NotFound covers unknown ids and expired pending uploads.
	NotFound
	// Conflict means an order is not in the state an operation requires.
	Conflict
	// RecognitionFailed means the OCR capability produced no usable text.
	RecognitionFailed
	// AmountMismatch means text was recognized but the claimed amount was not
	// found in it. An ordinary failure, not a server error.
	AmountMismatch
	// Upstream means the admin system or a collaborator was unreachable or
	// answered outside 2xx. Triggers compensation where applicable.
	Upstream
)

type Error struct {
	Kind    Kind
	Message string // user-facing, localized
	Err     error  // wrapped cause, logs only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
