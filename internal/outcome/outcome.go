// Package outcome classifies task failures.
//
// Every error leaving the checker belongs to exactly one Kind:
//
//   - Offline: the transport failed (connect refused, I/O error, timeout).
//   - Mumble: the service answered but violated the protocol.
//   - Internal: the checker itself is at fault.
//
// Callers branch with KindOf or errors.Is against ErrOffline, ErrMumble and
// ErrInternal; they never need to inspect messages.
package outcome

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindOffline
	KindMumble
)

// Result strings reported to the host.
const (
	ResultOK       = "OK"
	ResultOffline  = "OFFLINE"
	ResultMumble   = "MUMBLE"
	ResultInternal = "INTERNAL_ERROR"
)

func (k Kind) String() string {
	switch k {
	case KindOffline:
		return ResultOffline
	case KindMumble:
		return ResultMumble
	default:
		return ResultInternal
	}
}

var (
	ErrOffline  = &Error{Kind: KindOffline}
	ErrMumble   = &Error{Kind: KindMumble}
	ErrInternal = &Error{Kind: KindInternal}
)

// Error is a classified failure. Message is safe to show to the service
// operator; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrMumble) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Offline(msg string, err error) *Error {
	return &Error{Kind: KindOffline, Message: msg, Err: err}
}

func Mumble(msg string, err error) *Error {
	return &Error{Kind: KindMumble, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the classification of err. Errors that were never
// classified count as Internal: an unexpected error is a checker defect.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the operator-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal checker error"
}

// Result maps err to the host result string; nil is OK.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	return KindOf(err).String()
}
