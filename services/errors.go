package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindValidation
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the domain failure every service operation returns. Msg is safe to
// show to the caller; Err carries the underlying cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrValidation   = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrForbidden    = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrInternal     = &Error{Kind: KindInternal, Msg: "internal error"}
)

func notFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }
func invalid(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
