// Package apperror is the error taxonomy shared by the usecases. Handlers map a
// Kind to an HTTP status through the response package.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation                  Kind = "validation"
	KindNotFound                    Kind = "not_found"
	KindConflict                    Kind = "conflict"
	KindUnauthenticated             Kind = "unauthenticated"
	KindForbidden                   Kind = "forbidden"
	KindInsufficientFunds           Kind = "insufficient_funds"
	KindInsufficientPlatformBalance Kind = "insufficient_platform_balance"
	KindConfig                      Kind = "config"
	KindProvider                    Kind = "provider"
	KindInternal                    Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, apperror.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation                  = &Error{Kind: KindValidation}
	ErrNotFound                    = &Error{Kind: KindNotFound}
	ErrConflict                    = &Error{Kind: KindConflict}
	ErrUnauthenticated             = &Error{Kind: KindUnauthenticated}
	ErrForbidden                   = &Error{Kind: KindForbidden}
	ErrInsufficientFunds           = &Error{Kind: KindInsufficientFunds}
	ErrInsufficientPlatformBalance = &Error{Kind: KindInsufficientPlatformBalance}
	ErrConfig                      = &Error{Kind: KindConfig}
	ErrProvider                    = &Error{Kind: KindProvider}
)

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InsufficientFunds(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

func InsufficientPlatformBalance(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientPlatformBalance, Message: fmt.Sprintf(format, args...)}
}

func Config(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

func Provider(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindProvider, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsPermanent reports whether retrying the same input can never succeed.
func IsPermanent(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindConflict, KindUnauthenticated, KindForbidden, KindConfig:
		return true
	}
	return false
}

// Message is the user-facing text for err; internal errors are not leaked.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
