package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks input the caller must fix. The wrapping error's message
// is safe to show to clients.
var ErrValidation = errors.New("validation failed")

var (
	ErrForbidden        = errors.New("forbidden")
	ErrMediaUnavailable = errors.New("media storage not configured")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

func invalidf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
