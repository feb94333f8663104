package utils

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the engine, the report pipeline and the HTTP boundary.
// ErrNotFound deliberately covers "absent", "not yours", "wrong role" and
// "wrong current status": callers must not be able to tell them apart.
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
	ErrUpstream     = errors.New("upstream_failure")
)

// inputError carries a caller-facing message for ErrInvalidInput.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return ErrInvalidInput }

// InvalidInput returns an error matching ErrInvalidInput whose message is safe to show.
func InvalidInput(msg string) error {
	return &inputError{msg: msg}
}

// Upstream wraps a collaborator failure (storage, text generation, mail).
func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

// PublicMessage returns the message a caller may see for err.
func PublicMessage(err error, fallback string) string {
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.msg
	}
	return fallback
}
