package errors

import (
	"errors"
	"fmt"
)

func New(text string) error {
	return errors.New(text)
}

// Report whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Find the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithOperation records operation on a LinkError, wrapping plain errors as
// remote request failures.
func WithOperation(err error, operation string) error {
	if err == nil {
		return nil
	}

	var linkErr *LinkError
	if As(err, &linkErr) {
		linkErr.Operation = operation
		return linkErr
	}

	wrapped := NewLinkError(ErrCodeRemoteRequest, fmt.Sprintf("operation %s failed", operation), err).
		WithContext("operation", operation)
	wrapped.Operation = operation
	return wrapped
}
