package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the actor lacks the permission the operation needs.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument means the request was malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrGroupNotConfigured means a guild has no configuration record yet.
	ErrGroupNotConfigured = fmt.Errorf("%w: group not configured", ErrInvalidArgument)
)

// StorageError reports that the store could not complete an operation.
// Callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err unless it is nil or already a StorageError.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// InvalidArgumentf formats a validation failure wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Error codes carried in failure payloads.
const (
	CodeUnauthorized    = "unauthorized"
	CodeInvalidArgument = "invalid_argument"
	CodeStorageError    = "storage_error"
	CodeInternal        = "internal"
)

// ErrorCode maps err onto the wire error code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case IsStorageError(err), errors.Is(err, context.DeadlineExceeded):
		return CodeStorageError
	default:
		return CodeInternal
	}
}
