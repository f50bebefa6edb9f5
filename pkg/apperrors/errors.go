package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess          = 0
	ExitErrorGeneric     = 1
	ExitErrorConfig      = 4
	ExitErrorUnavailable = 69 // EX_UNAVAILABLE
	ExitErrorCanceled    = 130
)

// ErrMetricsUnavailable is matched by every error raised when the host
// refuses or fails a system-wide metrics query.
var ErrMetricsUnavailable = errors.New("os metrics unavailable")

// MetricsUnavailableError records which system-wide query failed.
type MetricsUnavailableError struct {
	Op    string
	Cause error
}

func (e *MetricsUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrMetricsUnavailable, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMetricsUnavailable, e.Op, e.Cause)
}

func (e *MetricsUnavailableError) Unwrap() error { return e.Cause }

// Is reports a match against ErrMetricsUnavailable so callers don't need
// errors.As for the common check.
func (e *MetricsUnavailableError) Is(target error) bool {
	return target == ErrMetricsUnavailable
}

// MetricsUnavailable wraps cause as a MetricsUnavailableError for op.
// Context cancellation is passed through untouched: an abandoned request
// is not a host failure.
func MetricsUnavailable(op string, cause error) error {
	if IsContextError(cause) {
		return cause
	}
	return &MetricsUnavailableError{Op: op, Cause: cause}
}

// ConfigError represents invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps err with a formatted context message, or returns nil if
// err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned from a command to a process exit code.
func ExitCode(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.Is(err, ErrMetricsUnavailable):
		return ExitErrorUnavailable
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
