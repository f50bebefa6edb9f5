// Package apperrors defines the application's error types. The important
// distinction is between a host metrics source that is unavailable, which
// callers surface as a server error, and configuration mistakes, which stop
// the program before it starts serving.
//
// All types implement Unwrap where they carry a cause, so errors.Is and
// errors.As work across wrapping with fmt.Errorf and %w.
package apperrors
