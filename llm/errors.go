package llm

import (
	"errors"
)

// Completion errors are classified at the HTTP boundary so the retry loop
// never inspects status codes itself: transient failures (rate limits,
// upstream hiccups) are retried with backoff, fatal ones (bad credentials,
// malformed requests) abort the turn immediately.

// TransientError marks a failure that may succeed on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }
func (e *TransientError) Unwrap() error { return e.err }

// NewTransientError wraps err as retryable.
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError marks a failure that retrying cannot fix.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }
func (e *FatalError) Unwrap() error { return e.err }

// NewFatalError wraps err as non-retryable.
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal reports whether err should abort without further attempts.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
