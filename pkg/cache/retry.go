package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a backend (Redis, MongoDB) that could not be reached.
var ErrUnavailable = errors.New("backend unavailable")

// RetryableError marks a failure worth another attempt, such as a refused
// connection during startup.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so [RetryWithBackoff] tries again. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

var (
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns an error that is
// not retryable, or runs out of attempts. The wait doubles after each
// failure and is cut short by ctx.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
