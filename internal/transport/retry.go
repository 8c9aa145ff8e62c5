package transport

import (
	"errors"
	"net"
	"time"
)

const (
	// Transient connection faults get exactly one local retry after a
	// short fixed pause. API-level rejections surface immediately.
	retryAttempts = 2
	retryDelay    = 500 * time.Millisecond
)

// withRetry runs fn up to attempts times, pausing delay between tries.
// fn reports whether its error is retryable.
func withRetry(attempts int, delay time.Duration, fn func() (retryable bool, err error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		retryable, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || i == attempts-1 {
			break
		}
		time.Sleep(delay)
	}
	return lastErr
}

// transientErr reports whether the failure looks like a dropped or stale
// connection rather than an API rejection.
func transientErr(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
