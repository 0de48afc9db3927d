package retry

import (
	"context"
	"errors"
	"fmt"
)

// ErrAttemptsExhausted is wrapped into the error returned when every attempt hit a retryable failure.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Op runs one attempt against the given key.
type Op[T any] func(ctx context.Context, key string) (T, error)

// OnCollision runs op with a key from newKey, regenerating the key and trying again while
// shouldRetry reports the failure as a collision, up to maxAttempts in total. It returns the
// result together with the key of the attempt that succeeded. Non-retryable errors are returned
// immediately.
func OnCollision[T any](ctx context.Context, maxAttempts int, newKey func(attempt int) string, op Op[T], shouldRetry func(error) bool) (T, string, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		key := newKey(attempt)
		out, err := op(ctx, key)
		if err == nil {
			return out, key, nil
		}
		if !shouldRetry(err) {
			return zero, key, err
		}
		lastErr = err
	}

	return zero, "", fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, maxAttempts, lastErr)
}
