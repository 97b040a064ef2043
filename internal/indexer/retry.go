package indexer

import (
	"context"
	"fmt"
	"time"
)

// maxRetryDelay caps the doubling backoff so a long retry budget does not
// end up sleeping for minutes between single-block lookups.
const maxRetryDelay = 30 * time.Second

// withRetry runs fn until it succeeds or the attempt budget is spent,
// doubling the wait between attempts up to maxRetryDelay. Used for
// single-block lookups; getLogs failures are handled by chunk shrinking
// instead.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var err error
	for left, delay := maxRetries, baseDelay; ; left-- {
		if err = fn(ctx); err == nil {
			return nil
		}
		if left <= 0 {
			if maxRetries > 0 {
				return fmt.Errorf("after %d attempts: %w", maxRetries+1, err)
			}
			return err
		}

		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
