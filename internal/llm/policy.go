package llm

import (
	"context"
	"time"
)

// Policy bounds retries around an external call. Attempt errors are passed to
// Retryable; a nil predicate retries everything. Backoff returns the delay
// before the given attempt number (1-based); a nil Backoff retries
// immediately, matching the source system's behavior.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(error) bool
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy is the bounded-attempt contract used by every LLM call path:
// three attempts, no delay between them, every failure retried.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3}
}

// Do runs fn up to MaxAttempts times and returns the last error when the
// budget is exhausted. attempt is 1-based so callers can log it directly.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if p.Backoff != nil {
			if err := p.sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
