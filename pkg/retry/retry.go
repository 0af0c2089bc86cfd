package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted indicates MaxAttempts transient failures in a row.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy bounds a retry loop.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	// Zero means no limit.
	MaxAttempts int

	// Backoff computes the wait between attempts. Nil busy-polls.
	Backoff Backoff
}

// Unbounded is the policy that retries immediately and forever.
var Unbounded = Policy{}

// Retrier runs operations under a Policy.
type Retrier struct {
	Policy Policy

	// Transient reports whether err may be retried. Errors for which it
	// returns false are returned unchanged.
	Transient func(err error) bool

	// Sleep blocks between attempts when Policy.Backoff is set.
	// Defaults to time.Sleep.
	Sleep func(d time.Duration)

	// OnRetry, if set, is called before each retry with the number of the
	// attempt that failed.
	OnRetry func(attempt int, err error)
}

// Do calls op until it succeeds, fails permanently, the policy gives up, or
// ctx is done. The context is checked before every attempt.
func (r *Retrier) Do(ctx context.Context, op func() error) error {
	if r.Policy.Backoff != nil {
		r.Policy.Backoff.Reset()
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil {
			return nil
		}
		if r.Transient == nil || !r.Transient(err) {
			return err
		}
		if r.Policy.MaxAttempts > 0 && attempt >= r.Policy.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		if r.OnRetry != nil {
			r.OnRetry(attempt, err)
		}
		if r.Policy.Backoff != nil {
			r.sleep(r.Policy.Backoff.Next())
		}
	}
}

func (r *Retrier) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}
