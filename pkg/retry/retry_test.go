package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

func isBusy(err error) bool { return errors.Is(err, errBusy) }

// failing returns an op that fails with err the first n calls.
func failing(n int, err error) (func() error, *int) {
	calls := 0
	return func() error {
		calls++
		if calls <= n {
			return err
		}
		return nil
	}, &calls
}

func TestDoSucceedsFirstTry(t *testing.T) {
	r := &Retrier{Transient: isBusy}
	op, calls := failing(0, errBusy)

	require.NoError(t, r.Do(context.Background(), op))
	assert.Equal(t, 1, *calls)
}

func TestDoUnboundedRetriesUntilSuccess(t *testing.T) {
	var retries []int
	r := &Retrier{
		Policy:    Unbounded,
		Transient: isBusy,
		OnRetry:   func(attempt int, _ error) { retries = append(retries, attempt) },
		Sleep:     func(time.Duration) { t.Fatal("unbounded policy must not sleep") },
	}
	op, calls := failing(1000, errBusy)

	require.NoError(t, r.Do(context.Background(), op))
	assert.Equal(t, 1001, *calls)
	assert.Len(t, retries, 1000)
	assert.Equal(t, 1, retries[0])
}

func TestDoPermanentErrorNotRetried(t *testing.T) {
	hard := errors.New("nack")
	r := &Retrier{Transient: isBusy}
	op, calls := failing(5, hard)

	err := r.Do(context.Background(), op)
	assert.Same(t, hard, err)
	assert.Equal(t, 1, *calls)
}

func TestDoNilTransientNeverRetries(t *testing.T) {
	r := &Retrier{}
	op, calls := failing(5, errBusy)

	assert.ErrorIs(t, r.Do(context.Background(), op), errBusy)
	assert.Equal(t, 1, *calls)
}

func TestDoMaxAttempts(t *testing.T) {
	r := &Retrier{Policy: Policy{MaxAttempts: 3}, Transient: isBusy}
	op, calls := failing(10, errBusy)

	err := r.Do(context.Background(), op)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 3, *calls)
}

func TestDoBackoffSleeps(t *testing.T) {
	var slept []time.Duration
	r := &Retrier{
		Policy:    Policy{Backoff: NewExponentialBackoff(time.Millisecond, 4*time.Millisecond)},
		Transient: isBusy,
		Sleep:     func(d time.Duration) { slept = append(slept, d) },
	}
	op, _ := failing(4, errBusy)

	require.NoError(t, r.Do(context.Background(), op))
	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond,
	}, slept)

	// A second run starts the sequence over.
	slept = nil
	op, _ = failing(1, errBusy)
	require.NoError(t, r.Do(context.Background(), op))
	assert.Equal(t, []time.Duration{time.Millisecond}, slept)
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Retrier{
		Transient: isBusy,
		OnRetry: func(attempt int, _ error) {
			if attempt == 2 {
				cancel()
			}
		},
	}
	op, calls := failing(100, errBusy)

	err := r.Do(ctx, op)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, *calls)
}

func TestConstantBackoff(t *testing.T) {
	b := ConstantBackoff{Interval: 3 * time.Millisecond}
	assert.Equal(t, 3*time.Millisecond, b.Next())
	b.Reset()
	assert.Equal(t, 3*time.Millisecond, b.Next())
}
