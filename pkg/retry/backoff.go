package retry

import "time"

// Backoff yields the wait before each retry.
type Backoff interface {
	Next() time.Duration
	Reset()
}

// ConstantBackoff waits the same duration before every retry.
type ConstantBackoff struct {
	Interval time.Duration
}

// Next returns the fixed interval.
func (b ConstantBackoff) Next() time.Duration { return b.Interval }

// Reset is a no-op.
func (ConstantBackoff) Reset() {}

// ExponentialBackoff doubles the wait after every retry up to a ceiling.
type ExponentialBackoff struct {
	base time.Duration
	max  time.Duration
	curr time.Duration
}

// NewExponentialBackoff creates a backoff starting at base and capped at max.
func NewExponentialBackoff(base, max time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{base: base, max: max}
}

// Next returns the next wait.
func (b *ExponentialBackoff) Next() time.Duration {
	if b.curr == 0 {
		b.curr = b.base
	} else {
		b.curr *= 2
		if b.curr > b.max {
			b.curr = b.max
		}
	}
	return b.curr
}

// Reset starts the sequence over.
func (b *ExponentialBackoff) Reset() {
	b.curr = 0
}
