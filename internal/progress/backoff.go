package progress

import "time"

const (
	initialDelay = 1000 * time.Millisecond
	maxDelay     = 30000 * time.Millisecond
)

// Backoff computes reconnection delays: 1s doubling per consecutive failure,
// capped at 30s. Reset returns to the initial delay and is called only after
// a successful stream open.
type Backoff struct {
	delay time.Duration
}

// NewBackoff returns a Backoff primed at the initial delay.
func NewBackoff() *Backoff {
	return &Backoff{delay: initialDelay}
}

// Next returns the delay to wait before the next reconnection attempt and
// advances the sequence.
func (b *Backoff) Next() time.Duration {
	d := b.delay
	b.delay *= 2
	if b.delay > maxDelay {
		b.delay = maxDelay
	}
	return d
}

// Reset restores the initial delay.
func (b *Backoff) Reset() {
	b.delay = initialDelay
}
