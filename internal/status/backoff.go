package status

import (
	"context"
	"time"
)

// backoff doubles the delay per attempt, capped at max.
type backoff struct {
	initial time.Duration
	max     time.Duration
}

// delay before the given attempt (0-based).
func (b backoff) delay(attempt int) time.Duration {
	d := b.initial
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.max {
			return b.max
		}
	}
	if d > b.max {
		return b.max
	}
	return d
}

// sleep waits d or until ctx ends. It reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
