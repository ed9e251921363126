package backoff

import (
	"context"
	"time"
)

// Backoff sleeps for exponentially growing periods, capped at limit.
// NextDuration is exported so supervisors can log the coming wait.
type Backoff struct {
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
}

func NewExponential(start, limit time.Duration) *Backoff {
	b := &Backoff{start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.NextDuration = b.start
}

// Backoff sleeps for NextDuration, then doubles it for the next round.
// Returns the context error when ctx is cancelled mid sleep.
func (b *Backoff) Backoff(ctx context.Context) error {
	sleepCtx, cancelSleep := context.WithTimeout(ctx, b.NextDuration)
	defer cancelSleep()
	<-sleepCtx.Done()
	if sleepCtx.Err() != context.DeadlineExceeded {
		return sleepCtx.Err()
	}

	b.NextDuration *= 2
	if b.limit > 0 && b.NextDuration > b.limit {
		b.NextDuration = b.limit
	}
	return nil
}
