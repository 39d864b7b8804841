package classify

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Backoff retries an operation with exponential delay and jitter. Tuned for
// LLM calls, which are slow and intermittently rate-limited.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

func DefaultBackoff() Backoff {
	return Backoff{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Retry runs op until it succeeds, attempts are exhausted, or the context is
// cancelled. The last error is returned.
func (b Backoff) Retry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := b.delayFor(attempt)
			log.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying classifier call")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (b Backoff) delayFor(attempt int) time.Duration {
	delay := time.Duration(float64(b.BaseDelay) * math.Pow(b.Multiplier, float64(attempt-1)))
	if delay > b.MaxDelay {
		delay = b.MaxDelay
	}
	if b.Jitter {
		delay += time.Duration(rand.Int63n(int64(delay)/4 + 1))
	}
	return delay
}
