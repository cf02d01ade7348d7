package udp

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff shapes the delay between resends of an unanswered command.
type Backoff struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// DefaultBackoff is used when a Client enables retries without a Backoff.
var DefaultBackoff = Backoff{
	InitialDelay: 100 * time.Millisecond,
	Multiplier:   2.0,
	MaxDelay:     2 * time.Second,
	Jitter:       true,
}

// Delay returns the wait before resend number attempt (1-based).
func (b Backoff) Delay(attempt int, rng *rand.Rand) time.Duration {
	if b.InitialDelay <= 0 {
		return 0
	}
	mult := b.Multiplier
	if mult < 1.0 {
		mult = 1.0
	}
	delay := float64(b.InitialDelay)
	if attempt > 1 {
		delay *= math.Pow(mult, float64(attempt-1))
	}
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	if b.Jitter {
		f := 0.5
		if rng != nil {
			f += rng.Float64()
		}
		delay *= f
	}
	return time.Duration(delay)
}
