package udp

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danmuck/animus/internal/testutil/testlog"
)

func TestBackoffDelayNoJitter(t *testing.T) {
	testlog.Start(t)

	b := Backoff{InitialDelay: 100 * time.Millisecond, Multiplier: 2, MaxDelay: time.Second}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond, time.Second, time.Second}
	for i, w := range want {
		assert.Equal(t, w, b.Delay(i+1, nil), "attempt %d", i+1)
	}
}

func TestBackoffDelayJitterBounds(t *testing.T) {
	testlog.Start(t)

	b := Backoff{InitialDelay: 100 * time.Millisecond, Multiplier: 2, Jitter: true}
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		got := b.Delay(2, rng)
		assert.GreaterOrEqual(t, got, 100*time.Millisecond)
		assert.Less(t, got, 300*time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, b.Delay(1, nil))
}

func TestBackoffZeroInitialDelay(t *testing.T) {
	testlog.Start(t)

	assert.Zero(t, Backoff{Multiplier: 3}.Delay(4, nil))
}
