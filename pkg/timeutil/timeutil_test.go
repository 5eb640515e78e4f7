package timeutil

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxDuration(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
		want      time.Duration
	}{
		{
			name:      "multiple values returns maximum",
			durations: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 200 * time.Millisecond},
			want:      500 * time.Millisecond,
		},
		{
			name:      "empty slice returns zero",
			durations: []time.Duration{},
			want:      0,
		},
		{
			name:      "all negative returns least negative",
			durations: []time.Duration{-100 * time.Millisecond, -50 * time.Millisecond},
			want:      -50 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxDuration(tt.durations))
		})
	}
}

func TestDurationPtr(t *testing.T) {
	ptr := DurationPtr(5 * time.Second)
	require.NotNil(t, ptr)
	assert.Equal(t, 5*time.Second, *ptr)
}

func TestComputeJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	assert.Zero(t, ComputeJitter(0, rng))
	assert.Zero(t, ComputeJitter(-time.Second, rng))

	for i := 0; i < 100; i++ {
		got := ComputeJitter(time.Second, rng)
		assert.GreaterOrEqual(t, got, time.Duration(0))
		assert.Less(t, got, time.Second)
	}
}

func TestComputeJitter_AdvancesSharedSource(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	seen := map[time.Duration]bool{}
	for i := 0; i < 10; i++ {
		seen[ComputeJitter(time.Hour, rng)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestExponentialBackoffDelay(t *testing.T) {
	upstream := NewBackoffParam(1*time.Second, 2.0, 10*time.Second)

	tests := []struct {
		name         string
		backoffCount int
		param        BackoffParam
		want         time.Duration
	}{
		{name: "first backoff is the initial duration", backoffCount: 1, param: upstream, want: 1 * time.Second},
		{name: "second backoff doubles", backoffCount: 2, param: upstream, want: 2 * time.Second},
		{name: "third backoff quadruples", backoffCount: 3, param: upstream, want: 4 * time.Second},
		{name: "capped at max", backoffCount: 10, param: upstream, want: 10 * time.Second},
		{name: "zero count treated as first", backoffCount: 0, param: upstream, want: 1 * time.Second},
		{name: "negative count treated as first", backoffCount: -3, param: upstream, want: 1 * time.Second},
		{name: "zero initial duration", backoffCount: 5, param: NewBackoffParam(0, 2.0, 30*time.Second), want: 0},
		{name: "multiplier of one never grows", backoffCount: 5, param: NewBackoffParam(time.Second, 1.0, 30*time.Second), want: time.Second},
		{name: "zero max means uncapped", backoffCount: 6, param: NewBackoffParam(time.Second, 2.0, 0), want: 32 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExponentialBackoffDelay(tt.backoffCount, 0, rand.New(rand.NewSource(1)), tt.param)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExponentialBackoffDelay_JitterStaysInRange(t *testing.T) {
	param := NewBackoffParam(1*time.Second, 2.0, 30*time.Second)
	rng := rand.New(rand.NewSource(42))
	jitter := 50 * time.Millisecond

	for i := 0; i < 500; i++ {
		got := ExponentialBackoffDelay(3, jitter, rng, param)
		assert.GreaterOrEqual(t, got, 4*time.Second)
		assert.Less(t, got, 4*time.Second+jitter)
	}
}

func TestRealSleeper_Sleep(t *testing.T) {
	t.Run("zero duration returns immediately", func(t *testing.T) {
		assert.NoError(t, RealSleeper{}.Sleep(context.Background(), 0))
	})

	t.Run("elapses the requested duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, RealSleeper{}.Sleep(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled context interrupts the sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := RealSleeper{}.Sleep(ctx, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
