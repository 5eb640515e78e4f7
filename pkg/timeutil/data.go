package timeutil

import "time"

// BackoffParam describes an exponential backoff curve:
// delay(n) = initialDuration * multiplier^(n-1), capped at maxDuration.
//
//	NewBackoffParam(1*time.Second, 2.0, 10*time.Second) // 1s, 2s, 4s, 8s, 10s, 10s...
type BackoffParam struct {
	initialDuration time.Duration
	multiplier      float64
	maxDuration     time.Duration
}

func NewBackoffParam(
	initialDuration time.Duration,
	multiplier float64,
	maxDuration time.Duration,
) BackoffParam {
	return BackoffParam{
		initialDuration: initialDuration,
		multiplier:      multiplier,
		maxDuration:     maxDuration,
	}
}

func (b BackoffParam) InitialDuration() time.Duration {
	return b.initialDuration
}

func (b BackoffParam) Multiplier() float64 {
	return b.multiplier
}

func (b BackoffParam) MaxDuration() time.Duration {
	return b.maxDuration
}
