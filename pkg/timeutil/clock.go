package timeutil

import (
	"context"
	"time"
)

// Clock reports the current time. Tests replace it to make time-based
// behavior deterministic.
type Clock interface {
	Now() time.Time
}

// Sleeper blocks for a duration or until ctx is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type RealSleeper struct{}

// Sleep returns ctx.Err() if the context ends before d elapses.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
