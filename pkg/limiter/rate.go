package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
)

// RateLimiter
// Shared admission gate in front of every outbound upstream request.
// Responsibilities:
// - Bookkeep the timestamps of requests issued in the trailing window
// - Hold a caller back until issuing one more request stays under the ceiling
// - Admit callers one at a time so concurrent callers cannot over-fill the window
type RateLimiter interface {
	// Acquire blocks until a request may be issued and records it.
	// It returns how long the caller was held back.
	Acquire(ctx context.Context) (time.Duration, error)
}

// SlidingWindowLimiter allows at most ceiling requests in any window-long
// interval. One instance is shared process-wide.
type SlidingWindowLimiter struct {
	// turn has capacity one; whoever holds the slot owns the critical section.
	turn chan struct{}

	mu         sync.Mutex
	ceiling    int
	window     time.Duration
	timestamps []time.Time
	clock      timeutil.Clock
	sleeper    timeutil.Sleeper
}

func NewSlidingWindowLimiter(ceiling int, window time.Duration) *SlidingWindowLimiter {
	if ceiling < 1 {
		ceiling = 1
	}
	return &SlidingWindowLimiter{
		turn:       make(chan struct{}, 1),
		ceiling:    ceiling,
		window:     window,
		timestamps: make([]time.Time, 0, ceiling),
		clock:      timeutil.RealClock{},
		sleeper:    timeutil.RealSleeper{},
	}
}

// SetClock allows injecting a custom clock for testing
func (l *SlidingWindowLimiter) SetClock(clock timeutil.Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
}

// SetSleeper allows injecting a custom sleeper for testing
func (l *SlidingWindowLimiter) SetSleeper(sleeper timeutil.Sleeper) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sleeper = sleeper
}

func (l *SlidingWindowLimiter) Acquire(ctx context.Context) (time.Duration, error) {
	select {
	case l.turn <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { <-l.turn }()

	var waited time.Duration
	for {
		wait, admitted := l.tryRecord()
		if admitted {
			return waited, nil
		}

		l.mu.Lock()
		sleeper := l.sleeper
		l.mu.Unlock()

		if err := sleeper.Sleep(ctx, wait); err != nil {
			return waited, err
		}
		waited += wait
	}
}

// tryRecord prunes expired timestamps and records a new one if the window has
// room. Otherwise it returns how long until the oldest timestamp expires.
func (l *SlidingWindowLimiter) tryRecord() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.prune(now)

	if len(l.timestamps) < l.ceiling {
		l.timestamps = append(l.timestamps, now)
		return 0, true
	}

	return l.timestamps[0].Add(l.window).Sub(now), false
}

// prune drops timestamps at least one window old. Caller must hold l.mu.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	keep := 0
	for keep < len(l.timestamps) && now.Sub(l.timestamps[keep]) >= l.window {
		keep++
	}
	if keep > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[keep:]...)
	}
}

// InWindow returns how many requests currently count against the ceiling.
func (l *SlidingWindowLimiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.clock.Now())
	return len(l.timestamps)
}

func (l *SlidingWindowLimiter) Ceiling() int {
	return l.ceiling
}

func (l *SlidingWindowLimiter) Window() time.Duration {
	return l.window
}
