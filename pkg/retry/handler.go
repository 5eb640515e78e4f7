package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
)

// Retry executes fn up to MaxAttempts times. fn receives the 1-based attempt
// number. Only retryable errors trigger another attempt.
//
// Between attempts Retry waits either for the duration an error asks for
// through RetryAfterHint, or for the exponential backoff of the number of
// failures so far. No wait follows the final attempt. A context that ends
// during a wait stops the loop with an ErrCancelled RetryError.
//
// Type parameter T represents the return type of the function being retried.
func Retry[T any](
	ctx context.Context,
	sleeper timeutil.Sleeper,
	retryParam RetryParam,
	fn func(attempt int) (T, failure.ClassifiedError),
) Result[T] {
	if retryParam.MaxAttempts < 1 {
		return Result[T]{
			err: &RetryError{
				Message:   "max attempt cannot be 0",
				Cause:     ErrZeroAttempt,
				Retryable: true,
			},
		}
	}

	rng := rand.New(rand.NewSource(retryParam.RandomSeed))

	var (
		lastErr failure.ClassifiedError
		waits   []time.Duration
	)

	for attempt := 1; attempt <= retryParam.MaxAttempts; attempt++ {
		value, err := fn(attempt)
		if err == nil {
			return Result[T]{value: value, attempts: attempt, waits: waits}
		}

		lastErr = err

		if !isErrorRetryable(err) {
			return Result[T]{err: err, attempts: attempt, waits: waits}
		}

		if attempt == retryParam.MaxAttempts {
			break
		}

		delay := nextDelay(err, attempt, retryParam, rng)
		waits = append(waits, delay)

		if sleepErr := sleeper.Sleep(ctx, delay); sleepErr != nil {
			return Result[T]{
				err: &RetryError{
					Message: fmt.Sprintf("stopped after %d attempts: %v", attempt, sleepErr),
					Cause:   ErrCancelled,
					LastErr: lastErr,
				},
				attempts: attempt,
				waits:    waits,
			}
		}
	}

	return Result[T]{
		err: &RetryError{
			Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", retryParam.MaxAttempts, lastErr),
			Cause:     ErrExhaustedAttempts,
			Retryable: true,
			LastErr:   lastErr,
		},
		attempts: retryParam.MaxAttempts,
		waits:    waits,
	}
}

// nextDelay picks the wait that follows the given number of failures.
func nextDelay(err failure.ClassifiedError, failures int, retryParam RetryParam, rng *rand.Rand) time.Duration {
	var hint RetryAfterHint
	if errors.As(err, &hint) {
		if d, ok := hint.RetryAfter(); ok {
			return d
		}
	}
	// failures counts from 1, and the first retry already sits one step up
	// the curve: initial * multiplier^failures.
	return timeutil.ExponentialBackoffDelay(
		failures+1,
		retryParam.Jitter,
		rng,
		retryParam.BackoffParam,
	)
}

// isErrorRetryable defaults to retrying errors that carry no retry flag.
func isErrorRetryable(err failure.ClassifiedError) bool {
	var r failure.Retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return true
}
