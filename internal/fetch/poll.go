package fetch

import (
	"context"
	"fmt"
	"time"
)

// SleepFunc pauses between poll attempts. Injected so tests run without
// real sleeps.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep sleeps for d or until ctx is done, whichever comes first.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AttemptFunc performs one poll attempt. done=true ends the loop with the
// given outcome (completed or failed). done=false with a nil error means
// the provider signaled in-progress; a non-nil error is a transient
// transport failure. Both pause for the interval and retry.
type AttemptFunc func(ctx context.Context) (done bool, outcome *Outcome, err error)

// Poller runs a bounded poll loop. Total wait is hard-bounded by
// MaxAttempts × Interval; exhausting the budget yields a timeout outcome,
// never an unbounded block.
type Poller struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       SleepFunc
}

// Run executes attempts until one terminates, the budget is exhausted, or
// the context ends during a pause. It always returns a well-formed Outcome.
func (p *Poller) Run(ctx context.Context, attempt AttemptFunc) *Outcome {
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	var lastErr error
	for i := 0; i < p.MaxAttempts; i++ {
		done, outcome, err := attempt(ctx)
		if done {
			return outcome
		}
		if err != nil {
			lastErr = err
		}

		// No pause after the final attempt; the budget is spent.
		if i == p.MaxAttempts-1 {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return Failed(fmt.Sprintf("poll interrupted: %v", err))
		}
	}

	detail := fmt.Sprintf("no result after %d attempts", p.MaxAttempts)
	if lastErr != nil {
		detail = fmt.Sprintf("%s (last error: %v)", detail, lastErr)
	}
	return TimedOut(detail)
}
