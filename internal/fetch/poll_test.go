package fetch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noSleep records requested pauses without waiting.
func noSleep(slept *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestPoller_CompletesOnFirstAttempt(t *testing.T) {
	var slept []time.Duration
	p := &Poller{MaxAttempts: 5, Interval: time.Second, Sleep: noSleep(&slept)}

	outcome := p.Run(context.Background(), func(_ context.Context) (bool, *Outcome, error) {
		return true, Completed(map[string]any{"k": "v"}), nil
	})

	require.True(t, outcome.Success())
	assert.Empty(t, slept, "no pause when the first attempt completes")
}

func TestPoller_InProgressThenCompleted(t *testing.T) {
	var slept []time.Duration
	p := &Poller{MaxAttempts: 5, Interval: 2 * time.Second, Sleep: noSleep(&slept)}

	calls := 0
	outcome := p.Run(context.Background(), func(_ context.Context) (bool, *Outcome, error) {
		calls++
		if calls < 3 {
			return false, nil, nil
		}
		return true, Completed(map[string]any{"done": true}), nil
	})

	require.True(t, outcome.Success())
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestPoller_BudgetExhaustionIsTimeout(t *testing.T) {
	var slept []time.Duration
	p := &Poller{MaxAttempts: 4, Interval: time.Second, Sleep: noSleep(&slept)}

	calls := 0
	outcome := p.Run(context.Background(), func(_ context.Context) (bool, *Outcome, error) {
		calls++
		return false, nil, nil // provider always in-progress
	})

	assert.Equal(t, OutcomeTimedOut, outcome.Status)
	assert.Equal(t, 4, calls, "attempt budget is a hard bound")
	assert.Len(t, slept, 3, "no pause after the final attempt")
	assert.Contains(t, outcome.Detail, "4 attempts")
}

func TestPoller_HardFailureStopsImmediately(t *testing.T) {
	p := &Poller{MaxAttempts: 10, Interval: time.Second, Sleep: noSleep(new([]time.Duration))}

	calls := 0
	outcome := p.Run(context.Background(), func(_ context.Context) (bool, *Outcome, error) {
		calls++
		return true, Failed("403: forbidden"), nil
	})

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Equal(t, "403: forbidden", outcome.Detail)
	assert.Equal(t, 1, calls)
}

func TestPoller_TransientErrorsRetriedThenSurfaced(t *testing.T) {
	p := &Poller{MaxAttempts: 3, Interval: time.Second, Sleep: noSleep(new([]time.Duration))}

	outcome := p.Run(context.Background(), func(_ context.Context) (bool, *Outcome, error) {
		return false, nil, fmt.Errorf("connection reset")
	})

	assert.Equal(t, OutcomeTimedOut, outcome.Status)
	assert.Contains(t, outcome.Detail, "connection reset")
}

func TestPoller_ContextCanceledDuringPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{MaxAttempts: 5, Interval: time.Millisecond}

	calls := 0
	outcome := p.Run(ctx, func(_ context.Context) (bool, *Outcome, error) {
		calls++
		cancel()
		return false, nil, nil
	})

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Equal(t, 1, calls)
}

func TestContextSleep(t *testing.T) {
	err := ContextSleep(context.Background(), time.Millisecond)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ContextSleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
