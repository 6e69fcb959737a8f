// Package fetch provides clients for asynchronous research providers:
// submit a request, then poll within a bounded attempt budget. Every fetch
// resolves to a structured Outcome; callers decide whether a failure is
// fatal for their stage.
package fetch

import (
	"fmt"
	"time"
)

// DefaultTimeout is the per-request HTTP timeout for provider calls.
const DefaultTimeout = 60 * time.Second

// OutcomeStatus classifies how a fetch terminated.
type OutcomeStatus string

const (
	// OutcomeCompleted means the provider returned a payload.
	OutcomeCompleted OutcomeStatus = "completed"
	// OutcomeFailed means the provider returned a non-retryable failure.
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeTimedOut means the attempt budget was exhausted.
	OutcomeTimedOut OutcomeStatus = "timed_out"
)

// Outcome is the terminal result of a provider fetch. Exactly one of the
// three statuses applies; Payload is set only on completion.
type Outcome struct {
	Status  OutcomeStatus
	Payload map[string]any
	Detail  string
}

// Success reports whether the fetch completed with a payload.
func (o *Outcome) Success() bool {
	return o.Status == OutcomeCompleted
}

// Completed builds a success outcome.
func Completed(payload map[string]any) *Outcome {
	return &Outcome{Status: OutcomeCompleted, Payload: payload}
}

// Failed builds a hard-failure outcome.
func Failed(detail string) *Outcome {
	return &Outcome{Status: OutcomeFailed, Detail: detail}
}

// TimedOut builds a budget-exhausted outcome.
func TimedOut(detail string) *Outcome {
	return &Outcome{Status: OutcomeTimedOut, Detail: detail}
}

// Error represents a transport-level error during a provider call.
type Error struct {
	URL       string
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
