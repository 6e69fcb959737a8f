package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Task-run polling budget: 30 attempts, 2 seconds apart.
const (
	taskRunMaxAttempts = 30
	taskRunInterval    = 2 * time.Second
)

// TaskClient fetches company research from the asynchronous task-run
// provider: one submit call creates a run, then the result endpoint is
// polled until output appears.
type TaskClient struct {
	baseURL   string
	apiKey    string
	processor string
	client    *http.Client
	sleep     SleepFunc
}

// NewTaskClient creates a TaskClient for the given provider endpoint.
func NewTaskClient(baseURL, apiKey string) *TaskClient {
	return &TaskClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		processor: "lite",
		client:    &http.Client{Timeout: DefaultTimeout},
	}
}

// WithSleep overrides the poll pause, for tests.
func (c *TaskClient) WithSleep(sleep SleepFunc) *TaskClient {
	c.sleep = sleep
	return c
}

type taskRunCreated struct {
	RunID string `json:"run_id"`
}

type taskRunResult struct {
	Status string `json:"status,omitempty"`
	Output any    `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Submit creates a task run for the given research input and returns its run ID.
func (c *TaskClient) Submit(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"input":     input,
		"processor": c.processor,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal task request: %w", err)
	}

	url := c.baseURL + "/runs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{URL: url, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{URL: url, Message: "HTTP request failed", Retryable: true, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: url, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &Error{URL: url, Message: fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, respBody)}
	}

	var created taskRunCreated
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", &Error{URL: url, Message: "malformed create response", Cause: err}
	}
	if created.RunID == "" {
		return "", &Error{URL: url, Message: "create response missing run_id"}
	}
	return created.RunID, nil
}

// Await polls the run's result endpoint until output appears, a hard
// failure is returned, or the attempt budget runs out.
func (c *TaskClient) Await(ctx context.Context, runID string) *Outcome {
	url := fmt.Sprintf("%s/runs/%s/result", c.baseURL, runID)

	poller := &Poller{MaxAttempts: taskRunMaxAttempts, Interval: taskRunInterval, Sleep: c.sleep}
	return poller.Run(ctx, func(ctx context.Context) (bool, *Outcome, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return true, Failed(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			// Transport hiccups are retried within the budget.
			return false, nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return true, Failed(fmt.Sprintf("%d: %s", resp.StatusCode, body)), nil
		}

		var result taskRunResult
		if err := json.Unmarshal(body, &result); err != nil {
			return true, Failed(fmt.Sprintf("malformed result payload: %v", err)), nil
		}
		if result.Error != "" {
			return true, Failed(result.Error), nil
		}
		if result.Output == nil {
			// Still running.
			return false, nil, nil
		}
		return true, Completed(NormalizePayload(result.Output)), nil
	})
}

// Research submits a task run and awaits its result.
func (c *TaskClient) Research(ctx context.Context, input string) *Outcome {
	runID, err := c.Submit(ctx, input)
	if err != nil {
		return Failed(fmt.Sprintf("task submit failed: %v", err))
	}
	return c.Await(ctx, runID)
}
