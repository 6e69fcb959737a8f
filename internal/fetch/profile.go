package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Profile scrape polling budget: 15 attempts, 10 seconds apart. A 202
// response means the scrape is still in progress on the provider side.
const (
	profileMaxAttempts = 15
	profileInterval    = 10 * time.Second
)

// ProfileClient fetches interviewer profiles from the scrape provider.
// The provider is synchronous-ish: it answers 200 with the profile once
// scraped, or 202 while the scrape is still running.
type ProfileClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	sleep   SleepFunc
}

// NewProfileClient creates a ProfileClient for the given provider endpoint.
func NewProfileClient(baseURL, apiKey string) *ProfileClient {
	return &ProfileClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// WithSleep overrides the poll pause, for tests.
func (c *ProfileClient) WithSleep(sleep SleepFunc) *ProfileClient {
	c.sleep = sleep
	return c
}

// Fetch retrieves the profile for a handle, polling through in-progress
// responses until the budget runs out.
func (c *ProfileClient) Fetch(ctx context.Context, handle string) *Outcome {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("id", handle)
	params.Set("type", "profile")
	params.Set("premium", "true")
	params.Set("fresh", "true")
	reqURL := c.baseURL + "?" + params.Encode()

	attempt := 0
	poller := &Poller{MaxAttempts: profileMaxAttempts, Interval: profileInterval, Sleep: c.sleep}
	return poller.Run(ctx, func(ctx context.Context) (bool, *Outcome, error) {
		attempt++
		fmt.Printf("Fetching profile %s (attempt %d)\n", handle, attempt)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return true, Failed(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return false, nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var payload any
			if err := json.Unmarshal(body, &payload); err != nil {
				payload = string(body)
			}
			return true, Completed(NormalizePayload(payload)), nil
		case http.StatusAccepted:
			// Scrape still in progress.
			return false, nil, nil
		default:
			return true, Failed(fmt.Sprintf("%d: %s", resp.StatusCode, body)), nil
		}
	})
}
