package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantSleep(_ context.Context, _ time.Duration) error { return nil }

func TestTaskClient_Research_Success(t *testing.T) {
	var resultCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/runs":
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "lite", body["processor"])
			_ = json.NewEncoder(w).Encode(map[string]string{"run_id": "run-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/runs/run-1/result":
			// In-progress twice, then output.
			if atomic.AddInt32(&resultCalls, 1) < 3 {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "running"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"output": map[string]any{"industry": "SaaS", "content": "Acme overview"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewTaskClient(server.URL, "test-key").WithSleep(instantSleep)
	outcome := client.Research(context.Background(), "Research the company Acme.")

	require.True(t, outcome.Success())
	assert.Equal(t, "SaaS", outcome.Payload["industry"])
	assert.EqualValues(t, 3, resultCalls)
}

func TestTaskClient_Await_StringOutputNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output": `{"culture":"remote-first"}`})
	}))
	defer server.Close()

	client := NewTaskClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Await(context.Background(), "run-9")

	require.True(t, outcome.Success())
	assert.Equal(t, "remote-first", outcome.Payload["culture"])
}

func TestTaskClient_Await_ProviderErrorIsHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "processor unavailable"})
	}))
	defer server.Close()

	client := NewTaskClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Await(context.Background(), "run-9")

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Equal(t, "processor unavailable", outcome.Detail)
}

func TestTaskClient_Await_AlwaysRunningTimesOut(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "running"})
	}))
	defer server.Close()

	client := NewTaskClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Await(context.Background(), "run-9")

	assert.Equal(t, OutcomeTimedOut, outcome.Status)
	assert.EqualValues(t, taskRunMaxAttempts, calls)
}

func TestTaskClient_Research_SubmitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewTaskClient(server.URL, "bad-key").WithSleep(instantSleep)
	outcome := client.Research(context.Background(), "Research Acme.")

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Detail, "task submit failed")
}
