package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "jdoe", q.Get("id"))
		assert.Equal(t, "profile", q.Get("type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"headline": "Engineering Manager",
			"skills":   []any{"Go", "Distributed Systems"},
		})
	}))
	defer server.Close()

	client := NewProfileClient(server.URL, "test-key").WithSleep(instantSleep)
	outcome := client.Fetch(context.Background(), "jdoe")

	require.True(t, outcome.Success())
	assert.Equal(t, "Engineering Manager", outcome.Payload["headline"])
}

func TestProfileClient_Fetch_AcceptedThenReady(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 4 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"headline": "Staff Engineer"})
	}))
	defer server.Close()

	client := NewProfileClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Fetch(context.Background(), "jdoe")

	require.True(t, outcome.Success())
	assert.Equal(t, "Staff Engineer", outcome.Payload["headline"])
	assert.EqualValues(t, 4, calls)
}

func TestProfileClient_Fetch_AlwaysAcceptedTimesOut(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewProfileClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Fetch(context.Background(), "jdoe")

	assert.Equal(t, OutcomeTimedOut, outcome.Status)
	assert.EqualValues(t, profileMaxAttempts, calls)
}

func TestProfileClient_Fetch_ProviderErrorIsHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "profile not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewProfileClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Fetch(context.Background(), "ghost")

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Detail, "404")
}

func TestProfileClient_Fetch_NonJSONBodyWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("plain text profile dump"))
	}))
	defer server.Close()

	client := NewProfileClient(server.URL, "k").WithSleep(instantSleep)
	outcome := client.Fetch(context.Background(), "jdoe")

	require.True(t, outcome.Success())
	assert.Equal(t, "plain text profile dump", outcome.Payload[RawOutputKey])
}
