package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"briefcast/internal/failure"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(
		Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"},
		WithRetryBackoff(3, time.Millisecond, 5*time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
	return client, server
}

func TestCompleteReturnsContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	})

	content, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "hello" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestCompleteToleratesDeltaSchema(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"delta":{"content":"streamed"}}]}`))
	})

	content, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "streamed" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	})

	content, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "recovered" || calls.Load() != 3 {
		t.Fatalf("expected recovery on third attempt, got %q after %d calls", content, calls.Load())
	}
}

func TestCompleteClassifiesTerminalStatuses(t *testing.T) {
	cases := []struct {
		status int
		marker error
	}{
		{http.StatusUnauthorized, failure.ErrAuthFailed},
		{http.StatusForbidden, failure.ErrAuthFailed},
		{http.StatusPaymentRequired, failure.ErrQuotaExhausted},
		{http.StatusTooManyRequests, failure.ErrRateLimited},
	}
	for _, tc := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := client.Complete(context.Background(), "system", "user")
		if !errors.Is(err, tc.marker) {
			t.Errorf("status %d: expected %v in chain, got %v", tc.status, tc.marker, err)
		}
	}
}

func TestCompleteHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	var slept time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()
	client := NewClient(
		Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryBackoff(2, time.Millisecond, 10*time.Second),
		WithSleeper(func(d time.Duration) { slept = d }),
	)

	if _, err := client.Complete(context.Background(), "system", "user"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("expected Retry-After delay of 2s, slept %s", slept)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Value string `json:"value"`
	}
	cases := []string{
		`{"value":"x"}`,
		"```json\n{\"value\":\"x\"}\n```",
		"Here is the result:\n{\"value\":\"x\"}\nDone.",
	}
	for _, content := range cases {
		var got payload
		if err := DecodeJSON(content, &got); err != nil {
			t.Errorf("DecodeJSON(%q) failed: %v", content, err)
			continue
		}
		if got.Value != "x" {
			t.Errorf("DecodeJSON(%q) = %q", content, got.Value)
		}
	}
	var got payload
	if err := DecodeJSON("no json here", &got); err == nil {
		t.Error("expected error for non-JSON content")
	}
}
