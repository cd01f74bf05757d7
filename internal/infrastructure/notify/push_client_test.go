package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fbet-app/fbet/internal/platform/resilience"
	"github.com/fbet-app/fbet/internal/usecase"
)

func TestPushClient_Notify_SendsMessage(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Pointer[string]
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		body := string(raw)
		gotBody.Store(&body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewPushClient(PushClientConfig{BaseURL: server.URL, Token: "secret"}, nil)

	err := client.Notify(context.Background(), 42, usecase.Notification{
		Title: "You took the lead!",
		Body:  "First place is yours.",
		URL:   "/groups/3/highscore",
	})
	if err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	body := gotBody.Load()
	if body == nil {
		t.Fatal("gateway never received a request")
	}
	want := `{"user_id":42,"title":"You took the lead!","body":"First place is yours.","url":"/groups/3/highscore"}`
	if *body != want {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", *body, want)
	}
}

func TestPushClient_Notify_GatewayErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewPushClient(PushClientConfig{BaseURL: server.URL}, nil)

	if err := client.Notify(context.Background(), 42, usecase.Notification{Title: "t"}); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestPushClient_Notify_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPushClient(PushClientConfig{
		BaseURL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	for i := 0; i < 2; i++ {
		if err := client.Notify(context.Background(), 1, usecase.Notification{Title: "t"}); err == nil {
			t.Fatal("expected error while tripping the breaker")
		}
	}
	if err := client.Notify(context.Background(), 1, usecase.Notification{Title: "t"}); err == nil {
		t.Fatal("expected open circuit to reject the call")
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("open circuit must not reach the gateway, got %d hits", got)
	}
}
