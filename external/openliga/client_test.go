package openliga

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/platform/resilience"
)

const matchdataPayload = `[
  {
    "matchID": 64431,
    "matchDateTimeUTC": "2023-01-20T19:30:00Z",
    "matchIsFinished": true,
    "team1": {"teamName": "RB Leipzig"},
    "team2": {"teamName": "FC Bayern"},
    "location": {"locationCity": "Leipzig", "locationStadium": "Red Bull Arena"},
    "matchResults": [
      {"pointsTeam1": 1, "pointsTeam2": 1, "resultTypeID": 1},
      {"pointsTeam1": 1, "pointsTeam2": 1, "resultTypeID": 2}
    ]
  },
  {
    "matchID": 64432,
    "matchDateTimeUTC": "2023-01-21T14:30:00Z",
    "matchIsFinished": false,
    "team1": {"teamName": "Eintracht Frankfurt"},
    "team2": {"teamName": "Schalke 04"},
    "matchResults": []
  },
  {
    "matchID": 64433,
    "matchDateTimeUTC": "not-a-date",
    "team1": {"teamName": "A"},
    "team2": {"teamName": "B"}
  }
]`

func TestFetchEvents_NormalizesMatches(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" || got == "Go-http-client/1.1" {
			t.Errorf("expected a browser-like user agent, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(matchdataPayload))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		MatchdataURL:   srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	events, err := client.FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events (bad date dropped), got %d", len(events))
	}

	finished := events[0]
	if finished.HomeTeam != "RB Leipzig" || finished.AwayTeam != "FC Bayern" {
		t.Fatalf("unexpected teams: %+v", finished)
	}
	if finished.Status != schedule.StatusFinished || finished.Result != "1 : 1" {
		t.Fatalf("expected finished match with result, got %+v", finished)
	}
	if finished.Location != "Red Bull Arena Leipzig" {
		t.Fatalf("unexpected location %q", finished.Location)
	}

	upcoming := events[1]
	if upcoming.Status != schedule.StatusScheduled || upcoming.Result != "" {
		t.Fatalf("expected scheduled match without result, got %+v", upcoming)
	}
}

func TestFetchEvents_UpstreamErrorPropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		MatchdataURL:   srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if _, err := client.FetchEvents(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestFetchEvents_MissingURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false}})
	if _, err := client.FetchEvents(context.Background()); err == nil {
		t.Fatal("expected error when matchdata url is unset")
	}
}
