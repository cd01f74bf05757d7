// Package footdata fetches football fixtures from a footdata-style JSON API.
// Second football source behind the merge; its envelope differs from
// openliga's, so normalization happens here before events leave the package.
package footdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/platform/logging"
	"github.com/fbet-app/fbet/internal/platform/resilience"
)

const (
	sourceName     = "footdata"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20

	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

var errUpstream = crerr.New("footdata upstream failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	FixturesURL    string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	fixturesURL    string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		fixturesURL:    strings.TrimSpace(cfg.FixturesURL),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return sourceName
}

type fixturesEnvelope struct {
	Fixtures []fixtureItem `json:"fixtures"`
}

type fixtureItem struct {
	ID      int64      `json:"id"`
	Kickoff string     `json:"kickoff"`
	Home    string     `json:"home"`
	Away    string     `json:"away"`
	Status  string     `json:"status"`
	Venue   string     `json:"venue"`
	TV      string     `json:"tv"`
	Score   *scoreItem `json:"score"`
}

type scoreItem struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func (c *Client) FetchEvents(ctx context.Context) ([]schedule.Event, error) {
	if c.fixturesURL == "" {
		return nil, crerr.New("footdata fixtures url is not configured")
	}

	raw, err := c.fetch(ctx, c.fixturesURL)
	if err != nil {
		return nil, err
	}

	var envelope fixturesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode footdata payload")
	}

	events := make([]schedule.Event, 0, len(envelope.Fixtures))
	for _, item := range envelope.Fixtures {
		startsAt, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(item.Kickoff))
		if parseErr != nil {
			c.logger.WarnContext(ctx, "skip footdata fixture with bad kickoff time",
				"fixture_id", item.ID, "value", item.Kickoff, "error", parseErr)
			continue
		}

		home := strings.TrimSpace(item.Home)
		away := strings.TrimSpace(item.Away)
		if home == "" || away == "" {
			continue
		}

		event := schedule.Event{
			SourceID:    fmt.Sprintf("%s:%d", sourceName, item.ID),
			Title:       home + " - " + away,
			StartsAt:    startsAt.UTC(),
			HomeTeam:    home,
			AwayTeam:    away,
			Location:    strings.TrimSpace(item.Venue),
			Broadcaster: strings.TrimSpace(item.TV),
			Status:      schedule.NormalizeStatus(item.Status),
		}
		if event.Status == schedule.StatusFinished && item.Score != nil {
			event.Result = fmt.Sprintf("%d : %d", item.Score.Home, item.Score.Away)
		}

		events = append(events, event)
	}

	return events, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "footdata circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrap(err, "footdata is temporarily unavailable")
		}
	}

	out, err, _ := c.flight.Do(url, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, url)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(errUpstream, "send request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Wrapf(errUpstream, "read response body: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Wrapf(errUpstream, "status=%d", resp.StatusCode)
	}

	return raw, nil
}
