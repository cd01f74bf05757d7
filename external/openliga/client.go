// Package openliga fetches football fixtures from an OpenLigaDB-compatible
// JSON endpoint and normalizes them into schedule events.
package openliga

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
	sourceName     = "openliga"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20

	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

var errUpstream = crerr.New("openliga upstream failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	MatchdataURL   string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	matchdataURL   string
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
		matchdataURL:   strings.TrimSpace(cfg.MatchdataURL),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return sourceName
}

type matchEnvelope struct {
	MatchID          int64         `json:"matchID"`
	MatchDateTimeUTC string        `json:"matchDateTimeUTC"`
	IsFinished       bool          `json:"matchIsFinished"`
	Team1            teamEnvelope  `json:"team1"`
	Team2            teamEnvelope  `json:"team2"`
	Location         *locationInfo `json:"location"`
	Results          []matchResult `json:"matchResults"`
}

type teamEnvelope struct {
	TeamName string `json:"teamName"`
}

type locationInfo struct {
	City    string `json:"locationCity"`
	Stadium string `json:"locationStadium"`
}

type matchResult struct {
	PointsTeam1  int `json:"pointsTeam1"`
	PointsTeam2  int `json:"pointsTeam2"`
	ResultTypeID int `json:"resultTypeID"`
}

// endResultTypeID marks the full-time result among the per-match result rows.
const endResultTypeID = 2

func (c *Client) FetchEvents(ctx context.Context) ([]schedule.Event, error) {
	if c.matchdataURL == "" {
		return nil, crerr.New("openliga matchdata url is not configured")
	}

	raw, err := c.fetch(ctx, c.matchdataURL)
	if err != nil {
		return nil, err
	}

	var matches []matchEnvelope
	if err := sonic.Unmarshal(raw, &matches); err != nil {
		return nil, crerr.Wrap(err, "decode openliga payload")
	}

	events := make([]schedule.Event, 0, len(matches))
	for _, m := range matches {
		startsAt, parseErr := time.Parse(time.RFC3339, m.MatchDateTimeVariants())
		if parseErr != nil {
			c.logger.WarnContext(ctx, "skip openliga match with bad kickoff time",
				"match_id", m.MatchID, "value", m.MatchDateTimeUTC, "error", parseErr)
			continue
		}

		home := strings.TrimSpace(m.Team1.TeamName)
		away := strings.TrimSpace(m.Team2.TeamName)
		if home == "" || away == "" {
			continue
		}

		event := schedule.Event{
			SourceID: fmt.Sprintf("%s:%d", sourceName, m.MatchID),
			Title:    home + " - " + away,
			StartsAt: startsAt.UTC(),
			HomeTeam: home,
			AwayTeam: away,
			Status:   schedule.StatusScheduled,
		}
		if m.Location != nil {
			event.Location = strings.TrimSpace(strings.TrimSpace(m.Location.Stadium + " " + m.Location.City))
		}
		if m.IsFinished {
			event.Status = schedule.StatusFinished
			if homeGoals, awayGoals, ok := finalScore(m.Results); ok {
				event.Result = fmt.Sprintf("%d : %d", homeGoals, awayGoals)
			}
		}

		events = append(events, event)
	}

	return events, nil
}

// MatchDateTimeVariants tolerates payloads that omit the timezone suffix.
func (m matchEnvelope) MatchDateTimeVariants() string {
	value := strings.TrimSpace(m.MatchDateTimeUTC)
	if value != "" && !strings.HasSuffix(value, "Z") && !strings.ContainsAny(value[max(0, len(value)-6):], "+-") {
		return value + "Z"
	}
	return value
}

func finalScore(results []matchResult) (int, int, bool) {
	for _, r := range results {
		if r.ResultTypeID == endResultTypeID {
			return r.PointsTeam1, r.PointsTeam2, true
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		return last.PointsTeam1, last.PointsTeam2, true
	}
	return 0, 0, false
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "openliga circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrap(err, "openliga is temporarily unavailable")
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
