// Package boxring scrapes a boxing schedule page. The upstream is plain
// server-rendered HTML; rows are extracted with anchored patterns rather
// than a DOM walk since the page structure is flat and stable.
package boxring

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/platform/logging"
	"github.com/fbet-app/fbet/internal/platform/resilience"
)

const (
	sourceName     = "boxing"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20

	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

var (
	errUpstream = crerr.New("boxing schedule upstream failure")

	scheduleRowRegex = regexp.MustCompile(`(?s)<(?:div|tr)[^>]*class="[^"]*schedule-row[^"]*"[^>]*>(.*?)</(?:div|tr)>`)
	fieldRegex       = regexp.MustCompile(`(?s)<(?:span|td)[^>]*class="[^"]*(date|bout|venue|network)[^"]*"[^>]*>(.*?)</(?:span|td)>`)
	tagRegex         = regexp.MustCompile(`<[^>]+>`)
	boutSplitRegex   = regexp.MustCompile(`(?i)\s+vs\.?\s+`)
)

type ClientConfig struct {
	HTTPClient     *http.Client
	ScheduleURL    string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	scheduleURL    string
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
		scheduleURL:    strings.TrimSpace(cfg.ScheduleURL),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) FetchEvents(ctx context.Context) ([]schedule.Event, error) {
	if c.scheduleURL == "" {
		return nil, crerr.New("boxing schedule url is not configured")
	}

	raw, err := c.fetch(ctx, c.scheduleURL)
	if err != nil {
		return nil, err
	}

	events, err := parseSchedulePage(string(raw))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, crerr.New("boxing schedule page yielded no rows, markup likely changed")
	}

	return events, nil
}

// parseSchedulePage extracts one event per schedule row. Rows missing a
// parsable date or bout line are skipped rather than failing the page.
func parseSchedulePage(page string) ([]schedule.Event, error) {
	rows := scheduleRowRegex.FindAllStringSubmatch(page, -1)
	events := make([]schedule.Event, 0, len(rows))

	for i, row := range rows {
		fields := make(map[string]string, 4)
		for _, field := range fieldRegex.FindAllStringSubmatch(row[1], -1) {
			fields[field[1]] = cleanHTMLText(field[2])
		}

		startsAt, err := parseEventDate(fields["date"])
		if err != nil {
			continue
		}

		bout := fields["bout"]
		parts := boutSplitRegex.Split(bout, 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			continue
		}

		events = append(events, schedule.Event{
			SourceID:    fmt.Sprintf("%s:%d", sourceName, i),
			Title:       bout,
			StartsAt:    startsAt,
			HomeTeam:    strings.TrimSpace(parts[0]),
			AwayTeam:    strings.TrimSpace(parts[1]),
			Location:    fields["venue"],
			Broadcaster: fields["network"],
			Status:      schedule.StatusScheduled,
		})
	}

	return events, nil
}

var eventDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02",
}

func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range eventDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func cleanHTMLText(value string) string {
	value = tagRegex.ReplaceAllString(value, " ")
	value = strings.ReplaceAll(value, "&amp;", "&")
	value = strings.ReplaceAll(value, "&nbsp;", " ")
	return strings.Join(strings.Fields(value), " ")
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "boxing circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrap(err, "boxing schedule is temporarily unavailable")
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
	req.Header.Set("Accept", "text/html")
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
