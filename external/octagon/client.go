// Package octagon fetches a UFC event calendar published as an ICS feed.
// The parser handles the subset of RFC 5545 the feed actually uses:
// folded lines, DTSTART with and without time component, SUMMARY and
// LOCATION with escaped separators.
package octagon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/platform/logging"
	"github.com/fbet-app/fbet/internal/platform/resilience"
)

const (
	sourceName     = "ufc"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20

	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

var errUpstream = crerr.New("ufc calendar upstream failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	CalendarURL    string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	calendarURL    string
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
		calendarURL:    strings.TrimSpace(cfg.CalendarURL),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) FetchEvents(ctx context.Context) ([]schedule.Event, error) {
	if c.calendarURL == "" {
		return nil, crerr.New("ufc calendar url is not configured")
	}

	raw, err := c.fetch(ctx, c.calendarURL)
	if err != nil {
		return nil, err
	}

	events, err := parseCalendar(string(raw))
	if err != nil {
		return nil, err
	}

	return events, nil
}

type vevent struct {
	start    time.Time
	summary  string
	location string
}

func parseCalendar(body string) ([]schedule.Event, error) {
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		return nil, crerr.New("payload is not an ICS calendar")
	}

	lines := unfoldLines(body)
	events := make([]schedule.Event, 0, 16)

	var current *vevent
	index := 0
	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			current = &vevent{}
		case line == "END:VEVENT":
			if current != nil && !current.start.IsZero() && current.summary != "" {
				events = append(events, schedule.Event{
					SourceID: fmt.Sprintf("%s:%d", sourceName, index),
					Title:    current.summary,
					StartsAt: current.start,
					Location: current.location,
					Status:   schedule.StatusScheduled,
				})
				index++
			}
			current = nil
		case current != nil:
			applyProperty(current, line)
		}
	}

	return events, nil
}

func applyProperty(event *vevent, line string) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return
	}

	// parameters like DTSTART;VALUE=DATE share the property name prefix
	if idx := strings.IndexByte(name, ';'); idx >= 0 {
		name = name[:idx]
	}

	switch name {
	case "DTSTART":
		if parsed, err := parseICSTime(value); err == nil {
			event.start = parsed
		}
	case "SUMMARY":
		event.summary = unescapeText(value)
	case "LOCATION":
		event.location = unescapeText(value)
	}
}

var icsTimeLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

func parseICSTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range icsTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ICS time %q", value)
}

// unfoldLines joins RFC 5545 folded lines: a line starting with a space or
// tab continues the previous one.
func unfoldLines(body string) []string {
	raw := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += strings.TrimLeft(line, " \t")
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}

func unescapeText(value string) string {
	replacer := strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, "\n", `\\`, `\`)
	return strings.TrimSpace(replacer.Replace(value))
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ufc circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrap(err, "ufc calendar is temporarily unavailable")
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
	req.Header.Set("Accept", "text/calendar")
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
