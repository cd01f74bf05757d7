package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/platform/cache"
)

// EventSource is one upstream schedule feed.
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context) ([]schedule.Event, error)
}

const (
	FeedFootball = "football"
	FeedBoxing   = "boxing"
	FeedUFC      = "ufc"

	footballCacheKey = "schedule:football"
)

type ScheduleService struct {
	footballSources []EventSource
	singleSources   map[string]EventSource
	cache           *cache.Store
	logger          *slog.Logger
}

func NewScheduleService(
	footballSources []EventSource,
	singleSources []EventSource,
	store *cache.Store,
	logger *slog.Logger,
) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[string]EventSource, len(singleSources))
	for _, source := range singleSources {
		byName[source.Name()] = source
	}

	return &ScheduleService{
		footballSources: footballSources,
		singleSources:   byName,
		cache:           store,
		logger:          logger,
	}
}

// Football returns the merged football schedule across all configured
// sources. One source failing contributes zero events for this cycle; the
// merge never fails the request. The merged result is cached for the store's
// TTL, so within that window no upstream fetch happens at all.
func (s *ScheduleService) Football(ctx context.Context) ([]schedule.Event, error) {
	value, err := s.cache.GetOrLoad(ctx, footballCacheKey, func(ctx context.Context) (any, error) {
		return s.fetchAndMergeFootball(ctx)
	})
	if err != nil {
		return nil, err
	}

	events, ok := value.([]schedule.Event)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return events, nil
}

// Feed serves a single-source schedule (boxing, ufc). Unlike Football, an
// upstream failure here surfaces to the HTTP boundary as 503; the failed
// fetch never populates the cache, so the next request retries.
func (s *ScheduleService) Feed(ctx context.Context, name string) ([]schedule.Event, error) {
	source, ok := s.singleSources[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown feed %q", ErrNotFound, name)
	}

	value, err := s.cache.GetOrLoad(ctx, "schedule:"+name, func(ctx context.Context) (any, error) {
		events, fetchErr := source.FetchEvents(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return events, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "single-source feed fetch failed", "feed", name, "error", err)
		return nil, fmt.Errorf("%w: %s feed: %v", ErrDependencyUnavailable, name, err)
	}

	events, ok := value.([]schedule.Event)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return events, nil
}

type sourceResult struct {
	name   string
	events []schedule.Event
	err    error
}

// fetchAndMergeFootball fans out to every source concurrently and joins on
// all of them before merging. Results are merged in configured source order,
// keeping the first-seen-wins dedupe rule deterministic under concurrency.
func (s *ScheduleService) fetchAndMergeFootball(ctx context.Context) ([]schedule.Event, error) {
	if len(s.footballSources) == 0 {
		return []schedule.Event{}, nil
	}

	results := make([]sourceResult, len(s.footballSources))

	workers, err := ants.NewPool(len(s.footballSources))
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for i, source := range s.footballSources {
		i, source := i, source
		wg.Add(1)
		if submitErr := workers.Submit(func() {
			defer wg.Done()
			events, fetchErr := source.FetchEvents(ctx)
			results[i] = sourceResult{name: source.Name(), events: events, err: fetchErr}
		}); submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit fetch task: %w", submitErr)
		}
	}
	wg.Wait()

	batches := make([][]schedule.Event, 0, len(results))
	for _, result := range results {
		if result.err != nil {
			s.logger.WarnContext(ctx, "football source failed, contributing zero events",
				"source", result.name, "error", result.err)
			continue
		}
		batches = append(batches, result.events)
	}

	return schedule.Merge(batches...), nil
}
