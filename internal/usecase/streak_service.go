package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fbet-app/fbet/internal/domain/highscore"
	"github.com/fbet-app/fbet/internal/domain/member"
	"github.com/fbet-app/fbet/internal/domain/streak"
	"github.com/fbet-app/fbet/internal/domain/tip"
)

// Notification is the payload handed to the push collaborator.
type Notification struct {
	Title string
	Body  string
	URL   string
}

// Notifier delivers best-effort push messages. Failures are logged by the
// caller, never propagated.
type Notifier interface {
	Notify(ctx context.Context, userID int64, n Notification) error
}

// StreakRefreshResult summarizes one group's streak update.
type StreakRefreshResult struct {
	GroupID int64 `json:"group_id"`
	Closed  int   `json:"closed"`
	Created int   `json:"created"`
}

// StreakRefreshSummary aggregates a whole-service refresh run.
type StreakRefreshSummary struct {
	Groups  int                   `json:"groups"`
	Failed  int                   `json:"failed"`
	Results []StreakRefreshResult `json:"results"`
}

const maxConcurrentGroupRefreshes = 8

type StreakService struct {
	memberRepo member.Repository
	tipRepo    tip.Repository
	streakRepo streak.Repository
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewStreakService(
	memberRepo member.Repository,
	tipRepo tip.Repository,
	streakRepo streak.Repository,
	notifier Notifier,
	logger *slog.Logger,
) *StreakService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakService{
		memberRepo: memberRepo,
		tipRepo:    tipRepo,
		streakRepo: streakRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Refresh recomputes the group's leaderboard, diffs it against the active
// streaks and persists the delta in one transaction. New leaders get a
// best-effort push notification.
func (s *StreakService) Refresh(ctx context.Context, groupID int64) (StreakRefreshResult, error) {
	if groupID <= 0 {
		return StreakRefreshResult{}, fmt.Errorf("%w: group id must be positive", ErrInvalidInput)
	}

	members, err := s.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return StreakRefreshResult{}, fmt.Errorf("list group members: %w", err)
	}

	tips, err := s.tipRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return StreakRefreshResult{}, fmt.Errorf("list group tips: %w", err)
	}

	active, err := s.streakRepo.ListActiveByGroup(ctx, groupID)
	if err != nil {
		return StreakRefreshResult{}, fmt.Errorf("list active streaks: %w", err)
	}

	now := s.now().UTC()
	delta := streak.Diff(highscore.Compute(members, tips), active, now)
	if delta.Empty() {
		return StreakRefreshResult{GroupID: groupID}, nil
	}

	if err := s.streakRepo.ApplyDelta(ctx, groupID, delta, now); err != nil {
		return StreakRefreshResult{}, fmt.Errorf("apply streak delta: %w", err)
	}

	s.notifyNewLeaders(ctx, groupID, delta.ToCreate)

	return StreakRefreshResult{
		GroupID: groupID,
		Closed:  len(delta.ToClose),
		Created: len(delta.ToCreate),
	}, nil
}

// RefreshAll runs Refresh for every known group with bounded concurrency.
// Per-group failures are counted and logged; one broken group never stops
// the sweep.
func (s *StreakService) RefreshAll(ctx context.Context) (StreakRefreshSummary, error) {
	groupIDs, err := s.memberRepo.ListGroupIDs(ctx)
	if err != nil {
		return StreakRefreshSummary{}, fmt.Errorf("list group ids: %w", err)
	}

	summary := StreakRefreshSummary{Groups: len(groupIDs)}
	if len(groupIDs) == 0 {
		return summary, nil
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(maxConcurrentGroupRefreshes)
	for _, groupID := range groupIDs {
		groupID := groupID
		workers.Go(func() {
			result, refreshErr := s.Refresh(ctx, groupID)

			mu.Lock()
			defer mu.Unlock()
			if refreshErr != nil {
				summary.Failed++
				s.logger.ErrorContext(ctx, "streak refresh failed", "group_id", groupID, "error", refreshErr)
				return
			}
			summary.Results = append(summary.Results, result)
		})
	}
	workers.Wait()

	return summary, nil
}

func (s *StreakService) notifyNewLeaders(ctx context.Context, groupID int64, userIDs []int64) {
	if s.notifier == nil {
		return
	}

	for _, userID := range userIDs {
		err := s.notifier.Notify(ctx, userID, Notification{
			Title: "You took the lead!",
			Body:  "You are now first place in your group's leaderboard.",
			URL:   fmt.Sprintf("/groups/%d/highscore", groupID),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "leader notification failed",
				"group_id", groupID, "user_id", userID, "error", err)
		}
	}
}
