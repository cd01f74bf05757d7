package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fbet-app/fbet/internal/domain/highscore"
	"github.com/fbet-app/fbet/internal/domain/member"
	"github.com/fbet-app/fbet/internal/domain/streak"
	"github.com/fbet-app/fbet/internal/domain/tip"
)

// RankedEntry is a leaderboard row enriched with the start of the user's
// active leadership streak, when one exists.
type RankedEntry struct {
	highscore.Entry
	LeaderSince *time.Time
}

type HighscoreService struct {
	memberRepo member.Repository
	tipRepo    tip.Repository
	streakRepo streak.Repository
	logger     *slog.Logger
}

func NewHighscoreService(
	memberRepo member.Repository,
	tipRepo tip.Repository,
	streakRepo streak.Repository,
	logger *slog.Logger,
) *HighscoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HighscoreService{
		memberRepo: memberRepo,
		tipRepo:    tipRepo,
		streakRepo: streakRepo,
		logger:     logger,
	}
}

// ListByGroup returns the group's ranked leaderboard. Storage failures
// degrade to an empty board instead of an error: a broken leaderboard must
// never break group page rendering.
func (s *HighscoreService) ListByGroup(ctx context.Context, groupID int64) ([]RankedEntry, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("%w: group id must be positive", ErrInvalidInput)
	}

	members, err := s.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list group members failed, serving empty leaderboard",
			"group_id", groupID, "error", err)
		return []RankedEntry{}, nil
	}

	tips, err := s.tipRepo.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list group tips failed, serving empty leaderboard",
			"group_id", groupID, "error", err)
		return []RankedEntry{}, nil
	}

	entries := highscore.Compute(members, tips)

	leaderSince, err := s.streakRepo.ActiveSinceByUser(ctx, groupID)
	if err != nil {
		// streak decoration is optional; the board itself still renders
		s.logger.WarnContext(ctx, "load active streaks failed", "group_id", groupID, "error", err)
		leaderSince = nil
	}

	ranked := make([]RankedEntry, 0, len(entries))
	for _, e := range entries {
		row := RankedEntry{Entry: e}
		if since, ok := leaderSince[e.UserID]; ok {
			sinceCopy := since
			row.LeaderSince = &sinceCopy
		}
		ranked = append(ranked, row)
	}

	return ranked, nil
}
