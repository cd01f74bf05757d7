package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fbet-app/fbet/internal/domain/member"
	"github.com/fbet-app/fbet/internal/domain/streak"
	"github.com/fbet-app/fbet/internal/domain/tip"
)

type stubMemberRepo struct {
	byGroup  map[int64][]member.Member
	groupIDs []int64
	err      error
}

func (s *stubMemberRepo) ListByGroup(_ context.Context, groupID int64) ([]member.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byGroup[groupID], nil
}

func (s *stubMemberRepo) ListGroupIDs(_ context.Context) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.groupIDs, nil
}

type stubTipRepo struct {
	byGroup map[int64][]tip.Record
	err     error
}

func (s *stubTipRepo) ListByGroup(_ context.Context, groupID int64) ([]tip.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byGroup[groupID], nil
}

type stubStreakRepo struct {
	mu      sync.Mutex
	active  map[int64][]streak.Streak
	since   map[int64]time.Time
	err     error
	applied []streak.Delta
}

func newStubStreakRepo() *stubStreakRepo {
	return &stubStreakRepo{
		active: map[int64][]streak.Streak{},
		since:  map[int64]time.Time{},
	}
}

func (s *stubStreakRepo) ListActiveByGroup(_ context.Context, groupID int64) ([]streak.Streak, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[groupID], nil
}

func (s *stubStreakRepo) ApplyDelta(_ context.Context, groupID int64, delta streak.Delta, now time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, delta)

	closed := make(map[int64]bool, len(delta.ToClose))
	for _, row := range delta.ToClose {
		closed[row.ID] = true
	}
	kept := s.active[groupID][:0:0]
	for _, row := range s.active[groupID] {
		if !closed[row.ID] {
			kept = append(kept, row)
		}
	}
	for _, userID := range delta.ToCreate {
		kept = append(kept, streak.Streak{GroupID: groupID, UserID: userID, BecameLeaderOn: now})
	}
	s.active[groupID] = kept
	return nil
}

func (s *stubStreakRepo) ActiveSinceByUser(_ context.Context, _ int64) (map[int64]time.Time, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.since, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHighscoreService_ListByGroup_RanksAndDecorates(t *testing.T) {
	t.Parallel()

	since := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	memberRepo := &stubMemberRepo{byGroup: map[int64][]member.Member{
		7: {
			{ID: 1, DisplayName: "anna"},
			{ID: 2, DisplayName: "", Email: "bob@x.com"},
			{ID: 3, DisplayName: "cleo"},
		},
	}}
	tipRepo := &stubTipRepo{byGroup: map[int64][]tip.Record{
		7: {
			{UserID: 1, EventID: 100, Points: 3},
			{UserID: 2, EventID: 100, Points: 5},
		},
	}}
	streakRepo := newStubStreakRepo()
	streakRepo.since = map[int64]time.Time{2: since}

	service := NewHighscoreService(memberRepo, tipRepo, streakRepo, testLogger())

	ranked, err := service.ListByGroup(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByGroup error: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ranked))
	}
	if ranked[0].UserID != 2 || ranked[0].Name != "bob" {
		t.Fatalf("unexpected leader row: %+v", ranked[0])
	}
	if ranked[0].LeaderSince == nil || !ranked[0].LeaderSince.Equal(since) {
		t.Fatalf("expected leader_since decoration, got %+v", ranked[0].LeaderSince)
	}
	if ranked[1].LeaderSince != nil {
		t.Fatalf("non-leader must not carry leader_since: %+v", ranked[1])
	}
	if ranked[2].Points != 0 {
		t.Fatalf("silent member must appear with zero points: %+v", ranked[2])
	}
}

func TestHighscoreService_ListByGroup_FailsSoftOnStorageError(t *testing.T) {
	t.Parallel()

	memberRepo := &stubMemberRepo{err: errors.New("db down")}
	service := NewHighscoreService(memberRepo, &stubTipRepo{}, newStubStreakRepo(), testLogger())

	ranked, err := service.ListByGroup(context.Background(), 7)
	if err != nil {
		t.Fatalf("storage failure must not surface, got %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty leaderboard, got %d rows", len(ranked))
	}
}

func TestHighscoreService_ListByGroup_StreakErrorOnlyDropsDecoration(t *testing.T) {
	t.Parallel()

	memberRepo := &stubMemberRepo{byGroup: map[int64][]member.Member{
		7: {{ID: 1, DisplayName: "anna"}},
	}}
	tipRepo := &stubTipRepo{byGroup: map[int64][]tip.Record{
		7: {{UserID: 1, EventID: 100, Points: 2}},
	}}
	streakRepo := newStubStreakRepo()
	streakRepo.err = errors.New("streak table missing")

	service := NewHighscoreService(memberRepo, tipRepo, streakRepo, testLogger())

	ranked, err := service.ListByGroup(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByGroup error: %v", err)
	}
	if len(ranked) != 1 || ranked[0].LeaderSince != nil {
		t.Fatalf("expected undecorated board, got %+v", ranked)
	}
}

func TestHighscoreService_ListByGroup_RejectsBadGroupID(t *testing.T) {
	t.Parallel()

	service := NewHighscoreService(&stubMemberRepo{}, &stubTipRepo{}, newStubStreakRepo(), testLogger())
	if _, err := service.ListByGroup(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
