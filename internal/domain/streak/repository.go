package streak

import (
	"context"
	"time"
)

type Repository interface {
	ListActiveByGroup(ctx context.Context, groupID int64) ([]Streak, error)
	// ApplyDelta closes and creates streak rows in a single transaction.
	ApplyDelta(ctx context.Context, groupID int64, delta Delta, now time.Time) error
	// ActiveSinceByUser returns BecameLeaderOn per user for active streaks.
	ActiveSinceByUser(ctx context.Context, groupID int64) (map[int64]time.Time, error)
}
