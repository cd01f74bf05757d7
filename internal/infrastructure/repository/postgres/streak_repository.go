package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fbet-app/fbet/internal/domain/streak"
	qb "github.com/fbet-app/fbet/internal/platform/querybuilder"
)

type StreakRepository struct {
	db *sqlx.DB
}

func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) ListActiveByGroup(ctx context.Context, groupID int64) ([]streak.Streak, error) {
	query, args, err := qb.Select("id", "group_id", "user_id", "became_leader_on", "ended_on").
		From("leadership_streaks").
		Where(
			qb.Eq("group_id", groupID),
			qb.IsNull("ended_on"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active streaks query: %w", err)
	}

	var rows []streakTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active streaks: %w", err)
	}

	out := make([]streak.Streak, 0, len(rows))
	for _, row := range rows {
		out = append(out, streak.Streak{
			ID:             row.ID,
			GroupID:        row.GroupID,
			UserID:         row.UserID,
			BecameLeaderOn: row.BecameLeaderOn,
			EndedOn:        row.EndedOn,
		})
	}

	return out, nil
}

// ApplyDelta closes departed leaders and opens new streaks in one
// transaction, so a refresh can never leave a group half-updated.
func (r *StreakRepository) ApplyDelta(ctx context.Context, groupID int64, delta streak.Delta, now time.Time) error {
	if delta.Empty() {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply streak delta: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range delta.ToClose {
		query, args, err := qb.Update("leadership_streaks").
			Set("ended_on", now).
			Where(
				qb.Eq("id", row.ID),
				qb.IsNull("ended_on"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build close streak query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("close streak id=%d: %w", row.ID, err)
		}
	}

	for _, userID := range delta.ToCreate {
		query, args, err := qb.InsertInto("leadership_streaks").
			Columns("group_id", "user_id", "became_leader_on").
			Values(groupID, userID, now).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build create streak query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create streak user_id=%d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit streak delta: %w", err)
	}

	return nil
}

func (r *StreakRepository) ActiveSinceByUser(ctx context.Context, groupID int64) (map[int64]time.Time, error) {
	query, args, err := qb.Select("user_id", "became_leader_on").
		From("leadership_streaks").
		Where(
			qb.Eq("group_id", groupID),
			qb.IsNull("ended_on"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active streak starts query: %w", err)
	}

	var rows []streakTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active streak starts: %w", err)
	}

	out := make(map[int64]time.Time, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.BecameLeaderOn
	}

	return out, nil
}
