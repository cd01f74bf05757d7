package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fbet-app/fbet/internal/domain/tip"
)

type TipRepository struct {
	db *sqlx.DB
}

func NewTipRepository(db *sqlx.DB) *TipRepository {
	return &TipRepository{db: db}
}

// Tips are scoped through the event's group, never the tipper's memberships.
const selectGroupTips = `
SELECT t.user_id AS user_id,
       t.event_id AS event_id,
       t.points AS points
FROM tips t
JOIN events e ON e.id = t.event_id
WHERE e.group_id = $1
  AND e.deleted_at IS NULL
  AND t.deleted_at IS NULL`

func (r *TipRepository) ListByGroup(ctx context.Context, groupID int64) ([]tip.Record, error) {
	var rows []tipTableModel
	if err := r.db.SelectContext(ctx, &rows, selectGroupTips, groupID); err != nil {
		return nil, fmt.Errorf("select group tips: %w", err)
	}

	out := make([]tip.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, tip.Record{
			UserID:  row.UserID,
			EventID: row.EventID,
			Points:  row.Points,
		})
	}

	return out, nil
}
