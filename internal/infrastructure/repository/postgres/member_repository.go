package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fbet-app/fbet/internal/domain/member"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const selectGroupMembers = `
SELECT u.id AS id,
       gm.group_id AS group_id,
       u.display_name AS display_name,
       u.email AS email
FROM group_members gm
JOIN users u ON u.id = gm.user_id
WHERE gm.group_id = $1
  AND gm.deleted_at IS NULL
  AND u.deleted_at IS NULL
ORDER BY u.id`

func (r *MemberRepository) ListByGroup(ctx context.Context, groupID int64) ([]member.Member, error) {
	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, selectGroupMembers, groupID); err != nil {
		return nil, fmt.Errorf("select group members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, member.Member{
			ID:          row.ID,
			GroupID:     row.GroupID,
			DisplayName: nullStringToString(row.DisplayName),
			Email:       nullStringToString(row.Email),
		})
	}

	return out, nil
}

func (r *MemberRepository) ListGroupIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `SELECT id FROM groups WHERE deleted_at IS NULL ORDER BY id`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("select group ids: %w", err)
	}
	return ids, nil
}
