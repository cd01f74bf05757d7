package postgres

import "time"

type streakTableModel struct {
	ID             int64      `db:"id"`
	GroupID        int64      `db:"group_id"`
	UserID         int64      `db:"user_id"`
	BecameLeaderOn time.Time  `db:"became_leader_on"`
	EndedOn        *time.Time `db:"ended_on"`
}
