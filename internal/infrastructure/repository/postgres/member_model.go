package postgres

import "database/sql"

type memberTableModel struct {
	ID          int64          `db:"id"`
	GroupID     int64          `db:"group_id"`
	DisplayName sql.NullString `db:"display_name"`
	Email       sql.NullString `db:"email"`
}

func nullStringToString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
