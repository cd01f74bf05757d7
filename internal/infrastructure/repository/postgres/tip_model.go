package postgres

type tipTableModel struct {
	UserID  int64 `db:"user_id"`
	EventID int64 `db:"event_id"`
	Points  int   `db:"points"`
}
