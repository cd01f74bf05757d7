package tip

// Record is one resolved prediction. Immutable once the underlying event has
// been scored; rows are created at resolution time by the event module.
type Record struct {
	UserID  int64
	EventID int64
	Points  int
}
