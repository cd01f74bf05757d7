package tip

import "context"

type Repository interface {
	// ListByGroup returns resolved tips for events belonging to the group.
	ListByGroup(ctx context.Context, groupID int64) ([]Record, error)
}
