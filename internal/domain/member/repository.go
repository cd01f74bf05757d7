package member

import "context"

type Repository interface {
	ListByGroup(ctx context.Context, groupID int64) ([]Member, error)
	ListGroupIDs(ctx context.Context) ([]int64, error)
}
