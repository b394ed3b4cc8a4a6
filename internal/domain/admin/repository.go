package admin

import "context"

// Query narrows a list request.
type Query struct {
	Search   string
	ParentID *uint
	Limit    int
	Offset   int
}

// Repository persists records of any registered resource.
type Repository interface {
	// List returns a pointer to a slice of records in the resource's default ordering.
	List(ctx context.Context, res *Resource, query Query) (any, int64, error)
	// Get returns nil when the record does not exist.
	Get(ctx context.Context, res *Resource, id uint) (any, error)
	Create(ctx context.Context, res *Resource, record any) error
	Save(ctx context.Context, res *Resource, record any) error
	// Delete removes the record and, in the same transaction, the rows of the
	// children resources that point at it. It reports whether the record existed.
	Delete(ctx context.Context, res *Resource, id uint, children []*Resource) (bool, error)
	Exists(ctx context.Context, res *Resource, id uint) (bool, error)
	Count(ctx context.Context, res *Resource) (int64, error)
}
