package equipment

import "context"

// ListQuery describes pagination, filtering and ordering for equipment listings.
type ListQuery struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository defines the persistence operations for equipment records
type Repository interface {
	Create(ctx context.Context, eq *Equipment) error
	FindByID(ctx context.Context, id int64) (*Equipment, error)
	List(ctx context.Context, q ListQuery) ([]*Equipment, int64, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*Equipment, error)
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every equipment record, returning how many rows
	// were deleted.
	DeleteAll(ctx context.Context) (int64, error)

	Categories(ctx context.Context) ([]string, error)
}
