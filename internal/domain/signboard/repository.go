package signboard

import "context"

// ListQuery describes pagination, filtering and ordering for signboard listings.
type ListQuery struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository defines the persistence operations for signboards and their
// quantity ledger.
type Repository interface {
	Create(ctx context.Context, sb *Signboard) error
	FindByID(ctx context.Context, id int64) (*Signboard, error)
	List(ctx context.Context, q ListQuery) ([]*Signboard, int64, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*Signboard, error)
	Delete(ctx context.Context, id int64) error

	// ApplyQuantityChange atomically moves quantity from expectedBefore to
	// after and appends the ledger entry in the same transaction. It returns
	// shared.ErrConcurrencyConflict when the stored quantity no longer equals
	// expectedBefore.
	ApplyQuantityChange(ctx context.Context, id int64, expectedBefore, after int, entry *QuantityHistory) error

	// SetQuantity writes quantity directly without touching the ledger.
	SetQuantity(ctx context.Context, id int64, quantity int) (*Signboard, error)

	History(ctx context.Context, signboardID int64, limit int) ([]*QuantityHistory, error)

	// AllHistory returns the newest ledger entries across every signboard.
	AllHistory(ctx context.Context, limit int) ([]*QuantityHistory, error)

	// ResetAllQuantities zeroes every signboard quantity and clears the
	// ledger, returning how many rows actually changed.
	ResetAllQuantities(ctx context.Context) (int64, error)
}
