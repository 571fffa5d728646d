package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/equipment/backend/internal/domain/shared"
	"github.com/equipment/backend/internal/domain/signboard"
)

// GormSignboardRepository implements signboard.Repository using GORM
type GormSignboardRepository struct {
	db *gorm.DB
}

// NewGormSignboardRepository creates a new GormSignboardRepository
func NewGormSignboardRepository(db *gorm.DB) *GormSignboardRepository {
	return &GormSignboardRepository{db: db}
}

// Create persists a new signboard
func (r *GormSignboardRepository) Create(ctx context.Context, sb *signboard.Signboard) error {
	if sb.Status == "" {
		sb.Status = signboard.DefaultStatus
	}
	return r.db.WithContext(ctx).Create(sb).Error
}

// FindByID finds a signboard by its ID
func (r *GormSignboardRepository) FindByID(ctx context.Context, id int64) (*signboard.Signboard, error) {
	var sb signboard.Signboard
	if err := r.db.WithContext(ctx).First(&sb, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sb, nil
}

// List returns signboards matching the query plus the total match count
func (r *GormSignboardRepository) List(ctx context.Context, q signboard.ListQuery) ([]*signboard.Signboard, int64, error) {
	query := r.db.WithContext(ctx).Model(&signboard.Signboard{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"comment LIKE ? OR description LIKE ? OR location LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(q.SortBy, SignboardSortFields, "created_at")
	sortOrder := ValidateSortOrder(q.SortOrder)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var items []*signboard.Signboard
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies the given column values to an existing signboard and
// returns the refreshed row.
func (r *GormSignboardRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*signboard.Signboard, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&signboard.Signboard{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a signboard and its ledger entries
func (r *GormSignboardRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&signboard.Signboard{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&signboard.QuantityHistory{}, "signboard_id = ?", id).Error
	})
}

// ApplyQuantityChange moves the quantity from expectedBefore to after and
// appends the ledger entry in one transaction. The guarded UPDATE makes the
// change a compare-and-swap: if another writer got there first the row count
// is zero and the caller sees ErrConcurrencyConflict.
func (r *GormSignboardRepository) ApplyQuantityChange(ctx context.Context, id int64, expectedBefore, after int, entry *signboard.QuantityHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&signboard.Signboard{}).
			Where("id = ? AND quantity = ?", id, expectedBefore).
			Updates(map[string]interface{}{
				"quantity":   after,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Distinguish a missing row from a concurrent quantity change.
			var count int64
			if err := tx.Model(&signboard.Signboard{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}
		return tx.Create(entry).Error
	})
}

// SetQuantity writes quantity directly without touching the ledger
func (r *GormSignboardRepository) SetQuantity(ctx context.Context, id int64, quantity int) (*signboard.Signboard, error) {
	return r.Update(ctx, id, map[string]interface{}{"quantity": quantity})
}

// History returns the newest ledger entries for a signboard
func (r *GormSignboardRepository) History(ctx context.Context, signboardID int64, limit int) ([]*signboard.QuantityHistory, error) {
	query := r.db.WithContext(ctx).
		Where("signboard_id = ?", signboardID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []*signboard.QuantityHistory
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// AllHistory returns the newest ledger entries across every signboard
func (r *GormSignboardRepository) AllHistory(ctx context.Context, limit int) ([]*signboard.QuantityHistory, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []*signboard.QuantityHistory
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ResetAllQuantities zeroes every signboard quantity and clears the ledger,
// returning how many signboards actually changed.
func (r *GormSignboardRepository) ResetAllQuantities(ctx context.Context) (int64, error) {
	var changed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&signboard.Signboard{}).
			Where("quantity <> 0").
			Updates(map[string]interface{}{
				"quantity":   0,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		changed = result.RowsAffected
		return tx.Where("1 = 1").Delete(&signboard.QuantityHistory{}).Error
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
