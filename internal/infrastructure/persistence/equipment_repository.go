package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/shared"
)

// GormEquipmentRepository implements equipment.Repository using GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GormEquipmentRepository
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// Create persists a new equipment record
func (r *GormEquipmentRepository) Create(ctx context.Context, eq *equipment.Equipment) error {
	return r.db.WithContext(ctx).Create(eq).Error
}

// FindByID finds an equipment record by its ID
func (r *GormEquipmentRepository) FindByID(ctx context.Context, id int64) (*equipment.Equipment, error) {
	var eq equipment.Equipment
	if err := r.db.WithContext(ctx).First(&eq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &eq, nil
}

// List returns equipment matching the query plus the total match count
func (r *GormEquipmentRepository) List(ctx context.Context, q equipment.ListQuery) ([]*equipment.Equipment, int64, error) {
	query := r.db.WithContext(ctx).Model(&equipment.Equipment{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"equipment_name LIKE ? OR model_number LIKE ? OR manufacturer LIKE ? OR serial_number LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if q.Category != "" {
		query = query.Where("tool_category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(q.SortBy, EquipmentSortFields, "created_at")
	sortOrder := ValidateSortOrder(q.SortOrder)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var items []*equipment.Equipment
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies the given column values to an existing record and returns
// the refreshed row. Callers are responsible for allow-listing columns.
func (r *GormEquipmentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*equipment.Equipment, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&equipment.Equipment{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes an equipment record
func (r *GormEquipmentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&equipment.Equipment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAll removes every equipment record
func (r *GormEquipmentRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&equipment.Equipment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Categories returns the distinct non-empty tool categories in use
func (r *GormEquipmentRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&equipment.Equipment{}).
		Distinct("tool_category").
		Where("tool_category <> ''").
		Order("tool_category ASC").
		Pluck("tool_category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
