package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/equipment/backend/internal/domain/metering"
	"github.com/equipment/backend/internal/domain/shared"
)

// GormUsageRepository implements metering.Repository using GORM
type GormUsageRepository struct {
	db        *gorm.DB
	freeLimit int
}

// UsageRepositoryOption is a functional option for configuring GormUsageRepository
type UsageRepositoryOption func(*GormUsageRepository)

// WithFreeLimit overrides the free tier recorded on newly created counters
func WithFreeLimit(limit int) UsageRepositoryOption {
	return func(r *GormUsageRepository) {
		if limit > 0 {
			r.freeLimit = limit
		}
	}
}

// NewGormUsageRepository creates a new GormUsageRepository
func NewGormUsageRepository(db *gorm.DB, opts ...UsageRepositoryOption) *GormUsageRepository {
	r := &GormUsageRepository{db: db, freeLimit: metering.DefaultFreeLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Increment atomically bumps the counter for (apiName, yearMonth). The upsert
// creates the row on first use in a month, so concurrent callers can never
// lose a count or produce duplicates.
func (r *GormUsageRepository) Increment(ctx context.Context, apiName, yearMonth string) error {
	usage := metering.ApiUsage{
		APIName:    apiName,
		YearMonth:  yearMonth,
		UsageCount: 1,
		FreeLimit:  r.freeLimit,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "api_name"}, {Name: "year_month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
		}),
	}).Create(&usage).Error
}

// Get returns the counter for (apiName, yearMonth)
func (r *GormUsageRepository) Get(ctx context.Context, apiName, yearMonth string) (*metering.ApiUsage, error) {
	var usage metering.ApiUsage
	err := r.db.WithContext(ctx).
		Where("api_name = ? AND year_month = ?", apiName, yearMonth).
		First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &usage, nil
}

// History returns up to months recent counters for apiName, newest first
func (r *GormUsageRepository) History(ctx context.Context, apiName string, months int) ([]*metering.ApiUsage, error) {
	query := r.db.WithContext(ctx).
		Where("api_name = ?", apiName).
		Order("year_month DESC")
	if months > 0 {
		query = query.Limit(months)
	}

	var entries []*metering.ApiUsage
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Reset zeroes the counter for (apiName, yearMonth). Missing rows are fine.
func (r *GormUsageRepository) Reset(ctx context.Context, apiName, yearMonth string) error {
	return r.db.WithContext(ctx).
		Model(&metering.ApiUsage{}).
		Where("api_name = ? AND year_month = ?", apiName, yearMonth).
		Update("usage_count", 0).Error
}
