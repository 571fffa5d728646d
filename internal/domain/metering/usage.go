package metering

import (
	"context"
	"time"
)

// DefaultFreeLimit is the Cloud Vision free tier: requests per calendar month.
const DefaultFreeLimit = 1000

// ApiUsage counts calls to a metered external API within one calendar month.
// One row per (api_name, year_month) pair.
type ApiUsage struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	APIName    string    `json:"api_name" gorm:"column:api_name;uniqueIndex:idx_api_month;not null"`
	YearMonth  string    `json:"year_month" gorm:"column:year_month;uniqueIndex:idx_api_month;not null"`
	UsageCount int       `json:"usage_count" gorm:"column:usage_count;default:0"`
	FreeLimit  int       `json:"free_limit" gorm:"column:free_limit;default:1000"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm table name
func (ApiUsage) TableName() string {
	return "api_usage"
}

// CurrentYearMonth formats now as the YYYY-MM bucket key.
func CurrentYearMonth(now time.Time) string {
	return now.Format("2006-01")
}

// Repository defines the persistence operations for API usage counters
type Repository interface {
	// Increment atomically bumps the counter for (apiName, yearMonth),
	// creating the row on first use in a month.
	Increment(ctx context.Context, apiName, yearMonth string) error
	Get(ctx context.Context, apiName, yearMonth string) (*ApiUsage, error)
	History(ctx context.Context, apiName string, months int) ([]*ApiUsage, error)
	Reset(ctx context.Context, apiName, yearMonth string) error
}
