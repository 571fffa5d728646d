package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/metering"
	"github.com/equipment/backend/internal/domain/signboard"
)

// newTestDB opens an isolated in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&equipment.Equipment{},
		&signboard.Signboard{},
		&signboard.QuantityHistory{},
		&metering.ApiUsage{},
		&Setting{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
