package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/infrastructure/config"
)

func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewDatabase_SQLiteCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")

	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, db.Ping())
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_MigrateIsIdempotent(t *testing.T) {
	db := newSQLiteDatabase(t)

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	// The schema is usable after migration.
	repo := NewGormEquipmentRepository(db.DB)
	eq := &equipment.Equipment{Name: "発電機", ModelNumber: "EG-2600", Quantity: 1}
	require.NoError(t, repo.Create(context.Background(), eq))
	assert.NotZero(t, eq.ID)
}

func TestDatabase_PingAfterClose(t *testing.T) {
	db := newSQLiteDatabase(t)

	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestDatabase_Stats(t *testing.T) {
	db := newSQLiteDatabase(t)

	stats, err := db.Stats()
	require.NoError(t, err)
	// SQLite connections are pinned to a single writer.
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestDatabase_TransactionRollsBackOnError(t *testing.T) {
	db := newSQLiteDatabase(t)
	require.NoError(t, db.Migrate())

	repo := NewGormEquipmentRepository(db.DB)
	sentinel := errors.New("boom")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&equipment.Equipment{Name: "ポンプ", Quantity: 1}).Error; err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, total, err := repo.List(context.Background(), equipment.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
