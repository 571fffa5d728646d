package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipment/backend/internal/domain/shared"
)

func TestGormUsageRepository_IncrementCreatesAndBumps(t *testing.T) {
	repo := NewGormUsageRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))

	usage, err := repo.Get(ctx, "cloud-vision", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.UsageCount)
	assert.Equal(t, 1000, usage.FreeLimit)

	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))
	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))

	usage, err = repo.Get(ctx, "cloud-vision", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 3, usage.UsageCount)
}

func TestGormUsageRepository_MonthsAreIndependent(t *testing.T) {
	repo := NewGormUsageRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-07"))
	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))
	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))

	july, err := repo.Get(ctx, "cloud-vision", "2026-07")
	require.NoError(t, err)
	assert.Equal(t, 1, july.UsageCount)

	august, err := repo.Get(ctx, "cloud-vision", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 2, august.UsageCount)
}

func TestGormUsageRepository_GetMissing(t *testing.T) {
	repo := NewGormUsageRepository(newTestDB(t))

	_, err := repo.Get(context.Background(), "cloud-vision", "1999-01")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUsageRepository_History(t *testing.T) {
	repo := NewGormUsageRepository(newTestDB(t))
	ctx := context.Background()

	for _, ym := range []string{"2026-06", "2026-07", "2026-08"} {
		require.NoError(t, repo.Increment(ctx, "cloud-vision", ym))
	}

	entries, err := repo.History(ctx, "cloud-vision", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-08", entries[0].YearMonth)
	assert.Equal(t, "2026-07", entries[1].YearMonth)
}

func TestGormUsageRepository_Reset(t *testing.T) {
	repo := NewGormUsageRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "cloud-vision", "2026-08"))
	require.NoError(t, repo.Reset(ctx, "cloud-vision", "2026-08"))

	usage, err := repo.Get(ctx, "cloud-vision", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.UsageCount)

	// resetting a missing month is not an error
	require.NoError(t, repo.Reset(ctx, "cloud-vision", "1999-01"))
}
