package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipment/backend/internal/domain/shared"
	"github.com/equipment/backend/internal/domain/signboard"
)

func TestGormSignboardRepository_CreateDefaults(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	sb := &signboard.Signboard{Comment: "工事中", Quantity: 1}
	require.NoError(t, repo.Create(ctx, sb))

	found, err := repo.FindByID(ctx, sb.ID)
	require.NoError(t, err)
	assert.Equal(t, signboard.DefaultStatus, found.Status)
}

func TestGormSignboardRepository_ApplyQuantityChange(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	sb := &signboard.Signboard{Comment: "通行止め", Quantity: 5}
	require.NoError(t, repo.Create(ctx, sb))

	entry := &signboard.QuantityHistory{
		SignboardID:    sb.ID,
		ChangeType:     signboard.ChangeAdd,
		ChangeAmount:   3,
		QuantityBefore: 5,
		QuantityAfter:  8,
		Reason:         "新規購入",
	}
	require.NoError(t, repo.ApplyQuantityChange(ctx, sb.ID, 5, 8, entry))

	found, err := repo.FindByID(ctx, sb.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.Quantity)

	history, err := repo.History(ctx, sb.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, signboard.ChangeAdd, history[0].ChangeType)
	assert.Equal(t, 5, history[0].QuantityBefore)
	assert.Equal(t, 8, history[0].QuantityAfter)
	assert.Equal(t, "新規購入", history[0].Reason)
}

func TestGormSignboardRepository_AllHistory(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	a := &signboard.Signboard{Comment: "片側交互通行", Quantity: 2}
	b := &signboard.Signboard{Comment: "この先工事中", Quantity: 4}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.ApplyQuantityChange(ctx, a.ID, 2, 5, &signboard.QuantityHistory{
		SignboardID: a.ID, ChangeType: signboard.ChangeAdd, ChangeAmount: 3,
		QuantityBefore: 2, QuantityAfter: 5, Reason: "納品",
	}))
	require.NoError(t, repo.ApplyQuantityChange(ctx, b.ID, 4, 1, &signboard.QuantityHistory{
		SignboardID: b.ID, ChangeType: signboard.ChangeSubtract, ChangeAmount: 3,
		QuantityBefore: 4, QuantityAfter: 1, Reason: "現場へ搬出",
	}))

	all, err := repo.AllHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := map[int64]bool{}
	for _, entry := range all {
		ids[entry.SignboardID] = true
	}
	assert.True(t, ids[a.ID])
	assert.True(t, ids[b.ID])

	limited, err := repo.AllHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormSignboardRepository_ApplyQuantityChangeConflict(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	sb := &signboard.Signboard{Comment: "夜間工事", Quantity: 5}
	require.NoError(t, repo.Create(ctx, sb))

	entry := &signboard.QuantityHistory{
		SignboardID: sb.ID, ChangeType: signboard.ChangeSubtract,
		ChangeAmount: 2, QuantityBefore: 7, QuantityAfter: 5, Reason: "貸出",
	}
	// stored quantity is 5, the caller read a stale 7
	err := repo.ApplyQuantityChange(ctx, sb.ID, 7, 5, entry)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// nothing was written
	found, err := repo.FindByID(ctx, sb.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)

	history, err := repo.History(ctx, sb.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGormSignboardRepository_ApplyQuantityChangeMissing(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))

	entry := &signboard.QuantityHistory{SignboardID: 404, ChangeType: signboard.ChangeAdd, ChangeAmount: 1, QuantityAfter: 1, Reason: "x"}
	err := repo.ApplyQuantityChange(context.Background(), 404, 0, 1, entry)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSignboardRepository_SetQuantityBypassesLedger(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	sb := &signboard.Signboard{Comment: "片側交互通行", Quantity: 2}
	require.NoError(t, repo.Create(ctx, sb))

	updated, err := repo.SetQuantity(ctx, sb.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	history, err := repo.History(ctx, sb.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGormSignboardRepository_ResetAllQuantities(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	a := &signboard.Signboard{Comment: "a", Quantity: 4}
	b := &signboard.Signboard{Comment: "b", Quantity: 0}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	entry := &signboard.QuantityHistory{
		SignboardID: a.ID, ChangeType: signboard.ChangeAdd,
		ChangeAmount: 4, QuantityBefore: 0, QuantityAfter: 4, Reason: "初期在庫",
	}
	require.NoError(t, repo.ApplyQuantityChange(ctx, a.ID, 4, 4, entry))

	changed, err := repo.ResetAllQuantities(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed) // b was already zero

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Quantity)

	history, err := repo.History(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGormSignboardRepository_DeleteRemovesHistory(t *testing.T) {
	repo := NewGormSignboardRepository(newTestDB(t))
	ctx := context.Background()

	sb := &signboard.Signboard{Comment: "迂回路", Quantity: 1}
	require.NoError(t, repo.Create(ctx, sb))

	entry := &signboard.QuantityHistory{
		SignboardID: sb.ID, ChangeType: signboard.ChangeAdd,
		ChangeAmount: 1, QuantityBefore: 1, QuantityAfter: 2, Reason: "追加",
	}
	require.NoError(t, repo.ApplyQuantityChange(ctx, sb.ID, 1, 2, entry))

	require.NoError(t, repo.Delete(ctx, sb.ID))

	history, err := repo.History(ctx, sb.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
