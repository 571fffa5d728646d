package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/shared"
)

func TestGormEquipmentRepository_CreateAndFind(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	eq := &equipment.Equipment{
		Name:         "プレートコンパクター",
		ModelNumber:  "MVH-200",
		Manufacturer: "三笠産業",
		ToolCategory: "プレートコンパクター",
		Quantity:     1,
	}
	require.NoError(t, repo.Create(ctx, eq))
	require.NotZero(t, eq.ID)

	found, err := repo.FindByID(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, "MVH-200", found.ModelNumber)
	assert.Equal(t, "三笠産業", found.Manufacturer)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestGormEquipmentRepository_FindByIDNotFound(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEquipmentRepository_List(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	seed := []*equipment.Equipment{
		{Name: "発電機", ModelNumber: "GEN-1", Manufacturer: "デンヨー", ToolCategory: "発電機"},
		{Name: "ランマー", ModelNumber: "MT-55", Manufacturer: "三笠産業", ToolCategory: "ランマー"},
		{Name: "プレートコンパクター", ModelNumber: "MVH-200", Manufacturer: "三笠産業", ToolCategory: "プレートコンパクター"},
	}
	for _, eq := range seed {
		require.NoError(t, repo.Create(ctx, eq))
	}

	t.Run("no filter returns all with total", func(t *testing.T) {
		items, total, err := repo.List(ctx, equipment.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("search matches name model and manufacturer", func(t *testing.T) {
		items, total, err := repo.List(ctx, equipment.ListQuery{Search: "三笠"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		items, _, err := repo.List(ctx, equipment.ListQuery{Category: "発電機"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "GEN-1", items[0].ModelNumber)
	})

	t.Run("sort by allowed field ascending", func(t *testing.T) {
		items, _, err := repo.List(ctx, equipment.ListQuery{SortBy: "model_number", SortOrder: "asc"})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "GEN-1", items[0].ModelNumber)
		assert.Equal(t, "MVH-200", items[2].ModelNumber)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		_, _, err := repo.List(ctx, equipment.ListQuery{SortBy: "quantity; DROP TABLE equipment"})
		require.NoError(t, err)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, equipment.ListQuery{Limit: 2, Offset: 2, SortBy: "model_number", SortOrder: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 1)
		assert.Equal(t, "MVH-200", items[0].ModelNumber)
	})
}

func TestGormEquipmentRepository_PartialUpdate(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	eq := &equipment.Equipment{Name: "溶接機", ModelNumber: "W-100", Manufacturer: "新ダイワ"}
	require.NoError(t, repo.Create(ctx, eq))
	createdUpdatedAt := eq.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := repo.Update(ctx, eq.ID, map[string]interface{}{"notes": "要整備"})
	require.NoError(t, err)

	assert.Equal(t, "要整備", updated.Notes)
	// untouched fields survive
	assert.Equal(t, "溶接機", updated.Name)
	assert.Equal(t, "W-100", updated.ModelNumber)
	assert.True(t, updated.UpdatedAt.After(createdUpdatedAt))
}

func TestGormEquipmentRepository_UpdateNotFound(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), 4242, map[string]interface{}{"notes": "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEquipmentRepository_Delete(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	eq := &equipment.Equipment{Name: "ポンプ"}
	require.NoError(t, repo.Create(ctx, eq))

	require.NoError(t, repo.Delete(ctx, eq.ID))
	_, err := repo.FindByID(ctx, eq.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, eq.ID), shared.ErrNotFound)
}

func TestGormEquipmentRepository_DeleteAll(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"発電機", "コンプレッサー", "溶接機"} {
		require.NoError(t, repo.Create(ctx, &equipment.Equipment{Name: name}))
	}

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, total, err := repo.List(ctx, equipment.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// An empty table deletes zero rows without error.
	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestGormEquipmentRepository_Categories(t *testing.T) {
	repo := NewGormEquipmentRepository(newTestDB(t))
	ctx := context.Background()

	for _, eq := range []*equipment.Equipment{
		{Name: "a", ToolCategory: "発電機"},
		{Name: "b", ToolCategory: "発電機"},
		{Name: "c", ToolCategory: "ランマー"},
		{Name: "d", ToolCategory: ""},
	} {
		require.NoError(t, repo.Create(ctx, eq))
	}

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ランマー", "発電機"}, categories)
}
