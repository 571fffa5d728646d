package signboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/shared"
	"github.com/equipment/backend/internal/domain/signboard"
)

type fakeRepo struct {
	boards    map[int64]*signboard.Signboard
	history   []*signboard.QuantityHistory
	nextID    int64
	conflicts int // ApplyQuantityChange fails this many times with a conflict
	setCalls  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{boards: map[int64]*signboard.Signboard{}, nextID: 1}
}

func (f *fakeRepo) Create(ctx context.Context, sb *signboard.Signboard) error {
	sb.ID = f.nextID
	f.nextID++
	if sb.Status == "" {
		sb.Status = signboard.DefaultStatus
	}
	cp := *sb
	f.boards[sb.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*signboard.Signboard, error) {
	sb, ok := f.boards[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *sb
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, q signboard.ListQuery) ([]*signboard.Signboard, int64, error) {
	var out []*signboard.Signboard
	for _, sb := range f.boards {
		cp := *sb
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) (*signboard.Signboard, error) {
	sb, ok := f.boards[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if v, ok := fields["comment"]; ok {
		sb.Comment = v.(string)
	}
	if v, ok := fields["status"]; ok {
		sb.Status = v.(string)
	}
	cp := *sb
	return &cp, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.boards[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.boards, id)
	return nil
}

func (f *fakeRepo) ApplyQuantityChange(ctx context.Context, id int64, expectedBefore, after int, entry *signboard.QuantityHistory) error {
	sb, ok := f.boards[id]
	if !ok {
		return shared.ErrNotFound
	}
	if f.conflicts > 0 {
		f.conflicts--
		// simulate a concurrent writer bumping the stored quantity
		sb.Quantity++
		return shared.ErrConcurrencyConflict
	}
	if sb.Quantity != expectedBefore {
		return shared.ErrConcurrencyConflict
	}
	sb.Quantity = after
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeRepo) SetQuantity(ctx context.Context, id int64, quantity int) (*signboard.Signboard, error) {
	sb, ok := f.boards[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	f.setCalls++
	sb.Quantity = quantity
	cp := *sb
	return &cp, nil
}

func (f *fakeRepo) History(ctx context.Context, signboardID int64, limit int) ([]*signboard.QuantityHistory, error) {
	var out []*signboard.QuantityHistory
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		if f.history[i].SignboardID == signboardID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) AllHistory(ctx context.Context, limit int) ([]*signboard.QuantityHistory, error) {
	var out []*signboard.QuantityHistory
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.history[i])
	}
	return out, nil
}

func (f *fakeRepo) ResetAllQuantities(ctx context.Context) (int64, error) {
	var n int64
	for _, sb := range f.boards {
		if sb.Quantity != 0 {
			sb.Quantity = 0
			n++
		}
	}
	f.history = nil
	return n, nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, nil, zap.NewNop())
}

func seedBoard(t *testing.T, repo *fakeRepo, quantity int) int64 {
	t.Helper()
	sb := &signboard.Signboard{Comment: "安全第一", Quantity: quantity}
	require.NoError(t, repo.Create(context.Background(), sb))
	return sb.ID
}

func TestAddQuantityRecordsLedgerEntry(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 5)

	sb, err := svc.AddQuantity(context.Background(), id, 3, "納品")
	require.NoError(t, err)
	assert.Equal(t, 8, sb.Quantity)

	require.Len(t, repo.history, 1)
	entry := repo.history[0]
	assert.Equal(t, signboard.ChangeAdd, entry.ChangeType)
	assert.Equal(t, 3, entry.ChangeAmount)
	assert.Equal(t, 5, entry.QuantityBefore)
	assert.Equal(t, 8, entry.QuantityAfter)
	assert.Equal(t, "納品", entry.Reason)
}

func TestSubtractQuantityFloorsAtZero(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 2)

	sb, err := svc.SubtractQuantity(context.Background(), id, 10, "現場へ持出")
	require.NoError(t, err)
	assert.Equal(t, 0, sb.Quantity)

	require.Len(t, repo.history, 1)
	assert.Equal(t, 2, repo.history[0].QuantityBefore)
	assert.Equal(t, 0, repo.history[0].QuantityAfter)
	assert.Equal(t, 10, repo.history[0].ChangeAmount)
}

func TestQuantityChangeValidatesBeforeMutation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 5)

	_, err := svc.AddQuantity(context.Background(), id, 0, "reason")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.AddQuantity(context.Background(), id, -2, "reason")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.SubtractQuantity(context.Background(), id, 1, "   ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	sb, _ := repo.FindByID(context.Background(), id)
	assert.Equal(t, 5, sb.Quantity)
	assert.Empty(t, repo.history)
}

func TestQuantityChangeRetriesOnConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 5)
	repo.conflicts = 2

	sb, err := svc.AddQuantity(context.Background(), id, 1, "補充")
	require.NoError(t, err)
	// two simulated concurrent increments happened before ours landed
	assert.Equal(t, 8, sb.Quantity)
	assert.Len(t, repo.history, 1)
}

func TestQuantityChangeGivesUpAfterRetries(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 5)
	repo.conflicts = casRetries + 1

	_, err := svc.AddQuantity(context.Background(), id, 1, "補充")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Empty(t, repo.history)
}

func TestIncrementBypassesLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 5)

	sb, err := svc.Increment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 6, sb.Quantity)
	assert.Empty(t, repo.history)
	assert.Equal(t, 1, repo.setCalls)
}

func TestDecrementFloorsAtZeroWithoutLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 0)

	sb, err := svc.Decrement(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, sb.Quantity)
	assert.Empty(t, repo.history)
}

func TestCreateDefaultsQuantityAndStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sb, err := svc.Create(context.Background(), CreateInput{Comment: "立入禁止"})
	require.NoError(t, err)
	assert.Equal(t, 1, sb.Quantity)
	assert.Equal(t, signboard.DefaultStatus, sb.Status)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	neg := -1
	_, err := svc.Create(context.Background(), CreateInput{Comment: "x", Quantity: &neg})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedBoard(t, repo, 1)

	_, err := svc.Update(context.Background(), id, UpdateInput{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestHistoryRequiresExistingSignboard(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.History(context.Background(), 99, 10)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAllHistorySpansSignboards(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	a := seedBoard(t, repo, 5)
	b := seedBoard(t, repo, 2)

	_, err := svc.AddQuantity(context.Background(), a, 3, "納品")
	require.NoError(t, err)
	_, err = svc.SubtractQuantity(context.Background(), b, 1, "現場へ搬出")
	require.NoError(t, err)

	entries, err := svc.AllHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// newest first
	assert.Equal(t, b, entries[0].SignboardID)
	assert.Equal(t, a, entries[1].SignboardID)

	// a non-positive limit falls back to the default
	entries, err = svc.AllHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestResetAllReportsAffected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	seedBoard(t, repo, 5)
	seedBoard(t, repo, 0)
	seedBoard(t, repo, 3)

	n, err := svc.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
