package metering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/metering"
	"github.com/equipment/backend/internal/domain/shared"
)

type fakeUsageRepo struct {
	rows   map[string]*metering.ApiUsage // key api|month
	resets []string
}

func key(api, month string) string { return api + "|" + month }

func (f *fakeUsageRepo) Increment(ctx context.Context, apiName, yearMonth string) error {
	k := key(apiName, yearMonth)
	if row, ok := f.rows[k]; ok {
		row.UsageCount++
		return nil
	}
	f.rows[k] = &metering.ApiUsage{
		APIName:    apiName,
		YearMonth:  yearMonth,
		UsageCount: 1,
		FreeLimit:  metering.DefaultFreeLimit,
	}
	return nil
}

func (f *fakeUsageRepo) Get(ctx context.Context, apiName, yearMonth string) (*metering.ApiUsage, error) {
	row, ok := f.rows[key(apiName, yearMonth)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeUsageRepo) History(ctx context.Context, apiName string, months int) ([]*metering.ApiUsage, error) {
	var out []*metering.ApiUsage
	for _, row := range f.rows {
		if row.APIName == apiName && len(out) < months {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUsageRepo) Reset(ctx context.Context, apiName, yearMonth string) error {
	f.resets = append(f.resets, key(apiName, yearMonth))
	if row, ok := f.rows[key(apiName, yearMonth)]; ok {
		row.UsageCount = 0
	}
	return nil
}

func newFixedService(repo *fakeUsageRepo, now time.Time) *Service {
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestStatsReportsRemaining(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeUsageRepo{rows: map[string]*metering.ApiUsage{}}
	repo.rows[key("cloud-vision", "2026-08")] = &metering.ApiUsage{
		APIName: "cloud-vision", YearMonth: "2026-08", UsageCount: 120, FreeLimit: 1000,
	}

	stats, err := newFixedService(repo, now).Stats(context.Background(), "cloud-vision")
	require.NoError(t, err)
	assert.Equal(t, 120, stats.UsageCount)
	assert.Equal(t, 880, stats.Remaining)
	assert.Equal(t, "2026-08", stats.YearMonth)
}

func TestStatsZeroWhenNoUsageThisMonth(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeUsageRepo{rows: map[string]*metering.ApiUsage{}}

	stats, err := newFixedService(repo, now).Stats(context.Background(), "cloud-vision")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.UsageCount)
	assert.Equal(t, metering.DefaultFreeLimit, stats.Remaining)
}

func TestStatsRemainingFloorsAtZero(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeUsageRepo{rows: map[string]*metering.ApiUsage{}}
	repo.rows[key("cloud-vision", "2026-08")] = &metering.ApiUsage{
		APIName: "cloud-vision", YearMonth: "2026-08", UsageCount: 1200, FreeLimit: 1000,
	}

	stats, err := newFixedService(repo, now).Stats(context.Background(), "cloud-vision")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Remaining)
}

func TestResetTargetsCurrentMonth(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeUsageRepo{rows: map[string]*metering.ApiUsage{}}

	require.NoError(t, newFixedService(repo, now).Reset(context.Background(), "cloud-vision"))
	require.Len(t, repo.resets, 1)
	assert.Equal(t, "cloud-vision|2026-08", repo.resets[0])
}
