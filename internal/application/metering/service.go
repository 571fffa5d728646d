// Package metering tracks monthly usage of paid external APIs.
package metering

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/metering"
	"github.com/equipment/backend/internal/domain/shared"
)

const historyMonths = 12

// Stats is the current-month usage snapshot for one API
type Stats struct {
	APIName    string `json:"api_name"`
	YearMonth  string `json:"year_month"`
	UsageCount int    `json:"usage_count"`
	FreeLimit  int    `json:"free_limit"`
	Remaining  int    `json:"remaining"`
}

// Service reports and resets API usage counters
type Service struct {
	repo   metering.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new metering Service
func NewService(repo metering.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Stats returns the current-month counter for an API. An API with no usage
// this month reports zero against the default free limit.
func (s *Service) Stats(ctx context.Context, apiName string) (*Stats, error) {
	yearMonth := metering.CurrentYearMonth(s.now())
	usage, err := s.repo.Get(ctx, apiName, yearMonth)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &Stats{
				APIName:    apiName,
				YearMonth:  yearMonth,
				UsageCount: 0,
				FreeLimit:  metering.DefaultFreeLimit,
				Remaining:  metering.DefaultFreeLimit,
			}, nil
		}
		return nil, err
	}

	remaining := usage.FreeLimit - usage.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	return &Stats{
		APIName:    usage.APIName,
		YearMonth:  usage.YearMonth,
		UsageCount: usage.UsageCount,
		FreeLimit:  usage.FreeLimit,
		Remaining:  remaining,
	}, nil
}

// History returns up to twelve months of counters for an API, newest first
func (s *Service) History(ctx context.Context, apiName string) ([]*metering.ApiUsage, error) {
	return s.repo.History(ctx, apiName, historyMonths)
}

// Reset zeroes the current-month counter for an API
func (s *Service) Reset(ctx context.Context, apiName string) error {
	yearMonth := metering.CurrentYearMonth(s.now())
	if err := s.repo.Reset(ctx, apiName, yearMonth); err != nil {
		return err
	}
	s.logger.Info("API usage counter reset",
		zap.String("api", apiName),
		zap.String("month", yearMonth),
	)
	return nil
}
