package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

// StatsStore covers the reward-event reads the stats endpoints need.
type StatsStore interface {
	SumRewardUnitsBySymbol(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.TodayTotal, error)
	ListRewardsBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.RewardEvent, error)
}

// StatsSummary is the live view: units rewarded today per symbol plus the
// current portfolio value.
type StatsSummary struct {
	TotalsToday  []models.TodayTotal
	PortfolioInr decimal.Decimal
}

type StatsService struct {
	store     StatsStore
	portfolio *PortfolioService
	now       func() time.Time
}

func NewStatsService(store StatsStore, portfolio *PortfolioService) *StatsService {
	return &StatsService{
		store:     store,
		portfolio: portfolio,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *StatsService) UserStats(ctx context.Context, userID uuid.UUID) (*StatsSummary, error) {
	start, end := todayRangeUTC(s.now())
	totals, err := s.store.SumRewardUnitsBySymbol(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.portfolio.Portfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsSummary{
		TotalsToday:  totals,
		PortfolioInr: portfolio.TotalInr,
	}, nil
}

// TodayRewards lists the user's reward events from today's UTC day.
func (s *StatsService) TodayRewards(ctx context.Context, userID uuid.UUID) ([]models.RewardEvent, error) {
	start, end := todayRangeUTC(s.now())
	return s.store.ListRewardsBetween(ctx, userID, start, end)
}
