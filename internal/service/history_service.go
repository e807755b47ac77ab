package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

// HistoryStore covers the reads the reconstruction needs.
type HistoryStore interface {
	FirstReward(ctx context.Context, userID uuid.UUID) (*models.RewardEvent, error)
	ListRewardsBefore(ctx context.Context, userID uuid.UUID, before time.Time) ([]models.RewardEvent, error)
}

// HistoryService rebuilds a user's day-by-day portfolio value from the
// reward log and the price series. Each day is valued with the price in
// effect at that day's end, not with today's price.
type HistoryService struct {
	store  HistoryStore
	prices PriceLookup
	now    func() time.Time
}

func NewHistoryService(store HistoryStore, prices PriceLookup) *HistoryService {
	return &HistoryService{
		store:  store,
		prices: prices,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// History returns one point per calendar day (UTC) from the user's first
// reward through yesterday. Today is excluded; it belongs to live stats.
// Days whose symbols have no price yet are valued at zero for those symbols.
func (s *HistoryService) History(ctx context.Context, userID uuid.UUID) ([]models.HistoryPoint, error) {
	todayStart := startOfDayUTC(s.now())

	first, err := s.store.FirstReward(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRewardNotFound) {
			return []models.HistoryPoint{}, nil
		}
		return nil, err
	}

	events, err := s.store.ListRewardsBefore(ctx, userID, todayStart)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		// The only rewards happened today; nothing to reconstruct yet.
		return []models.HistoryPoint{}, nil
	}

	series, err := s.loadSeries(ctx, events, todayStart)
	if err != nil {
		return nil, err
	}

	var points []models.HistoryPoint
	cumulative := make(map[string]decimal.Decimal)
	next := 0

	for day := startOfDayUTC(first.RewardedAt); day.Before(todayStart); day = day.AddDate(0, 0, 1) {
		nextDay := day.AddDate(0, 0, 1)
		dayEnd := nextDay.Add(-time.Nanosecond)

		daily := make(map[string]decimal.Decimal)
		for next < len(events) && events[next].RewardedAt.Before(nextDay) {
			e := events[next]
			daily[e.Symbol] = daily[e.Symbol].Add(e.Units)
			cumulative[e.Symbol] = cumulative[e.Symbol].Add(e.Units)
			next++
		}

		var dailyReward, cumulativeInr decimal.Decimal
		for _, symbol := range sortedKeys(cumulative) {
			price := priceAsOfSeries(series[symbol], dayEnd)
			dailyReward = dailyReward.Add(daily[symbol].Mul(price))
			cumulativeInr = cumulativeInr.Add(cumulative[symbol].Mul(price))
		}

		points = append(points, models.HistoryPoint{
			Date:           day,
			DailyRewardInr: dailyReward,
			CumulativeInr:  cumulativeInr,
		})
	}
	return points, nil
}

// loadSeries batch-fetches the full price series per symbol once, so day
// valuation is an in-memory scan instead of one query per day per symbol.
// Results are identical to per-day "most recent as of" lookups.
func (s *HistoryService) loadSeries(ctx context.Context, events []models.RewardEvent, through time.Time) (map[string][]models.PricePoint, error) {
	series := make(map[string][]models.PricePoint)
	for _, e := range events {
		if _, ok := series[e.Symbol]; ok {
			continue
		}
		points, err := s.prices.PriceSeriesThrough(ctx, e.Symbol, through)
		if err != nil {
			return nil, err
		}
		series[e.Symbol] = points
	}
	return series, nil
}

// priceAsOfSeries returns the last price at or before t in an ascending
// series, or zero when the series has not started yet.
func priceAsOfSeries(series []models.PricePoint, t time.Time) decimal.Decimal {
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].FetchedAt.After(t) {
			return series[i].PriceInr
		}
	}
	return decimal.Zero
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
