package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

// stubStore is an in-memory stand-in for the repository, good enough to
// exercise the services without a database.
type stubStore struct {
	rewards   []models.RewardEvent
	entries   []models.JournalEntry
	unitLines []models.StockUnitLine
	prices    map[string][]models.PricePoint // ascending by FetchedAt

	keyLookups   int
	precheckMiss bool // make the first FindRewardByKey miss to simulate a race
}

func newStubStore() *stubStore {
	return &stubStore{prices: make(map[string][]models.PricePoint)}
}

func (s *stubStore) addPrice(symbol, price string, at time.Time) {
	s.prices[symbol] = append(s.prices[symbol], models.PricePoint{
		Symbol:    symbol,
		PriceInr:  mustDec(price),
		FetchedAt: at,
	})
}

func (s *stubStore) CreateReward(_ context.Context, entry models.JournalEntry, unitLine models.StockUnitLine, reward models.RewardEvent) error {
	if reward.IdempotencyKey != "" {
		for _, existing := range s.rewards {
			if existing.IdempotencyKey == reward.IdempotencyKey {
				return repository.ErrDuplicateReward
			}
		}
	}
	s.entries = append(s.entries, entry)
	s.unitLines = append(s.unitLines, unitLine)
	s.rewards = append(s.rewards, reward)
	return nil
}

func (s *stubStore) FindRewardByKey(_ context.Context, key string) (*models.RewardEvent, error) {
	s.keyLookups++
	if s.precheckMiss && s.keyLookups == 1 {
		return nil, repository.ErrRewardNotFound
	}
	for i := range s.rewards {
		if s.rewards[i].IdempotencyKey == key {
			reward := s.rewards[i]
			return &reward, nil
		}
	}
	return nil, repository.ErrRewardNotFound
}

func (s *stubStore) FirstReward(_ context.Context, userID uuid.UUID) (*models.RewardEvent, error) {
	var first *models.RewardEvent
	for i := range s.rewards {
		e := &s.rewards[i]
		if e.UserID != userID {
			continue
		}
		if first == nil || e.RewardedAt.Before(first.RewardedAt) {
			first = e
		}
	}
	if first == nil {
		return nil, repository.ErrRewardNotFound
	}
	reward := *first
	return &reward, nil
}

func (s *stubStore) ListRewardsBefore(_ context.Context, userID uuid.UUID, before time.Time) ([]models.RewardEvent, error) {
	var events []models.RewardEvent
	for _, e := range s.rewards {
		if e.UserID == userID && e.RewardedAt.Before(before) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].RewardedAt.Before(events[j].RewardedAt) })
	return events, nil
}

func (s *stubStore) ListRewardsBetween(_ context.Context, userID uuid.UUID, start, end time.Time) ([]models.RewardEvent, error) {
	var events []models.RewardEvent
	for _, e := range s.rewards {
		if e.UserID == userID && !e.RewardedAt.Before(start) && e.RewardedAt.Before(end) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].RewardedAt.Before(events[j].RewardedAt) })
	return events, nil
}

func (s *stubStore) SumUnitsBySymbol(_ context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, line := range s.unitLines {
		if line.UserID == userID {
			totals[line.Symbol] = totals[line.Symbol].Add(line.UnitsDelta)
		}
	}
	return totals, nil
}

func (s *stubStore) SumRewardUnitsBySymbol(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.TodayTotal, error) {
	events, err := s.ListRewardsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range events {
		if _, ok := totals[e.Symbol]; !ok {
			order = append(order, e.Symbol)
		}
		totals[e.Symbol] = totals[e.Symbol].Add(e.Units)
	}
	result := make([]models.TodayTotal, 0, len(order))
	for _, symbol := range order {
		result = append(result, models.TodayTotal{Symbol: symbol, Units: totals[symbol]})
	}
	return result, nil
}

func (s *stubStore) LatestPrice(_ context.Context, symbol string) (*models.PricePoint, error) {
	series := s.prices[symbol]
	if len(series) == 0 {
		return nil, repository.ErrNoPrice
	}
	point := series[len(series)-1]
	return &point, nil
}

func (s *stubStore) PriceAsOf(_ context.Context, symbol string, t time.Time) (*models.PricePoint, error) {
	series := s.prices[symbol]
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].FetchedAt.After(t) {
			point := series[i]
			return &point, nil
		}
	}
	return nil, repository.ErrNoPrice
}

func (s *stubStore) PriceSeriesThrough(_ context.Context, symbol string, through time.Time) ([]models.PricePoint, error) {
	var series []models.PricePoint
	for _, p := range s.prices[symbol] {
		if !p.FetchedAt.After(through) {
			series = append(series, p)
		}
	}
	return series, nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
