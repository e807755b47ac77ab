package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

// HoldingsStore exposes the unit-delta log. Holdings are always recomputed
// from it, never cached.
type HoldingsStore interface {
	SumUnitsBySymbol(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error)
}

// Position is one symbol of a valued portfolio.
type Position struct {
	Symbol        string
	Units         decimal.Decimal
	PriceInr      decimal.Decimal
	ValueInr      decimal.Decimal
	PriceFallback bool
}

// Portfolio is the current mark-to-market value of a user's holdings.
type Portfolio struct {
	Positions []Position
	TotalInr  decimal.Decimal
}

// PortfolioService aggregates holdings and values them at the latest price.
type PortfolioService struct {
	store         HoldingsStore
	prices        PriceLookup
	fallbackPrice decimal.Decimal
}

func NewPortfolioService(store HoldingsStore, prices PriceLookup, fallbackPrice decimal.Decimal) *PortfolioService {
	return &PortfolioService{store: store, prices: prices, fallbackPrice: fallbackPrice}
}

// Holdings returns the user's net positive holdings, ordered by symbol.
// Symbols whose deltas sum to zero or below are dropped.
func (s *PortfolioService) Holdings(ctx context.Context, userID uuid.UUID) ([]models.Holding, error) {
	sums, err := s.store.SumUnitsBySymbol(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(sums))
	for symbol, units := range sums {
		if !units.GreaterThan(decimal.Zero) {
			continue
		}
		holdings = append(holdings, models.Holding{Symbol: symbol, Units: units})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

// Portfolio values every positive holding at the latest recorded price. A
// symbol without any price row is valued at the fallback price and flagged,
// never treated as an error.
func (s *PortfolioService) Portfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	holdings, err := s.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Portfolio{Positions: make([]Position, 0, len(holdings))}
	for _, h := range holdings {
		price := s.fallbackPrice
		fallback := true
		if point, err := s.prices.LatestPrice(ctx, h.Symbol); err == nil {
			price = point.PriceInr
			fallback = false
		} else if !errors.Is(err, repository.ErrNoPrice) {
			return nil, err
		}

		value := h.Units.Mul(price)
		result.Positions = append(result.Positions, Position{
			Symbol:        h.Symbol,
			Units:         h.Units,
			PriceInr:      price,
			ValueInr:      value,
			PriceFallback: fallback,
		})
		result.TotalInr = result.TotalInr.Add(value)
	}
	return result, nil
}
