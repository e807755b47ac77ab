// Package price generates the append-only price series the valuation side
// reads. It stands in for a real market-data provider: each refresh appends
// one new point per known symbol following a small random walk.
package price

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

// Store is the slice of persistence the feed needs.
type Store interface {
	KnownSymbols(ctx context.Context) ([]string, error)
	LatestPrice(ctx context.Context, symbol string) (*models.PricePoint, error)
	AppendPrice(ctx context.Context, point models.PricePoint) error
}

// Feed appends random-walk price points. The first point for a symbol is a
// jittered base value; later points move at most ±1% from the last one.
type Feed struct {
	store       Store
	seedSymbols []string
	bases       map[string]float64
	floor       float64
	ceil        float64
	now         func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFeed(store Store, seedSymbols []string, floor, ceil float64) *Feed {
	return &Feed{
		store:       store,
		seedSymbols: seedSymbols,
		bases: map[string]float64{
			"RELIANCE": 2500,
			"TCS":      3200,
			"INFY":     1500,
		},
		floor: floor,
		ceil:  ceil,
		now:   func() time.Time { return time.Now().UTC() },
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RefreshAll appends exactly one new price point for every known symbol and
// returns the refreshed points. With an empty store it starts from the seed
// symbol list so the series is never empty for long.
func (f *Feed) RefreshAll(ctx context.Context) ([]models.PricePoint, error) {
	symbols, err := f.store.KnownSymbols(ctx)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		symbols = f.seedSymbols
	}

	points := make([]models.PricePoint, 0, len(symbols))
	for _, symbol := range symbols {
		next, err := f.nextPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
		point := models.PricePoint{
			Symbol:    symbol,
			PriceInr:  next,
			FetchedAt: f.now(),
		}
		if err := f.store.AppendPrice(ctx, point); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

func (f *Feed) nextPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	last, err := f.store.LatestPrice(ctx, symbol)
	switch {
	case err == nil:
		// ±1% step from the last recorded value.
		pct := f.random(-0.01, 0.01)
		return last.PriceInr.Mul(decimal.NewFromFloat(1 + pct)).Round(4), nil
	case errors.Is(err, repository.ErrNoPrice):
		base, ok := f.bases[symbol]
		if !ok {
			base = f.random(f.floor, f.ceil)
		}
		// ±5% jitter on the base so restarts do not repeat identical opens.
		jitter := 1 + f.random(-0.05, 0.05)
		return decimal.NewFromFloat(base * jitter).Round(4), nil
	default:
		return decimal.Zero, err
	}
}

func (f *Feed) random(min, max float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return min + f.rnd.Float64()*(max-min)
}
