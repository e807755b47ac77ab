package price

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

type stubStore struct {
	series map[string][]models.PricePoint
}

func newStubStore() *stubStore {
	return &stubStore{series: make(map[string][]models.PricePoint)}
}

func (s *stubStore) KnownSymbols(context.Context) ([]string, error) {
	symbols := make([]string, 0, len(s.series))
	for symbol := range s.series {
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func (s *stubStore) LatestPrice(_ context.Context, symbol string) (*models.PricePoint, error) {
	points := s.series[symbol]
	if len(points) == 0 {
		return nil, repository.ErrNoPrice
	}
	point := points[len(points)-1]
	return &point, nil
}

func (s *stubStore) AppendPrice(_ context.Context, point models.PricePoint) error {
	s.series[point.Symbol] = append(s.series[point.Symbol], point)
	return nil
}

func newFeedForTest(store Store) *Feed {
	feed := NewFeed(store, []string{"RELIANCE", "TCS", "INFY"}, 1000, 3500)
	feed.rnd = rand.New(rand.NewSource(42))
	feed.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	return feed
}

func TestRefreshAllSeedsEmptyStore(t *testing.T) {
	store := newStubStore()
	feed := newFeedForTest(store)

	points, err := feed.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points=%d want one per seed symbol", len(points))
	}
	for _, p := range points {
		if len(store.series[p.Symbol]) != 1 {
			t.Fatalf("symbol %s: %d rows appended, want 1", p.Symbol, len(store.series[p.Symbol]))
		}
	}
}

func TestFirstPointJittersBase(t *testing.T) {
	store := newStubStore()
	feed := newFeedForTest(store)

	points, err := feed.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	bases := map[string]float64{"RELIANCE": 2500, "TCS": 3200, "INFY": 1500}
	for _, p := range points {
		base := bases[p.Symbol]
		val, _ := p.PriceInr.Float64()
		if val < base*0.95 || val > base*1.05 {
			t.Fatalf("%s first point %v outside ±5%% of base %v", p.Symbol, val, base)
		}
	}
}

func TestNextPointStaysWithinOnePercent(t *testing.T) {
	store := newStubStore()
	feed := newFeedForTest(store)

	if _, err := feed.RefreshAll(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	for tick := 0; tick < 10; tick++ {
		before := map[string]models.PricePoint{}
		for symbol, points := range store.series {
			before[symbol] = points[len(points)-1]
		}

		points, err := feed.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("refresh %d: %v", tick, err)
		}
		for _, p := range points {
			last, _ := before[p.Symbol].PriceInr.Float64()
			val, _ := p.PriceInr.Float64()
			if val < last*0.99-0.001 || val > last*1.01+0.001 {
				t.Fatalf("%s moved from %v to %v, beyond ±1%%", p.Symbol, last, val)
			}
		}
	}
}

func TestRefreshOnlyAppends(t *testing.T) {
	store := newStubStore()
	feed := newFeedForTest(store)

	for i := 0; i < 3; i++ {
		if _, err := feed.RefreshAll(context.Background()); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}
	for symbol, points := range store.series {
		if len(points) != 3 {
			t.Fatalf("symbol %s has %d rows, want 3 (append-only, one per tick)", symbol, len(points))
		}
		for i := 1; i < len(points); i++ {
			if points[i].FetchedAt.Before(points[i-1].FetchedAt) {
				t.Fatalf("symbol %s series out of order", symbol)
			}
		}
	}
}
