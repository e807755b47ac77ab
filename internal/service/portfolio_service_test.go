package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

func addUnitLine(store *stubStore, userID uuid.UUID, symbol, delta string) {
	store.unitLines = append(store.unitLines, models.StockUnitLine{
		JournalEntryID: uuid.New(),
		UserID:         userID,
		Symbol:         symbol,
		UnitsDelta:     mustDec(delta),
	})
}

func TestHoldingsDropsNonPositiveAndSorts(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	addUnitLine(store, userID, "TCS", "5")
	addUnitLine(store, userID, "TCS", "-5")
	addUnitLine(store, userID, "RELIANCE", "2")
	addUnitLine(store, userID, "INFY", "1.5")
	addUnitLine(store, uuid.New(), "WIPRO", "9") // another user

	svc := NewPortfolioService(store, store, mustDec("1000.00"))
	holdings, err := svc.Holdings(context.Background(), userID)
	if err != nil {
		t.Fatalf("holdings: %v", err)
	}

	if len(holdings) != 2 {
		t.Fatalf("holdings=%+v want 2 entries", holdings)
	}
	if holdings[0].Symbol != "INFY" || holdings[1].Symbol != "RELIANCE" {
		t.Fatalf("order=%s,%s want INFY,RELIANCE", holdings[0].Symbol, holdings[1].Symbol)
	}
	for _, h := range holdings {
		if !h.Units.IsPositive() {
			t.Fatalf("non-positive holding leaked: %+v", h)
		}
	}
}

func TestPortfolioValuesAtLatestPrice(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	addUnitLine(store, userID, "RELIANCE", "10")
	addUnitLine(store, userID, "TCS", "2")
	store.addPrice("RELIANCE", "2400", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	store.addPrice("RELIANCE", "2500", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	store.addPrice("TCS", "3200", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	svc := NewPortfolioService(store, store, mustDec("1000.00"))
	portfolio, err := svc.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("portfolio: %v", err)
	}

	// 10×2500 + 2×3200, using the newest RELIANCE point.
	if !portfolio.TotalInr.Equal(mustDec("31400")) {
		t.Fatalf("total=%s want=31400", portfolio.TotalInr)
	}
	if portfolio.Positions[0].PriceFallback || portfolio.Positions[1].PriceFallback {
		t.Fatal("fallback flagged despite recorded prices")
	}
}

func TestPortfolioUsesFallbackForUnpricedSymbol(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	addUnitLine(store, userID, "NEWCO", "3")

	svc := NewPortfolioService(store, store, mustDec("1000.00"))
	portfolio, err := svc.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("portfolio must not fail on missing price: %v", err)
	}

	if len(portfolio.Positions) != 1 {
		t.Fatalf("positions=%d want=1", len(portfolio.Positions))
	}
	pos := portfolio.Positions[0]
	if !pos.PriceFallback {
		t.Fatal("fallback not flagged")
	}
	if !pos.ValueInr.Equal(mustDec("3000.00")) {
		t.Fatalf("value=%s want=3000.00", pos.ValueInr)
	}
}
