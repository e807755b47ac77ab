package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

func addReward(store *stubStore, userID uuid.UUID, symbol, units string, at time.Time) {
	entryID := uuid.New()
	store.rewards = append(store.rewards, models.RewardEvent{
		ID:             uuid.New(),
		UserID:         userID,
		Symbol:         symbol,
		Units:          mustDec(units),
		RewardedAt:     at,
		JournalEntryID: entryID,
	})
	store.unitLines = append(store.unitLines, models.StockUnitLine{
		JournalEntryID: entryID,
		UserID:         userID,
		Symbol:         symbol,
		UnitsDelta:     mustDec(units),
	})
}

func TestUserStatsGroupsTodayOnly(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	addReward(store, userID, "RELIANCE", "2", fixedNow.Add(-2*time.Hour))
	addReward(store, userID, "RELIANCE", "1", fixedNow.Add(-1*time.Hour))
	addReward(store, userID, "TCS", "4", fixedNow.Add(-3*time.Hour))
	// Yesterday's reward counts toward holdings but not today's totals.
	addReward(store, userID, "RELIANCE", "10", fixedNow.Add(-30*time.Hour))
	store.addPrice("RELIANCE", "2500", fixedNow.Add(-time.Hour))
	store.addPrice("TCS", "3200", fixedNow.Add(-time.Hour))

	portfolioSvc := NewPortfolioService(store, store, mustDec("1000.00"))
	svc := NewStatsService(store, portfolioSvc)
	svc.now = func() time.Time { return fixedNow }

	stats, err := svc.UserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if len(stats.TotalsToday) != 2 {
		t.Fatalf("totals=%+v want 2 symbols", stats.TotalsToday)
	}
	got := map[string]string{}
	for _, total := range stats.TotalsToday {
		got[total.Symbol] = total.Units.String()
	}
	if got["RELIANCE"] != "3" || got["TCS"] != "4" {
		t.Fatalf("totals=%v want RELIANCE=3 TCS=4", got)
	}

	// Holdings include yesterday's reward: 13×2500 + 4×3200.
	if !stats.PortfolioInr.Equal(mustDec("45300")) {
		t.Fatalf("portfolioInr=%s want=45300", stats.PortfolioInr)
	}
}

func TestTodayRewardsExcludesPastDays(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	addReward(store, userID, "INFY", "1", fixedNow.Add(-time.Hour))
	addReward(store, userID, "INFY", "2", startOfDayUTC(fixedNow).Add(-time.Nanosecond)) // yesterday 23:59:59.999…

	svc := NewStatsService(store, NewPortfolioService(store, store, mustDec("1000.00")))
	svc.now = func() time.Time { return fixedNow }

	events, err := svc.TodayRewards(context.Background(), userID)
	if err != nil {
		t.Fatalf("today rewards: %v", err)
	}
	if len(events) != 1 || !events[0].Units.Equal(mustDec("1")) {
		t.Fatalf("events=%+v want only today's single reward", events)
	}
}
