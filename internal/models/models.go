package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType marks a journal line as a debit or a credit posting.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// RewardEvent records a single stock reward credited to a user. Immutable
// once written; every event references the journal entry that booked it.
type RewardEvent struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	Symbol         string          `json:"symbol"`
	Units          decimal.Decimal `json:"units"`
	PricePerUnit   decimal.Decimal `json:"pricePerUnitInr"`
	FeesInr        decimal.Decimal `json:"feesInr"`
	TotalInr       decimal.Decimal `json:"totalInr"`
	RewardedAt     time.Time       `json:"rewardedAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	JournalEntryID uuid.UUID       `json:"journalEntryId"`
}

// JournalEntry is a balanced double-entry record. Lines are created
// atomically with the entry and never mutated afterwards.
type JournalEntry struct {
	ID          uuid.UUID     `json:"id"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	Lines       []JournalLine `json:"lines"`
}

// JournalLine is one debit or credit posting to a named account.
type JournalLine struct {
	JournalEntryID uuid.UUID       `json:"journalEntryId"`
	Account        string          `json:"account"`
	AmountInr      decimal.Decimal `json:"amountInr"`
	EntryType      EntryType       `json:"entryType"`
}

// StockUnitLine is a signed holdings-ledger delta. Net holding per
// (user, symbol) is the sum of its unit deltas.
type StockUnitLine struct {
	JournalEntryID uuid.UUID       `json:"journalEntryId"`
	UserID         uuid.UUID       `json:"userId"`
	Symbol         string          `json:"symbol"`
	UnitsDelta     decimal.Decimal `json:"unitsDelta"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// PricePoint is one row of the append-only price series for a symbol.
type PricePoint struct {
	Symbol    string          `json:"symbol"`
	PriceInr  decimal.Decimal `json:"priceInr"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Holding is the net positive position of a user in one symbol.
type Holding struct {
	Symbol string
	Units  decimal.Decimal
}

// TodayTotal aggregates the units rewarded to a user for one symbol
// within the current day.
type TodayTotal struct {
	Symbol string
	Units  decimal.Decimal
}

// HistoryPoint is one day of the reconstructed portfolio history: the value
// of that day's rewards and the mark-to-market value of everything held
// through the end of that day, both priced at that day's closing price.
type HistoryPoint struct {
	Date           time.Time
	DailyRewardInr decimal.Decimal
	CumulativeInr  decimal.Decimal
}
