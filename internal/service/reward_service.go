package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/fees"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
)

// Ledger account names used by reward journal entries.
const (
	accountFeeExpense = "FeeExpense"
	accountCashBank   = "Cash/Bank"
)

func stockAccount(userID uuid.UUID, symbol string) string {
	return fmt.Sprintf("User:%s:Stock:%s", userID, symbol)
}

// RewardStore is the persistence the ledger writer needs. CreateReward must
// commit all rows in one transaction and report a duplicate idempotency key
// as repository.ErrDuplicateReward.
type RewardStore interface {
	CreateReward(ctx context.Context, entry models.JournalEntry, unitLine models.StockUnitLine, reward models.RewardEvent) error
	FindRewardByKey(ctx context.Context, key string) (*models.RewardEvent, error)
}

// PriceLookup is the read-only view over the price series.
type PriceLookup interface {
	LatestPrice(ctx context.Context, symbol string) (*models.PricePoint, error)
	PriceAsOf(ctx context.Context, symbol string, t time.Time) (*models.PricePoint, error)
	PriceSeriesThrough(ctx context.Context, symbol string, through time.Time) ([]models.PricePoint, error)
}

// CreditInput is one validated reward request.
type CreditInput struct {
	UserID         uuid.UUID
	Symbol         string
	Units          decimal.Decimal
	IdempotencyKey string
	RewardedAt     time.Time // zero means "now"
}

// CreditResult reports the outcome of a credit. On replay Journal is nil and
// Reward is the previously committed event.
type CreditResult struct {
	AlreadyProcessed bool
	Reward           *models.RewardEvent
	Journal          *models.JournalEntry
	PriceFallback    bool
}

// RewardService credits stock rewards and books each one as a balanced
// double-entry journal entry.
type RewardService struct {
	store         RewardStore
	prices        PriceLookup
	fees          fees.Rates
	fallbackPrice decimal.Decimal
	now           func() time.Time
}

func NewRewardService(store RewardStore, prices PriceLookup, rates fees.Rates, fallbackPrice decimal.Decimal) *RewardService {
	return &RewardService{
		store:         store,
		prices:        prices,
		fees:          rates,
		fallbackPrice: fallbackPrice,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Credit records a reward of input.Units of input.Symbol to the user. The
// whole write is atomic: journal entry, journal lines, stock unit line and
// reward event commit together. Supplying the same idempotency key twice
// yields one committed event and an AlreadyProcessed replay for the rest,
// even under concurrent duplicates.
func (s *RewardService) Credit(ctx context.Context, input CreditInput) (*CreditResult, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if !input.Units.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: units must be positive", ErrValidation)
	}

	if input.IdempotencyKey != "" {
		existing, err := s.store.FindRewardByKey(ctx, input.IdempotencyKey)
		if err == nil {
			return &CreditResult{AlreadyProcessed: true, Reward: existing}, nil
		}
		if !errors.Is(err, repository.ErrRewardNotFound) {
			return nil, err
		}
	}

	rewardedAt := input.RewardedAt
	if rewardedAt.IsZero() {
		rewardedAt = s.now()
	}

	pricePerUnit := s.fallbackPrice
	priceFallback := true
	if point, err := s.prices.LatestPrice(ctx, symbol); err == nil {
		pricePerUnit = point.PriceInr
		priceFallback = false
	} else if !errors.Is(err, repository.ErrNoPrice) {
		return nil, err
	}

	gross := pricePerUnit.Mul(input.Units)
	breakdown := s.fees.Compute(gross)
	total := gross.Add(breakdown.TotalFees)

	now := s.now()
	entryID := uuid.New()
	entry := models.JournalEntry{
		ID: entryID,
		Description: fmt.Sprintf("Reward %s %s to user %s at %s",
			input.Units, symbol, input.UserID, rewardedAt.Format(time.RFC3339)),
		CreatedAt: now,
		Lines: []models.JournalLine{
			{JournalEntryID: entryID, Account: stockAccount(input.UserID, symbol), AmountInr: gross, EntryType: models.Debit},
			{JournalEntryID: entryID, Account: accountFeeExpense, AmountInr: breakdown.TotalFees, EntryType: models.Debit},
			{JournalEntryID: entryID, Account: accountCashBank, AmountInr: total, EntryType: models.Credit},
		},
	}

	unitLine := models.StockUnitLine{
		JournalEntryID: entryID,
		UserID:         input.UserID,
		Symbol:         symbol,
		UnitsDelta:     input.Units,
		CreatedAt:      now,
	}

	reward := models.RewardEvent{
		ID:             uuid.New(),
		UserID:         input.UserID,
		Symbol:         symbol,
		Units:          input.Units,
		PricePerUnit:   pricePerUnit,
		FeesInr:        breakdown.TotalFees,
		TotalInr:       total,
		RewardedAt:     rewardedAt,
		CreatedAt:      now,
		IdempotencyKey: input.IdempotencyKey,
		JournalEntryID: entryID,
	}

	if err := s.store.CreateReward(ctx, entry, unitLine, reward); err != nil {
		if errors.Is(err, repository.ErrDuplicateReward) && input.IdempotencyKey != "" {
			// A concurrent duplicate won the insert. Its committed row is the
			// answer; this is the replay path, not a failure.
			existing, lookupErr := s.store.FindRewardByKey(ctx, input.IdempotencyKey)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return &CreditResult{AlreadyProcessed: true, Reward: existing}, nil
		}
		return nil, err
	}

	return &CreditResult{
		Reward:        &reward,
		Journal:       &entry,
		PriceFallback: priceFallback,
	}, nil
}
