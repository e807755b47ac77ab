package http

import (
	"time"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/service"
)

type rewardResponse struct {
	AlreadyProcessed bool         `json:"alreadyProcessed"`
	Reward           rewardBody   `json:"reward"`
	Journal          *journalBody `json:"journal,omitempty"`
	PriceSource      string       `json:"priceSource,omitempty"`
}

type rewardBody struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Symbol          string    `json:"symbol"`
	Units           string    `json:"units"`
	PricePerUnitInr string    `json:"pricePerUnitInr"`
	FeesInr         string    `json:"feesInr"`
	TotalInr        string    `json:"totalInr"`
	RewardedAt      time.Time `json:"rewardedAt"`
	IdempotencyKey  string    `json:"idempotencyKey,omitempty"`
	JournalEntryID  string    `json:"journalEntryId"`
}

type journalBody struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Lines       []journalLineBody `json:"lines"`
}

type journalLineBody struct {
	Account   string `json:"account"`
	AmountInr string `json:"amountInr"`
	EntryType string `json:"entryType"`
}

type holdingBody struct {
	Symbol      string `json:"symbol"`
	Units       string `json:"units"`
	PriceInr    string `json:"latestPriceInr"`
	ValueInr    string `json:"valueInr"`
	PriceSource string `json:"priceSource"`
}

type portfolioResponse struct {
	UserID       string        `json:"userId"`
	Holdings     []holdingBody `json:"holdings"`
	PortfolioInr string        `json:"portfolioInr"`
}

type todayTotalBody struct {
	Symbol string `json:"symbol"`
	Units  string `json:"units"`
}

type statsResponse struct {
	TotalSharesRewardedToday []todayTotalBody `json:"totalSharesRewardedToday"`
	PortfolioInr             string           `json:"portfolioInr"`
}

type historyPointBody struct {
	Date           string `json:"date"`
	DailyRewardInr string `json:"dailyRewardInr"`
	CumulativeInr  string `json:"cumulativeInr"`
}

func newRewardBody(e *models.RewardEvent) rewardBody {
	return rewardBody{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		Symbol:          e.Symbol,
		Units:           e.Units.StringFixed(unitPlaces),
		PricePerUnitInr: e.PricePerUnit.StringFixed(moneyPlaces),
		FeesInr:         e.FeesInr.StringFixed(moneyPlaces),
		TotalInr:        e.TotalInr.StringFixed(moneyPlaces),
		RewardedAt:      e.RewardedAt,
		IdempotencyKey:  e.IdempotencyKey,
		JournalEntryID:  e.JournalEntryID.String(),
	}
}

func newRewardResponse(result *service.CreditResult) rewardResponse {
	resp := rewardResponse{
		AlreadyProcessed: result.AlreadyProcessed,
		Reward:           newRewardBody(result.Reward),
	}
	if result.Journal != nil {
		lines := make([]journalLineBody, 0, len(result.Journal.Lines))
		for _, line := range result.Journal.Lines {
			lines = append(lines, journalLineBody{
				Account:   line.Account,
				AmountInr: line.AmountInr.StringFixed(moneyPlaces),
				EntryType: string(line.EntryType),
			})
		}
		resp.Journal = &journalBody{
			ID:          result.Journal.ID.String(),
			Description: result.Journal.Description,
			Lines:       lines,
		}
		resp.PriceSource = priceSource(result.PriceFallback)
	}
	return resp
}
