package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/service"
)

// Money and unit fields leave the API as decimal strings with fixed
// precision, never as binary floats.
const (
	unitPlaces  = 6
	moneyPlaces = 4
)

// Handler wires all REST endpoints.
type Handler struct {
	rewardSvc    *service.RewardService
	statsSvc     *service.StatsService
	portfolioSvc *service.PortfolioService
	historySvc   *service.HistoryService
	log          *logrus.Logger
}

func NewHandler(reward *service.RewardService, stats *service.StatsService, portfolio *service.PortfolioService, history *service.HistoryService, log *logrus.Logger) *Handler {
	return &Handler{
		rewardSvc:    reward,
		statsSvc:     stats,
		portfolioSvc: portfolio,
		historySvc:   history,
		log:          log,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Post("/reward", h.handleReward)
	r.Get("/today-stocks/{userId}", h.handleTodayRewards)
	r.Get("/historical-inr/{userId}", h.handleHistoricalINR)
	r.Get("/stats/{userId}", h.handleStats)
	r.Get("/portfolio/{userId}", h.handlePortfolio)

	return r
}

type rewardRequest struct {
	UserID         string          `json:"userId"`
	Symbol         string          `json:"symbol"`
	Units          decimal.Decimal `json:"units"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Timestamp      time.Time       `json:"timestamp"`
}

func (r rewardRequest) validate() error {
	if r.UserID == "" || r.Symbol == "" {
		return errors.New("userId and symbol are required")
	}
	if _, err := uuid.Parse(r.UserID); err != nil {
		return errors.New("userId must be a valid UUID")
	}
	if !r.Units.GreaterThan(decimal.Zero) {
		return errors.New("units must be greater than zero")
	}
	return nil
}

func (h *Handler) handleReward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse("invalid payload"))
		return
	}
	if err := req.validate(); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse(err.Error()))
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	result, err := h.rewardSvc.Credit(ctx, service.CreditInput{
		UserID:         userID,
		Symbol:         req.Symbol,
		Units:          req.Units,
		IdempotencyKey: req.IdempotencyKey,
		RewardedAt:     req.Timestamp,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if result.AlreadyProcessed {
		render.Status(r, http.StatusOK)
	} else {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, newRewardResponse(result))
}

func (h *Handler) handleTodayRewards(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	events, err := h.statsSvc.TodayRewards(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	items := make([]rewardBody, 0, len(events))
	for i := range events {
		items = append(items, newRewardBody(&events[i]))
	}
	render.JSON(w, r, map[string]interface{}{"count": len(items), "items": items})
}

func (h *Handler) handleHistoricalINR(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	points, err := h.historySvc.History(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	series := make([]historyPointBody, 0, len(points))
	for _, p := range points {
		series = append(series, historyPointBody{
			Date:           p.Date.Format("2006-01-02"),
			DailyRewardInr: p.DailyRewardInr.StringFixed(moneyPlaces),
			CumulativeInr:  p.CumulativeInr.StringFixed(moneyPlaces),
		})
	}
	render.JSON(w, r, map[string]interface{}{"series": series})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	stats, err := h.statsSvc.UserStats(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	totals := make([]todayTotalBody, 0, len(stats.TotalsToday))
	for _, t := range stats.TotalsToday {
		totals = append(totals, todayTotalBody{
			Symbol: t.Symbol,
			Units:  t.Units.StringFixed(unitPlaces),
		})
	}
	render.JSON(w, r, statsResponse{
		TotalSharesRewardedToday: totals,
		PortfolioInr:             stats.PortfolioInr.StringFixed(moneyPlaces),
	})
}

func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	portfolio, err := h.portfolioSvc.Portfolio(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	holdings := make([]holdingBody, 0, len(portfolio.Positions))
	for _, p := range portfolio.Positions {
		holdings = append(holdings, holdingBody{
			Symbol:      p.Symbol,
			Units:       p.Units.StringFixed(unitPlaces),
			PriceInr:    p.PriceInr.StringFixed(moneyPlaces),
			ValueInr:    p.ValueInr.StringFixed(moneyPlaces),
			PriceSource: priceSource(p.PriceFallback),
		})
	}
	render.JSON(w, r, portfolioResponse{
		UserID:       userID.String(),
		Holdings:     holdings,
		PortfolioInr: portfolio.TotalInr.StringFixed(moneyPlaces),
	})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse("invalid user id"))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCodeForErr(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
		render.Status(r, status)
		render.JSON(w, r, errorResponse("internal error"))
		return
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse(err.Error()))
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func statusCodeForErr(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func priceSource(fallback bool) string {
	if fallback {
		return "fallback"
	}
	return "market"
}
