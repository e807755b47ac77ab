package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

// SumUnitsBySymbol sums the signed unit deltas of a user's stock unit lines
// per symbol. Summation happens in exact decimal here rather than in a
// storage-side pipeline, since the deltas are stored as strings. The result
// includes non-positive nets; filtering is the aggregator's policy.
func (r *Repository) SumUnitsBySymbol(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	cursor, err := r.db.Collection(colStockUnitLines).Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, doc := range docs {
		symbol := docString(doc, "symbol")
		totals[symbol] = totals[symbol].Add(docDecimal(doc, "units_delta"))
	}
	return totals, nil
}

// SumRewardUnitsBySymbol sums reward units per symbol over [start, end).
func (r *Repository) SumRewardUnitsBySymbol(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.TodayTotal, error) {
	events, err := r.ListRewardsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
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
