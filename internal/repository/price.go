package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

// AppendPrice adds one row to the append-only price series. Rows are never
// updated or deleted.
func (r *Repository) AppendPrice(ctx context.Context, point models.PricePoint) error {
	_, err := r.db.Collection(colPriceHistory).InsertOne(ctx, bson.M{
		"symbol":     point.Symbol,
		"price_inr":  point.PriceInr.String(),
		"fetched_at": point.FetchedAt,
	})
	return err
}

// LatestPrice returns the most recent price row for a symbol, or ErrNoPrice.
func (r *Repository) LatestPrice(ctx context.Context, symbol string) (*models.PricePoint, error) {
	return r.findPrice(ctx, bson.M{"symbol": symbol})
}

// PriceAsOf returns the most recent price row with fetched_at <= t, or
// ErrNoPrice if the series does not reach back that far.
func (r *Repository) PriceAsOf(ctx context.Context, symbol string, t time.Time) (*models.PricePoint, error) {
	return r.findPrice(ctx, bson.M{
		"symbol":     symbol,
		"fetched_at": bson.M{"$lte": t},
	})
}

func (r *Repository) findPrice(ctx context.Context, filter bson.M) (*models.PricePoint, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "fetched_at", Value: -1}})
	var doc bson.M
	err := r.db.Collection(colPriceHistory).FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoPrice
		}
		return nil, err
	}
	point := decodePrice(doc)
	return &point, nil
}

// PriceSeriesThrough returns every price row for a symbol with
// fetched_at <= through, oldest first. Used by the history reconstruction to
// replace per-day lookups with one in-memory as-of scan per symbol.
func (r *Repository) PriceSeriesThrough(ctx context.Context, symbol string, through time.Time) ([]models.PricePoint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fetched_at", Value: 1}})
	cursor, err := r.db.Collection(colPriceHistory).Find(ctx, bson.M{
		"symbol":     symbol,
		"fetched_at": bson.M{"$lte": through},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	series := make([]models.PricePoint, 0, len(docs))
	for _, doc := range docs {
		series = append(series, decodePrice(doc))
	}
	return series, nil
}

// KnownSymbols lists every symbol seen in the price series or in a reward
// event, sorted. The price feed appends one row per known symbol per tick.
func (r *Repository) KnownSymbols(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}

	for _, col := range []string{colPriceHistory, colRewardEvents} {
		values, err := r.db.Collection(col).Distinct(ctx, "symbol", bson.M{})
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if s, ok := v.(string); ok && s != "" {
				seen[s] = struct{}{}
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func decodePrice(doc bson.M) models.PricePoint {
	return models.PricePoint{
		Symbol:    docString(doc, "symbol"),
		PriceInr:  docDecimal(doc, "price_inr"),
		FetchedAt: docTime(doc, "fetched_at"),
	}
}
