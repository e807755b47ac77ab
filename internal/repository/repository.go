package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colJournalEntries = "journal_entries"
	colJournalLines   = "journal_lines"
	colStockUnitLines = "stock_unit_lines"
	colRewardEvents   = "reward_events"
	colPriceHistory   = "price_history"
)

var (
	// ErrDuplicateReward signals that a reward with the same idempotency key
	// was already committed. Callers treat it as a replay, not a failure.
	ErrDuplicateReward = errors.New("reward event already exists")
	ErrRewardNotFound  = errors.New("reward event not found")
	ErrNoPrice         = errors.New("no price recorded for symbol")
)

type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(client *mongo.Client, dbName string) *Repository {
	return &Repository{
		client: client,
		db:     client.Database(dbName),
	}
}

// EnsureIndexes creates the indexes the ledger depends on. The partial unique
// index on idempotency_key is what makes concurrent duplicate credits safe:
// the second insert fails on the constraint instead of writing a second event.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(colRewardEvents).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "rewarded_at", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = r.db.Collection(colPriceHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "symbol", Value: 1}, {Key: "fetched_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = r.db.Collection(colStockUnitLines).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "symbol", Value: 1}},
	})
	return err
}
