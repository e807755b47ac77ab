package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/models"
)

// CreateReward persists one reward atomically: the journal entry with its
// lines, the stock unit line and the reward event all commit together or not
// at all. A unique-index violation on the idempotency key aborts the
// transaction and surfaces as ErrDuplicateReward.
func (r *Repository) CreateReward(ctx context.Context, entry models.JournalEntry, unitLine models.StockUnitLine, reward models.RewardEvent) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}

		abort := func(err error) error {
			_ = sc.AbortTransaction(sc)
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateReward
			}
			return err
		}

		_, err := r.db.Collection(colJournalEntries).InsertOne(sc, bson.M{
			"_id":         entry.ID.String(),
			"description": entry.Description,
			"created_at":  entry.CreatedAt,
		})
		if err != nil {
			return abort(err)
		}

		lines := make([]interface{}, 0, len(entry.Lines))
		for _, line := range entry.Lines {
			lines = append(lines, bson.M{
				"journal_entry_id": line.JournalEntryID.String(),
				"account":          line.Account,
				"amount_inr":       line.AmountInr.String(),
				"entry_type":       string(line.EntryType),
			})
		}
		if _, err := r.db.Collection(colJournalLines).InsertMany(sc, lines); err != nil {
			return abort(err)
		}

		_, err = r.db.Collection(colStockUnitLines).InsertOne(sc, bson.M{
			"journal_entry_id": unitLine.JournalEntryID.String(),
			"user_id":          unitLine.UserID.String(),
			"symbol":           unitLine.Symbol,
			"units_delta":      unitLine.UnitsDelta.String(),
			"created_at":       unitLine.CreatedAt,
		})
		if err != nil {
			return abort(err)
		}

		doc := bson.M{
			"_id":              reward.ID.String(),
			"user_id":          reward.UserID.String(),
			"symbol":           reward.Symbol,
			"units":            reward.Units.String(),
			"price_per_unit":   reward.PricePerUnit.String(),
			"fees_inr":         reward.FeesInr.String(),
			"total_inr":        reward.TotalInr.String(),
			"rewarded_at":      reward.RewardedAt,
			"created_at":       reward.CreatedAt,
			"journal_entry_id": reward.JournalEntryID.String(),
		}
		if reward.IdempotencyKey != "" {
			doc["idempotency_key"] = reward.IdempotencyKey
		}
		if _, err := r.db.Collection(colRewardEvents).InsertOne(sc, doc); err != nil {
			return abort(err)
		}

		return sc.CommitTransaction(sc)
	})
}

// FindRewardByKey looks up a previously committed reward by idempotency key.
func (r *Repository) FindRewardByKey(ctx context.Context, key string) (*models.RewardEvent, error) {
	var doc bson.M
	err := r.db.Collection(colRewardEvents).FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	reward := decodeReward(doc)
	return &reward, nil
}

// FirstReward returns the user's earliest reward event, or ErrRewardNotFound.
func (r *Repository) FirstReward(ctx context.Context, userID uuid.UUID) (*models.RewardEvent, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "rewarded_at", Value: 1}})
	var doc bson.M
	err := r.db.Collection(colRewardEvents).FindOne(ctx, bson.M{"user_id": userID.String()}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	reward := decodeReward(doc)
	return &reward, nil
}

// ListRewardsBefore returns the user's reward events with a timestamp
// strictly before the cutoff, in chronological order.
func (r *Repository) ListRewardsBefore(ctx context.Context, userID uuid.UUID, before time.Time) ([]models.RewardEvent, error) {
	return r.listRewards(ctx, bson.M{
		"user_id":     userID.String(),
		"rewarded_at": bson.M{"$lt": before},
	})
}

// ListRewardsBetween returns reward events in [start, end), chronological.
func (r *Repository) ListRewardsBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.RewardEvent, error) {
	return r.listRewards(ctx, bson.M{
		"user_id":     userID.String(),
		"rewarded_at": bson.M{"$gte": start, "$lt": end},
	})
}

func (r *Repository) listRewards(ctx context.Context, filter bson.M) ([]models.RewardEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rewarded_at", Value: 1}})
	cursor, err := r.db.Collection(colRewardEvents).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]models.RewardEvent, 0, len(docs))
	for _, doc := range docs {
		events = append(events, decodeReward(doc))
	}
	return events, nil
}

func decodeReward(doc bson.M) models.RewardEvent {
	return models.RewardEvent{
		ID:             docUUID(doc, "_id"),
		UserID:         docUUID(doc, "user_id"),
		Symbol:         docString(doc, "symbol"),
		Units:          docDecimal(doc, "units"),
		PricePerUnit:   docDecimal(doc, "price_per_unit"),
		FeesInr:        docDecimal(doc, "fees_inr"),
		TotalInr:       docDecimal(doc, "total_inr"),
		RewardedAt:     docTime(doc, "rewarded_at"),
		CreatedAt:      docTime(doc, "created_at"),
		IdempotencyKey: docString(doc, "idempotency_key"),
		JournalEntryID: docUUID(doc, "journal_entry_id"),
	}
}
