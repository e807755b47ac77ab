package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decimals are stored as strings so values survive MongoDB round trips
// without any binary floating point in between.

func docDecimal(doc bson.M, key string) decimal.Decimal {
	s, _ := doc[key].(string)
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return dec
}

func docString(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docTime(doc bson.M, key string) time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		return v.UTC()
	case primitive.DateTime:
		return v.Time().UTC()
	default:
		return time.Time{}
	}
}

func docUUID(doc bson.M, key string) uuid.UUID {
	id, err := uuid.Parse(docString(doc, key))
	if err != nil {
		return uuid.Nil
	}
	return id
}
