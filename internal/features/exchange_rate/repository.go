package exchange_rate

import (
	"context"
	"errors"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExchangeRateRepository interface {
	FindOne(ctx context.Context, filter bson.M) (*models.ExchangeRate, error)
	// Upsert writes the single row matched by filter, creating it if absent.
	// The filter's equality fields seed the inserted row.
	Upsert(ctx context.Context, filter bson.M, rate *models.ExchangeRate) (*models.ExchangeRate, error)
	EnsureIndexes(ctx context.Context) error
}

type ExchangeRateRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewExchangeRateRepository(mongodb *database.MongodbDB) ExchangeRateRepository {
	return &ExchangeRateRepositoryImpl{
		Collection: mongodb.DB.Collection("exchange_rates"),
	}
}

func (r *ExchangeRateRepositoryImpl) FindOne(ctx context.Context, filter bson.M) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	if err := r.Collection.FindOne(ctx, filter).Decode(&rate); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

func (r *ExchangeRateRepositoryImpl) Upsert(ctx context.Context, filter bson.M, rate *models.ExchangeRate) (*models.ExchangeRate, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"buy_rate":   rate.BuyRate,
			"sell_rate":  rate.SellRate,
			"updated_by": rate.UpdatedBy,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        database.NewID(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.ExchangeRate
	if err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ExchangeRateRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
