package repository

import (
	"context"
	"errors"
	"time"

	"estate-crm/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository is the filter-driven CRUD shared by the business
// collections. Callers pass filters already bounded by tenancy.Access.
type MongoRepository[T any] struct {
	Collection *mongo.Collection
}

func NewMongoRepository[T any](db *mongo.Database, name string) MongoRepository[T] {
	return MongoRepository[T]{Collection: db.Collection(name)}
}

func (r MongoRepository[T]) Insert(ctx context.Context, doc *T) error {
	_, err := r.Collection.InsertOne(ctx, doc)
	return err
}

func (r MongoRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.Collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Find returns matching documents, newest first unless opts say otherwise.
func (r MongoRepository[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	findOpts := append([]*options.FindOptions{
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	}, opts...)

	cursor, err := r.Collection.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r MongoRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, filter)
}

// UpdateOne applies set to the single matching document. Last writer wins.
func (r MongoRepository[T]) UpdateOne(ctx context.Context, filter bson.M, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r MongoRepository[T]) DeleteOne(ctx context.Context, filter bson.M) error {
	result, err := r.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the tenant-leading indexes every business
// collection is queried by.
func (r MongoRepository[T]) EnsureIndexes(ctx context.Context, ownerField string) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if ownerField != "" && ownerField != "_id" {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: ownerField, Value: 1}},
		})
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, models)
	return err
}
