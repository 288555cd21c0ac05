package activity

import (
	"context"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository is append-only: there is no update or delete.
type ActivityRepository interface {
	Append(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, filter bson.M, limit int64) ([]models.Activity, error)
}

type ActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActivityRepository(mongodb *database.MongodbDB) ActivityRepository {
	return &ActivityRepositoryImpl{
		Collection: mongodb.DB.Collection("activities"),
	}
}

func (r *ActivityRepositoryImpl) Append(ctx context.Context, activity *models.Activity) error {
	_, err := r.Collection.InsertOne(ctx, activity)
	return err
}

func (r *ActivityRepositoryImpl) List(ctx context.Context, filter bson.M, limit int64) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// EntityRepository looks up the rows activities are logged against.
type EntityRepository interface {
	Exists(ctx context.Context, entityType string, filter bson.M) (bool, error)
}

type EntityRepositoryImpl struct {
	Collections map[string]*mongo.Collection
}

func NewEntityRepository(mongodb *database.MongodbDB) EntityRepository {
	return &EntityRepositoryImpl{
		Collections: map[string]*mongo.Collection{
			models.EntityLead:     mongodb.DB.Collection("leads"),
			models.EntityProperty: mongodb.DB.Collection("properties"),
			models.EntityDeal:     mongodb.DB.Collection("deals"),
		},
	}
}

func (r *EntityRepositoryImpl) Exists(ctx context.Context, entityType string, filter bson.M) (bool, error) {
	collection, ok := r.Collections[entityType]
	if !ok {
		return false, errs.Invalid("unknown entity type %q", entityType)
	}
	n, err := collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
