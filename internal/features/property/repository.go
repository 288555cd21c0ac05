package property

import (
	"context"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	FindOne(ctx context.Context, filter bson.M) (*models.Property, error)
	List(ctx context.Context, filter bson.M) ([]models.Property, error)
	Update(ctx context.Context, filter bson.M, updates bson.M) error
	Delete(ctx context.Context, filter bson.M) error
}

type PropertyRepositoryImpl struct {
	repository.MongoRepository[models.Property]
}

func NewPropertyRepository(mongodb *database.MongodbDB) PropertyRepository {
	return &PropertyRepositoryImpl{
		MongoRepository: repository.NewMongoRepository[models.Property](mongodb.DB, "properties"),
	}
}

func (r *PropertyRepositoryImpl) Create(ctx context.Context, property *models.Property) error {
	return r.Insert(ctx, property)
}

func (r *PropertyRepositoryImpl) List(ctx context.Context, filter bson.M) ([]models.Property, error) {
	return r.Find(ctx, filter)
}

func (r *PropertyRepositoryImpl) Update(ctx context.Context, filter bson.M, updates bson.M) error {
	return r.UpdateOne(ctx, filter, updates)
}

func (r *PropertyRepositoryImpl) Delete(ctx context.Context, filter bson.M) error {
	return r.DeleteOne(ctx, filter)
}
