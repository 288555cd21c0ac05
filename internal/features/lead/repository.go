package lead

import (
	"context"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindOne(ctx context.Context, filter bson.M) (*models.Lead, error)
	List(ctx context.Context, filter bson.M) ([]models.Lead, error)
	Update(ctx context.Context, filter bson.M, updates bson.M) error
	Delete(ctx context.Context, filter bson.M) error
}

type LeadRepositoryImpl struct {
	repository.MongoRepository[models.Lead]
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		MongoRepository: repository.NewMongoRepository[models.Lead](mongodb.DB, "leads"),
	}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *models.Lead) error {
	return r.Insert(ctx, lead)
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter bson.M) ([]models.Lead, error) {
	return r.Find(ctx, filter)
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, filter bson.M, updates bson.M) error {
	return r.UpdateOne(ctx, filter, updates)
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, filter bson.M) error {
	return r.DeleteOne(ctx, filter)
}
