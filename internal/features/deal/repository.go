package deal

import (
	"context"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	FindOne(ctx context.Context, filter bson.M) (*models.Deal, error)
	List(ctx context.Context, filter bson.M) ([]models.Deal, error)
	Update(ctx context.Context, filter bson.M, updates bson.M) error
}

type DealRepositoryImpl struct {
	repository.MongoRepository[models.Deal]
}

func NewDealRepository(mongodb *database.MongodbDB) DealRepository {
	return &DealRepositoryImpl{
		MongoRepository: repository.NewMongoRepository[models.Deal](mongodb.DB, "deals"),
	}
}

func (r *DealRepositoryImpl) Create(ctx context.Context, deal *models.Deal) error {
	return r.Insert(ctx, deal)
}

func (r *DealRepositoryImpl) List(ctx context.Context, filter bson.M) ([]models.Deal, error) {
	return r.Find(ctx, filter)
}

func (r *DealRepositoryImpl) Update(ctx context.Context, filter bson.M, updates bson.M) error {
	return r.UpdateOne(ctx, filter, updates)
}
