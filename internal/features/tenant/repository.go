package tenant

import (
	"context"
	"errors"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, id string) (*models.Tenant, error)
	List(ctx context.Context, filter bson.M) ([]models.Tenant, error)
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
	// IsActive reports whether the tenant exists and is enabled.
	IsActive(ctx context.Context, id string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type TenantRepositoryImpl struct {
	repository.MongoRepository[models.Tenant]
}

func NewTenantRepository(mongodb *database.MongodbDB) TenantRepository {
	return &TenantRepositoryImpl{
		MongoRepository: repository.NewMongoRepository[models.Tenant](mongodb.DB, "tenants"),
	}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = database.NewID()
	}
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	err := r.Insert(ctx, tenant)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Invalid("subdomain %s is already taken", tenant.Subdomain)
	}
	return err
}

func (r *TenantRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *TenantRepositoryImpl) List(ctx context.Context, filter bson.M) ([]models.Tenant, error) {
	return r.Find(ctx, filter)
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, id string, updates bson.M) error {
	err := r.UpdateOne(ctx, bson.M{"_id": id}, updates)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Invalid("subdomain is already taken")
	}
	return err
}

func (r *TenantRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.DeleteOne(ctx, bson.M{"_id": id})
}

func (r *TenantRepositoryImpl) IsActive(ctx context.Context, id string) (bool, error) {
	t, err := r.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.IsActive, nil
}

func (r *TenantRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subdomain", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}
