package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// FindByID is unscoped. It backs session resolution only.
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindOne(ctx context.Context, filter bson.M) (*models.User, error)
	List(ctx context.Context, filter bson.M) ([]models.User, error)
	Update(ctx context.Context, filter bson.M, updates bson.M) error
	Delete(ctx context.Context, filter bson.M) error
	TeamMemberIDs(ctx context.Context, tenantID, supervisorID string) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = database.NewID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Invalid("email %s is already registered", user.Email)
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, filter bson.M, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, filter bson.M) error {
	result, err := r.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// TeamMemberIDs returns the supervisor and every user that reports to it,
// inside one tenant.
func (r *UserRepositoryImpl) TeamMemberIDs(ctx context.Context, tenantID, supervisorID string) ([]string, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"$or": bson.A{
			bson.M{"_id": supervisorID, "role": permission.RoleSupervisor},
			bson.M{"supervisor_id": supervisorID},
		},
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "supervisor_id", Value: 1}}},
	})
	return err
}
