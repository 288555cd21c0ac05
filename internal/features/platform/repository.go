package platform

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlatformRepository reads tenant metadata and user counts. It never opens
// the lead, property or deal collections.
type PlatformRepository interface {
	Stats(ctx context.Context) (*Stats, error)
	TenantSummaries(ctx context.Context) ([]TenantSummary, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	ListSnapshots(ctx context.Context, limit int64) ([]Snapshot, error)
}

type PlatformRepositoryImpl struct {
	tenants   *mongo.Collection
	users     *mongo.Collection
	snapshots *mongo.Collection
}

func NewPlatformRepository(mongodb *database.MongodbDB) PlatformRepository {
	return &PlatformRepositoryImpl{
		tenants:   mongodb.DB.Collection("tenants"),
		users:     mongodb.DB.Collection("users"),
		snapshots: mongodb.DB.Collection("platform_snapshots"),
	}
}

func (r *PlatformRepositoryImpl) Stats(ctx context.Context) (*Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"tenant_count": bson.M{"$sum": 1},
			"active_tenant_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_active", 1, 0},
			}},
			"platform_revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_active", bson.M{"$toDecimal": "$monthly_fee"}, 0},
			}},
		}}},
	}
	cursor, err := r.tenants.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tenants: %w", err)
	}
	defer cursor.Close(ctx)

	stats := &Stats{PlatformRevenue: models.MustMoney("0")}
	if cursor.Next(ctx) {
		if err := cursor.Decode(stats); err != nil {
			return nil, err
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	stats.ActiveUserCount, err = r.users.CountDocuments(ctx, activeTenantUsers())
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return stats, nil
}

func (r *PlatformRepositoryImpl) TenantSummaries(ctx context.Context) ([]TenantSummary, error) {
	cursor, err := r.tenants.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tenants []models.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}

	counts, err := r.activeUsersByTenant(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]TenantSummary, 0, len(tenants))
	for _, t := range tenants {
		summaries = append(summaries, TenantSummary{
			TenantID:    t.ID,
			Name:        t.Name,
			Subdomain:   t.Subdomain,
			Plan:        t.Plan,
			MonthlyFee:  t.MonthlyFee,
			IsActive:    t.IsActive,
			ActiveUsers: counts[t.ID],
		})
	}
	return summaries, nil
}

func (r *PlatformRepositoryImpl) activeUsersByTenant(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeTenantUsers()}},
		{{Key: "$group", Value: bson.M{"_id": "$tenant_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TenantID string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TenantID] = row.Count
	}
	return counts, nil
}

func (r *PlatformRepositoryImpl) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = database.NewID()
	}
	_, err := r.snapshots.InsertOne(ctx, snapshot)
	return err
}

func (r *PlatformRepositoryImpl) ListSnapshots(ctx context.Context, limit int64) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.snapshots.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	snapshots := []Snapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func activeTenantUsers() bson.M {
	return bson.M{
		"is_active": true,
		"role":      bson.M{"$ne": permission.RoleSuperAdmin},
	}
}
