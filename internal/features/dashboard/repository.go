package dashboard

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsRepository runs the counting queries behind the dashboard. Every
// filter it receives is already tenant and owner bounded.
type StatsRepository interface {
	CountLeads(ctx context.Context, filter bson.M) (int64, error)
	CountProperties(ctx context.Context, filter bson.M) (int64, error)
	DealTotals(ctx context.Context, filter bson.M) (*DealTotals, error)
	AgentPerformance(ctx context.Context, filter bson.M) ([]AgentPerformance, error)
}

type StatsRepositoryImpl struct {
	leads      *mongo.Collection
	properties *mongo.Collection
	deals      *mongo.Collection
}

func NewStatsRepository(mongodb *database.MongodbDB) StatsRepository {
	return &StatsRepositoryImpl{
		leads:      mongodb.DB.Collection("leads"),
		properties: mongodb.DB.Collection("properties"),
		deals:      mongodb.DB.Collection("deals"),
	}
}

func (r *StatsRepositoryImpl) CountLeads(ctx context.Context, filter bson.M) (int64, error) {
	return r.leads.CountDocuments(ctx, filter)
}

func (r *StatsRepositoryImpl) CountProperties(ctx context.Context, filter bson.M) (int64, error) {
	return r.properties.CountDocuments(ctx, filter)
}

func (r *StatsRepositoryImpl) DealTotals(ctx context.Context, filter bson.M) (*DealTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"count":            bson.M{"$sum": 1},
			"total_commission": bson.M{"$sum": bson.M{"$toDecimal": "$agent_commission"}},
		}}},
	}
	cursor, err := r.deals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate deals: %w", err)
	}
	defer cursor.Close(ctx)

	totals := &DealTotals{TotalCommission: models.MustMoney("0")}
	if cursor.Next(ctx) {
		if err := cursor.Decode(totals); err != nil {
			return nil, err
		}
	}
	return totals, cursor.Err()
}

func (r *StatsRepositoryImpl) AgentPerformance(ctx context.Context, filter bson.M) ([]AgentPerformance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$agent_id",
			"closed_deals":     bson.M{"$sum": 1},
			"total_commission": bson.M{"$sum": bson.M{"$toDecimal": "$agent_commission"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_commission", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := r.deals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate agent performance: %w", err)
	}
	defer cursor.Close(ctx)

	agents := []AgentPerformance{}
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}
