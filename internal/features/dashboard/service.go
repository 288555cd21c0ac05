package dashboard

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/platform"
	"estate-crm/internal/features/tenancy"

	"go.mongodb.org/mongo-driver/bson"
)

// PlatformStats is the aggregate source for the platform view.
type PlatformStats interface {
	Stats(ctx context.Context) (*platform.Stats, error)
}

type DashboardService interface {
	ComputeStats(ctx context.Context, caller tenancy.Caller) (*StatsRecord, error)
}

type DashboardServiceImpl struct {
	Repo      StatsRepository
	Platform  PlatformStats
	Isolation *tenancy.Isolation
}

func NewDashboardService(repo StatsRepository, platformStats PlatformStats, isolation *tenancy.Isolation) DashboardService {
	return &DashboardServiceImpl{
		Repo:      repo,
		Platform:  platformStats,
		Isolation: isolation,
	}
}

// ComputeStats authorizes dashboard read first, then aggregates at the
// caller's scope. The platform view only ever gets platform aggregates.
func (s *DashboardServiceImpl) ComputeStats(ctx context.Context, caller tenancy.Caller) (*StatsRecord, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDashboard, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*StatsRecord, error) {
			if access.Platform {
				stats, err := s.Platform.Stats(ctx)
				if err != nil {
					return nil, err
				}
				return &StatsRecord{Scope: access.Level, Stats: stats}, nil
			}

			stats, err := s.businessStats(ctx, access)
			if err != nil {
				return nil, err
			}
			return &StatsRecord{Scope: access.Level, BusinessStats: stats}, nil
		})
}

func (s *DashboardServiceImpl) businessStats(ctx context.Context, access tenancy.Access) (*BusinessStats, error) {
	leadFilter, err := access.For(permission.ResourceLeads).Filter(nil)
	if err != nil {
		return nil, err
	}
	propertyFilter, err := access.For(permission.ResourceProperties).Filter(bson.M{"status": models.PropertyStatusAvailable})
	if err != nil {
		return nil, err
	}
	dealFilter, err := access.For(permission.ResourceDeals).Filter(bson.M{"status": models.DealStatusClosed})
	if err != nil {
		return nil, err
	}

	stats := &BusinessStats{}
	if stats.TotalLeads, err = s.Repo.CountLeads(ctx, leadFilter); err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	if stats.ActiveProperties, err = s.Repo.CountProperties(ctx, propertyFilter); err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	totals, err := s.Repo.DealTotals(ctx, dealFilter)
	if err != nil {
		return nil, fmt.Errorf("sum deals: %w", err)
	}
	stats.ClosedDeals = totals.Count
	stats.TotalCommission = models.NewMoney(totals.TotalCommission.Decimal)

	if access.Level == permission.ScopeTeam || access.Level == permission.ScopeTenant {
		if stats.Agents, err = s.Repo.AgentPerformance(ctx, dealFilter); err != nil {
			return nil, fmt.Errorf("agent performance: %w", err)
		}
	}
	return stats, nil
}
