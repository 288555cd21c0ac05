package platform

import (
	"context"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"go.uber.org/zap"
)

type PlatformService interface {
	// Stats is the unauthenticated aggregate read used by the dashboard
	// once it has resolved platform access.
	Stats(ctx context.Context) (*Stats, error)
	GetStats(ctx context.Context, caller tenancy.Caller) (*Stats, error)
	ListTenantSummaries(ctx context.Context, caller tenancy.Caller) ([]TenantSummary, error)
	ListSnapshots(ctx context.Context, caller tenancy.Caller, limit int) ([]Snapshot, error)
	TakeSnapshot(ctx context.Context) (*Snapshot, error)
}

type PlatformServiceImpl struct {
	Repo      PlatformRepository
	Isolation *tenancy.Isolation
	Logger    *zap.Logger
	now       func() time.Time
}

func NewPlatformService(repo PlatformRepository, isolation *tenancy.Isolation, logger *zap.Logger) PlatformService {
	return &PlatformServiceImpl{
		Repo:      repo,
		Isolation: isolation,
		Logger:    logger,
		now:       time.Now,
	}
}

func platformOnly[T any](ctx context.Context, iso *tenancy.Isolation, caller tenancy.Caller, fn func(context.Context) (T, error)) (T, error) {
	return tenancy.Scoped(ctx, iso, caller.Request(permission.ResourceTenants, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (T, error) {
			if !access.Platform {
				var zero T
				return zero, errs.Denied(string(caller.Role), permission.ResourceTenants, permission.ActionRead, string(access.Level))
			}
			return fn(ctx)
		})
}

func (s *PlatformServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	return s.Repo.Stats(ctx)
}

func (s *PlatformServiceImpl) GetStats(ctx context.Context, caller tenancy.Caller) (*Stats, error) {
	return platformOnly(ctx, s.Isolation, caller, s.Repo.Stats)
}

func (s *PlatformServiceImpl) ListTenantSummaries(ctx context.Context, caller tenancy.Caller) ([]TenantSummary, error) {
	return platformOnly(ctx, s.Isolation, caller, s.Repo.TenantSummaries)
}

func (s *PlatformServiceImpl) ListSnapshots(ctx context.Context, caller tenancy.Caller, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	if limit > MaxSnapshotLimit {
		limit = MaxSnapshotLimit
	}
	return platformOnly(ctx, s.Isolation, caller, func(ctx context.Context) ([]Snapshot, error) {
		return s.Repo.ListSnapshots(ctx, int64(limit))
	})
}

// TakeSnapshot records the current aggregates. It runs from the scheduler,
// outside any request.
func (s *PlatformServiceImpl) TakeSnapshot(ctx context.Context) (*Snapshot, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{Stats: *stats, TakenAt: s.now().UTC()}
	if err := s.Repo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	s.Logger.Info("platform snapshot taken",
		zap.String("snapshot_id", snapshot.ID),
		zap.Int64("tenants", stats.TenantCount),
		zap.Int64("active_users", stats.ActiveUserCount),
	)
	return snapshot, nil
}
