package platform

import (
	"context"
	"testing"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memoryPlatform struct {
	stats     Stats
	snapshots []Snapshot
	reads     int
}

func (m *memoryPlatform) Stats(context.Context) (*Stats, error) {
	m.reads++
	s := m.stats
	return &s, nil
}

func (m *memoryPlatform) TenantSummaries(context.Context) ([]TenantSummary, error) {
	m.reads++
	return []TenantSummary{{TenantID: "T1", Name: "Harbor Homes", IsActive: true, ActiveUsers: 4}}, nil
}

func (m *memoryPlatform) SaveSnapshot(_ context.Context, s *Snapshot) error {
	s.ID = "snap-1"
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *memoryPlatform) ListSnapshots(_ context.Context, limit int64) ([]Snapshot, error) {
	m.reads++
	if int64(len(m.snapshots)) > limit {
		return m.snapshots[:limit], nil
	}
	return m.snapshots, nil
}

type noTeams struct{}

func (noTeams) TeamMemberIDs(context.Context, string, string) ([]string, error) { return nil, nil }

func newService(t *testing.T, logger *zap.Logger) (*PlatformServiceImpl, *memoryPlatform) {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	repo := &memoryPlatform{stats: Stats{
		TenantCount: 3, ActiveTenantCount: 2, PlatformRevenue: models.MustMoney("998.00"), ActiveUserCount: 11,
	}}
	iso := tenancy.NewIsolation(permission.NewResolver(table), noTeams{}, zap.NewNop(), nil)
	svc := NewPlatformService(repo, iso, logger).(*PlatformServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 2, 0, 0, 0, time.UTC) }
	return svc, repo
}

var superadmin = tenancy.Caller{Principal: tenancy.Principal{UserID: "root", Role: permission.RoleSuperAdmin}}

func TestSuperadminReadsAggregates(t *testing.T) {
	svc, _ := newService(t, zap.NewNop())
	ctx := context.Background()

	stats, err := svc.GetStats(ctx, superadmin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TenantCount)
	assert.Equal(t, "998.00", stats.PlatformRevenue.String())

	summaries, err := svc.ListTenantSummaries(ctx, superadmin)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(4), summaries[0].ActiveUsers)
}

func TestTenantRolesCannotReadPlatform(t *testing.T) {
	svc, repo := newService(t, zap.NewNop())

	for _, role := range []permission.Role{permission.RoleAdmin, permission.RoleSupervisor, permission.RoleSales} {
		c := tenancy.Caller{Principal: tenancy.Principal{UserID: "u", Role: role, TenantID: "T1", SupervisorID: "s"}}
		_, err := svc.GetStats(context.Background(), c)
		var authErr *errs.AuthorizationError
		assert.ErrorAs(t, err, &authErr, role)
	}
	assert.Zero(t, repo.reads)
}

func TestTakeSnapshotRecordsStats(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc, repo := newService(t, zap.New(core))

	snap, err := svc.TakeSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
	assert.Equal(t, int64(2), snap.Stats.ActiveTenantCount)
	assert.Equal(t, 2026, snap.TakenAt.Year())
	assert.Equal(t, 1, logs.FilterMessage("platform snapshot taken").Len())

	listed, err := svc.ListSnapshots(context.Background(), superadmin, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Len(t, repo.snapshots, 1)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	svc, _ := newService(t, zap.NewNop())

	bad := NewSnapshotScheduler(svc, &config.Config{PlatformSnapshotCron: "every day"}, zap.NewNop())
	assert.Error(t, bad.Start())

	off := NewSnapshotScheduler(svc, &config.Config{}, zap.NewNop())
	require.NoError(t, off.Start())
	off.Stop()

	on := NewSnapshotScheduler(svc, &config.Config{PlatformSnapshotCron: "0 2 * * *"}, zap.NewNop())
	require.NoError(t, on.Start())
	on.Stop()
}
