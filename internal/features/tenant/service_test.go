package tenant

import (
	"context"
	"errors"
	"testing"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"
	"estate-crm/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type memoryTenants struct {
	c     *testutil.Collection[models.Tenant]
	calls int
}

func (m *memoryTenants) Create(_ context.Context, t *models.Tenant) error {
	m.calls++
	if len(m.c.Find(bson.M{"subdomain": t.Subdomain})) > 0 {
		return errs.Invalid("subdomain %s is already taken", t.Subdomain)
	}
	t.ID = "t-" + t.Subdomain
	m.c.Insert(*t)
	return nil
}

func (m *memoryTenants) FindByID(_ context.Context, id string) (*models.Tenant, error) {
	m.calls++
	return m.c.FindOne(bson.M{"_id": id})
}

func (m *memoryTenants) List(_ context.Context, filter bson.M) ([]models.Tenant, error) {
	m.calls++
	return m.c.Find(filter), nil
}

func (m *memoryTenants) Update(_ context.Context, id string, updates bson.M) error {
	m.calls++
	return m.c.Update(bson.M{"_id": id}, updates)
}

func (m *memoryTenants) Delete(_ context.Context, id string) error {
	m.calls++
	return m.c.Delete(bson.M{"_id": id})
}

func (m *memoryTenants) IsActive(ctx context.Context, id string) (bool, error) {
	t, err := m.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return err == nil && t.IsActive, err
}

func (m *memoryTenants) EnsureIndexes(context.Context) error { return nil }

type recordingProvisioner struct {
	tenantID string
	req      user.CreateUserRequest
}

func (p *recordingProvisioner) CreateTenantAdmin(_ context.Context, tenantID string, req user.CreateUserRequest) (*models.User, error) {
	p.tenantID, p.req = tenantID, req
	return &models.User{ID: "admin-1", TenantID: tenantID, Email: req.Email, Role: permission.RoleAdmin, IsActive: true}, nil
}

type countingSessions struct{ purges int }

func (c *countingSessions) InvalidateAll() { c.purges++ }

type noTeams struct{}

func (noTeams) TeamMemberIDs(context.Context, string, string) ([]string, error) { return nil, nil }

type fixture struct {
	svc      *TenantServiceImpl
	repo     *memoryTenants
	admins   *recordingProvisioner
	sessions *countingSessions
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	f := fixture{
		repo: &memoryTenants{c: testutil.NewCollection(
			models.Tenant{ID: "T1", Name: "Harbor Homes", Subdomain: "harbor-homes", PrimaryColor: "#2563EB", SecondaryColor: "#64748B", IsActive: true},
		)},
		admins:   &recordingProvisioner{},
		sessions: &countingSessions{},
	}
	iso := tenancy.NewIsolation(permission.NewResolver(table), noTeams{}, zap.NewNop(), nil)
	f.svc = NewTenantService(f.repo, f.admins, f.sessions, iso, zap.NewNop()).(*TenantServiceImpl)
	return f
}

var (
	superadmin = tenancy.Caller{Principal: tenancy.Principal{UserID: "root", Role: permission.RoleSuperAdmin}}
	admin      = tenancy.Caller{Principal: tenancy.Principal{UserID: "A", Role: permission.RoleAdmin, TenantID: "T1"}}
)

func TestCreateTenantBootstrapsAdmin(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CreateTenant(context.Background(), superadmin, CreateTenantRequest{
		Name:       "  Acme Realty! ",
		MonthlyFee: models.MustMoney("499"),
		Admin:      &user.CreateUserRequest{Email: "owner@acme.test", Password: "longenough"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Realty!", resp.Tenant.Name)
	assert.Equal(t, "acme-realty", resp.Tenant.Subdomain)
	assert.Equal(t, defaultPrimaryColor, resp.Tenant.PrimaryColor)
	assert.Equal(t, defaultPlan, resp.Tenant.Plan)
	assert.True(t, resp.Tenant.IsActive)
	require.NotNil(t, resp.Admin)
	assert.Equal(t, resp.Tenant.ID, f.admins.tenantID)
	assert.Equal(t, "owner@acme.test", f.admins.req.Email)
}

func TestCreateTenantValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tooHigh, _ := models.ParseRatio("1.5")

	for name, req := range map[string]CreateTenantRequest{
		"blank name":    {Name: "  "},
		"taken":         {Name: "Harbor Homes"},
		"bad color":     {Name: "Blue", PrimaryColor: "blue"},
		"negative fee":  {Name: "Neg", MonthlyFee: models.MustMoney("-1")},
		"share above 1": {Name: "Greedy", CommissionShareRate: &tooHigh},
		"symbols only":  {Name: "x", Subdomain: "!!!"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateTenant(ctx, superadmin, req)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
}

func TestTenantAdminCannotManageTenants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var authErr *errs.AuthorizationError
	_, err := f.svc.ListTenants(ctx, admin)
	assert.ErrorAs(t, err, &authErr)
	_, err = f.svc.CreateTenant(ctx, admin, CreateTenantRequest{Name: "Sneaky"})
	assert.ErrorAs(t, err, &authErr)
	assert.ErrorAs(t, f.svc.DeleteTenant(ctx, admin, "T1"), &authErr)
	assert.Zero(t, f.repo.calls)
}

func TestPlatformCallNamingATenantIsRejected(t *testing.T) {
	f := newFixture(t)
	c := superadmin
	c.RequestedTenant = "T1"

	_, err := f.svc.ListTenants(context.Background(), c)
	assert.ErrorIs(t, err, errs.ErrPlatformTenant)
	assert.Zero(t, f.repo.calls)
}

func TestDeactivateAndDeletePurgeSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := false

	updated, err := f.svc.UpdateTenant(ctx, superadmin, "T1", UpdateTenantRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 1, f.sessions.purges)

	active, err := f.repo.IsActive(ctx, "T1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, f.svc.DeleteTenant(ctx, superadmin, "T1"))
	assert.Equal(t, 2, f.sessions.purges)
	assert.ErrorIs(t, f.svc.DeleteTenant(ctx, superadmin, "T1"), errs.ErrNotFound)
}

func TestBrandingIsTenantBound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	color := "#112233"

	b, err := f.svc.UpdateBranding(ctx, admin, BrandingRequest{PrimaryColor: &color})
	require.NoError(t, err)
	assert.Equal(t, "#112233", b.PrimaryColor)
	assert.Equal(t, "Harbor Homes", b.Name)

	bad := "red"
	_, err = f.svc.UpdateBranding(ctx, admin, BrandingRequest{SecondaryColor: &bad})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	sales := tenancy.Caller{Principal: tenancy.Principal{UserID: "U1", Role: permission.RoleSales, TenantID: "T1"}}
	_, err = f.svc.GetBranding(ctx, sales)
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestShareRatesPreferTenantOverride(t *testing.T) {
	override, _ := models.ParseRatio("0.25")
	repo := &memoryTenants{c: testutil.NewCollection(
		models.Tenant{ID: "T1", IsActive: true},
		models.Tenant{ID: "T2", IsActive: true, CommissionShareRate: &override},
	)}
	rates := NewShareRates(repo, &config.Config{CompanyShareRate: decimal.RequireFromString("0.40")})
	ctx := context.Background()

	r1, err := rates.CompanyShareRate(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "0.4", r1.String())

	r2, err := rates.CompanyShareRate(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, "0.25", r2.String())

	_, err = rates.CompanyShareRate(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
