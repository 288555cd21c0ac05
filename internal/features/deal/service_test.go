package deal

import (
	"context"
	"testing"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/activity"
	"estate-crm/internal/features/lead"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/property"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"
	"estate-crm/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type dealStore struct{ c *testutil.Collection[models.Deal] }

func (s dealStore) Create(_ context.Context, d *models.Deal) error {
	s.c.Insert(*d)
	return nil
}

func (s dealStore) FindOne(_ context.Context, f bson.M) (*models.Deal, error) {
	return s.c.FindOne(f)
}

func (s dealStore) List(_ context.Context, f bson.M) ([]models.Deal, error) {
	return s.c.Find(f), nil
}

func (s dealStore) Update(_ context.Context, f, u bson.M) error {
	return s.c.Update(f, u)
}

type leadStore struct {
	lead.LeadRepository
	c *testutil.Collection[models.Lead]
}

func (s leadStore) FindOne(_ context.Context, f bson.M) (*models.Lead, error) {
	return s.c.FindOne(f)
}
func (s leadStore) Update(_ context.Context, f, u bson.M) error { return s.c.Update(f, u) }

type propertyStore struct {
	property.PropertyRepository
	c *testutil.Collection[models.Property]
}

func (s propertyStore) FindOne(_ context.Context, f bson.M) (*models.Property, error) {
	return s.c.FindOne(f)
}
func (s propertyStore) Update(_ context.Context, f, u bson.M) error { return s.c.Update(f, u) }

type userStore struct {
	user.UserRepository
	c *testutil.Collection[models.User]
}

func (s userStore) FindOne(_ context.Context, f bson.M) (*models.User, error) {
	return s.c.FindOne(f)
}

func (s userStore) TeamMemberIDs(_ context.Context, tenantID, supervisorID string) ([]string, error) {
	var ids []string
	for _, u := range s.c.Find(bson.M{"tenant_id": tenantID}) {
		if u.ID == supervisorID || u.SupervisorID == supervisorID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type fixedRates map[string]decimal.Decimal

func (f fixedRates) CompanyShareRate(_ context.Context, tenantID string) (decimal.Decimal, error) {
	if r, ok := f[tenantID]; ok {
		return r, nil
	}
	return decimal.RequireFromString("0.40"), nil
}

type countingRecorder struct {
	activity.ActivityRecorder
	actions []string
}

func (c *countingRecorder) RecordBestEffort(_ context.Context, _, _, _, _, action, _ string) {
	c.actions = append(c.actions, action)
}

type fixture struct {
	svc        *DealServiceImpl
	deals      dealStore
	leads      leadStore
	properties propertyStore
	recorder   *countingRecorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	users := userStore{c: testutil.NewCollection(
		models.User{ID: "A", TenantID: "T1", Role: permission.RoleAdmin, IsActive: true},
		models.User{ID: "S", TenantID: "T1", Role: permission.RoleSupervisor, IsActive: true},
		models.User{ID: "U1", TenantID: "T1", Role: permission.RoleSales, SupervisorID: "S", IsActive: true},
		models.User{ID: "U2", TenantID: "T1", Role: permission.RoleSales, IsActive: true},
		models.User{ID: "Z", TenantID: "T2", Role: permission.RoleSales, IsActive: true},
	)}
	f := fixture{
		deals: dealStore{c: testutil.NewCollection(
			models.Deal{ID: "D1", TenantID: "T1", AgentID: "U1", Status: models.DealStatusPending, PropertyID: "P1", LeadID: "L1",
				SalePrice: models.MustMoney("100000"), CommissionPercentage: models.MustRatio("2"),
				AgentCommission: models.MustMoney("2000"), CompanyCommission: models.MustMoney("800")},
			models.Deal{ID: "D2", TenantID: "T1", AgentID: "U2", Status: models.DealStatusClosed,
				AgentCommission: models.MustMoney("1000"), CompanyCommission: models.MustMoney("400")},
			models.Deal{ID: "D3", TenantID: "T2", AgentID: "Z", Status: models.DealStatusClosed},
		)},
		leads: leadStore{c: testutil.NewCollection(
			models.Lead{ID: "L1", TenantID: "T1", AssignedTo: "U1", Status: models.LeadStatusQualified},
			models.Lead{ID: "L2", TenantID: "T1", AssignedTo: "U2", Status: models.LeadStatusQualified},
		)},
		properties: propertyStore{c: testutil.NewCollection(
			models.Property{ID: "P1", TenantID: "T1", Status: models.PropertyStatusAvailable},
			models.Property{ID: "P9", TenantID: "T2", Status: models.PropertyStatusAvailable},
		)},
		recorder: &countingRecorder{},
	}

	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	iso := tenancy.NewIsolation(permission.NewResolver(table), users, zap.NewNop(), nil)
	f.svc = NewDealService(f.deals, f.leads, f.properties, users, fixedRates{"T1": decimal.RequireFromString("0.4")},
		iso, f.recorder, zap.NewNop()).(*DealServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func as(id string, role permission.Role, supervisor string) tenancy.Caller {
	return tenancy.Caller{Principal: tenancy.Principal{UserID: id, Role: role, TenantID: "T1", SupervisorID: supervisor}}
}

func TestSalesCreatesOwnDealWithServerCommission(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.CreateDeal(context.Background(), as("U1", permission.RoleSales, "S"), CreateDealRequest{
		PropertyID: "P1", LeadID: "L1",
		SalePrice: models.MustMoney("285000"), CommissionPercentage: models.MustRatio("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "U1", d.AgentID)
	assert.Equal(t, models.DealStatusPending, d.Status)
	assert.Equal(t, "8550.00", d.AgentCommission.String())
	assert.Equal(t, "3420.00", d.CompanyCommission.String())
	assert.Equal(t, []string{activity.ActionCreated}, f.recorder.actions)
}

func TestCreateDealBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := CreateDealRequest{PropertyID: "P1", LeadID: "L1", SalePrice: models.MustMoney("1000"), CommissionPercentage: models.MustRatio("3")}

	// Sales cannot book a deal for someone else.
	req := base
	req.AgentID = "U2"
	_, err := f.svc.CreateDeal(ctx, as("U1", permission.RoleSales, "S"), req)
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	// Nor against a lead assigned elsewhere.
	req = base
	req.LeadID = "L2"
	_, err = f.svc.CreateDeal(ctx, as("U1", permission.RoleSales, "S"), req)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// Property of another tenant.
	req = base
	req.PropertyID = "P9"
	_, err = f.svc.CreateDeal(ctx, as("A", permission.RoleAdmin, ""), req)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// Admin may book for any active tenant member.
	req = base
	req.AgentID = "U2"
	req.LeadID = "L2"
	d, err := f.svc.CreateDeal(ctx, as("A", permission.RoleAdmin, ""), req)
	require.NoError(t, err)
	assert.Equal(t, "U2", d.AgentID)
}

func TestUpdateDealRecomputesCommission(t *testing.T) {
	f := newFixture(t)
	price := models.MustMoney("285000")
	pct := models.MustRatio("3")

	d, err := f.svc.UpdateDeal(context.Background(), as("U1", permission.RoleSales, "S"), "D1", UpdateDealRequest{SalePrice: &price, CommissionPercentage: &pct})
	require.NoError(t, err)
	assert.Equal(t, "8550.00", d.AgentCommission.String())
	assert.Equal(t, "3420.00", d.CompanyCommission.String())

	closed := models.DealStatusClosed
	_, err = f.svc.UpdateDeal(context.Background(), as("U1", permission.RoleSales, "S"), "D1", UpdateDealRequest{Status: &closed})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = f.svc.UpdateDeal(context.Background(), as("A", permission.RoleAdmin, ""), "D2", UpdateDealRequest{SalePrice: &price})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestApproveDealClosesAndMarksSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApproveDeal(ctx, as("U1", permission.RoleSales, "S"), "D1")
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	d, err := f.svc.ApproveDeal(ctx, as("S", permission.RoleSupervisor, ""), "D1")
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusClosed, d.Status)
	require.NotNil(t, d.DealDate)
	assert.Equal(t, 2026, d.DealDate.Year())

	p, _ := f.properties.c.Get("P1")
	assert.Equal(t, models.PropertyStatusSold, p.Status)
	l, _ := f.leads.c.Get("L1")
	assert.Equal(t, models.LeadStatusClosed, l.Status)

	_, err = f.svc.ApproveDeal(ctx, as("A", permission.RoleAdmin, ""), "D1")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCommissionsByScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.ListCommissions(ctx, as("A", permission.RoleAdmin, ""))
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "D2", admin[0].DealID)
	assert.Equal(t, "400.00", admin[0].CompanyCommission.String())

	mine, err := f.svc.ListCommissions(ctx, as("U1", permission.RoleSales, "S"))
	require.NoError(t, err)
	assert.Empty(t, mine)

	deals, err := f.svc.ListDeals(ctx, as("S", permission.RoleSupervisor, ""), DealFilter{})
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "D1", deals[0].ID)
}
