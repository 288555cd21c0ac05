package report

import (
	"bytes"
	"context"
	"testing"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/deal"
	"estate-crm/internal/features/lead"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type leadList struct {
	lead.LeadRepository
	c     *testutil.Collection[models.Lead]
	calls int
}

func (l *leadList) List(_ context.Context, filter bson.M) ([]models.Lead, error) {
	l.calls++
	return l.c.Find(filter), nil
}

type dealList struct {
	deal.DealRepository
	c     *testutil.Collection[models.Deal]
	calls int
}

func (d *dealList) List(_ context.Context, filter bson.M) ([]models.Deal, error) {
	d.calls++
	return d.c.Find(filter), nil
}

type teams map[string][]string

func (t teams) TeamMemberIDs(_ context.Context, _, supervisorID string) ([]string, error) {
	return t[supervisorID], nil
}

func newService(t *testing.T) (*ReportServiceImpl, *leadList, *dealList) {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	budget := models.MustMoney("350000")
	leads := &leadList{c: testutil.NewCollection(
		models.Lead{ID: "L1", TenantID: "T1", Name: "Ana", AssignedTo: "U1", Status: models.LeadStatusNew, Budget: &budget},
		models.Lead{ID: "L2", TenantID: "T1", Name: "Ben", AssignedTo: "U2", Status: models.LeadStatusQualified},
		models.Lead{ID: "L3", TenantID: "T2", Name: "Cy", AssignedTo: "Z", Status: models.LeadStatusNew},
	)}
	deals := &dealList{c: testutil.NewCollection(
		models.Deal{ID: "D1", TenantID: "T1", AgentID: "U1", Status: models.DealStatusClosed,
			SalePrice: models.MustMoney("285000"), CommissionPercentage: models.MustRatio("3"),
			AgentCommission: models.MustMoney("8550"), CompanyCommission: models.MustMoney("3420")},
		models.Deal{ID: "D2", TenantID: "T1", AgentID: "U2", Status: models.DealStatusPending},
	)}
	iso := tenancy.NewIsolation(permission.NewResolver(table), teams{"S": {"S", "U1"}}, zap.NewNop(), nil)
	return NewReportService(leads, deals, iso).(*ReportServiceImpl), leads, deals
}

func caller(id string, role permission.Role, tenant string) tenancy.Caller {
	return tenancy.Caller{Principal: tenancy.Principal{UserID: id, Role: role, TenantID: tenant}}
}

func TestSupervisorExportContainsTeamRowsOnly(t *testing.T) {
	svc, _, _ := newService(t)

	data, filename, err := svc.ExportWorkbook(context.Background(), caller("S", permission.RoleSupervisor, "T1"))
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	leads, err := f.GetRows(leadSheet)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, leadColumns, leads[0])
	assert.Equal(t, "L1", leads[1][0])
	assert.Equal(t, "350000.00", leads[1][6])

	deals, err := f.GetRows(dealSheet)
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "D1", deals[1][0])
	assert.Equal(t, "8550.00", deals[1][7])
}

func TestPipelineCountsAtTenantScope(t *testing.T) {
	svc, _, _ := newService(t)

	p, err := svc.GetPipeline(context.Background(), caller("A", permission.RoleAdmin, "T1"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Leads[models.LeadStatusNew])
	assert.Equal(t, 1, p.Leads[models.LeadStatusQualified])
	assert.Equal(t, 1, p.Deals[models.DealStatusClosed])
	assert.Equal(t, 1, p.Deals[models.DealStatusPending])
}

func TestExportRefusals(t *testing.T) {
	svc, leads, deals := newService(t)
	ctx := context.Background()

	var authErr *errs.AuthorizationError
	_, _, err := svc.ExportWorkbook(ctx, caller("U1", permission.RoleSales, "T1"))
	assert.ErrorAs(t, err, &authErr)

	_, _, err = svc.ExportWorkbook(ctx, caller("root", permission.RoleSuperAdmin, ""))
	assert.ErrorAs(t, err, &authErr)

	_, err = svc.GetPipeline(ctx, caller("root", permission.RoleSuperAdmin, ""))
	assert.ErrorIs(t, err, errs.ErrPlatformScope)

	assert.Zero(t, leads.calls)
	assert.Zero(t, deals.calls)
}
