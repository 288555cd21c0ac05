package tenancy

import (
	"context"
	"errors"
	"testing"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type teams map[string][]string

func (t teams) TeamMemberIDs(_ context.Context, tenantID, supervisorID string) ([]string, error) {
	if tenantID == "broken" {
		return nil, errors.New("users unavailable")
	}
	return t[supervisorID], nil
}

func newIsolation(t *testing.T, logger *zap.Logger) *Isolation {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	return NewIsolation(permission.NewResolver(table), teams{"S": {"S", "U1"}}, logger, nil)
}

func req(p Principal, tenant, resource, action string) Request {
	return Request{Principal: p, TenantID: tenant, Resource: resource, Action: action}
}

var (
	superadmin = Principal{UserID: "root", Role: permission.RoleSuperAdmin}
	admin      = Principal{UserID: "A", Role: permission.RoleAdmin, TenantID: "T1"}
	supervisor = Principal{UserID: "S", Role: permission.RoleSupervisor, TenantID: "T1"}
	sales      = Principal{UserID: "U1", Role: permission.RoleSales, TenantID: "T1", SupervisorID: "S"}
)

func TestMissingTenantFailsForEveryTenantRole(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())

	for _, p := range []Principal{admin, supervisor, sales} {
		p.TenantID = ""
		_, err := iso.Resolve(context.Background(), req(p, "", permission.ResourceLeads, permission.ActionRead))
		assert.ErrorIs(t, err, errs.ErrMissingTenantContext, p.Role)
	}
}

func TestTenantMismatchIsASecurityEvent(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	iso := newIsolation(t, zap.New(core))

	for _, p := range []Principal{admin, supervisor, sales} {
		_, err := iso.Resolve(context.Background(), req(p, "T2", permission.ResourceLeads, permission.ActionRead))
		var mismatch *errs.TenantMismatchError
		require.ErrorAs(t, err, &mismatch, p.Role)
		assert.Equal(t, "T1", mismatch.SessionTenant)
		assert.Equal(t, "T2", mismatch.RequestedTenant)
	}

	entries := logs.FilterMessage("tenant mismatch").All()
	require.Len(t, entries, 3)
	assert.Equal(t, true, entries[0].ContextMap()["security_event"])
}

func TestMatchingRequestedTenantIsAccepted(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())

	access, err := iso.Resolve(context.Background(), req(admin, "T1", permission.ResourceLeads, permission.ActionRead))
	require.NoError(t, err)
	assert.Equal(t, "T1", access.TenantID)
	assert.Equal(t, permission.ScopeTenant, access.Level)
}

func TestPlatformBranch(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	ctx := context.Background()

	access, err := iso.Resolve(ctx, req(superadmin, "", permission.ResourceTenants, permission.ActionRead))
	require.NoError(t, err)
	assert.True(t, access.Platform)
	assert.Empty(t, access.TenantID)

	_, err = access.Filter(bson.M{})
	assert.ErrorIs(t, err, errs.ErrPlatformScope)

	_, err = iso.Resolve(ctx, req(superadmin, "T1", permission.ResourceTenants, permission.ActionRead))
	assert.ErrorIs(t, err, errs.ErrPlatformTenant)

	_, err = iso.Resolve(ctx, req(superadmin, "", permission.ResourceExchangeRates, permission.ActionManage))
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestFiltersByScope(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name      string
		principal Principal
		resource  string
		want      bson.M
	}{
		{"tenant", admin, permission.ResourceLeads, bson.M{"tenant_id": "T1", "status": "new"}},
		{"team", supervisor, permission.ResourceLeads, bson.M{"tenant_id": "T1", "status": "new", "assigned_to": bson.M{"$in": []string{"S", "U1"}}}},
		{"assigned", sales, permission.ResourceLeads, bson.M{"tenant_id": "T1", "status": "new", "assigned_to": "U1"}},
		{"own deals", sales, permission.ResourceDeals, bson.M{"tenant_id": "T1", "status": "new", "agent_id": "U1"}},
		{"team inventory", supervisor, permission.ResourceProperties, bson.M{"tenant_id": "T1", "status": "new"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := iso.Resolve(ctx, req(tt.principal, "", tt.resource, permission.ActionRead))
			require.NoError(t, err)
			filter, err := access.Filter(bson.M{"status": "new"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter)
		})
	}
}

func TestCallerCannotWidenTenantPredicate(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())

	access, err := iso.Resolve(context.Background(), req(sales, "", permission.ResourceLeads, permission.ActionRead))
	require.NoError(t, err)

	filter, err := access.Filter(bson.M{"tenant_id": "T2", "assigned_to": "U2"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"tenant_id": "T1", "assigned_to": "U1"},
		bson.M{"tenant_id": "T2", "assigned_to": "U2"},
	}}, filter)
}

func TestExplicitScopeMustBeHeld(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	r := req(supervisor, "", permission.ResourceLeads, permission.ActionRead)

	r.Scope = permission.ScopeTenant
	_, err := iso.Resolve(context.Background(), r)
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	r.Scope = permission.ScopeTeam
	_, err = iso.Resolve(context.Background(), r)
	assert.NoError(t, err)
}

func TestTeamResolution(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	ctx := context.Background()

	loner := supervisor
	loner.UserID = "S2"
	access, err := iso.Resolve(ctx, req(loner, "", permission.ResourceLeads, permission.ActionRead))
	require.NoError(t, err)
	filter, err := access.Filter(nil)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$in": []string{}}, filter["assigned_to"])

	broken := supervisor
	broken.TenantID = "broken"
	_, err = iso.Resolve(ctx, req(broken, "", permission.ResourceLeads, permission.ActionRead))
	assert.ErrorContains(t, err, "users unavailable")
}

func TestScopedSkipsQueryOnDenial(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	ran := false

	_, err := Scoped(context.Background(), iso, req(sales, "", permission.ResourceUsers, permission.ActionDelete),
		func(context.Context, Access) (int, error) {
			ran = true
			return 0, nil
		})
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
	assert.False(t, ran)
}

func TestAccessOwns(t *testing.T) {
	team := Access{TenantID: "T1", Level: permission.ScopeTeam, Members: []string{"S", "U1"}}
	assert.True(t, team.Owns("U1"))
	assert.False(t, team.Owns("U2"))

	own := Access{TenantID: "T1", Level: permission.ScopeOwn, UserID: "U1"}
	assert.True(t, own.Owns("U1"))
	assert.False(t, own.Owns(""))

	assert.True(t, Access{TenantID: "T1", Level: permission.ScopeTenant}.Owns("anyone"))
	assert.False(t, Access{Platform: true, Level: permission.ScopeAll}.Owns("anyone"))
}

func TestInventoryIgnoresOwnership(t *testing.T) {
	assert.Empty(t, OwnerField(permission.ResourceProperties))

	for _, level := range []permission.Scope{permission.ScopeTeam, permission.ScopeOwn, permission.ScopeAssigned} {
		a := Access{TenantID: "T1", Level: level, UserID: "U1", Resource: permission.ResourceProperties}
		filter, err := a.Filter(nil)
		require.NoError(t, err, level)
		assert.Equal(t, bson.M{"tenant_id": "T1"}, filter, level)
		assert.True(t, a.Owns("A"), level)
	}
}

func TestRoutingFilterReachesUnassignedRows(t *testing.T) {
	iso := newIsolation(t, zap.NewNop())
	ctx := context.Background()

	access, err := iso.Resolve(ctx, req(supervisor, "", permission.ResourceLeads, permission.ActionAssign))
	require.NoError(t, err)
	filter, err := access.RoutingFilter(bson.M{"_id": "L9"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"tenant_id": "T1", "$or": bson.A{
			bson.M{"assigned_to": bson.M{"$in": []string{"S", "U1"}}},
			bson.M{"assigned_to": ""},
			bson.M{"assigned_to": nil},
		}},
		bson.M{"_id": "L9"},
	}}, filter)

	tenantWide, err := iso.Resolve(ctx, req(admin, "", permission.ResourceLeads, permission.ActionAssign))
	require.NoError(t, err)
	filter, err = tenantWide.RoutingFilter(bson.M{"_id": "L9"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"tenant_id": "T1", "_id": "L9"}, filter)

	_, err = Access{Platform: true, Level: permission.ScopeAll}.RoutingFilter(nil)
	assert.ErrorIs(t, err, errs.ErrPlatformScope)
}
