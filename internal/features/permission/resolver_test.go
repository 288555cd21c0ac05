package permission

import (
	"testing"

	"estate-crm/internal/common/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allScopes = []Scope{ScopeAll, ScopeTenant, ScopeTeam, ScopeOwn, ScopeAssigned}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	table, err := NewDefaultTable()
	require.NoError(t, err)
	return NewResolver(table)
}

func TestUngrantedPairsAreDenied(t *testing.T) {
	r := newResolver(t)
	resources := []string{ResourceTenants, ResourceUsers, ResourceLeads, ResourceProperties, ResourceDeals,
		ResourceExchangeRates, ResourceActivities, ResourceDashboard, ResourceReports, ResourceCommissions}
	actions := []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionAssign, ActionApprove, ActionExport, ActionManage}

	for _, role := range Roles {
		for _, res := range resources {
			for _, act := range actions {
				if _, ok := r.EffectiveScope(role, res, act); ok {
					continue
				}
				for _, s := range allScopes {
					assert.False(t, r.Authorize(role, res, act, s), "%s %s:%s@%s", role, res, act, s)
				}
			}
		}
	}
}

func TestAllScopeGrantsAnyRequest(t *testing.T) {
	r := newResolver(t)

	for _, role := range Roles {
		for _, p := range r.Table().GetPermissions(role) {
			if p.Scope != ScopeAll {
				continue
			}
			for _, s := range allScopes {
				assert.True(t, r.Authorize(role, p.Resource, p.Action, s), "%s %s@%s", role, p, s)
			}
		}
	}
}

func TestScopeMustMatchExactly(t *testing.T) {
	r := newResolver(t)

	assert.True(t, r.Authorize(RoleSupervisor, ResourceLeads, ActionRead, ScopeTeam))
	assert.False(t, r.Authorize(RoleSupervisor, ResourceLeads, ActionRead, ScopeTenant))
	assert.False(t, r.Authorize(RoleSupervisor, ResourceLeads, ActionRead, ScopeAssigned))
	assert.True(t, r.Authorize(RoleSales, ResourceLeads, ActionRead, ScopeAssigned))
	assert.False(t, r.Authorize("owner", ResourceLeads, ActionRead, ScopeAll))
}

func TestRequireReturnsTypedError(t *testing.T) {
	r := newResolver(t)

	require.NoError(t, r.Require(RoleAdmin, ResourceUsers, ActionCreate, ScopeTenant))

	err := r.Require(RoleSales, ResourceUsers, ActionCreate, ScopeTenant)
	var authErr *errs.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "sales", authErr.Role)
	assert.Equal(t, ResourceUsers, authErr.Resource)
	assert.True(t, errs.IsDenial(err))
}
