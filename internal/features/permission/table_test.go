package permission

import (
	"testing"

	"estate-crm/internal/common/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableLoads(t *testing.T) {
	table, err := NewDefaultTable()
	require.NoError(t, err)

	for _, role := range Roles {
		assert.NotEmpty(t, table.GetPermissions(role), role)
	}
	assert.Empty(t, table.GetPermissions("owner"))
}

func TestGetPermissionsReturnsCopy(t *testing.T) {
	table, err := NewDefaultTable()
	require.NoError(t, err)

	perms := table.GetPermissions(RoleSales)
	perms[0].Scope = ScopeAll

	assert.NotEqual(t, ScopeAll, table.GetPermissions(RoleSales)[0].Scope)
}

func TestDuplicateGrants(t *testing.T) {
	tests := []struct {
		name    string
		scopes  []Scope
		want    Scope
		wantErr bool
	}{
		{"identical collapse", []Scope{ScopeTeam, ScopeTeam}, ScopeTeam, false},
		{"all wins", []Scope{ScopeOwn, ScopeAll}, ScopeAll, false},
		{"conflict", []Scope{ScopeOwn, ScopeTeam}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var perms []Permission
			for _, s := range tt.scopes {
				perms = append(perms, Permission{ResourceLeads, ActionRead, s})
			}

			table, err := NewTable(Grants{RoleSupervisor: perms})
			if tt.wantErr {
				var cfgErr *errs.ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "supervisor", cfgErr.Role)
				assert.Equal(t, ResourceLeads, cfgErr.Resource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []Permission{{ResourceLeads, ActionRead, tt.want}}, table.GetPermissions(RoleSupervisor))
		})
	}
}

func TestMalformedGrantsRejected(t *testing.T) {
	for name, grants := range map[string]Grants{
		"unknown role": {"owner": {{ResourceLeads, ActionRead, ScopeAll}}},
		"bad scope":    {RoleSales: {{ResourceLeads, ActionRead, "galaxy"}}},
		"empty action": {RoleSales: {{ResourceLeads, "", ScopeOwn}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(grants)
			assert.Error(t, err)
		})
	}
}

func TestRoleRank(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleSupervisor.AtLeast(RoleSupervisor))
	assert.False(t, RoleSales.AtLeast(RoleSupervisor))
	assert.False(t, Role("owner").AtLeast(RoleSales))

	_, err := ParseRole("admin")
	assert.NoError(t, err)
	_, err = ParseRole("root")
	assert.Error(t, err)
}
