package permission

import (
	"fmt"

	"estate-crm/internal/common/errs"
)

// Grants is the raw role -> grant list configuration.
type Grants map[Role][]Permission

// DefaultGrants returns the CRM's role matrix.
func DefaultGrants() Grants {
	return Grants{
		RoleSuperAdmin: {
			{ResourceTenants, ActionCreate, ScopeAll},
			{ResourceTenants, ActionRead, ScopeAll},
			{ResourceTenants, ActionUpdate, ScopeAll},
			{ResourceTenants, ActionDelete, ScopeAll},
			{ResourceSystem, ActionConfigure, ScopeAll},
			{ResourceBilling, ActionManage, ScopeAll},
			{ResourceLeads, ActionRead, ScopeAll},
			{ResourceProperties, ActionRead, ScopeAll},
			{ResourceDeals, ActionRead, ScopeAll},
			{ResourceUsers, ActionRead, ScopeAll},
			{ResourceReports, ActionRead, ScopeAll},
			{ResourceDashboard, ActionRead, ScopeAll},
		},
		RoleAdmin: {
			{ResourceCompany, ActionConfigure, ScopeTenant},
			{ResourceBranding, ActionManage, ScopeTenant},
			{ResourceCurrency, ActionSet, ScopeTenant},
			{ResourceExchangeRates, ActionManage, ScopeTenant},
			{ResourceExchangeRates, ActionRead, ScopeTenant},
			{ResourceUsers, ActionCreate, ScopeTenant},
			{ResourceUsers, ActionRead, ScopeTenant},
			{ResourceUsers, ActionUpdate, ScopeTenant},
			{ResourceUsers, ActionDelete, ScopeTenant},
			{ResourceLeads, ActionCreate, ScopeTenant},
			{ResourceLeads, ActionRead, ScopeTenant},
			{ResourceLeads, ActionUpdate, ScopeTenant},
			{ResourceLeads, ActionDelete, ScopeTenant},
			{ResourceLeads, ActionAssign, ScopeTenant},
			{ResourceProperties, ActionCreate, ScopeTenant},
			{ResourceProperties, ActionRead, ScopeTenant},
			{ResourceProperties, ActionUpdate, ScopeTenant},
			{ResourceProperties, ActionDelete, ScopeTenant},
			{ResourceDeals, ActionCreate, ScopeTenant},
			{ResourceDeals, ActionRead, ScopeTenant},
			{ResourceDeals, ActionUpdate, ScopeTenant},
			{ResourceDeals, ActionApprove, ScopeTenant},
			{ResourceReports, ActionRead, ScopeTenant},
			{ResourceReports, ActionExport, ScopeTenant},
			{ResourceCommissions, ActionRead, ScopeTenant},
			{ResourceActivities, ActionRead, ScopeTenant},
			{ResourceDashboard, ActionRead, ScopeTenant},
		},
		RoleSupervisor: {
			{ResourceLeads, ActionRead, ScopeTeam},
			{ResourceLeads, ActionUpdate, ScopeTeam},
			{ResourceLeads, ActionAssign, ScopeTeam},
			{ResourceProperties, ActionRead, ScopeTeam},
			{ResourceProperties, ActionMatch, ScopeTeam},
			{ResourceDeals, ActionCreate, ScopeTeam},
			{ResourceDeals, ActionRead, ScopeTeam},
			{ResourceDeals, ActionUpdate, ScopeTeam},
			{ResourceDeals, ActionApprove, ScopeTeam},
			{ResourceTeam, ActionManage, ScopeTeam},
			{ResourceUsers, ActionRead, ScopeTeam},
			{ResourceReports, ActionRead, ScopeTeam},
			{ResourceReports, ActionExport, ScopeTeam},
			{ResourceCommissions, ActionRead, ScopeTeam},
			{ResourceExchangeRates, ActionRead, ScopeTenant},
			{ResourceActivities, ActionRead, ScopeTeam},
			{ResourceDashboard, ActionRead, ScopeTeam},
		},
		RoleSales: {
			{ResourceLeads, ActionRead, ScopeAssigned},
			{ResourceLeads, ActionUpdate, ScopeAssigned},
			{ResourceProperties, ActionRead, ScopeTenant},
			{ResourceProperties, ActionMatch, ScopeAssigned},
			{ResourceDeals, ActionCreate, ScopeOwn},
			{ResourceDeals, ActionRead, ScopeOwn},
			{ResourceDeals, ActionUpdate, ScopeOwn},
			{ResourceActivities, ActionCreate, ScopeOwn},
			{ResourceActivities, ActionRead, ScopeOwn},
			{ResourceActivities, ActionUpdate, ScopeOwn},
			{ResourceExchangeRates, ActionRead, ScopeTenant},
			{ResourceDashboard, ActionRead, ScopeOwn},
			{ResourceCommissions, ActionRead, ScopeOwn},
		},
	}
}

type grantKey struct {
	resource string
	action   string
}

// Table is the validated, read-only role permission table. It is built once
// at startup and safe for concurrent reads.
type Table struct {
	lists map[Role][]Permission
	index map[Role]map[grantKey]Scope
}

// NewTable validates grants and builds the lookup index. Identical duplicate
// grants collapse. Duplicates where one entry is "all" collapse to "all".
// Any other duplicate is a ConfigurationError.
func NewTable(grants Grants) (*Table, error) {
	t := &Table{
		lists: make(map[Role][]Permission, len(grants)),
		index: make(map[Role]map[grantKey]Scope, len(grants)),
	}

	for role, perms := range grants {
		if !role.Valid() {
			return nil, fmt.Errorf("permission table: unknown role %q", role)
		}

		seen := make(map[grantKey][]Scope)
		var order []grantKey
		for _, p := range perms {
			if p.Resource == "" || p.Action == "" {
				return nil, fmt.Errorf("permission table: role %q has a grant without resource or action", role)
			}
			if !p.Scope.Valid() {
				return nil, fmt.Errorf("permission table: role %q grant %s:%s has invalid scope %q", role, p.Resource, p.Action, p.Scope)
			}
			k := grantKey{p.Resource, p.Action}
			if _, ok := seen[k]; !ok {
				order = append(order, k)
			}
			seen[k] = append(seen[k], p.Scope)
		}

		idx := make(map[grantKey]Scope, len(order))
		list := make([]Permission, 0, len(order))
		for _, k := range order {
			scope, err := collapse(role, k, seen[k])
			if err != nil {
				return nil, err
			}
			idx[k] = scope
			list = append(list, Permission{Resource: k.resource, Action: k.action, Scope: scope})
		}
		t.index[role] = idx
		t.lists[role] = list
	}

	return t, nil
}

// NewDefaultTable builds the table from DefaultGrants.
func NewDefaultTable() (*Table, error) {
	return NewTable(DefaultGrants())
}

func collapse(role Role, k grantKey, scopes []Scope) (Scope, error) {
	distinct := make([]Scope, 0, len(scopes))
	hasAll := false
	for _, s := range scopes {
		if s == ScopeAll {
			hasAll = true
		}
		dup := false
		for _, d := range distinct {
			if d == s {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, s)
		}
	}

	switch {
	case hasAll:
		return ScopeAll, nil
	case len(distinct) == 1:
		return distinct[0], nil
	}

	names := make([]string, len(distinct))
	for i, s := range distinct {
		names[i] = string(s)
	}
	return "", &errs.ConfigurationError{
		Role:     string(role),
		Resource: k.resource,
		Action:   k.action,
		Scopes:   names,
	}
}

// GetPermissions returns a copy of the role's grants. Unknown roles get an
// empty list.
func (t *Table) GetPermissions(role Role) []Permission {
	list := t.lists[role]
	out := make([]Permission, len(list))
	copy(out, list)
	return out
}

func (t *Table) lookup(role Role, resource, action string) (Scope, bool) {
	idx, ok := t.index[role]
	if !ok {
		return "", false
	}
	s, ok := idx[grantKey{resource, action}]
	return s, ok
}
