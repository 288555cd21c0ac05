package permission

import "fmt"

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleSales      Role = "sales"
)

var roleRank = map[Role]int{
	RoleSuperAdmin: 4,
	RoleAdmin:      3,
	RoleSupervisor: 2,
	RoleSales:      1,
}

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleSales}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank is the coarse hierarchy position. Unknown roles rank 0.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast is only for coarse "at least this privileged" checks. It plays no
// part in permission resolution.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && r.Rank() >= other.Rank()
}

type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeTenant   Scope = "tenant"
	ScopeTeam     Scope = "team"
	ScopeOwn      Scope = "own"
	ScopeAssigned Scope = "assigned"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeTenant, ScopeTeam, ScopeOwn, ScopeAssigned:
		return true
	}
	return false
}

// Resources
const (
	ResourceTenants       = "tenants"
	ResourceSystem        = "system"
	ResourceBilling       = "billing"
	ResourceCompany       = "company"
	ResourceBranding      = "branding"
	ResourceCurrency      = "currency"
	ResourceExchangeRates = "exchange_rates"
	ResourceUsers         = "users"
	ResourceLeads         = "leads"
	ResourceProperties    = "properties"
	ResourceDeals         = "deals"
	ResourceReports       = "reports"
	ResourceCommissions   = "commissions"
	ResourceTeam          = "team"
	ResourceActivities    = "activities"
	ResourceDashboard     = "dashboard"
)

// Actions
const (
	ActionCreate    = "create"
	ActionRead      = "read"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionAssign    = "assign"
	ActionApprove   = "approve"
	ActionExport    = "export"
	ActionMatch     = "match"
	ActionManage    = "manage"
	ActionConfigure = "configure"
	ActionSet       = "set"
)

// Permission is one grant held by a role.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Scope    Scope  `json:"scope"`
}

func (p Permission) String() string {
	return p.Resource + ":" + p.Action + "@" + string(p.Scope)
}
