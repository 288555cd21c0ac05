package tenancy

import (
	"slices"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson"
)

// ownerFields maps a resource to the field that decides own/assigned/team
// membership of its rows.
var ownerFields = map[string]string{
	permission.ResourceLeads:       "assigned_to",
	permission.ResourceDeals:       "agent_id",
	permission.ResourceCommissions: "agent_id",
	permission.ResourceActivities:  "user_id",
	permission.ResourceUsers:       "_id",
}

// tenantInventory lists resources whose rows belong to the whole tenant.
// Team, own and assigned grants on them read the tenant's rows.
var tenantInventory = map[string]bool{
	permission.ResourceProperties: true,
}

// OwnerField returns the ownership field of a resource, or "" when rows of
// that resource are only tenant-scoped.
func OwnerField(resource string) string {
	return ownerFields[resource]
}

// Access is a resolved, authorized data boundary. Platform access carries no
// tenant and cannot produce a tenant row filter.
type Access struct {
	Platform   bool
	TenantID   string
	Level      permission.Scope
	UserID     string
	Resource   string
	OwnerField string
	Members    []string
}

// For re-targets the boundary at another resource's owner field.
func (a Access) For(resource string) Access {
	a.Resource = resource
	a.OwnerField = OwnerField(resource)
	return a
}

// Filter conjoins the tenant boundary and the ownership restriction with the
// caller's predicate.
func (a Access) Filter(predicate bson.M) (bson.M, error) {
	if a.Platform {
		return nil, errs.ErrPlatformScope
	}
	if a.TenantID == "" {
		return nil, errs.ErrMissingTenantContext
	}

	boundary := bson.M{"tenant_id": a.TenantID}
	switch a.level() {
	case permission.ScopeTenant:
	case permission.ScopeTeam:
		if a.OwnerField == "" {
			return nil, errs.Denied("", a.Resource, "", string(a.Level))
		}
		members := a.Members
		if members == nil {
			members = []string{}
		}
		boundary[a.OwnerField] = bson.M{"$in": members}
	case permission.ScopeOwn, permission.ScopeAssigned:
		if a.OwnerField == "" || a.UserID == "" {
			return nil, errs.Denied("", a.Resource, "", string(a.Level))
		}
		boundary[a.OwnerField] = a.UserID
	default:
		return nil, errs.Denied("", a.Resource, "", string(a.Level))
	}

	if len(predicate) == 0 {
		return boundary, nil
	}

	for k := range predicate {
		if _, clash := boundary[k]; clash {
			return bson.M{"$and": bson.A{boundary, predicate}}, nil
		}
	}
	merged := make(bson.M, len(boundary)+len(predicate))
	for k, v := range predicate {
		merged[k] = v
	}
	for k, v := range boundary {
		merged[k] = v
	}
	return merged, nil
}

// Owns reports whether a row owned by ownerID falls inside the boundary.
// Tenant membership of ownerID is checked separately.
func (a Access) Owns(ownerID string) bool {
	if a.Platform {
		return false
	}
	switch a.level() {
	case permission.ScopeTenant:
		return true
	case permission.ScopeTeam:
		return slices.Contains(a.Members, ownerID)
	case permission.ScopeOwn, permission.ScopeAssigned:
		return ownerID != "" && ownerID == a.UserID
	}
	return false
}

// RoutingFilter is Filter widened, at team scope, to rows that nobody owns
// yet. It backs routing work into the team, such as lead assignment.
func (a Access) RoutingFilter(predicate bson.M) (bson.M, error) {
	if a.level() != permission.ScopeTeam || a.OwnerField == "" {
		return a.Filter(predicate)
	}
	owned, err := a.Filter(nil)
	if err != nil {
		return nil, err
	}
	boundary := bson.M{
		"tenant_id": a.TenantID,
		"$or": bson.A{
			bson.M{a.OwnerField: owned[a.OwnerField]},
			bson.M{a.OwnerField: ""},
			bson.M{a.OwnerField: nil},
		},
	}
	if len(predicate) == 0 {
		return boundary, nil
	}
	return bson.M{"$and": bson.A{boundary, predicate}}, nil
}

// level is the effective row level. Narrow grants on tenant inventory widen
// to the tenant.
func (a Access) level() permission.Scope {
	if tenantInventory[a.Resource] {
		switch a.Level {
		case permission.ScopeTeam, permission.ScopeOwn, permission.ScopeAssigned:
			return permission.ScopeTenant
		}
	}
	return a.Level
}
