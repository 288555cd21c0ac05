package tenancy

import (
	"context"

	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
)

// Principal is the caller identity resolved server-side from the session.
// Role and tenant never come from request input.
type Principal struct {
	UserID       string          `json:"userId"`
	Role         permission.Role `json:"role"`
	TenantID     string          `json:"tenantId,omitempty"`
	SupervisorID string          `json:"supervisorId,omitempty"`
}

// TeamLeadID is the supervisor whose team the principal belongs to.
func (p Principal) TeamLeadID() string {
	if p.Role == permission.RoleSupervisor {
		return p.UserID
	}
	return p.SupervisorID
}

func (p Principal) IsPlatform() bool {
	return p.Role == permission.RoleSuperAdmin
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, models.PrincipalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(models.PrincipalKey).(Principal)
	return p, ok
}

// Caller is an authenticated principal plus the tenant the request itself
// named, if any.
type Caller struct {
	Principal
	RequestedTenant string
}

// Request builds the isolation request for resource/action at the
// principal's own grant.
func (c Caller) Request(resource, action string) Request {
	return Request{
		Principal: c.Principal,
		TenantID:  c.RequestedTenant,
		Resource:  resource,
		Action:    action,
	}
}
