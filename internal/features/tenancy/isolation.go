package tenancy

import (
	"context"
	"fmt"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/metrics"

	"go.uber.org/zap"
)

// TeamDirectory resolves the user ids that make up a supervisor's team,
// the supervisor included.
type TeamDirectory interface {
	TeamMemberIDs(ctx context.Context, tenantID, supervisorID string) ([]string, error)
}

// Request describes one data-access call. TenantID is the tenant the request
// names (path, body or query), if any; it is checked against the session.
type Request struct {
	Principal Principal
	TenantID  string
	Resource  string
	Action    string
	// Scope is the requested scope. Empty means the principal's own grant.
	Scope permission.Scope
}

// Isolation wraps every data-access call in the tenant boundary.
type Isolation struct {
	resolver *permission.Resolver
	team     TeamDirectory
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewIsolation(resolver *permission.Resolver, team TeamDirectory, logger *zap.Logger, m *metrics.Metrics) *Isolation {
	return &Isolation{
		resolver: resolver,
		team:     team,
		logger:   logger,
		metrics:  m,
	}
}

func (i *Isolation) Resolver() *permission.Resolver {
	return i.resolver
}

// Resolve checks the tenant boundary and the grant, in that order, and
// returns the access the query must run under. It never touches business rows.
func (i *Isolation) Resolve(ctx context.Context, req Request) (Access, error) {
	p := req.Principal

	if p.IsPlatform() {
		if req.TenantID != "" {
			return Access{}, fmt.Errorf("%s %s: %w", req.Action, req.Resource, errs.ErrPlatformTenant)
		}
		scope := req.Scope
		if scope == "" {
			scope = permission.ScopeAll
		}
		if err := i.resolver.Require(p.Role, req.Resource, req.Action, scope); err != nil {
			return Access{}, err
		}
		return Access{Platform: true, Level: permission.ScopeAll, UserID: p.UserID, Resource: req.Resource}, nil
	}

	if p.TenantID == "" {
		return Access{}, errs.ErrMissingTenantContext
	}
	if req.TenantID != "" && req.TenantID != p.TenantID {
		i.logger.Warn("tenant mismatch",
			zap.Bool("security_event", true),
			zap.String("user_id", p.UserID),
			zap.String("session_tenant", p.TenantID),
			zap.String("requested_tenant", req.TenantID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
		)
		i.metrics.TenantMismatch()
		return Access{}, &errs.TenantMismatchError{SessionTenant: p.TenantID, RequestedTenant: req.TenantID}
	}

	scope := req.Scope
	if scope == "" {
		granted, ok := i.resolver.EffectiveScope(p.Role, req.Resource, req.Action)
		if !ok {
			return Access{}, errs.Denied(string(p.Role), req.Resource, req.Action, "")
		}
		scope = granted
	}
	if err := i.resolver.Require(p.Role, req.Resource, req.Action, scope); err != nil {
		return Access{}, err
	}

	level := scope
	if level == permission.ScopeAll {
		// A tenant-bound role never escapes its tenant, whatever it holds.
		level = permission.ScopeTenant
	}

	access := Access{
		TenantID:   p.TenantID,
		Level:      level,
		UserID:     p.UserID,
		Resource:   req.Resource,
		OwnerField: OwnerField(req.Resource),
	}

	if level == permission.ScopeTeam {
		lead := p.TeamLeadID()
		if lead == "" {
			return Access{}, &errs.AuthorizationError{
				Role: string(p.Role), Resource: req.Resource, Action: req.Action,
				Scope: string(level), Reason: "principal has no team",
			}
		}
		members, err := i.team.TeamMemberIDs(ctx, p.TenantID, lead)
		if err != nil {
			return Access{}, fmt.Errorf("resolve team of %s: %w", lead, err)
		}
		access.Members = members
	}

	return access, nil
}

// Scoped resolves the boundary for req and runs fn under it. fn never runs
// when resolution fails.
func Scoped[T any](ctx context.Context, iso *Isolation, req Request, fn func(context.Context, Access) (T, error)) (T, error) {
	access, err := iso.Resolve(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(ctx, access)
}
