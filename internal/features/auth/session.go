package auth

import (
	"context"
	"errors"
	"fmt"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/config"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrInactiveUser   = errors.New("user is inactive")
	ErrInactiveTenant = errors.New("tenant is inactive")
)

// TenantDirectory reports whether a tenant may still be used.
type TenantDirectory interface {
	IsActive(ctx context.Context, tenantID string) (bool, error)
}

// SessionResolver turns the user id carried by a token into the trusted
// principal. Role, tenant and team always come from the stored user.
type SessionResolver struct {
	users   user.UserRepository
	tenants TenantDirectory
	cache   *expirable.LRU[string, tenancy.Principal]
}

func NewSessionResolver(users user.UserRepository, tenants TenantDirectory, cfg *config.Config) *SessionResolver {
	return &SessionResolver{
		users:   users,
		tenants: tenants,
		cache:   expirable.NewLRU[string, tenancy.Principal](cfg.SessionCacheSize, nil, cfg.SessionCacheTTL),
	}
}

func (r *SessionResolver) Resolve(ctx context.Context, userID string) (tenancy.Principal, error) {
	if p, ok := r.cache.Get(userID); ok {
		return p, nil
	}

	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return tenancy.Principal{}, fmt.Errorf("resolve session %s: %w", userID, err)
	}
	if !u.IsActive {
		return tenancy.Principal{}, ErrInactiveUser
	}
	if !u.Role.Valid() {
		return tenancy.Principal{}, fmt.Errorf("user %s has unknown role %q", u.ID, u.Role)
	}

	p := tenancy.Principal{
		UserID:       u.ID,
		Role:         u.Role,
		TenantID:     u.TenantID,
		SupervisorID: u.SupervisorID,
	}
	if !p.IsPlatform() {
		if p.TenantID == "" {
			return tenancy.Principal{}, errs.ErrMissingTenantContext
		}
		active, err := r.tenants.IsActive(ctx, p.TenantID)
		if err != nil {
			return tenancy.Principal{}, err
		}
		if !active {
			return tenancy.Principal{}, ErrInactiveTenant
		}
	}

	r.cache.Add(userID, p)
	return p, nil
}

// Invalidate drops one cached principal.
func (r *SessionResolver) Invalidate(userID string) {
	r.cache.Remove(userID)
}

// InvalidateAll drops every cached principal, e.g. after a tenant is
// deactivated.
func (r *SessionResolver) InvalidateAll() {
	r.cache.Purge()
}
