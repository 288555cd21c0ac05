package access

import (
	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
)

// AccessService answers permission questions for clients so they never
// decide access from the role name themselves.
type AccessService interface {
	MyPermissions(p tenancy.Principal) RolePermissions
	RolePermissions(p tenancy.Principal, role permission.Role) (*RolePermissions, error)
	Check(p tenancy.Principal, resource, action string, scope permission.Scope) (*CheckResult, error)
}

type AccessServiceImpl struct {
	Resolver *permission.Resolver
}

func NewAccessService(resolver *permission.Resolver) AccessService {
	return &AccessServiceImpl{Resolver: resolver}
}

func (s *AccessServiceImpl) MyPermissions(p tenancy.Principal) RolePermissions {
	return RolePermissions{Role: p.Role, Permissions: s.Resolver.Table().GetPermissions(p.Role)}
}

// RolePermissions lets a user manager see what a role it may hand out can
// do. Callers only see roles ranked at or below their own.
func (s *AccessServiceImpl) RolePermissions(p tenancy.Principal, role permission.Role) (*RolePermissions, error) {
	if !role.Valid() {
		return nil, errs.Invalid("unknown role %q", role)
	}
	if err := s.requireUserManager(p); err != nil {
		return nil, err
	}
	if !p.Role.AtLeast(role) {
		return nil, &errs.AuthorizationError{
			Role: string(p.Role), Resource: permission.ResourceUsers, Action: permission.ActionRead,
			Reason: "role ranks above the caller",
		}
	}
	return &RolePermissions{Role: role, Permissions: s.Resolver.Table().GetPermissions(role)}, nil
}

// Check resolves the caller's own grant. An empty scope asks for the scope
// the caller actually holds.
func (s *AccessServiceImpl) Check(p tenancy.Principal, resource, action string, scope permission.Scope) (*CheckResult, error) {
	if resource == "" || action == "" {
		return nil, errs.Invalid("resource and action are required")
	}
	result := &CheckResult{Resource: resource, Action: action, Scope: scope}
	if scope == "" {
		result.Scope, result.Allowed = s.Resolver.EffectiveScope(p.Role, resource, action)
		return result, nil
	}
	if !scope.Valid() {
		return nil, errs.Invalid("unknown scope %q", scope)
	}
	result.Allowed = s.Resolver.Authorize(p.Role, resource, action, scope)
	return result, nil
}

func (s *AccessServiceImpl) requireUserManager(p tenancy.Principal) error {
	if _, ok := s.Resolver.EffectiveScope(p.Role, permission.ResourceUsers, permission.ActionRead); !ok {
		return errs.Denied(string(p.Role), permission.ResourceUsers, permission.ActionRead, "")
	}
	return nil
}
