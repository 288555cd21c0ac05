package access

import "estate-crm/internal/features/permission"

type RolePermissions struct {
	Role        permission.Role         `json:"role"`
	Permissions []permission.Permission `json:"permissions"`
}

type CheckResult struct {
	Resource string           `json:"resource"`
	Action   string           `json:"action"`
	Scope    permission.Scope `json:"scope"`
	Allowed  bool             `json:"allowed"`
}
