// Package errs holds the typed errors the authorization core returns.
// Only the transport layer turns them into status codes.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTenantContext is returned when a tenant-bound call arrives
	// without a resolvable tenant id.
	ErrMissingTenantContext = errors.New("missing tenant context")

	// ErrPlatformTenant is returned when a tenant id is supplied on the
	// platform (superadmin) branch. It signals a caller bug.
	ErrPlatformTenant = errors.New("tenant id supplied on platform scope")

	// ErrPlatformScope is returned by tenant-bound repositories when asked
	// to run under the platform view.
	ErrPlatformScope = errors.New("platform scope cannot read tenant business rows")

	ErrNotFound = errors.New("not found")

	ErrInvalidInput = errors.New("invalid input")
)

// Invalid wraps ErrInvalidInput with a message for the caller.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// AuthorizationError means the caller's role does not hold the grant needed
// for the operation.
type AuthorizationError struct {
	Role     string
	Resource string
	Action   string
	Scope    string
	Reason   string
}

func (e *AuthorizationError) Error() string {
	msg := fmt.Sprintf("role %q may not %s %s", e.Role, e.Action, e.Resource)
	if e.Scope != "" {
		msg += fmt.Sprintf(" at scope %q", e.Scope)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Denied builds an AuthorizationError.
func Denied(role, resource, action, scope string) *AuthorizationError {
	return &AuthorizationError{Role: role, Resource: resource, Action: action, Scope: scope}
}

// TenantMismatchError is raised when a caller-supplied tenant id disagrees
// with the tenant bound to the session. It is a security event.
type TenantMismatchError struct {
	SessionTenant   string
	RequestedTenant string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("tenant mismatch: session tenant %q, requested %q", e.SessionTenant, e.RequestedTenant)
}

// ConfigurationError reports a role permission table that cannot be resolved
// unambiguously. The process must not start with one.
type ConfigurationError struct {
	Role     string
	Resource string
	Action   string
	Scopes   []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("role %q has conflicting grants for %s:%s (%s)",
		e.Role, e.Resource, e.Action, strings.Join(e.Scopes, ", "))
}

// IsDenial reports whether err should surface as an access denial.
func IsDenial(err error) bool {
	var authErr *AuthorizationError
	var mismatch *TenantMismatchError
	return errors.As(err, &authErr) ||
		errors.As(err, &mismatch) ||
		errors.Is(err, ErrMissingTenantContext) ||
		errors.Is(err, ErrPlatformScope)
}
