package middleware

import (
	"context"
	"strings"

	"estate-crm/internal/features/tenancy"
	"estate-crm/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const principalLocal = "principal"

// PrincipalResolver turns an authenticated user id into the trusted
// principal (role, tenant, team) read from storage.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID string) (tenancy.Principal, error)
}

// AuthMiddleware validates JWT tokens and injects the resolved principal into
// both the fiber locals and the user context.
func AuthMiddleware(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		return authenticate(c, resolver, token)
	}
}

// QueryTokenAuth authenticates with a ?token= parameter, for websocket
// upgrades where browsers cannot set headers.
func QueryTokenAuth(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token required")
		}
		return authenticate(c, resolver, token)
	}
}

func authenticate(c *fiber.Ctx, resolver PrincipalResolver, token string) error {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	principal, err := resolver.Resolve(c.UserContext(), claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Session no longer valid")
	}

	c.Locals(principalLocal, principal)
	c.SetUserContext(tenancy.WithPrincipal(c.UserContext(), principal))
	return c.Next()
}

// CurrentPrincipal returns the principal set by AuthMiddleware.
func CurrentPrincipal(c *fiber.Ctx) (tenancy.Principal, error) {
	p, ok := c.Locals(principalLocal).(tenancy.Principal)
	if !ok {
		return tenancy.Principal{}, fiber.ErrUnauthorized
	}
	return p, nil
}

// CurrentCaller pairs the principal with the tenant named by the request.
func CurrentCaller(c *fiber.Ctx) (tenancy.Caller, error) {
	p, err := CurrentPrincipal(c)
	if err != nil {
		return tenancy.Caller{}, err
	}
	return tenancy.Caller{Principal: p, RequestedTenant: RequestedTenant(c)}, nil
}
