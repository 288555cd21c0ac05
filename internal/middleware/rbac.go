package middleware

import (
	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission rejects requests whose role holds no grant at all for
// (resource, action). The scope-exact check happens in the isolation filter.
func RequirePermission(resolver *permission.Resolver, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}

		if _, ok := resolver.EffectiveScope(p.Role, resource, action); !ok {
			return errs.Denied(string(p.Role), resource, action, "")
		}

		return c.Next()
	}
}
