package middleware

import (
	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"

	"github.com/gofiber/fiber/v2"
)

// RequireRank is a coarse gate on the role hierarchy. Fine-grained decisions
// still go through the resolver.
func RequireRank(min permission.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		if !p.Role.AtLeast(min) {
			return &errs.AuthorizationError{
				Role:   string(p.Role),
				Reason: "requires at least " + string(min),
			}
		}
		return c.Next()
	}
}
