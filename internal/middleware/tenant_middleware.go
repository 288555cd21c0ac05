package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const requestTenantLocal = "request_tenant"

// TenantHeaderMiddleware captures the X-Tenant-ID header. The value is only
// ever compared against the session tenant, never trusted on its own.
func TenantHeaderMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tenant := c.Get("X-Tenant-ID"); tenant != "" {
			c.Locals(requestTenantLocal, tenant)
		}
		return c.Next()
	}
}

// RequestedTenant returns the tenant named by the request, if any.
func RequestedTenant(c *fiber.Ctx) string {
	t, _ := c.Locals(requestTenantLocal).(string)
	return t
}
