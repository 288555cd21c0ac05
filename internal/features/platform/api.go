package platform

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PlatformApi struct {
	controller *PlatformController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewPlatformApi(controller *PlatformController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *PlatformApi {
	return &PlatformApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *PlatformApi) Setup(app *fiber.App) {
	platform := app.Group("/api/platform",
		middleware.AuthMiddleware(h.sessions),
		middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionRead),
	)

	platform.Get("/stats", h.controller.GetStats)
	platform.Get("/tenants", h.controller.ListTenantSummaries)
	platform.Get("/snapshots", h.controller.ListSnapshots)
}
