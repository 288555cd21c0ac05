package dashboard

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewDashboardApi(controller *DashboardController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *DashboardApi {
	return &DashboardApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	dashboard := app.Group("/api/dashboard", middleware.AuthMiddleware(h.sessions))

	dashboard.Get("/stats", middleware.RequirePermission(h.resolver, permission.ResourceDashboard, permission.ActionRead), h.controller.GetStats)
}
