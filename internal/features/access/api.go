package access

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccessApi struct {
	controller *AccessController
	sessions   middleware.PrincipalResolver
}

func NewAccessApi(controller *AccessController, sessions middleware.PrincipalResolver) *AccessApi {
	return &AccessApi{
		controller: controller,
		sessions:   sessions,
	}
}

func (h *AccessApi) Setup(app *fiber.App) {
	permissions := app.Group("/api/permissions", middleware.AuthMiddleware(h.sessions))

	permissions.Get("/me", h.controller.MyPermissions)
	permissions.Get("/roles/:role", middleware.RequireRank(permission.RoleSupervisor), h.controller.RolePermissions)
	permissions.Get("/check", h.controller.Check)
}
