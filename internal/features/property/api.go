package property

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PropertyApi struct {
	controller *PropertyController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewPropertyApi(controller *PropertyController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *PropertyApi {
	return &PropertyApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *PropertyApi) Setup(app *fiber.App) {
	properties := app.Group("/api/properties", middleware.AuthMiddleware(h.sessions))

	properties.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceProperties, permission.ActionRead), h.controller.ListProperties)
	properties.Post("/", middleware.RequirePermission(h.resolver, permission.ResourceProperties, permission.ActionCreate), h.controller.CreateProperty)
	properties.Get("/:id", middleware.RequirePermission(h.resolver, permission.ResourceProperties, permission.ActionRead), h.controller.GetProperty)
	properties.Put("/:id", middleware.RequirePermission(h.resolver, permission.ResourceProperties, permission.ActionUpdate), h.controller.UpdateProperty)
	properties.Delete("/:id", middleware.RequirePermission(h.resolver, permission.ResourceProperties, permission.ActionDelete), h.controller.DeleteProperty)
}
