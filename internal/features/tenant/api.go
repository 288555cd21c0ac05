package tenant

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TenantApi struct {
	controller *TenantController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewTenantApi(controller *TenantController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *TenantApi {
	return &TenantApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *TenantApi) Setup(app *fiber.App) {
	tenants := app.Group("/api/tenants", middleware.AuthMiddleware(h.sessions))

	tenants.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionRead), h.controller.ListTenants)
	tenants.Post("/", middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionCreate), h.controller.CreateTenant)
	tenants.Get("/:id", middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionRead), h.controller.GetTenant)
	tenants.Put("/:id", middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionUpdate), h.controller.UpdateTenant)
	tenants.Delete("/:id", middleware.RequirePermission(h.resolver, permission.ResourceTenants, permission.ActionDelete), h.controller.DeleteTenant)

	branding := app.Group("/api/tenant/branding", middleware.AuthMiddleware(h.sessions),
		middleware.RequirePermission(h.resolver, permission.ResourceBranding, permission.ActionManage))
	branding.Get("/", h.controller.GetBranding)
	branding.Put("/", h.controller.UpdateBranding)
}
