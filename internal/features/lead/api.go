package lead

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewLeadApi(controller *LeadController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *LeadApi {
	return &LeadApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *LeadApi) Setup(app *fiber.App) {
	leads := app.Group("/api/leads", middleware.AuthMiddleware(h.sessions))

	leads.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionRead), h.controller.ListLeads)
	leads.Post("/", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionCreate), h.controller.CreateLead)
	leads.Get("/:id", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionRead), h.controller.GetLead)
	leads.Put("/:id", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionUpdate), h.controller.UpdateLead)
	leads.Put("/:id/assign", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionAssign), h.controller.AssignLead)
	leads.Delete("/:id", middleware.RequirePermission(h.resolver, permission.ResourceLeads, permission.ActionDelete), h.controller.DeleteLead)
}
