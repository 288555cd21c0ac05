package deal

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DealApi struct {
	controller *DealController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewDealApi(controller *DealController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *DealApi {
	return &DealApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *DealApi) Setup(app *fiber.App) {
	deals := app.Group("/api/deals", middleware.AuthMiddleware(h.sessions))

	deals.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceDeals, permission.ActionRead), h.controller.ListDeals)
	deals.Post("/", middleware.RequirePermission(h.resolver, permission.ResourceDeals, permission.ActionCreate), h.controller.CreateDeal)
	deals.Get("/:id", middleware.RequirePermission(h.resolver, permission.ResourceDeals, permission.ActionRead), h.controller.GetDeal)
	deals.Put("/:id", middleware.RequirePermission(h.resolver, permission.ResourceDeals, permission.ActionUpdate), h.controller.UpdateDeal)
	deals.Post("/:id/approve", middleware.RequirePermission(h.resolver, permission.ResourceDeals, permission.ActionApprove), h.controller.ApproveDeal)

	app.Get("/api/commissions", middleware.AuthMiddleware(h.sessions),
		middleware.RequirePermission(h.resolver, permission.ResourceCommissions, permission.ActionRead), h.controller.ListCommissions)
}
