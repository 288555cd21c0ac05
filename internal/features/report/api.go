package report

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewReportApi(controller *ReportController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *ReportApi {
	return &ReportApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.sessions))

	reports.Get("/pipeline", middleware.RequirePermission(h.resolver, permission.ResourceReports, permission.ActionRead), h.controller.GetPipeline)
	reports.Get("/export", middleware.RequirePermission(h.resolver, permission.ResourceReports, permission.ActionExport), h.controller.Export)
}
