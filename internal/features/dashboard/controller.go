package dashboard

import (
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetStats godoc
// @Summary      Dashboard statistics
// @Description  Role-scoped totals. Platform callers receive platform aggregates only.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object} StatsRecord
// @Failure      403  {object} map[string]string
// @Router       /api/dashboard/stats [get]
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	stats, err := ctrl.DashboardService.ComputeStats(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
