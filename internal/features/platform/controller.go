package platform

import (
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PlatformController struct {
	PlatformService PlatformService
}

func NewPlatformController(platformService PlatformService) *PlatformController {
	return &PlatformController{PlatformService: platformService}
}

// GetStats godoc
// @Summary      Platform aggregates
// @Description  Tenant counts, revenue and active users across all tenants
// @Tags         platform
// @Produce      json
// @Success      200  {object} Stats
// @Failure      403  {object} map[string]string
// @Router       /api/platform/stats [get]
func (ctrl *PlatformController) GetStats(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	stats, err := ctrl.PlatformService.GetStats(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ListTenantSummaries godoc
// @Summary      Tenant summaries
// @Tags         platform
// @Produce      json
// @Success      200  {array} TenantSummary
// @Failure      403  {object} map[string]string
// @Router       /api/platform/tenants [get]
func (ctrl *PlatformController) ListTenantSummaries(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	summaries, err := ctrl.PlatformService.ListTenantSummaries(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

// ListSnapshots godoc
// @Summary      Platform snapshot history
// @Tags         platform
// @Produce      json
// @Param        limit query int false "Max snapshots (default 30)"
// @Success      200  {array} Snapshot
// @Failure      403  {object} map[string]string
// @Router       /api/platform/snapshots [get]
func (ctrl *PlatformController) ListSnapshots(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	snapshots, err := ctrl.PlatformService.ListSnapshots(c.UserContext(), caller, c.QueryInt("limit", DefaultSnapshotLimit))
	if err != nil {
		return err
	}
	return c.JSON(snapshots)
}
