package deal

import (
	"estate-crm/internal/common/models"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DealController struct {
	DealService DealService
}

func NewDealController(dealService DealService) *DealController {
	return &DealController{DealService: dealService}
}

// ListDeals godoc
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Param        status query string false "Deal status"
// @Param        agentId query string false "Agent"
// @Success      200  {array} models.Deal
// @Failure      403  {object} map[string]string
// @Router       /api/deals [get]
func (ctrl *DealController) ListDeals(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	deals, err := ctrl.DealService.ListDeals(c.UserContext(), caller, DealFilter{
		Status:  models.DealStatus(c.Query("status")),
		AgentID: c.Query("agentId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(deals)
}

// GetDeal godoc
// @Summary      Get deal
// @Tags         deals
// @Produce      json
// @Param        id path string true "Deal ID"
// @Success      200  {object} models.Deal
// @Failure      404  {object} map[string]string
// @Router       /api/deals/{id} [get]
func (ctrl *DealController) GetDeal(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	deal, err := ctrl.DealService.GetDeal(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(deal)
}

// CreateDeal godoc
// @Summary      Create deal
// @Description  Commissions are computed server-side from sale price, percentage and the company share rate
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        input body CreateDealRequest true "Deal"
// @Success      201  {object} models.Deal
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/deals [post]
func (ctrl *DealController) CreateDeal(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req CreateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	deal, err := ctrl.DealService.CreateDeal(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(deal)
}

// UpdateDeal godoc
// @Summary      Update deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID"
// @Param        input body UpdateDealRequest true "Changes"
// @Success      200  {object} models.Deal
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/deals/{id} [put]
func (ctrl *DealController) UpdateDeal(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	deal, err := ctrl.DealService.UpdateDeal(c.UserContext(), caller, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(deal)
}

// ApproveDeal godoc
// @Summary      Approve deal
// @Description  Close a pending deal
// @Tags         deals
// @Produce      json
// @Param        id path string true "Deal ID"
// @Success      200  {object} models.Deal
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/deals/{id}/approve [post]
func (ctrl *DealController) ApproveDeal(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	deal, err := ctrl.DealService.ApproveDeal(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(deal)
}

// ListCommissions godoc
// @Summary      Commission lines
// @Description  Closed deals with their agent and company commission, at the caller's scope
// @Tags         deals
// @Produce      json
// @Success      200  {array} CommissionLine
// @Failure      403  {object} map[string]string
// @Router       /api/commissions [get]
func (ctrl *DealController) ListCommissions(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	lines, err := ctrl.DealService.ListCommissions(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(lines)
}
