package lead

import (
	"estate-crm/internal/common/models"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	LeadService LeadService
}

func NewLeadController(leadService LeadService) *LeadController {
	return &LeadController{LeadService: leadService}
}

// ListLeads godoc
// @Summary      List leads
// @Description  Leads visible at the caller's scope (tenant, team, or assigned)
// @Tags         leads
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        assignedTo query string false "Filter by assignee"
// @Param        unassigned query bool false "Only leads nobody owns yet (needs assign permission)"
// @Success      200  {array} models.Lead
// @Failure      403  {object} map[string]string
// @Router       /api/leads [get]
func (ctrl *LeadController) ListLeads(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	leads, err := ctrl.LeadService.ListLeads(c.UserContext(), caller, LeadFilter{
		Status:     models.LeadStatus(c.Query("status")),
		AssignedTo: c.Query("assignedTo"),
		Unassigned: c.QueryBool("unassigned"),
	})
	if err != nil {
		return err
	}
	return c.JSON(leads)
}

// GetLead godoc
// @Summary      Get lead
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID"
// @Success      200  {object} models.Lead
// @Failure      404  {object} map[string]string
// @Router       /api/leads/{id} [get]
func (ctrl *LeadController) GetLead(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	lead, err := ctrl.LeadService.GetLead(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(lead)
}

// CreateLead godoc
// @Summary      Create lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        input body CreateLeadRequest true "Lead"
// @Success      201  {object} models.Lead
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/leads [post]
func (ctrl *LeadController) CreateLead(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := ctrl.LeadService.CreateLead(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// UpdateLead godoc
// @Summary      Update lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID"
// @Param        input body UpdateLeadRequest true "Changes"
// @Success      200  {object} models.Lead
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Router       /api/leads/{id} [put]
func (ctrl *LeadController) UpdateLead(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := ctrl.LeadService.UpdateLead(c.UserContext(), caller, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(lead)
}

// AssignLead godoc
// @Summary      Assign lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID"
// @Param        input body AssignLeadRequest true "Assignee"
// @Success      200  {object} models.Lead
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/leads/{id}/assign [put]
func (ctrl *LeadController) AssignLead(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req AssignLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := ctrl.LeadService.AssignLead(c.UserContext(), caller, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(lead)
}

// DeleteLead godoc
// @Summary      Delete lead
// @Tags         leads
// @Param        id path string true "Lead ID"
// @Success      204
// @Failure      403  {object} map[string]string
// @Router       /api/leads/{id} [delete]
func (ctrl *LeadController) DeleteLead(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	if err := ctrl.LeadService.DeleteLead(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
