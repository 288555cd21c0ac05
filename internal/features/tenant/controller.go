package tenant

import (
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TenantController struct {
	TenantService TenantService
}

func NewTenantController(tenantService TenantService) *TenantController {
	return &TenantController{TenantService: tenantService}
}

// ListTenants godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Success      200  {array} models.Tenant
// @Failure      403  {object} map[string]string
// @Router       /api/tenants [get]
func (ctrl *TenantController) ListTenants(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	tenants, err := ctrl.TenantService.ListTenants(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(tenants)
}

// GetTenant godoc
// @Summary      Get tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200  {object} models.Tenant
// @Failure      404  {object} map[string]string
// @Router       /api/tenants/{id} [get]
func (ctrl *TenantController) GetTenant(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	tenant, err := ctrl.TenantService.GetTenant(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(tenant)
}

// CreateTenant godoc
// @Summary      Create tenant
// @Description  Creates a tenant and, optionally, its first admin user
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        input body CreateTenantRequest true "Tenant"
// @Success      201  {object} CreateTenantResponse
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/tenants [post]
func (ctrl *TenantController) CreateTenant(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := ctrl.TenantService.CreateTenant(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTenant godoc
// @Summary      Update tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        input body UpdateTenantRequest true "Changes"
// @Success      200  {object} models.Tenant
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/tenants/{id} [put]
func (ctrl *TenantController) UpdateTenant(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	tenant, err := ctrl.TenantService.UpdateTenant(c.UserContext(), caller, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(tenant)
}

// DeleteTenant godoc
// @Summary      Delete tenant
// @Description  Removes the tenant row. Users and business data are not deleted.
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      204
// @Failure      403  {object} map[string]string
// @Router       /api/tenants/{id} [delete]
func (ctrl *TenantController) DeleteTenant(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	if err := ctrl.TenantService.DeleteTenant(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBranding godoc
// @Summary      Get the caller's tenant branding
// @Tags         tenants
// @Produce      json
// @Success      200  {object} Branding
// @Router       /api/tenant/branding [get]
func (ctrl *TenantController) GetBranding(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	branding, err := ctrl.TenantService.GetBranding(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(branding)
}

// UpdateBranding godoc
// @Summary      Update the caller's tenant branding
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        input body BrandingRequest true "Branding"
// @Success      200  {object} Branding
// @Failure      400  {object} map[string]string
// @Router       /api/tenant/branding [put]
func (ctrl *TenantController) UpdateBranding(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req BrandingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	branding, err := ctrl.TenantService.UpdateBranding(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(branding)
}
