package access

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccessController struct {
	AccessService AccessService
}

func NewAccessController(accessService AccessService) *AccessController {
	return &AccessController{AccessService: accessService}
}

// MyPermissions godoc
// @Summary      Caller's permissions
// @Tags         permissions
// @Produce      json
// @Success      200  {object} RolePermissions
// @Router       /api/permissions/me [get]
func (ctrl *AccessController) MyPermissions(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(ctrl.AccessService.MyPermissions(p))
}

// RolePermissions godoc
// @Summary      Permissions of a role
// @Tags         permissions
// @Produce      json
// @Param        role path string true "Role"
// @Success      200  {object} RolePermissions
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/permissions/roles/{role} [get]
func (ctrl *AccessController) RolePermissions(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	perms, err := ctrl.AccessService.RolePermissions(p, permission.Role(c.Params("role")))
	if err != nil {
		return err
	}
	return c.JSON(perms)
}

// Check godoc
// @Summary      Check one permission
// @Tags         permissions
// @Produce      json
// @Param        resource query string true "Resource"
// @Param        action query string true "Action"
// @Param        scope query string false "Requested scope; omit for the held scope"
// @Success      200  {object} CheckResult
// @Failure      400  {object} map[string]string
// @Router       /api/permissions/check [get]
func (ctrl *AccessController) Check(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	result, err := ctrl.AccessService.Check(p, c.Query("resource"), c.Query("action"), permission.Scope(c.Query("scope")))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
