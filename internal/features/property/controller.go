package property

import (
	"estate-crm/internal/common/models"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PropertyController struct {
	PropertyService PropertyService
}

func NewPropertyController(propertyService PropertyService) *PropertyController {
	return &PropertyController{PropertyService: propertyService}
}

// ListProperties godoc
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        type query string false "Property type"
// @Param        location query string false "Location contains"
// @Param        status query string false "Listing status"
// @Success      200  {array} models.Property
// @Failure      403  {object} map[string]string
// @Router       /api/properties [get]
func (ctrl *PropertyController) ListProperties(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	properties, err := ctrl.PropertyService.ListProperties(c.UserContext(), caller, PropertyFilter{
		Type:     models.PropertyType(c.Query("type")),
		Location: c.Query("location"),
		Status:   models.PropertyStatus(c.Query("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(properties)
}

// GetProperty godoc
// @Summary      Get property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200  {object} models.Property
// @Failure      404  {object} map[string]string
// @Router       /api/properties/{id} [get]
func (ctrl *PropertyController) GetProperty(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	property, err := ctrl.PropertyService.GetProperty(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// CreateProperty godoc
// @Summary      Create property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        input body CreatePropertyRequest true "Property"
// @Success      201  {object} models.Property
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/properties [post]
func (ctrl *PropertyController) CreateProperty(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	property, err := ctrl.PropertyService.CreateProperty(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(property)
}

// UpdateProperty godoc
// @Summary      Update property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        input body UpdatePropertyRequest true "Changes"
// @Success      200  {object} models.Property
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/properties/{id} [put]
func (ctrl *PropertyController) UpdateProperty(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	property, err := ctrl.PropertyService.UpdateProperty(c.UserContext(), caller, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// DeleteProperty godoc
// @Summary      Delete property
// @Tags         properties
// @Param        id path string true "Property ID"
// @Success      204
// @Failure      403  {object} map[string]string
// @Router       /api/properties/{id} [delete]
func (ctrl *PropertyController) DeleteProperty(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	if err := ctrl.PropertyService.DeleteProperty(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
