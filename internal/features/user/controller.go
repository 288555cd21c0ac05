package user

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// ListUsers godoc
// @Summary      List users
// @Description  Users visible at the caller's scope (tenant, team, or the platform directory)
// @Tags         users
// @Produce      json
// @Param        role query string false "Filter by role"
// @Success      200  {array} models.User
// @Failure      403  {object} map[string]string
// @Router       /users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	users, err := ctrl.UserService.ListUsers(c.UserContext(), caller, permission.Role(c.Query("role")))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object} models.User
// @Failure      404  {object} map[string]string
// @Router       /users/{id} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	user, err := ctrl.UserService.GetUser(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// CreateUser godoc
// @Summary      Create user
// @Description  Create a user in the caller's tenant. Only roles below the caller's rank may be created.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserRequest true "Create User Input"
// @Success      201  {object} models.User
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := ctrl.UserService.CreateUser(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser godoc
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        input body UpdateUserRequest true "Update User Input"
// @Success      200  {object} models.User
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /users/{id} [put]
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := ctrl.UserService.UpdateUser(c.UserContext(), caller, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403  {object} map[string]string
// @Router       /users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	if err := ctrl.UserService.DeleteUser(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
