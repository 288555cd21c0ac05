package auth

import (
	"errors"

	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

// Login godoc
// @Summary      Login
// @Description  Exchange email and password for a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} LoginResponse
// @Failure      400  {object} map[string]string "Invalid request body"
// @Failure      401  {object} map[string]string "Invalid credentials"
// @Router       /api/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	resp, err := ctrl.AuthService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	return c.JSON(resp)
}

// Me godoc
// @Summary      Current session
// @Description  The authenticated user, its resolved principal and its permission list
// @Tags         auth
// @Produce      json
// @Success      200  {object} MeResponse
// @Failure      401  {object} map[string]string
// @Router       /api/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	principal, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.AuthService.Me(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
