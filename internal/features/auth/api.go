package auth

import (
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	sessions   *SessionResolver
}

func NewAuthApi(controller *AuthController, sessions *SessionResolver) *AuthApi {
	return &AuthApi{
		controller: controller,
		sessions:   sessions,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	app.Post("/api/login", h.controller.Login)
	app.Get("/api/auth/me", middleware.AuthMiddleware(h.sessions), h.controller.Me)
}
