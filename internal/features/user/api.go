package user

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewUserApi(controller *UserController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *UserApi {
	return &UserApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

// Setup registers all user-related routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.sessions))

	users.Post("/", middleware.RequirePermission(h.resolver, permission.ResourceUsers, permission.ActionCreate), h.controller.CreateUser)
	users.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceUsers, permission.ActionRead), h.controller.ListUsers)
	users.Get("/:id", middleware.RequirePermission(h.resolver, permission.ResourceUsers, permission.ActionRead), h.controller.GetUser)
	users.Put("/:id", middleware.RequirePermission(h.resolver, permission.ResourceUsers, permission.ActionUpdate), h.controller.UpdateUser)
	users.Delete("/:id", middleware.RequirePermission(h.resolver, permission.ResourceUsers, permission.ActionDelete), h.controller.DeleteUser)
}
