package activity

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ActivityApi struct {
	ActivityController *ActivityController
	Sessions           middleware.PrincipalResolver
	Resolver           *permission.Resolver
}

func NewActivityApi(activityController *ActivityController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *ActivityApi {
	return &ActivityApi{
		ActivityController: activityController,
		Sessions:           sessions,
		Resolver:           resolver,
	}
}

func (api *ActivityApi) Setup(app *fiber.App) {
	group := app.Group("/api/activities", middleware.AuthMiddleware(api.Sessions))
	group.Get("/", middleware.RequirePermission(api.Resolver, permission.ResourceActivities, permission.ActionRead), api.ActivityController.ListRecent)
	group.Post("/", middleware.RequirePermission(api.Resolver, permission.ResourceActivities, permission.ActionCreate), api.ActivityController.LogActivity)

	app.Get("/api/ws/activities",
		middleware.QueryTokenAuth(api.Sessions),
		api.ActivityController.AuthorizeFeed,
		websocket.New(api.ActivityController.StreamFeed),
	)
}
