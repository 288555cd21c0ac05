package exchange_rate

import (
	"estate-crm/internal/features/permission"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExchangeRateApi struct {
	controller *ExchangeRateController
	sessions   middleware.PrincipalResolver
	resolver   *permission.Resolver
}

func NewExchangeRateApi(controller *ExchangeRateController, sessions middleware.PrincipalResolver, resolver *permission.Resolver) *ExchangeRateApi {
	return &ExchangeRateApi{
		controller: controller,
		sessions:   sessions,
		resolver:   resolver,
	}
}

func (h *ExchangeRateApi) Setup(app *fiber.App) {
	rates := app.Group("/api/exchange-rates", middleware.AuthMiddleware(h.sessions))

	rates.Get("/", middleware.RequirePermission(h.resolver, permission.ResourceExchangeRates, permission.ActionRead), h.controller.GetExchangeRate)
	rates.Put("/", middleware.RequirePermission(h.resolver, permission.ResourceExchangeRates, permission.ActionManage), h.controller.SetExchangeRate)
}
