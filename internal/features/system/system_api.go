package system

import (
	"estate-crm/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

// SystemApi serves the unauthenticated operational endpoints and the API docs.
type SystemApi struct {
	health  *HealthController
	metrics *metrics.Metrics
}

func NewSystemApi(health *HealthController, m *metrics.Metrics) *SystemApi {
	return &SystemApi{health: health, metrics: m}
}

func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)
}
