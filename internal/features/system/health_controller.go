package system

import (
	"context"
	"time"

	"estate-crm/internal/database"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

type HealthController struct {
	mongodb *database.MongodbDB
}

func NewHealthController(mongodb *database.MongodbDB) *HealthController {
	return &HealthController{mongodb: mongodb}
}

// Health godoc
// @Summary      Liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200  {object} map[string]string
// @Failure      503  {object} map[string]string
// @Router       /api/health [get]
func (ctrl *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := ctrl.mongodb.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "unreachable"})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
}
