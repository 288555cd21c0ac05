package middleware

import (
	"errors"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the only place core errors become status codes.
func ErrorHandler(logger *zap.Logger, m *metrics.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, reason := classify(err)

		switch {
		case code == fiber.StatusForbidden:
			m.Denied(reason)
			logger.Info("access denied",
				zap.String("reason", reason),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		case code >= fiber.StatusInternalServerError:
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		message := err.Error()
		if code >= fiber.StatusInternalServerError {
			message = "Internal Server Error"
		}
		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}

func classify(err error) (int, string) {
	var authErr *errs.AuthorizationError
	var mismatch *errs.TenantMismatchError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &mismatch):
		return fiber.StatusForbidden, "tenant_mismatch"
	case errors.Is(err, errs.ErrMissingTenantContext):
		return fiber.StatusForbidden, "missing_tenant"
	case errors.As(err, &authErr):
		return fiber.StatusForbidden, "permission"
	case errors.Is(err, errs.ErrPlatformScope):
		return fiber.StatusForbidden, "platform_scope"
	case errors.Is(err, errs.ErrPlatformTenant):
		return fiber.StatusForbidden, "platform_tenant"
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound, ""
	case errors.Is(err, errs.ErrInvalidInput):
		return fiber.StatusBadRequest, ""
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ""
	default:
		return fiber.StatusInternalServerError, ""
	}
}
