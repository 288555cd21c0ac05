package exchange_rate

import (
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExchangeRateController struct {
	ExchangeRateService ExchangeRateService
}

func NewExchangeRateController(exchangeRateService ExchangeRateService) *ExchangeRateController {
	return &ExchangeRateController{ExchangeRateService: exchangeRateService}
}

// GetExchangeRate godoc
// @Summary      Get the tenant exchange rate
// @Tags         exchange-rates
// @Produce      json
// @Success      200  {object} models.ExchangeRate
// @Failure      403  {object} map[string]string
// @Router       /api/exchange-rates [get]
func (ctrl *ExchangeRateController) GetExchangeRate(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	rate, err := ctrl.ExchangeRateService.GetExchangeRate(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(rate)
}

// SetExchangeRate godoc
// @Summary      Set the tenant exchange rate
// @Tags         exchange-rates
// @Accept       json
// @Produce      json
// @Param        input body SetExchangeRateRequest true "Rates"
// @Success      200  {object} models.ExchangeRate
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/exchange-rates [put]
func (ctrl *ExchangeRateController) SetExchangeRate(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req SetExchangeRateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	rate, err := ctrl.ExchangeRateService.SetExchangeRate(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(rate)
}
