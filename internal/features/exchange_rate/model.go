package exchange_rate

import "estate-crm/internal/common/models"

// Rates used until a tenant admin sets its own.
var (
	DefaultBuyRate  = models.MustMoney("158")
	DefaultSellRate = models.MustMoney("179")
)

type SetExchangeRateRequest struct {
	BuyRate  models.Money `json:"buyRate"`
	SellRate models.Money `json:"sellRate"`
}
