package deal

import (
	"context"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ShareRates yields the fraction of the agent commission pool a tenant's
// company retains.
type ShareRates interface {
	CompanyShareRate(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

// Split is the commission breakdown of one deal.
type Split struct {
	AgentCommission   models.Money `json:"agentCommission"`
	CompanyCommission models.Money `json:"companyCommission"`
}

// SplitCommission computes agent = salePrice * pct / 100 and
// company = agent * shareRate, each rounded to currency precision.
func SplitCommission(salePrice models.Money, percentage models.Ratio, shareRate decimal.Decimal) (Split, error) {
	if salePrice.IsNegative() {
		return Split{}, errs.Invalid("sale price cannot be negative")
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return Split{}, errs.Invalid("commission percentage must be between 0 and 100")
	}
	if shareRate.IsNegative() || shareRate.GreaterThan(decimal.NewFromInt(1)) {
		return Split{}, errs.Invalid("company share rate must be between 0 and 1")
	}

	agent := models.NewMoney(salePrice.Mul(percentage.Decimal).Div(hundred))
	company := models.NewMoney(agent.Mul(shareRate))
	return Split{AgentCommission: agent, CompanyCommission: company}, nil
}
