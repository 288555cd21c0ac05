package tenant

import (
	"context"

	"estate-crm/internal/config"
	"estate-crm/internal/features/deal"

	"github.com/shopspring/decimal"
)

type shareRates struct {
	repo     TenantRepository
	fallback decimal.Decimal
}

// NewShareRates resolves a tenant's company commission share: the tenant's
// own override when set, the configured platform default otherwise.
func NewShareRates(repo TenantRepository, cfg *config.Config) deal.ShareRates {
	return &shareRates{repo: repo, fallback: cfg.CompanyShareRate}
}

func (s *shareRates) CompanyShareRate(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	if t.CommissionShareRate != nil {
		return t.CommissionShareRate.Decimal, nil
	}
	return s.fallback, nil
}
