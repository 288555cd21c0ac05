package exchange_rate

import (
	"context"
	"errors"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
)

type ExchangeRateService interface {
	GetExchangeRate(ctx context.Context, caller tenancy.Caller) (*models.ExchangeRate, error)
	SetExchangeRate(ctx context.Context, caller tenancy.Caller, req SetExchangeRateRequest) (*models.ExchangeRate, error)
}

type ExchangeRateServiceImpl struct {
	Repo      ExchangeRateRepository
	Isolation *tenancy.Isolation
}

func NewExchangeRateService(repo ExchangeRateRepository, isolation *tenancy.Isolation) ExchangeRateService {
	return &ExchangeRateServiceImpl{Repo: repo, Isolation: isolation}
}

// GetExchangeRate returns the tenant's rate, or the defaults when none is set.
func (s *ExchangeRateServiceImpl) GetExchangeRate(ctx context.Context, caller tenancy.Caller) (*models.ExchangeRate, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceExchangeRates, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*models.ExchangeRate, error) {
			filter, err := access.Filter(nil)
			if err != nil {
				return nil, err
			}
			rate, err := s.Repo.FindOne(ctx, filter)
			if errors.Is(err, errs.ErrNotFound) {
				return &models.ExchangeRate{
					TenantID: access.TenantID,
					BuyRate:  DefaultBuyRate,
					SellRate: DefaultSellRate,
				}, nil
			}
			return rate, err
		})
}

func (s *ExchangeRateServiceImpl) SetExchangeRate(ctx context.Context, caller tenancy.Caller, req SetExchangeRateRequest) (*models.ExchangeRate, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceExchangeRates, permission.ActionManage),
		func(ctx context.Context, access tenancy.Access) (*models.ExchangeRate, error) {
			if !req.BuyRate.IsPositive() || !req.SellRate.IsPositive() {
				return nil, errs.Invalid("buy and sell rates must be positive")
			}
			filter, err := access.Filter(nil)
			if err != nil {
				return nil, err
			}
			return s.Repo.Upsert(ctx, filter, &models.ExchangeRate{
				TenantID:  access.TenantID,
				BuyRate:   req.BuyRate,
				SellRate:  req.SellRate,
				UpdatedBy: caller.UserID,
			})
		})
}
