package deal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/features/activity"
	"estate-crm/internal/features/lead"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/property"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type DealService interface {
	ListDeals(ctx context.Context, caller tenancy.Caller, filter DealFilter) ([]models.Deal, error)
	GetDeal(ctx context.Context, caller tenancy.Caller, id string) (*models.Deal, error)
	CreateDeal(ctx context.Context, caller tenancy.Caller, req CreateDealRequest) (*models.Deal, error)
	UpdateDeal(ctx context.Context, caller tenancy.Caller, id string, req UpdateDealRequest) (*models.Deal, error)
	ApproveDeal(ctx context.Context, caller tenancy.Caller, id string) (*models.Deal, error)
	ListCommissions(ctx context.Context, caller tenancy.Caller) ([]CommissionLine, error)
}

type DealServiceImpl struct {
	Repo       DealRepository
	Leads      lead.LeadRepository
	Properties property.PropertyRepository
	Users      user.UserRepository
	ShareRates ShareRates
	Isolation  *tenancy.Isolation
	Activity   activity.ActivityRecorder
	Logger     *zap.Logger
	now        func() time.Time
}

func NewDealService(
	repo DealRepository,
	leads lead.LeadRepository,
	properties property.PropertyRepository,
	users user.UserRepository,
	shareRates ShareRates,
	isolation *tenancy.Isolation,
	recorder activity.ActivityRecorder,
	logger *zap.Logger,
) DealService {
	return &DealServiceImpl{
		Repo:       repo,
		Leads:      leads,
		Properties: properties,
		Users:      users,
		ShareRates: shareRates,
		Isolation:  isolation,
		Activity:   recorder,
		Logger:     logger,
		now:        time.Now,
	}
}

func (s *DealServiceImpl) ListDeals(ctx context.Context, caller tenancy.Caller, f DealFilter) ([]models.Deal, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDeals, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) ([]models.Deal, error) {
			predicate := bson.M{}
			if f.Status != "" {
				predicate["status"] = f.Status
			}
			if f.AgentID != "" {
				predicate["agent_id"] = f.AgentID
			}
			filter, err := access.Filter(predicate)
			if err != nil {
				return nil, err
			}
			return s.Repo.List(ctx, filter)
		})
}

func (s *DealServiceImpl) GetDeal(ctx context.Context, caller tenancy.Caller, id string) (*models.Deal, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDeals, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*models.Deal, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			return s.Repo.FindOne(ctx, filter)
		})
}

func (s *DealServiceImpl) CreateDeal(ctx context.Context, caller tenancy.Caller, req CreateDealRequest) (*models.Deal, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDeals, permission.ActionCreate),
		func(ctx context.Context, access tenancy.Access) (*models.Deal, error) {
			agentID := req.AgentID
			if agentID == "" {
				agentID = caller.UserID
			}
			if err := s.checkAgent(ctx, caller, access, agentID); err != nil {
				return nil, err
			}
			if err := s.checkReferences(ctx, access, req.PropertyID, req.LeadID); err != nil {
				return nil, err
			}

			split, err := s.split(ctx, access.TenantID, req.SalePrice, req.CommissionPercentage)
			if err != nil {
				return nil, err
			}

			now := s.now()
			deal := &models.Deal{
				ID:                   database.NewID(),
				TenantID:             access.TenantID,
				PropertyID:           req.PropertyID,
				LeadID:               req.LeadID,
				SalePrice:            req.SalePrice,
				CommissionPercentage: req.CommissionPercentage,
				AgentCommission:      split.AgentCommission,
				CompanyCommission:    split.CompanyCommission,
				Status:               models.DealStatusPending,
				DealDate:             req.DealDate,
				AgentID:              agentID,
				CreatedBy:            caller.UserID,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			if err := s.Repo.Create(ctx, deal); err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityDeal, deal.ID,
				activity.ActionCreated, fmt.Sprintf("Opened deal at %s", deal.SalePrice))
			return deal, nil
		})
}

func (s *DealServiceImpl) UpdateDeal(ctx context.Context, caller tenancy.Caller, id string, req UpdateDealRequest) (*models.Deal, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDeals, permission.ActionUpdate),
		func(ctx context.Context, access tenancy.Access) (*models.Deal, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			existing, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}
			if existing.Status == models.DealStatusClosed {
				return nil, errs.Invalid("closed deals cannot be changed")
			}

			updates := bson.M{}
			if req.Status != nil {
				switch *req.Status {
				case models.DealStatusPending, models.DealStatusCancelled:
					updates["status"] = *req.Status
				case models.DealStatusClosed:
					return nil, errs.Invalid("deals are closed through approval")
				default:
					return nil, errs.Invalid("unknown deal status %q", *req.Status)
				}
			}
			if req.DealDate != nil {
				updates["deal_date"] = *req.DealDate
			}
			if req.SalePrice != nil || req.CommissionPercentage != nil {
				price, pct := existing.SalePrice, existing.CommissionPercentage
				if req.SalePrice != nil {
					price = *req.SalePrice
				}
				if req.CommissionPercentage != nil {
					pct = *req.CommissionPercentage
				}
				split, err := s.split(ctx, access.TenantID, price, pct)
				if err != nil {
					return nil, err
				}
				updates["sale_price"] = price
				updates["commission_percentage"] = pct
				updates["agent_commission"] = split.AgentCommission
				updates["company_commission"] = split.CompanyCommission
			}
			if len(updates) == 0 {
				return existing, nil
			}

			if err := s.Repo.Update(ctx, filter, updates); err != nil {
				return nil, err
			}
			deal, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityDeal, deal.ID,
				activity.ActionUpdated, fmt.Sprintf("Deal is %s at %s", deal.Status, deal.SalePrice))
			return deal, nil
		})
}

func (s *DealServiceImpl) ApproveDeal(ctx context.Context, caller tenancy.Caller, id string) (*models.Deal, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceDeals, permission.ActionApprove),
		func(ctx context.Context, access tenancy.Access) (*models.Deal, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			existing, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}
			if existing.Status != models.DealStatusPending {
				return nil, errs.Invalid("only pending deals can be approved, deal is %s", existing.Status)
			}

			updates := bson.M{"status": models.DealStatusClosed}
			if existing.DealDate == nil {
				updates["deal_date"] = s.now().UTC()
			}
			if err := s.Repo.Update(ctx, filter, updates); err != nil {
				return nil, err
			}
			deal, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}

			s.markSold(ctx, deal)
			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityDeal, deal.ID,
				activity.ActionApproved, fmt.Sprintf("Closed deal, agent commission %s", deal.AgentCommission))
			return deal, nil
		})
}

func (s *DealServiceImpl) ListCommissions(ctx context.Context, caller tenancy.Caller) ([]CommissionLine, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceCommissions, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) ([]CommissionLine, error) {
			filter, err := access.Filter(bson.M{"status": models.DealStatusClosed})
			if err != nil {
				return nil, err
			}
			deals, err := s.Repo.List(ctx, filter)
			if err != nil {
				return nil, err
			}

			lines := make([]CommissionLine, 0, len(deals))
			for _, d := range deals {
				lines = append(lines, CommissionLine{
					DealID:            d.ID,
					AgentID:           d.AgentID,
					SalePrice:         d.SalePrice,
					AgentCommission:   d.AgentCommission,
					CompanyCommission: d.CompanyCommission,
					DealDate:          d.DealDate,
				})
			}
			return lines, nil
		})
}

func (s *DealServiceImpl) split(ctx context.Context, tenantID string, price models.Money, pct models.Ratio) (Split, error) {
	rate, err := s.ShareRates.CompanyShareRate(ctx, tenantID)
	if err != nil {
		return Split{}, fmt.Errorf("company share rate: %w", err)
	}
	return SplitCommission(price, pct, rate)
}

// checkAgent keeps the deal inside the caller's own view: sales book for
// themselves, supervisors for their team, admins for anyone in the tenant.
func (s *DealServiceImpl) checkAgent(ctx context.Context, caller tenancy.Caller, access tenancy.Access, agentID string) error {
	if !access.Owns(agentID) {
		return &errs.AuthorizationError{
			Role: string(caller.Role), Resource: permission.ResourceDeals, Action: permission.ActionCreate,
			Scope: string(access.Level), Reason: "agent is outside the caller's scope",
		}
	}
	_, err := s.Users.FindOne(ctx, bson.M{"_id": agentID, "tenant_id": access.TenantID, "is_active": true})
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Invalid("agent %s is not an active member of this tenant", agentID)
	}
	return err
}

// checkReferences requires the property to be in the tenant and the lead to
// be one the caller can see at its own scope.
func (s *DealServiceImpl) checkReferences(ctx context.Context, access tenancy.Access, propertyID, leadID string) error {
	if propertyID == "" || leadID == "" {
		return errs.Invalid("propertyId and leadId are required")
	}

	if _, err := s.Properties.FindOne(ctx, bson.M{"_id": propertyID, "tenant_id": access.TenantID}); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Invalid("property %s not found", propertyID)
		}
		return err
	}

	leadFilter, err := access.For(permission.ResourceLeads).Filter(bson.M{"_id": leadID})
	if err != nil {
		return err
	}
	if _, err := s.Leads.FindOne(ctx, leadFilter); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Invalid("lead %s not found", leadID)
		}
		return err
	}
	return nil
}

// markSold moves the property and lead of a closed deal to their terminal
// states. Failures are logged; the deal itself is already closed.
func (s *DealServiceImpl) markSold(ctx context.Context, d *models.Deal) {
	if err := s.Properties.Update(ctx, bson.M{"_id": d.PropertyID, "tenant_id": d.TenantID},
		bson.M{"status": models.PropertyStatusSold}); err != nil {
		s.Logger.Warn("property not marked sold", zap.String("tenant_id", d.TenantID), zap.String("deal_id", d.ID), zap.Error(err))
	}
	if err := s.Leads.Update(ctx, bson.M{"_id": d.LeadID, "tenant_id": d.TenantID},
		bson.M{"status": models.LeadStatusClosed}); err != nil {
		s.Logger.Warn("lead not marked closed", zap.String("tenant_id", d.TenantID), zap.String("deal_id", d.ID), zap.Error(err))
	}
}
