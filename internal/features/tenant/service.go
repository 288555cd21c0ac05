package tenant

import (
	"context"
	"regexp"
	"strings"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"
	"estate-crm/pkg/utils"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// AdminProvisioner creates the first admin of a new tenant.
type AdminProvisioner interface {
	CreateTenantAdmin(ctx context.Context, tenantID string, req user.CreateUserRequest) (*models.User, error)
}

// SessionCache drops cached principals whose tenant state changed.
type SessionCache interface {
	InvalidateAll()
}

type TenantService interface {
	ListTenants(ctx context.Context, caller tenancy.Caller) ([]models.Tenant, error)
	GetTenant(ctx context.Context, caller tenancy.Caller, id string) (*models.Tenant, error)
	CreateTenant(ctx context.Context, caller tenancy.Caller, req CreateTenantRequest) (*CreateTenantResponse, error)
	UpdateTenant(ctx context.Context, caller tenancy.Caller, id string, req UpdateTenantRequest) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, caller tenancy.Caller, id string) error
	GetBranding(ctx context.Context, caller tenancy.Caller) (*Branding, error)
	UpdateBranding(ctx context.Context, caller tenancy.Caller, req BrandingRequest) (*Branding, error)
}

type TenantServiceImpl struct {
	Repo      TenantRepository
	Admins    AdminProvisioner
	Sessions  SessionCache
	Isolation *tenancy.Isolation
	Logger    *zap.Logger
}

func NewTenantService(repo TenantRepository, admins AdminProvisioner, sessions SessionCache, isolation *tenancy.Isolation, logger *zap.Logger) TenantService {
	return &TenantServiceImpl{
		Repo:      repo,
		Admins:    admins,
		Sessions:  sessions,
		Isolation: isolation,
		Logger:    logger,
	}
}

// platform runs fn for a tenants operation, which only the platform view
// may perform.
func platform[T any](ctx context.Context, s *TenantServiceImpl, caller tenancy.Caller, action string, fn func(context.Context) (T, error)) (T, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceTenants, action),
		func(ctx context.Context, access tenancy.Access) (T, error) {
			if !access.Platform {
				var zero T
				return zero, errs.Denied(string(caller.Role), permission.ResourceTenants, action, string(access.Level))
			}
			return fn(ctx)
		})
}

func (s *TenantServiceImpl) ListTenants(ctx context.Context, caller tenancy.Caller) ([]models.Tenant, error) {
	return platform(ctx, s, caller, permission.ActionRead, func(ctx context.Context) ([]models.Tenant, error) {
		return s.Repo.List(ctx, bson.M{})
	})
}

func (s *TenantServiceImpl) GetTenant(ctx context.Context, caller tenancy.Caller, id string) (*models.Tenant, error) {
	return platform(ctx, s, caller, permission.ActionRead, func(ctx context.Context) (*models.Tenant, error) {
		return s.Repo.FindByID(ctx, id)
	})
}

func (s *TenantServiceImpl) CreateTenant(ctx context.Context, caller tenancy.Caller, req CreateTenantRequest) (*CreateTenantResponse, error) {
	return platform(ctx, s, caller, permission.ActionCreate, func(ctx context.Context) (*CreateTenantResponse, error) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, errs.Invalid("tenant name is required")
		}
		subdomain := req.Subdomain
		if subdomain == "" {
			subdomain = name
		}
		subdomain = utils.Slugify(subdomain)
		if subdomain == "" {
			return nil, errs.Invalid("subdomain must contain letters or digits")
		}
		if req.MonthlyFee.IsNegative() {
			return nil, errs.Invalid("monthly fee cannot be negative")
		}
		if err := checkShareRate(req.CommissionShareRate); err != nil {
			return nil, err
		}

		t := &models.Tenant{
			Name:                name,
			Subdomain:           subdomain,
			CustomDomain:        req.CustomDomain,
			LogoURL:             req.LogoURL,
			PrimaryColor:        orDefault(req.PrimaryColor, defaultPrimaryColor),
			SecondaryColor:      orDefault(req.SecondaryColor, defaultSecondaryColor),
			Plan:                orDefault(req.Plan, defaultPlan),
			MonthlyFee:          req.MonthlyFee,
			CommissionShareRate: req.CommissionShareRate,
			IsActive:            true,
		}
		if !hexColor.MatchString(t.PrimaryColor) || !hexColor.MatchString(t.SecondaryColor) {
			return nil, errs.Invalid("colors must be #RRGGBB")
		}
		if err := s.Repo.Create(ctx, t); err != nil {
			return nil, err
		}
		s.Logger.Info("tenant created", zap.String("tenant_id", t.ID), zap.String("subdomain", t.Subdomain), zap.String("user_id", caller.UserID))

		resp := &CreateTenantResponse{Tenant: t}
		if req.Admin != nil {
			admin, err := s.Admins.CreateTenantAdmin(ctx, t.ID, *req.Admin)
			if err != nil {
				// The tenant stays; its admin can be created afterwards.
				s.Logger.Warn("tenant admin not created", zap.String("tenant_id", t.ID), zap.Error(err))
				return nil, err
			}
			resp.Admin = admin
		}
		return resp, nil
	})
}

func (s *TenantServiceImpl) UpdateTenant(ctx context.Context, caller tenancy.Caller, id string, req UpdateTenantRequest) (*models.Tenant, error) {
	return platform(ctx, s, caller, permission.ActionUpdate, func(ctx context.Context) (*models.Tenant, error) {
		updates := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return nil, errs.Invalid("tenant name is required")
			}
			updates["name"] = name
		}
		if req.Subdomain != nil {
			subdomain := utils.Slugify(*req.Subdomain)
			if subdomain == "" {
				return nil, errs.Invalid("subdomain must contain letters or digits")
			}
			updates["subdomain"] = subdomain
		}
		if req.CustomDomain != nil {
			updates["custom_domain"] = *req.CustomDomain
		}
		if req.Plan != nil {
			updates["plan"] = *req.Plan
		}
		if req.MonthlyFee != nil {
			if req.MonthlyFee.IsNegative() {
				return nil, errs.Invalid("monthly fee cannot be negative")
			}
			updates["monthly_fee"] = *req.MonthlyFee
		}
		if req.CommissionShareRate != nil {
			if err := checkShareRate(req.CommissionShareRate); err != nil {
				return nil, err
			}
			updates["commission_share_rate"] = *req.CommissionShareRate
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) == 0 {
			return s.Repo.FindByID(ctx, id)
		}

		if err := s.Repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		if req.IsActive != nil && !*req.IsActive {
			s.Sessions.InvalidateAll()
			s.Logger.Info("tenant deactivated", zap.String("tenant_id", id), zap.String("user_id", caller.UserID))
		}
		return s.Repo.FindByID(ctx, id)
	})
}

// DeleteTenant removes the tenant row only. Its users and business rows are
// left in place and become unreachable, since sessions require an active
// tenant.
func (s *TenantServiceImpl) DeleteTenant(ctx context.Context, caller tenancy.Caller, id string) error {
	_, err := platform(ctx, s, caller, permission.ActionDelete, func(ctx context.Context) (struct{}, error) {
		if err := s.Repo.Delete(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.Sessions.InvalidateAll()
		s.Logger.Warn("tenant deleted", zap.String("tenant_id", id), zap.String("user_id", caller.UserID))
		return struct{}{}, nil
	})
	return err
}

func (s *TenantServiceImpl) GetBranding(ctx context.Context, caller tenancy.Caller) (*Branding, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceBranding, permission.ActionManage),
		func(ctx context.Context, access tenancy.Access) (*Branding, error) {
			if access.Platform {
				return nil, errs.ErrPlatformScope
			}
			t, err := s.Repo.FindByID(ctx, access.TenantID)
			if err != nil {
				return nil, err
			}
			return brandingOf(t), nil
		})
}

func (s *TenantServiceImpl) UpdateBranding(ctx context.Context, caller tenancy.Caller, req BrandingRequest) (*Branding, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceBranding, permission.ActionManage),
		func(ctx context.Context, access tenancy.Access) (*Branding, error) {
			if access.Platform {
				return nil, errs.ErrPlatformScope
			}
			updates := bson.M{}
			if req.LogoURL != nil {
				updates["logo_url"] = *req.LogoURL
			}
			for field, color := range map[string]*string{"primary_color": req.PrimaryColor, "secondary_color": req.SecondaryColor} {
				if color == nil {
					continue
				}
				if !hexColor.MatchString(*color) {
					return nil, errs.Invalid("colors must be #RRGGBB")
				}
				updates[field] = *color
			}
			if len(updates) > 0 {
				if err := s.Repo.Update(ctx, access.TenantID, updates); err != nil {
					return nil, err
				}
			}
			t, err := s.Repo.FindByID(ctx, access.TenantID)
			if err != nil {
				return nil, err
			}
			return brandingOf(t), nil
		})
}

func brandingOf(t *models.Tenant) *Branding {
	return &Branding{
		Name:           t.Name,
		LogoURL:        t.LogoURL,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
	}
}

func checkShareRate(r *models.Ratio) error {
	if r == nil {
		return nil
	}
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		return errs.Invalid("commission share rate must be between 0 and 1")
	}
	return nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
