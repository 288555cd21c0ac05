package tenant

import (
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/user"
)

const (
	defaultPrimaryColor   = "#2563EB"
	defaultSecondaryColor = "#64748B"
	defaultPlan           = "basic"
)

type CreateTenantRequest struct {
	Name string `json:"name"`
	// Subdomain defaults to a slug of Name.
	Subdomain           string        `json:"subdomain,omitempty"`
	CustomDomain        string        `json:"customDomain,omitempty"`
	LogoURL             string        `json:"logoUrl,omitempty"`
	PrimaryColor        string        `json:"primaryColor,omitempty"`
	SecondaryColor      string        `json:"secondaryColor,omitempty"`
	Plan                string        `json:"plan,omitempty"`
	MonthlyFee          models.Money  `json:"monthlyFee"`
	CommissionShareRate *models.Ratio `json:"commissionShareRate,omitempty"`
	// Admin, when set, bootstraps the tenant's first admin user.
	Admin *user.CreateUserRequest `json:"admin,omitempty"`
}

type CreateTenantResponse struct {
	Tenant *models.Tenant `json:"tenant"`
	Admin  *models.User   `json:"admin,omitempty"`
}

// UpdateTenantRequest carries optional changes; nil fields are left alone.
type UpdateTenantRequest struct {
	Name                *string       `json:"name,omitempty"`
	Subdomain           *string       `json:"subdomain,omitempty"`
	CustomDomain        *string       `json:"customDomain,omitempty"`
	Plan                *string       `json:"plan,omitempty"`
	MonthlyFee          *models.Money `json:"monthlyFee,omitempty"`
	CommissionShareRate *models.Ratio `json:"commissionShareRate,omitempty"`
	IsActive            *bool         `json:"isActive,omitempty"`
}

// BrandingRequest is what a tenant admin may change about its own tenant.
type BrandingRequest struct {
	LogoURL        *string `json:"logoUrl,omitempty"`
	PrimaryColor   *string `json:"primaryColor,omitempty"`
	SecondaryColor *string `json:"secondaryColor,omitempty"`
}

type Branding struct {
	Name           string `json:"name"`
	LogoURL        string `json:"logoUrl,omitempty"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}
