package models

import (
	"time"

	"estate-crm/internal/features/permission"
)

type ContextKey string

const (
	PrincipalKey ContextKey = "principal"
)

// Entity types recorded on activities.
const (
	EntityLead     = "lead"
	EntityProperty = "property"
	EntityDeal     = "deal"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusClosed    LeadStatus = "closed"
)

type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusInactive  PropertyStatus = "inactive"
)

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

type DealStatus string

const (
	DealStatusPending   DealStatus = "pending"
	DealStatusClosed    DealStatus = "closed"
	DealStatusCancelled DealStatus = "cancelled"
)

// Tenant is an isolated customer company. Tenant rows are platform metadata
// and are the only tenant-level data the superadmin reads.
type Tenant struct {
	ID             string `bson:"_id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Subdomain      string `bson:"subdomain,omitempty" json:"subdomain,omitempty"`
	CustomDomain   string `bson:"custom_domain,omitempty" json:"customDomain,omitempty"`
	LogoURL        string `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`
	PrimaryColor   string `bson:"primary_color" json:"primaryColor"`
	SecondaryColor string `bson:"secondary_color" json:"secondaryColor"`
	Plan           string `bson:"plan" json:"plan"`
	MonthlyFee     Money  `bson:"monthly_fee" json:"monthlyFee"`
	// CommissionShareRate overrides the platform default company share when set.
	CommissionShareRate *Ratio    `bson:"commission_share_rate,omitempty" json:"commissionShareRate,omitempty"`
	IsActive            bool      `bson:"is_active" json:"isActive"`
	CreatedAt           time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updatedAt"`
}

type User struct {
	ID           string          `bson:"_id" json:"id"`
	TenantID     string          `bson:"tenant_id,omitempty" json:"tenantId,omitempty"`
	Email        string          `bson:"email" json:"email"`
	PasswordHash string          `bson:"password_hash" json:"-"`
	FirstName    string          `bson:"first_name,omitempty" json:"firstName,omitempty"`
	LastName     string          `bson:"last_name,omitempty" json:"lastName,omitempty"`
	Role         permission.Role `bson:"role" json:"role"`
	// SupervisorID is the canonical team join: a sales user belongs to the
	// team of the supervisor it references.
	SupervisorID string    `bson:"supervisor_id,omitempty" json:"supervisorId,omitempty"`
	IsActive     bool      `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

type Lead struct {
	ID           string       `bson:"_id" json:"id"`
	TenantID     string       `bson:"tenant_id" json:"tenantId"`
	Name         string       `bson:"name" json:"name"`
	Phone        string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string       `bson:"email,omitempty" json:"email,omitempty"`
	Budget       *Money       `bson:"budget,omitempty" json:"budget,omitempty"`
	Location     string       `bson:"location,omitempty" json:"location,omitempty"`
	PropertyType PropertyType `bson:"property_type,omitempty" json:"propertyType,omitempty"`
	Status       LeadStatus   `bson:"status" json:"status"`
	AssignedTo   string       `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	Notes        string       `bson:"notes,omitempty" json:"notes,omitempty"`
	Source       string       `bson:"source,omitempty" json:"source,omitempty"`
	CreatedBy    string       `bson:"created_by" json:"createdBy"`
	CreatedAt    time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updatedAt"`
}

type Property struct {
	ID          string         `bson:"_id" json:"id"`
	TenantID    string         `bson:"tenant_id" json:"tenantId"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Type        PropertyType   `bson:"type" json:"type"`
	Location    string         `bson:"location" json:"location"`
	Price       Money          `bson:"price" json:"price"`
	Bedrooms    int            `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms   int            `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	SquareFeet  int            `bson:"square_feet,omitempty" json:"squareFeet,omitempty"`
	ImageURL    string         `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Status      PropertyStatus `bson:"status" json:"status"`
	CreatedBy   string         `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updatedAt"`
}

type Deal struct {
	ID                   string     `bson:"_id" json:"id"`
	TenantID             string     `bson:"tenant_id" json:"tenantId"`
	PropertyID           string     `bson:"property_id" json:"propertyId"`
	LeadID               string     `bson:"lead_id" json:"leadId"`
	SalePrice            Money      `bson:"sale_price" json:"salePrice"`
	CommissionPercentage Ratio      `bson:"commission_percentage" json:"commissionPercentage"`
	AgentCommission      Money      `bson:"agent_commission" json:"agentCommission"`
	CompanyCommission    Money      `bson:"company_commission" json:"companyCommission"`
	Status               DealStatus `bson:"status" json:"status"`
	DealDate             *time.Time `bson:"deal_date,omitempty" json:"dealDate,omitempty"`
	AgentID              string     `bson:"agent_id" json:"agentId"`
	CreatedBy            string     `bson:"created_by" json:"createdBy"`
	CreatedAt            time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time  `bson:"updated_at" json:"updatedAt"`
}

type ExchangeRate struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	BuyRate   Money     `bson:"buy_rate" json:"buyRate"`
	SellRate  Money     `bson:"sell_rate" json:"sellRate"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Activity is an append-only audit trail row.
type Activity struct {
	ID          string    `bson:"_id" json:"id"`
	TenantID    string    `bson:"tenant_id" json:"tenantId"`
	UserID      string    `bson:"user_id,omitempty" json:"userId,omitempty"`
	EntityType  string    `bson:"entity_type" json:"entityType"`
	EntityID    string    `bson:"entity_id" json:"entityId"`
	Action      string    `bson:"action" json:"action"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	Level        string    `bson:"level" json:"level"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	AppID        string    `bson:"app_id,omitempty" json:"app_id,omitempty"`
	TenantID     string    `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID       string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	IpAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
