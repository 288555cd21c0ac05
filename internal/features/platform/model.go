package platform

import (
	"time"

	"estate-crm/internal/common/models"
)

// Stats are the cross-tenant aggregates the platform view may see. They are
// computed from tenant metadata and user counts only.
type Stats struct {
	TenantCount       int64        `bson:"tenant_count" json:"tenantCount"`
	ActiveTenantCount int64        `bson:"active_tenant_count" json:"activeTenantCount"`
	PlatformRevenue   models.Money `bson:"platform_revenue" json:"platformRevenue"`
	ActiveUserCount   int64        `bson:"active_user_count" json:"activeUserCount"`
}

// TenantSummary is one row of the platform tenant list.
type TenantSummary struct {
	TenantID    string       `json:"tenantId"`
	Name        string       `json:"name"`
	Subdomain   string       `json:"subdomain,omitempty"`
	Plan        string       `json:"plan"`
	MonthlyFee  models.Money `json:"monthlyFee"`
	IsActive    bool         `json:"isActive"`
	ActiveUsers int64        `json:"activeUsers"`
}

type Snapshot struct {
	ID      string    `bson:"_id" json:"id"`
	Stats   Stats     `bson:"stats" json:"stats"`
	TakenAt time.Time `bson:"taken_at" json:"takenAt"`
}

const (
	DefaultSnapshotLimit = 30
	MaxSnapshotLimit     = 365
)
