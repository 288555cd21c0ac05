package dashboard

import (
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/platform"
)

// BusinessStats are the tenant-bound metrics, already cut down to the
// caller's scope.
type BusinessStats struct {
	TotalLeads       int64        `json:"totalLeads"`
	ActiveProperties int64        `json:"activeProperties"`
	ClosedDeals      int64        `json:"closedDeals"`
	TotalCommission  models.Money `json:"totalCommission"`
	// Agents breaks closed deals down per agent for team and tenant scope.
	Agents []AgentPerformance `json:"agents,omitempty"`
}

type AgentPerformance struct {
	AgentID         string       `bson:"_id" json:"agentId"`
	ClosedDeals     int64        `bson:"closed_deals" json:"closedDeals"`
	TotalCommission models.Money `bson:"total_commission" json:"totalCommission"`
}

// StatsRecord carries exactly one of the two stat sets.
type StatsRecord struct {
	Scope permission.Scope `json:"scope"`
	*BusinessStats
	*platform.Stats
}

// DealTotals is the closed-deal count and exact commission sum.
type DealTotals struct {
	Count           int64        `bson:"count"`
	TotalCommission models.Money `bson:"total_commission"`
}
