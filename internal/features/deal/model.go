package deal

import (
	"time"

	"estate-crm/internal/common/models"
)

type DealFilter struct {
	Status  models.DealStatus
	AgentID string
}

type CreateDealRequest struct {
	PropertyID           string       `json:"propertyId"`
	LeadID               string       `json:"leadId"`
	SalePrice            models.Money `json:"salePrice"`
	CommissionPercentage models.Ratio `json:"commissionPercentage"`
	// AgentID defaults to the caller.
	AgentID  string     `json:"agentId,omitempty"`
	DealDate *time.Time `json:"dealDate,omitempty"`
}

// UpdateDealRequest cannot close a deal; closing is ApproveDeal.
type UpdateDealRequest struct {
	SalePrice            *models.Money      `json:"salePrice,omitempty"`
	CommissionPercentage *models.Ratio      `json:"commissionPercentage,omitempty"`
	Status               *models.DealStatus `json:"status,omitempty"`
	DealDate             *time.Time         `json:"dealDate,omitempty"`
}

// CommissionLine is one closed deal as seen by the commissions view.
type CommissionLine struct {
	DealID            string       `json:"dealId"`
	AgentID           string       `json:"agentId"`
	SalePrice         models.Money `json:"salePrice"`
	AgentCommission   models.Money `json:"agentCommission"`
	CompanyCommission models.Money `json:"companyCommission"`
	DealDate          *time.Time   `json:"dealDate,omitempty"`
}
