package report

import "estate-crm/internal/common/models"

const (
	leadSheet = "Leads"
	dealSheet = "Deals"
)

var (
	leadColumns = []string{"ID", "Name", "Email", "Phone", "Status", "Assigned To", "Budget", "Location", "Created"}
	dealColumns = []string{"ID", "Property", "Lead", "Agent", "Status", "Sale Price", "Commission %", "Agent Commission", "Company Commission", "Deal Date"}
)

// Pipeline counts leads and deals by status at the caller's scope.
type Pipeline struct {
	Leads map[models.LeadStatus]int `json:"leads"`
	Deals map[models.DealStatus]int `json:"deals"`
}
