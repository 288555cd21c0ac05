package lead

import "estate-crm/internal/common/models"

type LeadFilter struct {
	Status     models.LeadStatus
	AssignedTo string
	Unassigned bool
}

type CreateLeadRequest struct {
	Name         string              `json:"name"`
	Phone        string              `json:"phone,omitempty"`
	Email        string              `json:"email,omitempty"`
	Budget       *models.Money       `json:"budget,omitempty"`
	Location     string              `json:"location,omitempty"`
	PropertyType models.PropertyType `json:"propertyType,omitempty"`
	Status       models.LeadStatus   `json:"status,omitempty"`
	AssignedTo   string              `json:"assignedTo,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Source       string              `json:"source,omitempty"`
}

// UpdateLeadRequest never moves a lead between owners; that is AssignLead.
type UpdateLeadRequest struct {
	Name         *string              `json:"name,omitempty"`
	Phone        *string              `json:"phone,omitempty"`
	Email        *string              `json:"email,omitempty"`
	Budget       *models.Money        `json:"budget,omitempty"`
	Location     *string              `json:"location,omitempty"`
	PropertyType *models.PropertyType `json:"propertyType,omitempty"`
	Status       *models.LeadStatus   `json:"status,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	Source       *string              `json:"source,omitempty"`
}

type AssignLeadRequest struct {
	AssignedTo string `json:"assignedTo"`
}

func validStatus(s models.LeadStatus) bool {
	switch s {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified,
		models.LeadStatusLost, models.LeadStatusClosed:
		return true
	}
	return false
}
