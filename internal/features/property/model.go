package property

import "estate-crm/internal/common/models"

type PropertyFilter struct {
	Type     models.PropertyType
	Location string
	Status   models.PropertyStatus
}

type CreatePropertyRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Type        models.PropertyType   `json:"type"`
	Location    string                `json:"location"`
	Price       models.Money          `json:"price"`
	Bedrooms    int                   `json:"bedrooms,omitempty"`
	Bathrooms   int                   `json:"bathrooms,omitempty"`
	SquareFeet  int                   `json:"squareFeet,omitempty"`
	ImageURL    string                `json:"imageUrl,omitempty"`
	Status      models.PropertyStatus `json:"status,omitempty"`
}

type UpdatePropertyRequest struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Type        *models.PropertyType   `json:"type,omitempty"`
	Location    *string                `json:"location,omitempty"`
	Price       *models.Money          `json:"price,omitempty"`
	Bedrooms    *int                   `json:"bedrooms,omitempty"`
	Bathrooms   *int                   `json:"bathrooms,omitempty"`
	SquareFeet  *int                   `json:"squareFeet,omitempty"`
	ImageURL    *string                `json:"imageUrl,omitempty"`
	Status      *models.PropertyStatus `json:"status,omitempty"`
}

func validType(t models.PropertyType) bool {
	switch t {
	case models.PropertyTypeHouse, models.PropertyTypeCondo, models.PropertyTypeApartment,
		models.PropertyTypeCommercial, models.PropertyTypeLand:
		return true
	}
	return false
}

func validStatus(s models.PropertyStatus) bool {
	switch s {
	case models.PropertyStatusAvailable, models.PropertyStatusPending,
		models.PropertyStatusSold, models.PropertyStatusInactive:
		return true
	}
	return false
}
