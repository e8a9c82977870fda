package dto

import "time"

// CreateOrganizationRequest entrada para crear una organización.
type CreateOrganizationRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"required,min=1,max=20"`
}

// UpdateOrganizationRequest entrada para actualizar una organización.
type UpdateOrganizationRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// OrganizationResponse salida de una organización.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationListResponse lista paginada de organizaciones.
type OrganizationListResponse struct {
	Items []OrganizationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
