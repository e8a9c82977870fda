package dto

import "time"

// CreateOperatorRequest body para POST /api/operators.
type CreateOperatorRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateOperatorRequest body para PUT /api/operators/:id.
type UpdateOperatorRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// OperatorResponse salida de un operario de ruta.
type OperatorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OperatorListResponse listado paginado de operarios.
type OperatorListResponse struct {
	Items []OperatorResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateMachineRequest body para POST /api/machines.
type CreateMachineRequest struct {
	Serial     string  `json:"serial" validate:"required,min=1,max=50"`
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	Address    string  `json:"address" validate:"omitempty,max=300"`
	OperatorID *string `json:"operator_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateMachineRequest body para PUT /api/machines/:id.
type UpdateMachineRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=300"`
	OperatorID *string `json:"operator_id,omitempty" validate:"omitempty,uuid"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// MachineResponse salida de una máquina expendedora.
type MachineResponse struct {
	ID         string    `json:"id"`
	Serial     string    `json:"serial"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	OperatorID *string   `json:"operator_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MachineListResponse listado paginado de máquinas.
type MachineListResponse struct {
	Items []MachineResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
