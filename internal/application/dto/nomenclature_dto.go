package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateNomenclatureRequest body para POST /api/nomenclatures.
type CreateNomenclatureRequest struct {
	SKU          string `json:"sku" validate:"required,min=1,max=50"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Unit         string `json:"unit" validate:"required,min=1,max=10"`
	BatchTracked bool   `json:"batch_tracked"`
	// SaleTolerancePct sobreescribe la tolerancia global (0..100).
	SaleTolerancePct *decimal.Decimal `json:"sale_tolerance_pct,omitempty"`
}

// UpdateNomenclatureRequest body para PUT /api/nomenclatures/:id.
// Campos nil no se tocan.
type UpdateNomenclatureRequest struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Unit             *string          `json:"unit,omitempty" validate:"omitempty,min=1,max=10"`
	SaleTolerancePct *decimal.Decimal `json:"sale_tolerance_pct,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

// NomenclatureResponse salida de una nomenclatura.
type NomenclatureResponse struct {
	ID               string           `json:"id"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	Unit             string           `json:"unit"`
	BatchTracked     bool             `json:"batch_tracked"`
	SaleTolerancePct *decimal.Decimal `json:"sale_tolerance_pct,omitempty"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NomenclatureListResponse listado paginado de nomenclatura.
type NomenclatureListResponse struct {
	Items []NomenclatureResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	NomenclatureID    string          `json:"nomenclature_id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ReceivedDate      time.Time       `json:"received_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Status            string          `json:"status"`
}

// ReleaseBatchRequest body para POST /api/batches/:id/release.
type ReleaseBatchRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}
