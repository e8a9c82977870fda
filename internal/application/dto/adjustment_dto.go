package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestAdjustmentRequest body para POST /api/adjustments: propone corregir
// el saldo de una tupla al valor contado físicamente.
type RequestAdjustmentRequest struct {
	NomenclatureID   string          `json:"nomenclature_id" validate:"required,uuid"`
	Level            string          `json:"level" validate:"required,oneof=WAREHOUSE OPERATOR MACHINE"`
	LevelRefID       string          `json:"level_ref_id,omitempty"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reason           string          `json:"reason" validate:"required,min=1,max=500"`
	RequiresApproval bool            `json:"requires_approval"`
}

// RejectAdjustmentRequest body para POST /api/adjustments/:id/reject.
type RejectAdjustmentRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID               string          `json:"id"`
	NomenclatureID   string          `json:"nomenclature_id"`
	Level            string          `json:"level"`
	LevelRefID       string          `json:"level_ref_id"`
	OldQuantity      decimal.Decimal `json:"old_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Delta            decimal.Decimal `json:"delta"`
	Reason           string          `json:"reason"`
	Status           string          `json:"status"`
	RequiresApproval bool            `json:"requires_approval"`
	CreatedBy        string          `json:"created_by"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
