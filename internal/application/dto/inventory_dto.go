package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/inventory/transfers. FromRefID/ToRefID
// solo cuando el tipo no los determina (el nivel de bodega se infiere).
type TransferRequest struct {
	Type             string           `json:"type" validate:"required"`
	NomenclatureID   string           `json:"nomenclature_id" validate:"required,uuid"`
	Quantity         decimal.Decimal  `json:"quantity"`
	FromRefID        string           `json:"from_ref_id,omitempty"`
	FromLevel        string           `json:"from_level,omitempty"`
	ToRefID          string           `json:"to_ref_id,omitempty"`
	ToLevel          string           `json:"to_level,omitempty"`
	TaskID           *string          `json:"task_id,omitempty"`
	TransactionRef   *string          `json:"transaction_ref,omitempty"`
	ExpectedQuantity *decimal.Decimal `json:"expected_quantity,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	OperationDate    *time.Time       `json:"operation_date,omitempty"`
	BatchNumber      string           `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
}

// SaleRequest body para POST /api/inventory/sales: atajo de MACHINE_SALE que
// reportan las propias máquinas.
type SaleRequest struct {
	MachineID        string           `json:"machine_id" validate:"required,uuid"`
	NomenclatureID   string           `json:"nomenclature_id" validate:"required,uuid"`
	Quantity         decimal.Decimal  `json:"quantity"`
	ExpectedQuantity *decimal.Decimal `json:"expected_quantity,omitempty"`
	TransactionRef   *string          `json:"transaction_ref,omitempty"`
}

// BatchUseDTO consumo de un lote dentro de un movimiento.
type BatchUseDTO struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MovementResponse salida de un asiento del libro de movimientos.
type MovementResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	NomenclatureID string          `json:"nomenclature_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLevel      *string         `json:"from_level,omitempty"`
	FromRefID      *string         `json:"from_ref_id,omitempty"`
	ToLevel        *string         `json:"to_level,omitempty"`
	ToRefID        *string         `json:"to_ref_id,omitempty"`
	ActorID        string          `json:"actor_id,omitempty"`
	TaskID         *string         `json:"task_id,omitempty"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	Batches        []BatchUseDTO   `json:"batches,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	OperationDate  time.Time       `json:"operation_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListMovementsRequest filtros de GET /api/inventory/movements.
type ListMovementsRequest struct {
	Type           string     `query:"type"`
	NomenclatureID string     `query:"nomenclature_id"`
	Level          string     `query:"level"`
	LevelRefID     string     `query:"level_ref_id"`
	From           *time.Time `query:"from"`
	To             *time.Time `query:"to"`
	PageRequest
}

// BalanceResponse saldo de una tupla, con el disponible ya descontadas las
// reservas activas.
type BalanceResponse struct {
	Level          string           `json:"level"`
	LevelRefID     string           `json:"level_ref_id"`
	NomenclatureID string           `json:"nomenclature_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Available      decimal.Decimal  `json:"available"`
	MinThreshold   *decimal.Decimal `json:"min_threshold,omitempty"`
	MaxThreshold   *decimal.Decimal `json:"max_threshold,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TupleDriftDTO desviación detectada por la reconciliación.
type TupleDriftDTO struct {
	Level          string          `json:"level"`
	LevelRefID     string          `json:"level_ref_id"`
	NomenclatureID string          `json:"nomenclature_id"`
	Stored         decimal.Decimal `json:"stored"`
	Expected       decimal.Decimal `json:"expected"`
	Drift          decimal.Decimal `json:"drift"`
}

// ReconciliationResponse salida de POST /api/inventory/reconciliation.
type ReconciliationResponse struct {
	Checked int             `json:"checked"`
	Clean   bool            `json:"clean"`
	Drifts  []TupleDriftDTO `json:"drifts,omitempty"`
}
