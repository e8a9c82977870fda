package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveRequest body para POST /api/reservations.
type ReserveRequest struct {
	TaskID         string          `json:"task_id" validate:"required"`
	Level          string          `json:"level" validate:"required,oneof=WAREHOUSE OPERATOR MACHINE"`
	LevelRefID     string          `json:"level_ref_id,omitempty"`
	NomenclatureID string          `json:"nomenclature_id" validate:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
	// TTLMinutes opcional; cero usa el TTL por defecto de configuración.
	TTLMinutes int `json:"ttl_minutes,omitempty" validate:"min=0"`
}

// ConsumeReservationRequest body para POST /api/reservations/:id/consume: el
// traslado que materializa la reserva.
type ConsumeReservationRequest struct {
	Type           string  `json:"type" validate:"required"`
	ToRefID        string  `json:"to_ref_id,omitempty"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

// ReservationResponse salida de una reserva.
type ReservationResponse struct {
	ID             string          `json:"id"`
	TaskID         string          `json:"task_id"`
	Level          string          `json:"level"`
	LevelRefID     string          `json:"level_ref_id"`
	NomenclatureID string          `json:"nomenclature_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	State          string          `json:"state"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	ReleasedAt     *time.Time      `json:"released_at,omitempty"`
	ConsumedAt     *time.Time      `json:"consumed_at,omitempty"`
}

// AvailabilityResponse salida de GET /api/inventory/available.
type AvailabilityResponse struct {
	Level          string          `json:"level"`
	LevelRefID     string          `json:"level_ref_id"`
	NomenclatureID string          `json:"nomenclature_id"`
	Available      decimal.Decimal `json:"available"`
}
