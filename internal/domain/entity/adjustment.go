package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ajuste. PENDING → (APPROVED | REJECTED | CANCELLED);
// APPROVED → APPLIED. REJECTED, CANCELLED y APPLIED son terminales.
const (
	AdjustmentPending   = "PENDING"
	AdjustmentApproved  = "APPROVED"
	AdjustmentRejected  = "REJECTED"
	AdjustmentApplied   = "APPLIED"
	AdjustmentCancelled = "CANCELLED"
)

// Adjustment es una corrección de saldo propuesta a partir de un conteo físico.
// Captura el saldo observado al momento de la solicitud (OldQuantity) para el
// chequeo optimista en Apply: si el saldo vivo cambió, el ajuste queda obsoleto.
type Adjustment struct {
	ID               string
	OrgID            string
	NomenclatureID   string
	Level            Level
	LevelRefID       string
	OldQuantity      decimal.Decimal
	NewQuantity      decimal.Decimal
	Reason           string
	Status           string
	RequiresApproval bool
	CreatedBy        string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	RejectionReason  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Delta devuelve el delta con signo que aplicaría este ajuste.
func (a *Adjustment) Delta() decimal.Decimal {
	return a.NewQuantity.Sub(a.OldQuantity)
}

// Tuple devuelve la tupla de saldo que corrige este ajuste.
func (a *Adjustment) Tuple() Tuple {
	return Tuple{Level: a.Level, LevelRefID: a.LevelRefID, NomenclatureID: a.NomenclatureID}
}
