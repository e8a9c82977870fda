package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchInStock  = "IN_STOCK"
	BatchDepleted = "DEPLETED"
	BatchExpired  = "EXPIRED"
	BatchReturned = "RETURNED"
)

// Batch representa una recepción de nomenclatura perecedera con su propio
// vencimiento. El consumo es FIFO por ReceivedDate.
// Invariante: 0 <= RemainingQuantity <= Quantity.
type Batch struct {
	ID                string
	OrgID             string
	NomenclatureID    string
	BatchNumber       string
	Quantity          decimal.Decimal // cantidad recibida
	RemainingQuantity decimal.Decimal
	ReceivedDate      time.Time
	ExpiryDate        *time.Time
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Expired indica si el lote está vencido a la fecha dada.
func (b *Batch) Expired(now time.Time) bool {
	return b.ExpiryDate != nil && !b.ExpiryDate.After(now)
}

// Allocatable indica si el lote puede participar en una asignación FIFO.
func (b *Batch) Allocatable(now time.Time) bool {
	return b.Status == BatchInStock && !b.Expired(now) && b.RemainingQuantity.GreaterThan(decimal.Zero)
}
