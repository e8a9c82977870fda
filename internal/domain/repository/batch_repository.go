package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Batch, error)
	// ListAllocatableForUpdate devuelve los lotes IN_STOCK con remanente de una
	// nomenclatura, ordenados por received_date ascendente, bloqueando las
	// filas (SELECT FOR UPDATE) para que la asignación FIFO sea atómica con la
	// transacción que la consume.
	ListAllocatableForUpdate(orgID, nomenclatureID string) ([]*entity.Batch, error)
	// UpdateRemaining fija el remanente y el estado de un lote ya bloqueado.
	UpdateRemaining(id string, remaining decimal.Decimal, status string) error
	ListByNomenclature(orgID, nomenclatureID string, limit, offset int) ([]*entity.Batch, error)
	// MarkExpired pasa a EXPIRED los lotes IN_STOCK cuya fecha de vencimiento
	// ya pasó. Devuelve cuántos cambió; orgID vacío barre todas las organizaciones.
	MarkExpired(orgID string, now time.Time) (int64, error)
}
