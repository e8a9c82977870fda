package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// Repos agrupa los repositorios del motor de inventario atados a una misma
// transacción. TxRunner entrega una instancia por transacción.
type Repos struct {
	Balances     repository.BalanceRepository
	Movements    repository.MovementRepository
	Batches      repository.BatchRepository
	Reservations repository.ReservationRepository
	Adjustments  repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: ninguna operación abarca más de una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repos) error) error
}

// Tipos de evento de incidencia que emite el motor.
const (
	IncidentSaleDiscrepancy    = "SALE_DISCREPANCY"
	IncidentAdjustmentRejected = "ADJUSTMENT_REJECTED"
)

// IncidentEvent carga plana del evento de discrepancia. El motor no sabe cómo
// se presenta ni se escala: eso es del colaborador de incidencias.
type IncidentEvent struct {
	Type           string          `json:"type"`
	NomenclatureID string          `json:"nomenclature_id"`
	Level          entity.Level    `json:"level"`
	LevelRefID     string          `json:"level_ref_id"`
	Expected       decimal.Decimal `json:"expected"`
	Actual         decimal.Decimal `json:"actual"`
}

// IncidentNotifier puerto hacia el subsistema de incidencias. La notificación
// es no-fatal: se emite después del commit y nunca aborta la operación.
type IncidentNotifier interface {
	NotifyDiscrepancy(ctx context.Context, event IncidentEvent)
}
