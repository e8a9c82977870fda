package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// Allocation es una toma planificada sobre un lote concreto.
type Allocation struct {
	Batch *entity.Batch
	Take  decimal.Decimal
}

// PlanFIFO implementa la selección FIFO de lotes (servicio de dominio puro).
// Recorre los lotes IN_STOCK no vencidos en orden de ReceivedDate ascendente y
// toma de cada uno hasta cubrir requested. Nunca toma más que el remanente de
// un lote. Devuelve ErrInsufficientBatchStock si los lotes no alcanzan.
// No muta los lotes: el caller aplica el plan dentro de su transacción.
func PlanFIFO(batches []*entity.Batch, requested decimal.Decimal, now time.Time) ([]Allocation, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	candidates := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Allocatable(now) {
			candidates = append(candidates, b)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReceivedDate.Before(candidates[j].ReceivedDate)
	})

	var plan []Allocation
	pending := requested
	for _, b := range candidates {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, b.RemainingQuantity)
		plan = append(plan, Allocation{Batch: b, Take: take})
		pending = pending.Sub(take)
	}
	if pending.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientBatchStock
	}
	return plan, nil
}

// Uses convierte un plan en los registros BatchUse que viajan en los metadatos
// del movimiento.
func Uses(plan []Allocation) []entity.BatchUse {
	uses := make([]entity.BatchUse, 0, len(plan))
	for _, a := range plan {
		uses = append(uses, entity.BatchUse{
			BatchID:     a.Batch.ID,
			BatchNumber: a.Batch.BatchNumber,
			Quantity:    a.Take,
		})
	}
	return uses
}
