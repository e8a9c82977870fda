package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// BatchUseCase operaciones directas sobre lotes: liberación de una asignación
// y barrido de vencidos. El consumo FIFO vive en el motor de traslados.
type BatchUseCase struct {
	txRunner  TxRunner
	batchRepo repository.BatchRepository
	now       func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(txRunner TxRunner, batchRepo repository.BatchRepository) *BatchUseCase {
	return &BatchUseCase{txRunner: txRunner, batchRepo: batchRepo, now: time.Now}
}

// Release revierte una asignación sobre un lote (p. ej. corrección manual de
// un consumo registrado de más), devolviendo cantidad al remanente. Falla si
// el remanente superaría la cantidad original del lote.
func (uc *BatchUseCase) Release(ctx context.Context, orgID, batchID string, quantity decimal.Decimal) (*entity.Batch, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Batch
	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		batch, err := r.Batches.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil || batch.OrgID != orgID {
			return domain.ErrNotFound
		}
		remaining := batch.RemainingQuantity.Add(quantity)
		if remaining.GreaterThan(batch.Quantity) {
			return domain.ErrBatchReleaseExceeds
		}
		status := entity.BatchInStock
		if batch.Expired(uc.now()) {
			status = entity.BatchExpired
		}
		if err := r.Batches.UpdateRemaining(batch.ID, remaining, status); err != nil {
			return err
		}
		batch.RemainingQuantity = remaining
		batch.Status = status
		out = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SweepExpired pasa a EXPIRED los lotes IN_STOCK vencidos; orgID vacío barre
// todas las organizaciones. Pensado para ejecutarse periódicamente; PlanFIFO
// ya los excluye por fecha aunque el barrido vaya atrasado.
func (uc *BatchUseCase) SweepExpired(ctx context.Context, orgID string) (int64, error) {
	return uc.batchRepo.MarkExpired(orgID, uc.now())
}

// ListByNomenclature lista los lotes de una nomenclatura.
func (uc *BatchUseCase) ListByNomenclature(orgID, nomenclatureID string, limit, offset int) ([]*entity.Batch, error) {
	return uc.batchRepo.ListByNomenclature(orgID, nomenclatureID, limit, offset)
}
