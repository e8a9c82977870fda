package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// AdjustmentUseCase máquina de estados de correcciones por conteo físico:
// PENDING → (APPROVED | REJECTED | CANCELLED) → APPLIED (solo desde APPROVED).
// Apply delega en el motor de traslados con el delta nuevo−viejo y chequeo
// optimista contra el saldo capturado al solicitar.
type AdjustmentUseCase struct {
	txRunner       TxRunner
	transfer       *TransferUseCase
	adjustmentRepo repository.AdjustmentRepository
	incidents      IncidentNotifier
	// rejectTolerancePct umbral porcentual para considerar "delta grande" una
	// corrección rechazada y avisar al colaborador de incidencias.
	rejectTolerancePct decimal.Decimal
	now                func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	transfer *TransferUseCase,
	adjustmentRepo repository.AdjustmentRepository,
	incidents IncidentNotifier,
	rejectTolerancePct decimal.Decimal,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:           txRunner,
		transfer:           transfer,
		adjustmentRepo:     adjustmentRepo,
		incidents:          incidents,
		rejectTolerancePct: rejectTolerancePct,
		now:                time.Now,
	}
}

// RequestAdjustmentInput entrada para solicitar un ajuste.
type RequestAdjustmentInput struct {
	OrgID            string
	NomenclatureID   string
	Level            entity.Level
	LevelRefID       string
	NewQuantity      decimal.Decimal
	Reason           string
	RequiresApproval bool
	ActorID          string
}

// Request crea el ajuste capturando el saldo vivo como OldQuantity. Si no
// requiere aprobación, el flujo PENDING→APPROVED→APPLIED se completa
// sincrónicamente en la misma transacción.
func (uc *AdjustmentUseCase) Request(ctx context.Context, input RequestAdjustmentInput) (*entity.Adjustment, error) {
	if input.OrgID == "" || input.NomenclatureID == "" || !input.Level.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if input.NewQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Level == entity.LevelWarehouse {
		input.LevelRefID = input.OrgID
	}
	if input.LevelRefID == "" {
		return nil, domain.ErrInvalidInput
	}

	tuple := entity.Tuple{Level: input.Level, LevelRefID: input.LevelRefID, NomenclatureID: input.NomenclatureID}
	now := uc.now()
	adj := &entity.Adjustment{
		ID:               uuid.New().String(),
		OrgID:            input.OrgID,
		NomenclatureID:   input.NomenclatureID,
		Level:            input.Level,
		LevelRefID:       input.LevelRefID,
		NewQuantity:      input.NewQuantity,
		Reason:           input.Reason,
		Status:           entity.AdjustmentPending,
		RequiresApproval: input.RequiresApproval,
		CreatedBy:        input.ActorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		balance, err := r.Balances.Get(input.OrgID, tuple)
		if err != nil {
			return err
		}
		adj.OldQuantity = balance.Quantity
		if err := r.Adjustments.Create(adj); err != nil {
			return err
		}
		if input.RequiresApproval {
			return nil
		}
		// Auto-aprobación sincrónica: el solicitante figura como aprobador.
		actor := input.ActorID
		adj.Status = entity.AdjustmentApproved
		adj.ApprovedBy = &actor
		adj.ApprovedAt = &now
		if err := r.Adjustments.Update(adj); err != nil {
			return err
		}
		return uc.applyInTx(r, adj, input.ActorID, now)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// Approve transición PENDING → APPROVED. El motor no valida quién puede
// aprobar: la autorización es del colaborador externo.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, orgID, adjustmentID, actorID string) (*entity.Adjustment, error) {
	return uc.transition(ctx, orgID, adjustmentID, func(adj *entity.Adjustment, now time.Time) error {
		if adj.Status != entity.AdjustmentPending {
			return domain.ErrConflict
		}
		adj.Status = entity.AdjustmentApproved
		adj.ApprovedBy = &actorID
		adj.ApprovedAt = &now
		return nil
	})
}

// Reject transición PENDING → REJECTED. Un rechazo con delta grande notifica
// a incidencias (no fatal).
func (uc *AdjustmentUseCase) Reject(ctx context.Context, orgID, adjustmentID, actorID, reason string) (*entity.Adjustment, error) {
	var incident *IncidentEvent
	adj, err := uc.transition(ctx, orgID, adjustmentID, func(adj *entity.Adjustment, now time.Time) error {
		if adj.Status != entity.AdjustmentPending {
			return domain.ErrConflict
		}
		adj.Status = entity.AdjustmentRejected
		adj.ApprovedBy = &actorID
		adj.RejectionReason = reason
		if uc.largeDelta(adj) {
			incident = &IncidentEvent{
				Type:           IncidentAdjustmentRejected,
				NomenclatureID: adj.NomenclatureID,
				Level:          adj.Level,
				LevelRefID:     adj.LevelRefID,
				Expected:       adj.OldQuantity,
				Actual:         adj.NewQuantity,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if incident != nil && uc.incidents != nil {
		uc.incidents.NotifyDiscrepancy(ctx, *incident)
	}
	return adj, nil
}

// Cancel transición PENDING → CANCELLED (el solicitante desiste).
func (uc *AdjustmentUseCase) Cancel(ctx context.Context, orgID, adjustmentID string) (*entity.Adjustment, error) {
	return uc.transition(ctx, orgID, adjustmentID, func(adj *entity.Adjustment, now time.Time) error {
		if adj.Status != entity.AdjustmentPending {
			return domain.ErrConflict
		}
		adj.Status = entity.AdjustmentCancelled
		return nil
	})
}

// Apply aplica un ajuste APROBADO: produce exactamente un movimiento con
// delta = NewQuantity − OldQuantity. Falla con ErrStaleAdjustment si el saldo
// vivo cambió desde la solicitud (el caller recarga y reintenta).
func (uc *AdjustmentUseCase) Apply(ctx context.Context, orgID, adjustmentID, actorID string) (*entity.Adjustment, error) {
	var out *entity.Adjustment
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		adj, err := r.Adjustments.GetForUpdate(adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil || adj.OrgID != orgID {
			return domain.ErrNotFound
		}
		if adj.Status != entity.AdjustmentApproved {
			return domain.ErrConflict
		}
		if err := uc.applyInTx(r, adj, actorID, now); err != nil {
			return err
		}
		out = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un ajuste.
func (uc *AdjustmentUseCase) GetByID(orgID, adjustmentID string) (*entity.Adjustment, error) {
	adj, err := uc.adjustmentRepo.GetByID(adjustmentID)
	if err != nil {
		return nil, err
	}
	if adj == nil || adj.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return adj, nil
}

// ListByStatus lista ajustes por estado.
func (uc *AdjustmentUseCase) ListByStatus(orgID, status string, limit, offset int) ([]*entity.Adjustment, error) {
	return uc.adjustmentRepo.ListByStatus(orgID, status, limit, offset)
}

// applyInTx ejecuta el chequeo optimista y el movimiento de ajuste dentro de
// la transacción del caller, y marca APPLIED.
func (uc *AdjustmentUseCase) applyInTx(r *Repos, adj *entity.Adjustment, actorID string, now time.Time) error {
	tuple := adj.Tuple()
	balance, err := r.Balances.GetForUpdate(adj.OrgID, tuple)
	if err != nil {
		return err
	}
	if !balance.Quantity.Equal(adj.OldQuantity) {
		return domain.ErrStaleAdjustment
	}
	delta := adj.Delta()
	if !delta.IsZero() {
		ref := entity.LevelRef{Level: adj.Level, RefID: adj.LevelRefID}
		_, _, err = uc.transfer.TransferInTx(r, TransferInput{
			OrgID:          adj.OrgID,
			ActorID:        actorID,
			Type:           entity.MovementAdjustment,
			NomenclatureID: adj.NomenclatureID,
			Quantity:       delta,
			From:           &ref,
			Reason:         adj.Reason,
		})
		if err != nil {
			return err
		}
	}
	adj.Status = entity.AdjustmentApplied
	adj.UpdatedAt = now
	return r.Adjustments.Update(adj)
}

// largeDelta indica si el delta del ajuste excede el umbral porcentual sobre
// el saldo capturado. Con saldo cero, cualquier delta cuenta como grande.
func (uc *AdjustmentUseCase) largeDelta(adj *entity.Adjustment) bool {
	delta := adj.Delta().Abs()
	if delta.IsZero() {
		return false
	}
	if adj.OldQuantity.IsZero() {
		return true
	}
	threshold := adj.OldQuantity.Abs().Mul(uc.rejectTolerancePct).Div(decimal.NewFromInt(100))
	return delta.GreaterThan(threshold)
}

// transition helper para transiciones de estado simples bajo bloqueo de fila.
func (uc *AdjustmentUseCase) transition(ctx context.Context, orgID, adjustmentID string, fn func(adj *entity.Adjustment, now time.Time) error) (*entity.Adjustment, error) {
	var out *entity.Adjustment
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		adj, err := r.Adjustments.GetForUpdate(adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil || adj.OrgID != orgID {
			return domain.ErrNotFound
		}
		if err := fn(adj, now); err != nil {
			return err
		}
		adj.UpdatedAt = now
		if err := r.Adjustments.Update(adj); err != nil {
			return err
		}
		out = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
