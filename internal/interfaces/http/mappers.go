package http

import (
	"github.com/jhoicas/Vending-api/internal/application/dto"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// Mapeos entidad → DTO del motor de inventario. Los use cases del motor
// devuelven entidades (no DTOs): el mapeo a la representación HTTP vive aquí.

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:             m.ID,
		Type:           string(m.Type),
		NomenclatureID: m.NomenclatureID,
		Quantity:       m.Quantity,
		FromRefID:      m.FromRefID,
		ToRefID:        m.ToRefID,
		ActorID:        m.ActorID,
		TaskID:         m.TaskID,
		TransactionRef: m.TransactionRef,
		Reason:         m.Reason,
		OperationDate:  m.OperationDate,
		CreatedAt:      m.CreatedAt,
	}
	if m.FromLevel != nil {
		s := string(*m.FromLevel)
		out.FromLevel = &s
	}
	if m.ToLevel != nil {
		s := string(*m.ToLevel)
		out.ToLevel = &s
	}
	for _, u := range m.Batches {
		out.Batches = append(out.Batches, dto.BatchUseDTO{
			BatchID:     u.BatchID,
			BatchNumber: u.BatchNumber,
			Quantity:    u.Quantity,
		})
	}
	return out
}

func toBalanceResponse(v appinv.BalanceView) dto.BalanceResponse {
	b := v.Balance
	return dto.BalanceResponse{
		Level:          string(b.Level),
		LevelRefID:     b.LevelRefID,
		NomenclatureID: b.NomenclatureID,
		Quantity:       b.Quantity,
		Available:      v.Available,
		MinThreshold:   b.MinThreshold,
		MaxThreshold:   b.MaxThreshold,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:             r.ID,
		TaskID:         r.TaskID,
		Level:          string(r.Level),
		LevelRefID:     r.LevelRefID,
		NomenclatureID: r.NomenclatureID,
		Quantity:       r.Quantity,
		State:          r.State,
		CreatedAt:      r.CreatedAt,
		ExpiresAt:      r.ExpiresAt,
		ReleasedAt:     r.ReleasedAt,
		ConsumedAt:     r.ConsumedAt,
	}
}

func toAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:               a.ID,
		NomenclatureID:   a.NomenclatureID,
		Level:            string(a.Level),
		LevelRefID:       a.LevelRefID,
		OldQuantity:      a.OldQuantity,
		NewQuantity:      a.NewQuantity,
		Delta:            a.Delta(),
		Reason:           a.Reason,
		Status:           a.Status,
		RequiresApproval: a.RequiresApproval,
		CreatedBy:        a.CreatedBy,
		ApprovedBy:       a.ApprovedBy,
		ApprovedAt:       a.ApprovedAt,
		RejectionReason:  a.RejectionReason,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		NomenclatureID:    b.NomenclatureID,
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		ReceivedDate:      b.ReceivedDate,
		ExpiryDate:        b.ExpiryDate,
		Status:            b.Status,
	}
}
