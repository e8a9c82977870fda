package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL
// (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador de ajustes. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = "id, org_id, nomenclature_id, level, level_ref_id, old_quantity, new_quantity, reason, status, requires_approval, created_by, approved_by, approved_at, rejection_reason, created_at, updated_at"

// Create persiste un ajuste.
func (r *AdjustmentRepo) Create(adjustment *entity.Adjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO adjustments (id, org_id, nomenclature_id, level, level_ref_id, old_quantity, new_quantity, reason, status, requires_approval, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.OrgID, adjustment.NomenclatureID,
		adjustment.Level, adjustment.LevelRefID,
		adjustment.OldQuantity, adjustment.NewQuantity, adjustment.Reason,
		adjustment.Status, adjustment.RequiresApproval, adjustment.CreatedBy,
		adjustment.CreatedAt, adjustment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1`
	adj, err := scanAdjustment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return adj, nil
}

// GetForUpdate obtiene un ajuste y bloquea la fila para una transición de estado.
func (r *AdjustmentRepo) GetForUpdate(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1 FOR UPDATE`
	adj, err := scanAdjustment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("get adjustment for update: %w", err)
	}
	return adj, nil
}

// Update persiste el estado completo de un ajuste ya bloqueado.
func (r *AdjustmentRepo) Update(adjustment *entity.Adjustment) error {
	query := `
		UPDATE adjustments
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.Status, adjustment.ApprovedBy, adjustment.ApprovedAt,
		adjustment.RejectionReason, adjustment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update adjustment: ajuste %s no existe", adjustment.ID)
	}
	return nil
}

// ListByStatus lista ajustes por estado con paginación.
func (r *AdjustmentRepo) ListByStatus(orgID, status string, limit, offset int) ([]*entity.Adjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM adjustments
		WHERE org_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, orgID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, adj)
	}
	return list, rows.Err()
}

func scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var adj entity.Adjustment
	var rejectionReason *string
	err := row.Scan(
		&adj.ID, &adj.OrgID, &adj.NomenclatureID,
		&adj.Level, &adj.LevelRefID,
		&adj.OldQuantity, &adj.NewQuantity, &adj.Reason,
		&adj.Status, &adj.RequiresApproval, &adj.CreatedBy,
		&adj.ApprovedBy, &adj.ApprovedAt, &rejectionReason,
		&adj.CreatedAt, &adj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rejectionReason != nil {
		adj.RejectionReason = *rejectionReason
	}
	return &adj, nil
}
