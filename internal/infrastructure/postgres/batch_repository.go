package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = "id, org_id, nomenclature_id, batch_number, quantity, remaining_quantity, received_date, expiry_date, status, created_at, updated_at"

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (id, org_id, nomenclature_id, batch_number, quantity, remaining_quantity, received_date, expiry_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.OrgID, batch.NomenclatureID, batch.BatchNumber,
		batch.Quantity, batch.RemainingQuantity, batch.ReceivedDate, batch.ExpiryDate,
		batch.Status, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

// ListAllocatableForUpdate devuelve los lotes IN_STOCK con remanente de una
// nomenclatura en orden FIFO (received_date ascendente), bloqueando las filas
// para que la asignación sea atómica con la transacción que consume.
func (r *BatchRepo) ListAllocatableForUpdate(orgID, nomenclatureID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE org_id = $1 AND nomenclature_id = $2 AND status = $3 AND remaining_quantity > 0
		ORDER BY received_date, created_at
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, orgID, nomenclatureID, entity.BatchInStock)
	if err != nil {
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("list allocatable batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, err
	}
	return list, nil
}

// UpdateRemaining fija el remanente y el estado de un lote ya bloqueado.
func (r *BatchRepo) UpdateRemaining(id string, remaining decimal.Decimal, status string) error {
	query := `UPDATE batches SET remaining_quantity = $2, status = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, remaining, status)
	if err != nil {
		return fmt.Errorf("update batch remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch remaining: lote %s no existe", id)
	}
	return nil
}

// ListByNomenclature lista los lotes de una nomenclatura con paginación.
func (r *BatchRepo) ListByNomenclature(orgID, nomenclatureID string, limit, offset int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE org_id = $1 AND nomenclature_id = $2
		ORDER BY received_date DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, orgID, nomenclatureID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// MarkExpired pasa a EXPIRED los lotes IN_STOCK cuya fecha de vencimiento ya
// pasó. Con orgID vacío barre todas las organizaciones.
func (r *BatchRepo) MarkExpired(orgID string, now time.Time) (int64, error) {
	query := `
		UPDATE batches SET status = $3, updated_at = now()
		WHERE ($1 = '' OR org_id = $1) AND status = $2 AND expiry_date IS NOT NULL AND expiry_date <= $4`
	tag, err := r.q.Exec(context.Background(), query, orgID, entity.BatchInStock, entity.BatchExpired, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired batches: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.OrgID, &b.NomenclatureID, &b.BatchNumber,
		&b.Quantity, &b.RemainingQuantity, &b.ReceivedDate, &b.ExpiryDate,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
