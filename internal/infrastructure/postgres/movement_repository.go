package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = "id, org_id, type, nomenclature_id, quantity, from_level, from_ref_id, to_level, to_ref_id, actor_id, task_id, transaction_ref, batches, reason, operation_date, created_at"

// Create persiste un asiento del libro. El detalle de lotes va como JSONB.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	var batches []byte
	if len(movement.Batches) > 0 {
		var err error
		batches, err = json.Marshal(movement.Batches)
		if err != nil {
			return fmt.Errorf("marshal batch uses: %w", err)
		}
	}
	actorID := (*string)(nil)
	if movement.ActorID != "" {
		actorID = &movement.ActorID
	}
	query := `
		INSERT INTO movements (id, org_id, type, nomenclature_id, quantity, from_level, from_ref_id, to_level, to_ref_id, actor_id, task_id, transaction_ref, batches, reason, operation_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.OrgID, movement.Type, movement.NomenclatureID, movement.Quantity,
		movement.FromLevel, movement.FromRefID, movement.ToLevel, movement.ToRefID,
		actorID, movement.TaskID, movement.TransactionRef, batches,
		movement.Reason, movement.OperationDate, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByFilter lista asientos de la organización aplicando los filtros no nulos.
func (r *MovementRepo) ListByFilter(orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE org_id = $1`
	args := []any{orgID}
	pos := 2
	if f.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, *f.Type)
		pos++
	}
	if f.NomenclatureID != nil {
		query += fmt.Sprintf(" AND nomenclature_id = $%d", pos)
		args = append(args, *f.NomenclatureID)
		pos++
	}
	if f.Level != nil && f.LevelRefID != nil {
		query += fmt.Sprintf(" AND ((from_level = $%d AND from_ref_id = $%d) OR (to_level = $%d AND to_ref_id = $%d))", pos, pos+1, pos, pos+1)
		args = append(args, *f.Level, *f.LevelRefID)
		pos += 2
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND operation_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND operation_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY operation_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumByTuple suma el efecto con signo de los movimientos que tocan la tupla,
// excluyendo los marcadores de reserva. Base del invariante de reconciliación.
func (r *MovementRepo) SumByTuple(orgID string, t entity.Tuple) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN to_level = $2 AND to_ref_id = $3 THEN quantity
				WHEN from_level = $2 AND from_ref_id = $3 THEN -quantity
				ELSE 0
			END), 0)
		FROM movements
		WHERE org_id = $1 AND nomenclature_id = $4
		  AND type NOT IN ($5, $6)`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query,
		orgID, t.Level, t.LevelRefID, t.NomenclatureID,
		entity.MovementWarehouseReservation, entity.MovementWarehouseReservationRelease,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements by tuple: %w", err)
	}
	return sum, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var actorID *string
	var batches []byte
	err := row.Scan(
		&m.ID, &m.OrgID, &m.Type, &m.NomenclatureID, &m.Quantity,
		&m.FromLevel, &m.FromRefID, &m.ToLevel, &m.ToRefID,
		&actorID, &m.TaskID, &m.TransactionRef, &batches,
		&m.Reason, &m.OperationDate, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		m.ActorID = *actorID
	}
	if len(batches) > 0 {
		if err := json.Unmarshal(batches, &m.Batches); err != nil {
			return nil, fmt.Errorf("unmarshal batch uses: %w", err)
		}
	}
	return &m, nil
}
