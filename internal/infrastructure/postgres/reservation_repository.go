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

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL
// (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = "id, org_id, task_id, level, level_ref_id, nomenclature_id, quantity, state, created_at, expires_at, released_at, consumed_at"

// Create persiste una reserva.
func (r *ReservationRepo) Create(reservation *entity.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reservations (id, org_id, task_id, level, level_ref_id, nomenclature_id, quantity, state, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		reservation.ID, reservation.OrgID, reservation.TaskID,
		reservation.Level, reservation.LevelRefID, reservation.NomenclatureID,
		reservation.Quantity, reservation.State, reservation.CreatedAt, reservation.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetForUpdate obtiene una reserva y bloquea la fila para una transición de estado.
func (r *ReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}
	return res, nil
}

// SumActive suma las reservas ACTIVE no expiradas contra la tupla.
func (r *ReservationRepo) SumActive(orgID string, t entity.Tuple, now time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM reservations
		WHERE org_id = $1 AND level = $2 AND level_ref_id = $3 AND nomenclature_id = $4
		  AND state = $5 AND expires_at > $6`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query,
		orgID, t.Level, t.LevelRefID, t.NomenclatureID, entity.ReservationActive, now,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum active reservations: %w", err)
	}
	return sum, nil
}

// UpdateState aplica una transición ya validada por el caso de uso.
func (r *ReservationRepo) UpdateState(id, state string, at time.Time) error {
	var query string
	switch state {
	case entity.ReservationReleased:
		query = `UPDATE reservations SET state = $2, released_at = $3 WHERE id = $1`
	case entity.ReservationConsumed:
		query = `UPDATE reservations SET state = $2, consumed_at = $3 WHERE id = $1`
	default:
		query = `UPDATE reservations SET state = $2 WHERE id = $1`
		tag, err := r.q.Exec(context.Background(), query, id, state)
		if err != nil {
			return fmt.Errorf("update reservation state: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update reservation state: reserva %s no existe", id)
		}
		return nil
	}
	tag, err := r.q.Exec(context.Background(), query, id, state, at)
	if err != nil {
		return fmt.Errorf("update reservation state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update reservation state: reserva %s no existe", id)
	}
	return nil
}

// ListByTask lista las reservas de una tarea.
func (r *ReservationRepo) ListByTask(orgID, taskID string) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE org_id = $1 AND task_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orgID, taskID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by task: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// ListExpiredForUpdate devuelve bloqueadas las reservas ACTIVE ya expiradas.
// SKIP LOCKED: las que estén siendo liberadas explícitamente se omiten y las
// recoge el siguiente barrido si siguen ACTIVE.
func (r *ReservationRepo) ListExpiredForUpdate(now time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE state = $1 AND expires_at <= $2
		ORDER BY expires_at
		FOR UPDATE SKIP LOCKED`
	rows, err := r.q.Query(context.Background(), query, entity.ReservationActive, now)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID, &res.OrgID, &res.TaskID,
		&res.Level, &res.LevelRefID, &res.NomenclatureID,
		&res.Quantity, &res.State, &res.CreatedAt, &res.ExpiresAt,
		&res.ReleasedAt, &res.ConsumedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
