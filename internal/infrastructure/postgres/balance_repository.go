package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = "org_id, level, level_ref_id, nomenclature_id, quantity, min_threshold, max_threshold, updated_at"

// Get obtiene el saldo de una tupla. Si la fila no existe devuelve saldo en cero.
func (r *BalanceRepo) Get(orgID string, t entity.Tuple) (*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE org_id = $1 AND level = $2 AND level_ref_id = $3 AND nomenclature_id = $4`
	b, err := r.scanOne(r.q.QueryRow(context.Background(), query, orgID, t.Level, t.LevelRefID, t.NomenclatureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroBalance(orgID, t), nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe la siembra en cero dentro de la misma transacción:
// el FOR UPDATE siempre bloquea una fila real y dos primeros movimientos
// concurrentes sobre la misma tupla serializan en vez de perder un delta.
// Si el lock_timeout de la transacción expira devuelve domain.ErrContention.
func (r *BalanceRepo) GetForUpdate(orgID string, t entity.Tuple) (*entity.Balance, error) {
	seed := `
		INSERT INTO balances (org_id, level, level_ref_id, nomenclature_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (org_id, level, level_ref_id, nomenclature_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, orgID, t.Level, t.LevelRefID, t.NomenclatureID); err != nil {
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("seed balance: %w", err)
	}

	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE org_id = $1 AND level = $2 AND level_ref_id = $3 AND nomenclature_id = $4
		FOR UPDATE`
	b, err := r.scanOne(r.q.QueryRow(context.Background(), query, orgID, t.Level, t.LevelRefID, t.NomenclatureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroBalance(orgID, t), nil
		}
		if mapped := mapLockErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo de la tupla.
func (r *BalanceRepo) Upsert(balance *entity.Balance) error {
	query := `
		INSERT INTO balances (org_id, level, level_ref_id, nomenclature_id, quantity, min_threshold, max_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (org_id, level, level_ref_id, nomenclature_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.OrgID, balance.Level, balance.LevelRefID, balance.NomenclatureID,
		balance.Quantity, balance.MinThreshold, balance.MaxThreshold,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByLevel lista los saldos de una referencia de nivel con paginación.
func (r *BalanceRepo) ListByLevel(orgID string, level entity.Level, levelRefID string, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE org_id = $1 AND level = $2 AND level_ref_id = $3
		ORDER BY nomenclature_id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, orgID, level, levelRefID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances by level: %w", err)
	}
	return r.scanAll(rows)
}

// ListBelowMin lista los saldos por debajo de su umbral mínimo.
func (r *BalanceRepo) ListBelowMin(orgID string) ([]*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE org_id = $1 AND min_threshold IS NOT NULL AND quantity < min_threshold
		ORDER BY level, level_ref_id, nomenclature_id`
	rows, err := r.q.Query(context.Background(), query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list balances below min: %w", err)
	}
	return r.scanAll(rows)
}

// ListAll lista todos los saldos de la organización (reconciliación).
func (r *BalanceRepo) ListAll(orgID string) ([]*entity.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE org_id = $1
		ORDER BY level, level_ref_id, nomenclature_id`
	rows, err := r.q.Query(context.Background(), query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list all balances: %w", err)
	}
	return r.scanAll(rows)
}

func (r *BalanceRepo) scanOne(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	err := row.Scan(
		&b.OrgID, &b.Level, &b.LevelRefID, &b.NomenclatureID,
		&b.Quantity, &b.MinThreshold, &b.MaxThreshold, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepo) scanAll(rows pgx.Rows) ([]*entity.Balance, error) {
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(
			&b.OrgID, &b.Level, &b.LevelRefID, &b.NomenclatureID,
			&b.Quantity, &b.MinThreshold, &b.MaxThreshold, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func zeroBalance(orgID string, t entity.Tuple) *entity.Balance {
	return &entity.Balance{
		OrgID:          orgID,
		Level:          t.Level,
		LevelRefID:     t.LevelRefID,
		NomenclatureID: t.NomenclatureID,
		Quantity:       decimal.Zero,
	}
}
