package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Vending-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	// lockTimeoutMS cota de espera por bloqueos de fila dentro de la
	// transacción; al expirar, la operación falla con contención y el caso de
	// uso reintenta en una transacción nueva. 0 desactiva la cota.
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos *inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMS > 0 {
		// SET LOCAL no admite parámetros bind; el valor viene de configuración.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	repos := &inventory.Repos{
		Balances:     NewBalanceRepository(tx),
		Movements:    NewMovementRepository(tx),
		Batches:      NewBatchRepository(tx),
		Reservations: NewReservationRepository(tx),
		Adjustments:  NewAdjustmentRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
