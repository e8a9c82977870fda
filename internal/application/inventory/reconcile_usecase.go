package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// TupleDrift desviación de una tupla: saldo almacenado vs. suma del libro.
type TupleDrift struct {
	Tuple    entity.Tuple
	Stored   decimal.Decimal
	Expected decimal.Decimal
	Drift    decimal.Decimal // Stored - Expected; cero si cuadran
}

// ReconciliationReport resultado de una reconciliación bajo demanda.
type ReconciliationReport struct {
	Checked int
	Drifts  []TupleDrift
}

// Clean indica si todos los saldos cuadran con el libro.
func (r *ReconciliationReport) Clean() bool { return len(r.Drifts) == 0 }

// ReconcileUseCase verifica el invariante de reconciliación: para toda tupla,
// el saldo almacenado debe igualar la suma con signo de los movimientos que la
// tocan. Solo lectura e idempotente: ejecutarla dos veces da el mismo
// resultado y no muta nada.
type ReconcileUseCase struct {
	balanceRepo  repository.BalanceRepository
	movementRepo repository.MovementRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(balanceRepo repository.BalanceRepository, movementRepo repository.MovementRepository) *ReconcileUseCase {
	return &ReconcileUseCase{balanceRepo: balanceRepo, movementRepo: movementRepo}
}

// Reconcile recalcula cada saldo de la organización desde el libro y reporta
// las tuplas con desviación.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, orgID string) (*ReconciliationReport, error) {
	balances, err := uc.balanceRepo.ListAll(orgID)
	if err != nil {
		return nil, err
	}
	report := &ReconciliationReport{}
	for _, b := range balances {
		tuple := b.Tuple()
		expected, err := uc.movementRepo.SumByTuple(orgID, tuple)
		if err != nil {
			return nil, err
		}
		report.Checked++
		if !b.Quantity.Equal(expected) {
			report.Drifts = append(report.Drifts, TupleDrift{
				Tuple:    tuple,
				Stored:   b.Quantity,
				Expected: expected,
				Drift:    b.Quantity.Sub(expected),
			})
		}
	}
	return report, nil
}
