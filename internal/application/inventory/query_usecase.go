package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// BalanceView saldo de una tupla junto con el disponible (físico menos
// reservas activas).
type BalanceView struct {
	Balance   *entity.Balance
	Available decimal.Decimal
}

// QueryUseCase consultas de solo lectura sobre saldos y el libro de
// movimientos. No abre transacciones: lee el estado confirmado.
type QueryUseCase struct {
	balanceRepo     repository.BalanceRepository
	movementRepo    repository.MovementRepository
	reservationRepo repository.ReservationRepository

	now func() time.Time
}

func NewQueryUseCase(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	reservationRepo repository.ReservationRepository,
) *QueryUseCase {
	return &QueryUseCase{
		balanceRepo:     balanceRepo,
		movementRepo:    movementRepo,
		reservationRepo: reservationRepo,
		now:             time.Now,
	}
}

// Balances lista los saldos de un nivel con su disponible calculado.
func (uc *QueryUseCase) Balances(orgID string, level entity.Level, levelRefID string, limit, offset int) ([]BalanceView, error) {
	if orgID == "" || !level.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if level == entity.LevelWarehouse {
		levelRefID = orgID
	}
	if levelRefID == "" {
		return nil, domain.ErrInvalidInput
	}
	balances, err := uc.balanceRepo.ListByLevel(orgID, level, levelRefID, limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.withAvailable(orgID, balances)
}

// LowStock lista los saldos por debajo de su umbral mínimo.
func (uc *QueryUseCase) LowStock(orgID string) ([]BalanceView, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidInput
	}
	balances, err := uc.balanceRepo.ListBelowMin(orgID)
	if err != nil {
		return nil, err
	}
	return uc.withAvailable(orgID, balances)
}

// Movements lista asientos del libro según los filtros.
func (uc *QueryUseCase) Movements(orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByFilter(orgID, f)
}

// GetMovement obtiene un asiento por ID dentro de la organización.
func (uc *QueryUseCase) GetMovement(orgID, id string) (*entity.Movement, error) {
	mov, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil || mov.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

func (uc *QueryUseCase) withAvailable(orgID string, balances []*entity.Balance) ([]BalanceView, error) {
	now := uc.now()
	views := make([]BalanceView, 0, len(balances))
	for _, b := range balances {
		reserved, err := uc.reservationRepo.SumActive(orgID, b.Tuple(), now)
		if err != nil {
			return nil, err
		}
		views = append(views, BalanceView{Balance: b, Available: b.Quantity.Sub(reserved)})
	}
	return views, nil
}
