package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para listados del libro de movimientos.
type MovementFilter struct {
	Type           *entity.MovementType
	NomenclatureID *string
	Level          *entity.Level
	LevelRefID     *string
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByFilter(orgID string, f MovementFilter) ([]*entity.Movement, error)
	// SumByTuple suma el efecto con signo de todos los movimientos que tocan la
	// tupla (excluyendo marcadores de reserva). Base de la reconciliación:
	// el resultado debe coincidir con el saldo almacenado.
	SumByTuple(orgID string, t entity.Tuple) (decimal.Decimal, error)
}
