package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para reservas.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila de la reserva para una transición de estado.
	GetForUpdate(id string) (*entity.Reservation, error)
	// SumActive suma las reservas ACTIVE no expiradas contra la tupla.
	// disponible = saldo físico - SumActive.
	SumActive(orgID string, t entity.Tuple, now time.Time) (decimal.Decimal, error)
	// UpdateState aplica la transición ya validada por el caso de uso.
	UpdateState(id, state string, at time.Time) error
	ListByTask(orgID, taskID string) ([]*entity.Reservation, error)
	// ListExpiredForUpdate devuelve, bloqueadas, las reservas ACTIVE ya
	// expiradas para que el barrido las transicione una a una. No es
	// necesario para la corrección del disponible (SumActive ya las
	// excluye), solo limpieza.
	ListExpiredForUpdate(now time.Time) ([]*entity.Reservation, error)
}
