package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva. ACTIVE → CONSUMED (el traslado se ejecutó) o
// ACTIVE → RELEASED (cancelación o expiración). CONSUMED y RELEASED son terminales.
const (
	ReservationActive   = "ACTIVE"
	ReservationReleased = "RELEASED"
	ReservationConsumed = "CONSUMED"
)

// Reservation es un apartado temporal de stock disponible a nombre de una
// tarea. Resta del disponible (no del físico):
// disponible = saldo físico - suma de reservas ACTIVE no expiradas.
type Reservation struct {
	ID             string
	OrgID          string
	TaskID         string
	Level          Level
	LevelRefID     string
	NomenclatureID string
	Quantity       decimal.Decimal
	State          string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	ReleasedAt     *time.Time
	ConsumedAt     *time.Time
}

// Tuple devuelve la tupla de saldo contra la que aparta esta reserva.
func (r *Reservation) Tuple() Tuple {
	return Tuple{Level: r.Level, LevelRefID: r.LevelRefID, NomenclatureID: r.NomenclatureID}
}

// ActiveAt indica si la reserva sigue apartando stock en el instante dado.
// Una reserva ACTIVE ya expirada se trata como liberada aunque el barrido
// periódico aún no la haya marcado.
func (r *Reservation) ActiveAt(now time.Time) bool {
	return r.State == ReservationActive && r.ExpiresAt.After(now)
}
