package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de inventario (conjunto cerrado).
type MovementType string

const (
	MovementWarehouseIn         MovementType = "WAREHOUSE_IN"
	MovementWarehouseOut        MovementType = "WAREHOUSE_OUT"
	MovementWarehouseToOperator MovementType = "WAREHOUSE_TO_OPERATOR"
	MovementOperatorToWarehouse MovementType = "OPERATOR_TO_WAREHOUSE"
	MovementOperatorToMachine   MovementType = "OPERATOR_TO_MACHINE"
	MovementMachineToOperator   MovementType = "MACHINE_TO_OPERATOR"
	MovementMachineSale         MovementType = "MACHINE_SALE"
	MovementAdjustment          MovementType = "ADJUSTMENT"
	MovementWriteOff            MovementType = "WRITE_OFF"
	// Marcadores de reserva sobre bodega: registran en el libro el cambio de
	// disponibilidad sin delta físico. Se excluyen de la reconciliación.
	MovementWarehouseReservation        MovementType = "WAREHOUSE_RESERVATION"
	MovementWarehouseReservationRelease MovementType = "WAREHOUSE_RESERVATION_RELEASE"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementWarehouseIn, MovementWarehouseOut,
		MovementWarehouseToOperator, MovementOperatorToWarehouse,
		MovementOperatorToMachine, MovementMachineToOperator,
		MovementMachineSale, MovementAdjustment, MovementWriteOff,
		MovementWarehouseReservation, MovementWarehouseReservationRelease:
		return true
	}
	return false
}

// ReservationMarker indica si el tipo es un marcador de reserva (sin delta físico).
func (t MovementType) ReservationMarker() bool {
	return t == MovementWarehouseReservation || t == MovementWarehouseReservationRelease
}

// SystemExit indica si el movimiento saca existencias del sistema (y por tanto
// consume lotes para nomenclatura con seguimiento por lote). Los traslados
// entre niveles no tocan lotes: la mercancía sigue dentro del sistema.
func (t MovementType) SystemExit() bool {
	switch t {
	case MovementWarehouseOut, MovementMachineSale, MovementWriteOff:
		return true
	}
	return false
}

// BatchUse registra cuánto se consumió de un lote dentro de un movimiento.
type BatchUse struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// Movement es un registro inmutable del libro: un cambio de cantidad, con
// origen y/o destino según el tipo. Quantity siempre es positiva; la dirección
// la implica el tipo (From resta, To suma). Append-only: nunca se actualiza ni
// se borra.
type Movement struct {
	ID             string
	OrgID          string
	Type           MovementType
	NomenclatureID string
	Quantity       decimal.Decimal
	FromLevel      *Level
	FromRefID      *string
	ToLevel        *Level
	ToRefID        *string
	ActorID        string
	TaskID         *string
	// TransactionRef referencia externa (venta/transacción) para cruce contable.
	TransactionRef *string
	// Batches lotes consumidos por este movimiento (solo salidas del sistema
	// de nomenclatura con seguimiento por lote).
	Batches []BatchUse
	Reason  string
	// OperationDate fecha efectiva de la operación; puede diferir de CreatedAt
	// para registros retroactivos.
	OperationDate time.Time
	CreatedAt     time.Time
}

// FromTuple devuelve la tupla origen si el movimiento tiene lado origen.
func (m *Movement) FromTuple() (Tuple, bool) {
	if m.FromLevel == nil || m.FromRefID == nil {
		return Tuple{}, false
	}
	return Tuple{Level: *m.FromLevel, LevelRefID: *m.FromRefID, NomenclatureID: m.NomenclatureID}, true
}

// ToTuple devuelve la tupla destino si el movimiento tiene lado destino.
func (m *Movement) ToTuple() (Tuple, bool) {
	if m.ToLevel == nil || m.ToRefID == nil {
		return Tuple{}, false
	}
	return Tuple{Level: *m.ToLevel, LevelRefID: *m.ToRefID, NomenclatureID: m.NomenclatureID}, true
}

// SignedEffect devuelve el efecto con signo de este movimiento sobre la tupla
// dada: +Quantity si es destino, -Quantity si es origen, 0 si no la toca o es
// un marcador de reserva. Es la base del invariante de reconciliación.
func (m *Movement) SignedEffect(t Tuple) decimal.Decimal {
	if m.Type.ReservationMarker() {
		return decimal.Zero
	}
	if to, ok := m.ToTuple(); ok && to == t {
		return m.Quantity
	}
	if from, ok := m.FromTuple(); ok && from == t {
		return m.Quantity.Neg()
	}
	return decimal.Zero
}
