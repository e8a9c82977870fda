package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance representa el saldo físico actual de una nomenclatura en una tupla
// (nivel, referencia, nomenclatura). La fila se crea de forma perezosa con el
// primer movimiento y nunca se elimina, solo se lleva a cero.
// Invariante: Quantity >= 0 después de todo movimiento confirmado.
type Balance struct {
	OrgID          string
	Level          Level
	LevelRefID     string
	NomenclatureID string
	Quantity       decimal.Decimal
	// Umbrales opcionales para reportes de stock bajo/sobre-stock; no bloquean movimientos.
	MinThreshold *decimal.Decimal
	MaxThreshold *decimal.Decimal
	UpdatedAt    time.Time
}

// Tuple devuelve la tupla que identifica este saldo.
func (b *Balance) Tuple() Tuple {
	return Tuple{Level: b.Level, LevelRefID: b.LevelRefID, NomenclatureID: b.NomenclatureID}
}
