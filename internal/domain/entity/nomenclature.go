package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nomenclature representa un producto o ingrediente rastreable de la flota
// (café, vasos, snacks...). BatchTracked activa el consumo FIFO por lotes con
// fecha de vencimiento; el resto de la nomenclatura se maneja solo por saldo.
type Nomenclature struct {
	ID           string
	OrgID        string
	SKU          string // código único por organización
	Name         string
	Unit         string // kg, l, pcs
	BatchTracked bool
	// SaleTolerancePct sobreescribe la tolerancia global de discrepancia en ventas
	// (porcentaje 0..100). Nil = usar la tolerancia de configuración.
	SaleTolerancePct *decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
