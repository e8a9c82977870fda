package entity

import "time"

// Organization representa la empresa dueña de la flota. La bodega central es
// única por organización: su tupla de inventario usa el ID de la organización
// como referencia de nivel.
type Organization struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
