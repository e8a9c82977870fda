package entity

import "time"

// Operator representa un operario de ruta: el escalón intermedio del
// inventario entre la bodega y las máquinas que atiende.
type Operator struct {
	ID        string
	OrgID     string
	Name      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
