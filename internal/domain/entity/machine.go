package entity

import "time"

// Machine representa una máquina expendedora instalada en un punto de venta.
type Machine struct {
	ID         string
	OrgID      string
	Serial     string // serie única por organización
	Name       string
	Address    string
	OperatorID *string // operario asignado a la ruta de esta máquina
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
