package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// AdjustmentRepository define el puerto de persistencia para ajustes de conteo.
type AdjustmentRepository interface {
	Create(adjustment *entity.Adjustment) error
	GetByID(id string) (*entity.Adjustment, error)
	// GetForUpdate bloquea la fila del ajuste para una transición de estado.
	GetForUpdate(id string) (*entity.Adjustment, error)
	Update(adjustment *entity.Adjustment) error
	ListByStatus(orgID, status string, limit, offset int) ([]*entity.Adjustment, error)
}
