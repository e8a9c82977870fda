package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// OperatorRepository define el puerto de persistencia para Operator (DIP).
type OperatorRepository interface {
	Create(operator *entity.Operator) error
	GetByID(id string) (*entity.Operator, error)
	Update(operator *entity.Operator) error
	ListByOrg(orgID string, limit, offset int) ([]*entity.Operator, error)
}
