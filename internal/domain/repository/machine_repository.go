package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// MachineRepository define el puerto de persistencia para Machine (DIP).
type MachineRepository interface {
	Create(machine *entity.Machine) error
	GetByID(id string) (*entity.Machine, error)
	GetBySerial(orgID, serial string) (*entity.Machine, error)
	Update(machine *entity.Machine) error
	ListByOrg(orgID string, limit, offset int) ([]*entity.Machine, error)
	ListByOperator(operatorID string) ([]*entity.Machine, error)
}
