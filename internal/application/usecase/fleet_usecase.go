package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// FleetUseCase casos de uso CRUD de la flota: operarios de ruta y máquinas.
type FleetUseCase struct {
	operatorRepo repository.OperatorRepository
	machineRepo  repository.MachineRepository
}

// NewFleetUseCase construye el caso de uso.
func NewFleetUseCase(operatorRepo repository.OperatorRepository, machineRepo repository.MachineRepository) *FleetUseCase {
	return &FleetUseCase{operatorRepo: operatorRepo, machineRepo: machineRepo}
}

// CreateOperator da de alta un operario de ruta.
func (uc *FleetUseCase) CreateOperator(orgID string, in dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	now := time.Now()
	op := &entity.Operator{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.operatorRepo.Create(op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// GetOperator obtiene un operario de la organización.
func (uc *FleetUseCase) GetOperator(orgID, id string) (*dto.OperatorResponse, error) {
	op, err := uc.operatorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil || op.OrgID != orgID {
		return nil, nil
	}
	return toOperatorResponse(op), nil
}

// UpdateOperator actualiza los campos mutables de un operario.
func (uc *FleetUseCase) UpdateOperator(orgID, id string, in dto.UpdateOperatorRequest) (*dto.OperatorResponse, error) {
	op, err := uc.operatorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil || op.OrgID != orgID {
		return nil, nil
	}
	if in.Name != nil {
		op.Name = *in.Name
	}
	if in.Phone != nil {
		op.Phone = *in.Phone
	}
	if in.IsActive != nil {
		op.IsActive = *in.IsActive
	}
	op.UpdatedAt = time.Now()
	if err := uc.operatorRepo.Update(op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// ListOperators lista operarios con paginación.
func (uc *FleetUseCase) ListOperators(orgID string, limit, offset int) (*dto.OperatorListResponse, error) {
	list, err := uc.operatorRepo.ListByOrg(orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OperatorResponse, 0, len(list))
	for _, op := range list {
		items = append(items, *toOperatorResponse(op))
	}
	return &dto.OperatorListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// CreateMachine da de alta una máquina. La serie es única por organización y
// el operario asignado, si viene, debe ser de la misma organización.
func (uc *FleetUseCase) CreateMachine(orgID string, in dto.CreateMachineRequest) (*dto.MachineResponse, error) {
	existing, err := uc.machineRepo.GetBySerial(orgID, in.Serial)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.OperatorID != nil {
		if err := uc.checkOperator(orgID, *in.OperatorID); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	m := &entity.Machine{
		ID:         uuid.New().String(),
		OrgID:      orgID,
		Serial:     in.Serial,
		Name:       in.Name,
		Address:    in.Address,
		OperatorID: in.OperatorID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.machineRepo.Create(m); err != nil {
		return nil, err
	}
	return toMachineResponse(m), nil
}

// GetMachine obtiene una máquina de la organización.
func (uc *FleetUseCase) GetMachine(orgID, id string) (*dto.MachineResponse, error) {
	m, err := uc.machineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.OrgID != orgID {
		return nil, nil
	}
	return toMachineResponse(m), nil
}

// UpdateMachine actualiza los campos mutables, incluida la reasignación de ruta.
func (uc *FleetUseCase) UpdateMachine(orgID, id string, in dto.UpdateMachineRequest) (*dto.MachineResponse, error) {
	m, err := uc.machineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.OrgID != orgID {
		return nil, nil
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Address != nil {
		m.Address = *in.Address
	}
	if in.OperatorID != nil {
		if err := uc.checkOperator(orgID, *in.OperatorID); err != nil {
			return nil, err
		}
		m.OperatorID = in.OperatorID
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	m.UpdatedAt = time.Now()
	if err := uc.machineRepo.Update(m); err != nil {
		return nil, err
	}
	return toMachineResponse(m), nil
}

// ListMachines lista máquinas con paginación.
func (uc *FleetUseCase) ListMachines(orgID string, limit, offset int) (*dto.MachineListResponse, error) {
	list, err := uc.machineRepo.ListByOrg(orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MachineResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMachineResponse(m))
	}
	return &dto.MachineListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListMachinesByOperator lista las máquinas de la ruta de un operario.
func (uc *FleetUseCase) ListMachinesByOperator(orgID, operatorID string) ([]dto.MachineResponse, error) {
	if err := uc.checkOperator(orgID, operatorID); err != nil {
		return nil, err
	}
	list, err := uc.machineRepo.ListByOperator(operatorID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MachineResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMachineResponse(m))
	}
	return items, nil
}

func (uc *FleetUseCase) checkOperator(orgID, operatorID string) error {
	op, err := uc.operatorRepo.GetByID(operatorID)
	if err != nil {
		return err
	}
	if op == nil || op.OrgID != orgID {
		return domain.ErrNotFound
	}
	return nil
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	if op == nil {
		return nil
	}
	return &dto.OperatorResponse{
		ID:        op.ID,
		Name:      op.Name,
		Phone:     op.Phone,
		IsActive:  op.IsActive,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	}
}

func toMachineResponse(m *entity.Machine) *dto.MachineResponse {
	if m == nil {
		return nil
	}
	return &dto.MachineResponse{
		ID:         m.ID,
		Serial:     m.Serial,
		Name:       m.Name,
		Address:    m.Address,
		OperatorID: m.OperatorID,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
