package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// OrganizationUseCase aplica reglas de negocio para organizaciones.
type OrganizationUseCase struct {
	repo repository.OrganizationRepository
}

// NewOrganizationUseCase construye el caso de uso con el puerto de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo}
}

// Create crea una nueva organización. La bodega central queda implícita: su
// referencia de nivel es el ID de la organización.
func (uc *OrganizationUseCase) Create(in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(org); err != nil {
		return nil, err
	}
	return entityToOrganizationResponse(org), nil
}

// GetByID obtiene una organización por ID.
func (uc *OrganizationUseCase) GetByID(id string) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}
	return entityToOrganizationResponse(org), nil
}

// Update actualiza los campos mutables de una organización.
func (uc *OrganizationUseCase) Update(id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}
	if in.Name != nil {
		org.Name = *in.Name
	}
	org.UpdatedAt = time.Now()
	if err := uc.repo.Update(org); err != nil {
		return nil, err
	}
	return entityToOrganizationResponse(org), nil
}

// List lista organizaciones con paginación.
func (uc *OrganizationUseCase) List(limit, offset int) (*dto.OrganizationListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrganizationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *entityToOrganizationResponse(o))
	}
	return &dto.OrganizationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func entityToOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		TaxID:     o.TaxID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
