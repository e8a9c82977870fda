package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// NomenclatureUseCase casos de uso CRUD para la nomenclatura de la flota.
type NomenclatureUseCase struct {
	repo repository.NomenclatureRepository
}

// NewNomenclatureUseCase construye el caso de uso.
func NewNomenclatureUseCase(repo repository.NomenclatureRepository) *NomenclatureUseCase {
	return &NomenclatureUseCase{repo: repo}
}

// Create crea una nomenclatura. El SKU es único por organización.
func (uc *NomenclatureUseCase) Create(orgID string, in dto.CreateNomenclatureRequest) (*dto.NomenclatureResponse, error) {
	existing, err := uc.repo.GetBySKU(orgID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	nom := &entity.Nomenclature{
		ID:               uuid.New().String(),
		OrgID:            orgID,
		SKU:              in.SKU,
		Name:             in.Name,
		Unit:             in.Unit,
		BatchTracked:     in.BatchTracked,
		SaleTolerancePct: in.SaleTolerancePct,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(nom); err != nil {
		return nil, err
	}
	return toNomenclatureResponse(nom), nil
}

// GetByID obtiene una nomenclatura de la organización.
func (uc *NomenclatureUseCase) GetByID(orgID, id string) (*dto.NomenclatureResponse, error) {
	nom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if nom == nil || nom.OrgID != orgID {
		return nil, nil
	}
	return toNomenclatureResponse(nom), nil
}

// Update actualiza los campos mutables. BatchTracked no cambia después de
// creado: alternarlo dejaría lotes huérfanos o salidas sin plan FIFO.
func (uc *NomenclatureUseCase) Update(orgID, id string, in dto.UpdateNomenclatureRequest) (*dto.NomenclatureResponse, error) {
	nom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if nom == nil || nom.OrgID != orgID {
		return nil, nil
	}
	if in.Name != nil {
		nom.Name = *in.Name
	}
	if in.Unit != nil {
		nom.Unit = *in.Unit
	}
	if in.SaleTolerancePct != nil {
		nom.SaleTolerancePct = in.SaleTolerancePct
	}
	if in.IsActive != nil {
		nom.IsActive = *in.IsActive
	}
	nom.UpdatedAt = time.Now()
	if err := uc.repo.Update(nom); err != nil {
		return nil, err
	}
	return toNomenclatureResponse(nom), nil
}

// List lista la nomenclatura de la organización con paginación.
func (uc *NomenclatureUseCase) List(orgID string, limit, offset int) (*dto.NomenclatureListResponse, error) {
	list, err := uc.repo.ListByOrg(orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NomenclatureResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *toNomenclatureResponse(n))
	}
	return &dto.NomenclatureListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toNomenclatureResponse(n *entity.Nomenclature) *dto.NomenclatureResponse {
	if n == nil {
		return nil
	}
	return &dto.NomenclatureResponse{
		ID:               n.ID,
		SKU:              n.SKU,
		Name:             n.Name,
		Unit:             n.Unit,
		BatchTracked:     n.BatchTracked,
		SaleTolerancePct: n.SaleTolerancePct,
		IsActive:         n.IsActive,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}
