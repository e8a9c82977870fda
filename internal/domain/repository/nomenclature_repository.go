package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// NomenclatureRepository define el puerto de persistencia para Nomenclature (DIP).
type NomenclatureRepository interface {
	Create(nomenclature *entity.Nomenclature) error
	GetByID(id string) (*entity.Nomenclature, error)
	GetBySKU(orgID, sku string) (*entity.Nomenclature, error)
	Update(nomenclature *entity.Nomenclature) error
	ListByOrg(orgID string, limit, offset int) ([]*entity.Nomenclature, error)
}
