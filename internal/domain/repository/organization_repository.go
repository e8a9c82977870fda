package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// OrganizationRepository define el puerto de persistencia para Organization (DIP).
// La implementación vive en infrastructure.
type OrganizationRepository interface {
	Create(org *entity.Organization) error
	GetByID(id string) (*entity.Organization, error)
	Update(org *entity.Organization) error
	List(limit, offset int) ([]*entity.Organization, error)
}
