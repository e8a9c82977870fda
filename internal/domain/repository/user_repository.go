package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndOrg(email, orgID string) (*entity.User, error)
	Update(user *entity.User) error
	ListByOrg(orgID string, limit, offset int) ([]*entity.User, error)
}
