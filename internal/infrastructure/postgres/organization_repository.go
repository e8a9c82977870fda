package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación de OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

const organizationColumns = "id, name, tax_id, created_at, updated_at"

// Create persiste una organización. Devuelve domain.ErrDuplicate si el NIT ya
// está registrado.
func (r *OrganizationRepo) Create(o *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, tax_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, o.TaxID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(id string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	o, err := scanOrganization(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

// Update actualiza los datos de una organización.
func (r *OrganizationRepo) Update(o *entity.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, tax_id = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, o.ID, o.Name, o.TaxID, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todas las organizaciones con paginación.
func (r *OrganizationRepo) List(limit, offset int) ([]*entity.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		ORDER BY name
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	err := row.Scan(&o.ID, &o.Name, &o.TaxID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
