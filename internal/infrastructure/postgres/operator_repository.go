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

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo implementación de OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

const operatorColumns = "id, org_id, name, phone, is_active, created_at, updated_at"

// Create persiste un operario.
func (r *OperatorRepo) Create(o *entity.Operator) error {
	query := `
		INSERT INTO operators (id, org_id, name, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.OrgID, o.Name, o.Phone, o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

// GetByID obtiene un operario por ID.
func (r *OperatorRepo) GetByID(id string) (*entity.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	o, err := scanOperator(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator: %w", err)
	}
	return o, nil
}

// Update actualiza los campos mutables de un operario.
func (r *OperatorRepo) Update(o *entity.Operator) error {
	query := `
		UPDATE operators
		SET name = $2, phone = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, o.Phone, o.IsActive, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update operator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrg lista los operarios de una organización.
func (r *OperatorRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Operator, error) {
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE org_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operator
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOperator(row pgx.Row) (*entity.Operator, error) {
	var o entity.Operator
	err := row.Scan(&o.ID, &o.OrgID, &o.Name, &o.Phone, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
