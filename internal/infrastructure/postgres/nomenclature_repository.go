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

var _ repository.NomenclatureRepository = (*NomenclatureRepo)(nil)

// NomenclatureRepo implementación de NomenclatureRepository sobre PostgreSQL.
type NomenclatureRepo struct {
	q Querier
}

// NewNomenclatureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNomenclatureRepository(q Querier) *NomenclatureRepo {
	return &NomenclatureRepo{q: q}
}

const nomenclatureColumns = "id, org_id, sku, name, unit, batch_tracked, sale_tolerance_pct, is_active, created_at, updated_at"

// Create persiste una nomenclatura. Devuelve domain.ErrDuplicate si el SKU ya
// existe en la organización.
func (r *NomenclatureRepo) Create(n *entity.Nomenclature) error {
	query := `
		INSERT INTO nomenclatures (id, org_id, sku, name, unit, batch_tracked, sale_tolerance_pct, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.OrgID, n.SKU, n.Name, n.Unit, n.BatchTracked, n.SaleTolerancePct,
		n.IsActive, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create nomenclature: %w", err)
	}
	return nil
}

// GetByID obtiene una nomenclatura por ID.
func (r *NomenclatureRepo) GetByID(id string) (*entity.Nomenclature, error) {
	query := `SELECT ` + nomenclatureColumns + ` FROM nomenclatures WHERE id = $1`
	n, err := scanNomenclature(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nomenclature: %w", err)
	}
	return n, nil
}

// GetBySKU obtiene una nomenclatura por SKU dentro de la organización.
func (r *NomenclatureRepo) GetBySKU(orgID, sku string) (*entity.Nomenclature, error) {
	query := `SELECT ` + nomenclatureColumns + ` FROM nomenclatures WHERE org_id = $1 AND sku = $2`
	n, err := scanNomenclature(r.q.QueryRow(context.Background(), query, orgID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nomenclature by sku: %w", err)
	}
	return n, nil
}

// Update actualiza los campos mutables de una nomenclatura.
func (r *NomenclatureRepo) Update(n *entity.Nomenclature) error {
	query := `
		UPDATE nomenclatures
		SET name = $2, unit = $3, sale_tolerance_pct = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		n.ID, n.Name, n.Unit, n.SaleTolerancePct, n.IsActive, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update nomenclature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrg lista la nomenclatura de una organización con paginación.
func (r *NomenclatureRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Nomenclature, error) {
	query := `
		SELECT ` + nomenclatureColumns + `
		FROM nomenclatures
		WHERE org_id = $1
		ORDER BY sku
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list nomenclatures: %w", err)
	}
	defer rows.Close()
	var list []*entity.Nomenclature
	for rows.Next() {
		n, err := scanNomenclature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nomenclature: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func scanNomenclature(row pgx.Row) (*entity.Nomenclature, error) {
	var n entity.Nomenclature
	err := row.Scan(
		&n.ID, &n.OrgID, &n.SKU, &n.Name, &n.Unit, &n.BatchTracked,
		&n.SaleTolerancePct, &n.IsActive, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
