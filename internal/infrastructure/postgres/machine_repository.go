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

var _ repository.MachineRepository = (*MachineRepo)(nil)

// MachineRepo implementación de MachineRepository sobre PostgreSQL.
type MachineRepo struct {
	q Querier
}

func NewMachineRepository(q Querier) *MachineRepo {
	return &MachineRepo{q: q}
}

const machineColumns = "id, org_id, serial, name, address, operator_id, is_active, created_at, updated_at"

// Create persiste una máquina. Devuelve domain.ErrDuplicate si la serie ya
// existe en la organización.
func (r *MachineRepo) Create(m *entity.Machine) error {
	query := `
		INSERT INTO machines (id, org_id, serial, name, address, operator_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.OrgID, m.Serial, m.Name, m.Address, m.OperatorID,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create machine: %w", err)
	}
	return nil
}

// GetByID obtiene una máquina por ID.
func (r *MachineRepo) GetByID(id string) (*entity.Machine, error) {
	query := `SELECT ` + machineColumns + ` FROM machines WHERE id = $1`
	m, err := scanMachine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}
	return m, nil
}

// GetBySerial obtiene una máquina por serie dentro de la organización.
func (r *MachineRepo) GetBySerial(orgID, serial string) (*entity.Machine, error) {
	query := `SELECT ` + machineColumns + ` FROM machines WHERE org_id = $1 AND serial = $2`
	m, err := scanMachine(r.q.QueryRow(context.Background(), query, orgID, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine by serial: %w", err)
	}
	return m, nil
}

// Update actualiza los campos mutables de una máquina, incluida la
// reasignación de operario.
func (r *MachineRepo) Update(m *entity.Machine) error {
	query := `
		UPDATE machines
		SET name = $2, address = $3, operator_id = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Address, m.OperatorID, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update machine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrg lista las máquinas de una organización.
func (r *MachineRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Machine, error) {
	query := `
		SELECT ` + machineColumns + `
		FROM machines
		WHERE org_id = $1
		ORDER BY serial
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()
	return collectMachines(rows)
}

// ListByOperator lista las máquinas asignadas a la ruta de un operario.
func (r *MachineRepo) ListByOperator(operatorID string) ([]*entity.Machine, error) {
	query := `
		SELECT ` + machineColumns + `
		FROM machines
		WHERE operator_id = $1
		ORDER BY serial`
	rows, err := r.q.Query(context.Background(), query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list machines by operator: %w", err)
	}
	defer rows.Close()
	return collectMachines(rows)
}

func collectMachines(rows pgx.Rows) ([]*entity.Machine, error) {
	var list []*entity.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMachine(row pgx.Row) (*entity.Machine, error) {
	var m entity.Machine
	err := row.Scan(
		&m.ID, &m.OrgID, &m.Serial, &m.Name, &m.Address, &m.OperatorID,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
