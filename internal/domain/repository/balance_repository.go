package repository

import "github.com/jhoicas/Vending-api/internal/domain/entity"

// BalanceRepository define el puerto para consultar/actualizar saldos por tupla
// (nivel, referencia, nomenclatura). Usado dentro de transacciones para
// garantizar consistencia.
type BalanceRepository interface {
	// Get devuelve el saldo actual; si la fila no existe devuelve un saldo en
	// cero (nunca error por fila ausente).
	Get(orgID string, t entity.Tuple) (*entity.Balance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe la
	// siembra en cero y bloquea la fila sembrada, de modo que dos primeros
	// movimientos sobre la misma tupla serializan. Devuelve
	// domain.ErrContention si el lock_timeout expira.
	GetForUpdate(orgID string, t entity.Tuple) (*entity.Balance, error)
	Upsert(balance *entity.Balance) error
	ListByLevel(orgID string, level entity.Level, levelRefID string, limit, offset int) ([]*entity.Balance, error)
	// ListBelowMin devuelve los saldos por debajo de su umbral mínimo.
	ListBelowMin(orgID string) ([]*entity.Balance, error)
	// ListAll devuelve todos los saldos de la organización (reconciliación).
	ListAll(orgID string) ([]*entity.Balance, error)
}
