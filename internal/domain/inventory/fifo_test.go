package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/inventory"
)

// d construye un decimal desde string para legibilidad en los tests.
func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// batch helper: lote IN_STOCK con remanente y fecha de recepción.
func batch(id, number, remaining string, received time.Time) *entity.Batch {
	return &entity.Batch{
		ID:                id,
		NomenclatureID:    "nom-cafe",
		BatchNumber:       number,
		Quantity:          d(remaining),
		RemainingQuantity: d(remaining),
		ReceivedDate:      received,
		Status:            entity.BatchInStock,
	}
}

var testNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

// Caso base del FIFO: 5kg del lote más antiguo y 3kg del siguiente.
func TestPlanFIFO_TomaEnOrdenDeRecepcion(t *testing.T) {
	b1 := batch("b1", "L-001", "5", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b2 := batch("b2", "L-002", "10", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	// Se pasan desordenados a propósito: el plan debe ordenar por ReceivedDate.
	plan, err := inventory.PlanFIFO([]*entity.Batch{b2, b1}, d("8"), testNow)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, "b1", plan[0].Batch.ID, "el lote más antiguo va primero")
	assert.True(t, plan[0].Take.Equal(d("5")), "se agota el lote antiguo")
	assert.Equal(t, "b2", plan[1].Batch.ID)
	assert.True(t, plan[1].Take.Equal(d("3")), "el resto sale del lote siguiente")
}

// Un lote vencido se salta aunque sea el más antiguo.
func TestPlanFIFO_SaltaLotesVencidos(t *testing.T) {
	expiry := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	b1 := batch("b1", "L-001", "5", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b1.ExpiryDate = &expiry // vencido respecto a testNow
	b2 := batch("b2", "L-002", "10", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	plan, err := inventory.PlanFIFO([]*entity.Batch{b1, b2}, d("4"), testNow)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b2", plan[0].Batch.ID, "el vencido no participa")
}

// Lotes DEPLETED o sin remanente no participan.
func TestPlanFIFO_IgnoraLotesAgotados(t *testing.T) {
	b1 := batch("b1", "L-001", "0", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b1.Status = entity.BatchDepleted
	b2 := batch("b2", "L-002", "6", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	plan, err := inventory.PlanFIFO([]*entity.Batch{b1, b2}, d("6"), testNow)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b2", plan[0].Batch.ID)
}

// Si los lotes no alcanzan, falla completo: no hay asignación parcial.
func TestPlanFIFO_StockDeLotesInsuficiente(t *testing.T) {
	b1 := batch("b1", "L-001", "5", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	plan, err := inventory.PlanFIFO([]*entity.Batch{b1}, d("8"), testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientBatchStock)
	assert.Nil(t, plan)
}

// Cantidad no positiva es entrada inválida.
func TestPlanFIFO_CantidadInvalida(t *testing.T) {
	b1 := batch("b1", "L-001", "5", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := inventory.PlanFIFO([]*entity.Batch{b1}, d("0"), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.PlanFIFO([]*entity.Batch{b1}, d("-2"), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Uses refleja el plan en metadatos del movimiento.
func TestUses_ConvierteElPlan(t *testing.T) {
	b1 := batch("b1", "L-001", "5", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b2 := batch("b2", "L-002", "10", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	plan, err := inventory.PlanFIFO([]*entity.Batch{b1, b2}, d("7"), testNow)
	require.NoError(t, err)

	uses := inventory.Uses(plan)
	require.Len(t, uses, 2)
	assert.Equal(t, "L-001", uses[0].BatchNumber)
	assert.True(t, uses[0].Quantity.Equal(d("5")))
	assert.Equal(t, "L-002", uses[1].BatchNumber)
	assert.True(t, uses[1].Quantity.Equal(d("2")))
}
