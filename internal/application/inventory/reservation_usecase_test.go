package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

func operatorTuple(nomID string) entity.Tuple {
	return entity.Tuple{Level: entity.LevelOperator, LevelRefID: testOperator, NomenclatureID: nomID}
}

func TestReserve_ApartaDisponibleSinMoverElFisico(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("15"),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ReservationActive, res.State)
	// El físico no cambia; solo el disponible.
	assert.True(t, dec("20").Equal(rg.balance(entity.LevelOperator, testOperator, nomCafe)))
	available, err := rg.reservations.Available(testOrg, operatorTuple(nomCafe))
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(available))
}

func TestReserve_RechazaSobreApartado(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	first, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("15"),
	})
	require.NoError(t, err)

	// Quedan 5 disponibles: una segunda reserva de 10 no cabe.
	_, err = rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-2",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("10"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientAvailableStock)

	// Liberada la primera, la misma reserva de 10 sí cabe.
	require.NoError(t, rg.reservations.Release(ctx, testOrg, first.ID))
	_, err = rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-2",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("10"),
	})
	require.NoError(t, err)
}

func TestRelease_EsIdempotente(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("5"),
	})
	require.NoError(t, err)

	require.NoError(t, rg.reservations.Release(ctx, testOrg, res.ID))
	require.NoError(t, rg.reservations.Release(ctx, testOrg, res.ID))

	stored := rg.store.data.reservations[res.ID]
	assert.Equal(t, entity.ReservationReleased, stored.State)
}

func TestRelease_ReservaConsumidaEsErrorDeOrden(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("5"),
	})
	require.NoError(t, err)
	_, err = rg.reservations.Consume(ctx, inventory.ConsumeInput{
		ReservationID: res.ID, OrgID: testOrg, ActorID: testActor,
		Type: entity.MovementOperatorToMachine, ToRefID: testMachine,
	})
	require.NoError(t, err)

	err = rg.reservations.Release(ctx, testOrg, res.ID)
	require.ErrorIs(t, err, domain.ErrReservationNotActive)
}

func TestConsume_EjecutaElTrasladoYMarcaConsumida(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("8"),
	})
	require.NoError(t, err)

	mov, err := rg.reservations.Consume(ctx, inventory.ConsumeInput{
		ReservationID: res.ID, OrgID: testOrg, ActorID: testActor,
		Type: entity.MovementOperatorToMachine, ToRefID: testMachine,
	})

	require.NoError(t, err)
	assert.True(t, dec("8").Equal(mov.Quantity))
	assert.Equal(t, "tarea-1", *mov.TaskID)
	assert.True(t, dec("12").Equal(rg.balance(entity.LevelOperator, testOperator, nomCafe)))
	assert.True(t, dec("8").Equal(rg.balance(entity.LevelMachine, testMachine, nomCafe)))
	assert.Equal(t, entity.ReservationConsumed, rg.store.data.reservations[res.ID].State)

	// Consumir dos veces no duplica el traslado.
	_, err = rg.reservations.Consume(ctx, inventory.ConsumeInput{
		ReservationID: res.ID, OrgID: testOrg, ActorID: testActor,
		Type: entity.MovementOperatorToMachine, ToRefID: testMachine,
	})
	require.ErrorIs(t, err, domain.ErrReservationNotActive)
	assert.True(t, dec("12").Equal(rg.balance(entity.LevelOperator, testOperator, nomCafe)))
}

func TestReserve_ExpiradaDejaDeApartar(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("20"),
		TTL: time.Nanosecond,
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	// El disponible ya no la cuenta aunque siga ACTIVE en la base.
	available, err := rg.reservations.Available(testOrg, operatorTuple(nomCafe))
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(available))

	// Y consumirla es error: expiró.
	_, err = rg.reservations.Consume(ctx, inventory.ConsumeInput{
		ReservationID: res.ID, OrgID: testOrg, ActorID: testActor,
		Type: entity.MovementOperatorToMachine, ToRefID: testMachine,
	})
	require.ErrorIs(t, err, domain.ErrReservationNotActive)
}

func TestSweepExpired_LiberaLasVencidas(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NomenclatureID: nomCafe, Quantity: dec("5"),
		TTL: time.Nanosecond,
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	released, err := rg.reservations.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)
	assert.Equal(t, entity.ReservationReleased, rg.store.data.reservations[res.ID].State)
}

func TestSweepExpired_DejaMarcadorDeLiberacionEnBodega(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelWarehouse, testOrg, nomCafe, dec("50"))
	ctx := context.Background()

	_, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level:          entity.LevelWarehouse,
		NomenclatureID: nomCafe, Quantity: dec("10"),
		TTL: time.Nanosecond,
	})
	require.NoError(t, err)
	require.Len(t, rg.movementsOfType(entity.MovementWarehouseReservation), 1)
	time.Sleep(time.Millisecond)

	released, err := rg.reservations.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)

	// El barrido empareja el marcador igual que una liberación explícita.
	markers := rg.movementsOfType(entity.MovementWarehouseReservationRelease)
	require.Len(t, markers, 1)
	assert.True(t, dec("10").Equal(markers[0].Quantity))

	report, err := rg.reconcile.Reconcile(ctx, testOrg)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestReserve_EnBodegaDejaMarcadorEnElLibro(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelWarehouse, testOrg, nomCafe, dec("50"))
	ctx := context.Background()

	res, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
		OrgID: testOrg, TaskID: "tarea-1",
		Level:          entity.LevelWarehouse,
		NomenclatureID: nomCafe, Quantity: dec("10"),
	})
	require.NoError(t, err)
	require.Len(t, rg.movementsOfType(entity.MovementWarehouseReservation), 1)

	require.NoError(t, rg.reservations.Release(ctx, testOrg, res.ID))
	require.Len(t, rg.movementsOfType(entity.MovementWarehouseReservationRelease), 1)

	// Los marcadores no tienen delta físico: la reconciliación sigue limpia.
	report, err := rg.reconcile.Reconcile(ctx, testOrg)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestListByTask_FiltraPorTarea(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("20"))
	ctx := context.Background()

	for _, task := range []string{"tarea-1", "tarea-1", "tarea-2"} {
		_, err := rg.reservations.Reserve(ctx, inventory.ReserveInput{
			OrgID: testOrg, TaskID: task,
			Level: entity.LevelOperator, LevelRefID: testOperator,
			NomenclatureID: nomCafe, Quantity: dec("2"),
		})
		require.NoError(t, err)
	}

	list, err := rg.reservations.ListByTask(testOrg, "tarea-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
