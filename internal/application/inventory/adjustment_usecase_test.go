package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

func TestAdjustment_FlujoAprobacionCompleto(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelMachine, testMachine, nomCafe, dec("50"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelMachine, LevelRefID: testMachine,
		NewQuantity: dec("47"), Reason: "conteo físico semanal",
		RequiresApproval: true, ActorID: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentPending, adj.Status)
	assert.True(t, dec("50").Equal(adj.OldQuantity))
	// Nada cambia hasta aplicar.
	assert.True(t, dec("50").Equal(rg.balance(entity.LevelMachine, testMachine, nomCafe)))

	// Aplicar sin aprobar es error de orden.
	_, err = rg.adjustments.Apply(ctx, testOrg, adj.ID, "supervisor-1")
	require.ErrorIs(t, err, domain.ErrConflict)

	approved, err := rg.adjustments.Approve(ctx, testOrg, adj.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "supervisor-1", *approved.ApprovedBy)

	applied, err := rg.adjustments.Apply(ctx, testOrg, adj.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentApplied, applied.Status)
	assert.True(t, dec("47").Equal(rg.balance(entity.LevelMachine, testMachine, nomCafe)))

	// Exactamente un movimiento de ajuste con la magnitud del delta.
	movs := rg.movementsOfType(entity.MovementAdjustment)
	var applyMovs []*entity.Movement
	for _, m := range movs {
		if m.FromRefID != nil && *m.FromRefID == testMachine {
			applyMovs = append(applyMovs, m)
		}
	}
	require.Len(t, applyMovs, 1)
	assert.True(t, dec("3").Equal(applyMovs[0].Quantity))
}

func TestAdjustment_SinAprobacionSeAplicaAlSolicitar(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("10"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NewQuantity: dec("12"), Reason: "reposición no registrada",
		RequiresApproval: false, ActorID: testActor,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentApplied, adj.Status)
	require.NotNil(t, adj.ApprovedBy)
	assert.Equal(t, testActor, *adj.ApprovedBy)
	assert.True(t, dec("12").Equal(rg.balance(entity.LevelOperator, testOperator, nomCafe)))
}

func TestAdjustment_ObsoletoSiElSaldoCambioDesdeLaSolicitud(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("50"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NewQuantity: dec("45"), Reason: "conteo",
		RequiresApproval: true, ActorID: testActor,
	})
	require.NoError(t, err)
	_, err = rg.adjustments.Approve(ctx, testOrg, adj.ID, "supervisor-1")
	require.NoError(t, err)

	// Un traslado posterior invalida el saldo capturado.
	_, err = rg.transfer.Transfer(ctx, inventory.TransferInput{
		OrgID: testOrg, ActorID: testActor, Type: entity.MovementOperatorToMachine,
		NomenclatureID: nomCafe, Quantity: dec("5"),
		From: &entity.LevelRef{RefID: testOperator}, To: &entity.LevelRef{RefID: testMachine},
	})
	require.NoError(t, err)

	_, err = rg.adjustments.Apply(ctx, testOrg, adj.ID, "supervisor-1")
	require.ErrorIs(t, err, domain.ErrStaleAdjustment)
	// El ajuste sigue APPROVED y el saldo intacto: el caller recarga y reintenta.
	stored, err := rg.adjustments.GetByID(testOrg, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentApproved, stored.Status)
	assert.True(t, dec("45").Equal(rg.balance(entity.LevelOperator, testOperator, nomCafe)))
}

func TestAdjustment_RechazoConDeltaGrandeNotificaIncidencia(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelMachine, testMachine, nomCafe, dec("50"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelMachine, LevelRefID: testMachine,
		NewQuantity: dec("20"), Reason: "faltante",
		RequiresApproval: true, ActorID: testActor,
	})
	require.NoError(t, err)

	rejected, err := rg.adjustments.Reject(ctx, testOrg, adj.ID, "supervisor-1", "sin evidencia")
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentRejected, rejected.Status)
	assert.Equal(t, "sin evidencia", rejected.RejectionReason)
	assert.True(t, dec("50").Equal(rg.balance(entity.LevelMachine, testMachine, nomCafe)))

	// Delta de 30 sobre saldo 50 supera el 10% configurado.
	events := rg.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, inventory.IncidentAdjustmentRejected, events[0].Type)
	assert.True(t, dec("50").Equal(events[0].Expected))
	assert.True(t, dec("20").Equal(events[0].Actual))
}

func TestAdjustment_RechazoConDeltaPequenoNoNotifica(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelMachine, testMachine, nomCafe, dec("50"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelMachine, LevelRefID: testMachine,
		NewQuantity: dec("48"), Reason: "merma menor",
		RequiresApproval: true, ActorID: testActor,
	})
	require.NoError(t, err)

	_, err = rg.adjustments.Reject(ctx, testOrg, adj.ID, "supervisor-1", "dentro de lo normal")
	require.NoError(t, err)
	assert.Empty(t, rg.notifier.Events())
}

func TestAdjustment_CanceladoNoSePuedeAprobar(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("10"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NewQuantity: dec("9"), Reason: "conteo",
		RequiresApproval: true, ActorID: testActor,
	})
	require.NoError(t, err)

	cancelled, err := rg.adjustments.Cancel(ctx, testOrg, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentCancelled, cancelled.Status)

	_, err = rg.adjustments.Approve(ctx, testOrg, adj.ID, "supervisor-1")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestAdjustment_CantidadNegativaEsInvalida(t *testing.T) {
	rg := newRig()

	_, err := rg.adjustments.Request(context.Background(), inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NewQuantity: dec("-1"), ActorID: testActor,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustment_SinDeltaAplicaSinMovimiento(t *testing.T) {
	rg := newRig()
	rg.seedBalance(entity.LevelOperator, testOperator, nomCafe, dec("10"))
	ctx := context.Background()

	adj, err := rg.adjustments.Request(ctx, inventory.RequestAdjustmentInput{
		OrgID: testOrg, NomenclatureID: nomCafe,
		Level: entity.LevelOperator, LevelRefID: testOperator,
		NewQuantity: dec("10"), Reason: "conteo coincide",
		RequiresApproval: false, ActorID: testActor,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentApplied, adj.Status)
	// El único movimiento de ajuste es la semilla del saldo.
	movs := rg.movementsOfType(entity.MovementAdjustment)
	assert.Len(t, movs, 1)
}
