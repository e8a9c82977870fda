package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

func TestBatchRelease_DevuelveCantidadAlRemanente(t *testing.T) {
	rg := newRig()
	rg.seedBatch("b1", nomLeche, dec("10"), dec("4"), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	batch, err := rg.batches.Release(context.Background(), testOrg, "b1", dec("3"))

	require.NoError(t, err)
	assert.True(t, dec("7").Equal(batch.RemainingQuantity))
	assert.Equal(t, entity.BatchInStock, batch.Status)
	assert.True(t, dec("7").Equal(rg.store.data.batches["b1"].RemainingQuantity))
}

func TestBatchRelease_NoPuedeSuperarLaCantidadOriginal(t *testing.T) {
	rg := newRig()
	rg.seedBatch("b1", nomLeche, dec("10"), dec("9"), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	_, err := rg.batches.Release(context.Background(), testOrg, "b1", dec("2"))

	require.ErrorIs(t, err, domain.ErrBatchReleaseExceeds)
	assert.True(t, dec("9").Equal(rg.store.data.batches["b1"].RemainingQuantity))
}

func TestBatchSweepExpired_MarcaSoloLosVencidos(t *testing.T) {
	rg := newRig()
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	rg.seedBatch("vencido", nomLeche, dec("5"), dec("5"), past.AddDate(0, -1, 0), &past)
	rg.seedBatch("vigente", nomLeche, dec("5"), dec("5"), past.AddDate(0, -1, 0), &future)

	n, err := rg.batches.SweepExpired(context.Background(), testOrg)

	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, entity.BatchExpired, rg.store.data.batches["vencido"].Status)
	assert.Equal(t, entity.BatchInStock, rg.store.data.batches["vigente"].Status)
}
