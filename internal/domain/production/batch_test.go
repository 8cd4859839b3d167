package production

import (
	"testing"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []ConsumedLine {
	return []ConsumedLine{
		{MaterialID: uuid.New(), QuantityConsumed: decimal.NewFromInt(500), CostPerUnit: decimal.RequireFromString("0.05")},
		{MaterialID: uuid.New(), QuantityConsumed: decimal.NewFromInt(200), CostPerUnit: decimal.RequireFromString("0.02")},
	}
}

func newTestBatch(t *testing.T, status BatchStatus) *ProductionBatch {
	t.Helper()
	b, err := NewProductionBatch(uuid.New(), uuid.New(), decimal.NewFromInt(10), status, testLines(), "", "ana")
	require.NoError(t, err)
	return b
}

func TestNewProductionBatch(t *testing.T) {
	t.Run("aggregates line costs", func(t *testing.T) {
		// 500 * 0.05 + 200 * 0.02 = 25 + 4 = 29; unit = 2.9
		b := newTestBatch(t, StatusProduzindo)

		assert.True(t, b.TotalCost.Equal(decimal.RequireFromString("29")), "got %s", b.TotalCost)
		assert.True(t, b.UnitCost.Equal(decimal.RequireFromString("2.9")), "got %s", b.UnitCost)
		assert.Len(t, b.Items, 2)
		for _, item := range b.Items {
			assert.Equal(t, b.ID, item.BatchID)
		}
	})

	t.Run("emits created event", func(t *testing.T) {
		b := newTestBatch(t, StatusConcluido)
		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBatchCreated, events[0].EventType())
	})

	t.Run("rejects initial perda or estornado", func(t *testing.T) {
		for _, status := range []BatchStatus{StatusPerda, StatusEstornado} {
			_, err := NewProductionBatch(uuid.New(), uuid.New(), decimal.NewFromInt(1), status, testLines(), "", "")
			assert.Error(t, err, "status %s", status)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewProductionBatch(uuid.New(), uuid.New(), decimal.Zero, StatusProduzindo, testLines(), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewProductionBatch(uuid.New(), uuid.New(), decimal.NewFromInt(1), StatusProduzindo, nil, "", "")
		assert.Error(t, err)
	})
}

func TestTransitionTo(t *testing.T) {
	t.Run("produzindo to concluido", func(t *testing.T) {
		b := newTestBatch(t, StatusProduzindo)

		effects, err := b.TransitionTo(StatusConcluido, "ana")
		require.NoError(t, err)

		assert.Equal(t, StatusConcluido, b.Status)
		assert.False(t, effects.ReturnMaterials)
		assert.True(t, b.FinishedGoodsChange(effects).Equal(decimal.NewFromInt(10)))
		assert.Nil(t, b.ReversedBy)
	})

	t.Run("estorno records actor and time", func(t *testing.T) {
		b := newTestBatch(t, StatusConcluido)

		effects, err := b.TransitionTo(StatusEstornado, "carlos")
		require.NoError(t, err)

		assert.True(t, effects.ReturnMaterials)
		assert.True(t, b.FinishedGoodsChange(effects).Equal(decimal.NewFromInt(-10)))
		require.NotNil(t, b.ReversedBy)
		assert.Equal(t, "carlos", *b.ReversedBy)
		assert.NotNil(t, b.ReversedAt)
	})

	t.Run("invalid transition leaves batch unchanged", func(t *testing.T) {
		b := newTestBatch(t, StatusProduzindo)
		v := b.Version

		_, err := b.TransitionTo(StatusProduzindo, "ana")
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
		assert.Equal(t, StatusProduzindo, b.Status)
		assert.Equal(t, v, b.Version)
	})

	t.Run("terminal state rejects everything", func(t *testing.T) {
		b := newTestBatch(t, StatusProduzindo)
		_, err := b.TransitionTo(StatusEstornado, "ana")
		require.NoError(t, err)

		for _, target := range []BatchStatus{StatusProduzindo, StatusConcluido, StatusPerda, StatusEstornado} {
			_, err := b.TransitionTo(target, "ana")
			assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
		}
	})

	t.Run("emits status changed event", func(t *testing.T) {
		b := newTestBatch(t, StatusProduzindo)
		b.ClearDomainEvents()

		_, err := b.TransitionTo(StatusPerda, "ana")
		require.NoError(t, err)

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*BatchStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusProduzindo, changed.From)
		assert.Equal(t, StatusPerda, changed.To)
	})
}

func TestFinishedGoodsChange(t *testing.T) {
	b := newTestBatch(t, StatusProduzindo)

	assert.True(t, b.FinishedGoodsChange(TransitionEffects{}).IsZero())
	assert.True(t, b.FinishedGoodsChange(TransitionEffects{FinishedGoodsDelta: 1}).Equal(decimal.NewFromInt(10)))
	assert.True(t, b.FinishedGoodsChange(TransitionEffects{FinishedGoodsDelta: -1}).Equal(decimal.NewFromInt(-10)))
}
