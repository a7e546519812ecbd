package submission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethanbaker/parlavoice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receipt(id string, at time.Time) *Receipt {
	return &Receipt{
		SessionID:   id,
		ObjectKey:   id + ".json",
		Backend:     "memory",
		Bucket:      "parlavoice",
		RoundCount:  3,
		CompletedAt: at,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, receipt(fmt.Sprintf("session-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	t.Run("count", func(t *testing.T) {
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})

	t.Run("get", func(t *testing.T) {
		got, err := store.Get(ctx, "session-2")
		require.NoError(t, err)
		assert.Equal(t, "session-2.json", got.ObjectKey)

		// Returned receipts are copies
		got.ObjectKey = "changed"
		again, err := store.Get(ctx, "session-2")
		require.NoError(t, err)
		assert.Equal(t, "session-2.json", again.ObjectKey)

		_, err = store.Get(ctx, "unknown")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := store.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "session-4", list[0].SessionID)
		assert.Equal(t, "session-3", list[1].SessionID)

		all, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := store.Record(ctx, receipt("session-0", base))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, store.Record(ctx, &Receipt{ObjectKey: "x.json"}))
		assert.Error(t, store.Record(ctx, &Receipt{SessionID: "x"}))
	})
}

func TestNewFromConfigFallsBackToMemory(t *testing.T) {
	store, err := NewFromConfig(utils.NewConfig(nil), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, store)
}
