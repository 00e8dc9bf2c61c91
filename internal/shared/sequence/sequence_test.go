package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SequencesAreIndependentPerKind(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()

	first, err := gen.Next(ctx, KindOrders)
	require.NoError(t, err)
	second, err := gen.Next(ctx, KindOrders)
	require.NoError(t, err)
	product, err := gen.Next(ctx, KindProducts)
	require.NoError(t, err)

	require.Equal(t, int64(1), first)
	require.Equal(t, int64(2), second)
	require.Equal(t, int64(1), product)
}

func TestMemory_ObserveSkipsPastExistingIDs(t *testing.T) {
	gen := NewMemory()
	gen.Observe(KindClients, 41)
	gen.Observe(KindClients, 7)

	next, err := gen.Next(context.Background(), KindClients)
	require.NoError(t, err)
	require.Equal(t, int64(42), next)
}

func TestMemory_ConcurrentNextIsUnique(t *testing.T) {
	gen := NewMemory()
	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := gen.Next(context.Background(), KindQuotations)
			assert.NoError(t, err)
			_, dup := seen.LoadOrStore(id, struct{}{})
			assert.False(t, dup)
		}()
	}
	wg.Wait()
}
