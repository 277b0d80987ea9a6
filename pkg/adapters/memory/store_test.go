package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/adapters/memory"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStoreContract(t, store)
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	draft := &ports.Draft{ID: "d1", DocumentID: "doc", Canvas: domain.NewCanvas("doc", "")}
	require.NoError(t, store.PutDraft(ctx, draft))

	const writers = 8
	var wg sync.WaitGroup
	landed := make(chan int64, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.UpdateCanvas(ctx, ports.CanvasUpdate{DraftID: "d1", Canvas: domain.NewCanvas("doc", ""), ExpectedRevision: 1})
			assert.NoError(t, err)
			landed <- res.RowCount
		}()
	}
	wg.Wait()
	close(landed)

	var total int64
	for n := range landed {
		total += n
	}
	assert.Equal(t, int64(1), total, "exactly one writer holding revision 1 wins")
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()

	unlock, err := locker.Lock(ctx, "doc", time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "doc", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locker.Lock(ctx, "other", time.Second)
	require.NoError(t, err, "keys are independent")
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "unlocking twice is harmless")

	again, err := locker.Lock(ctx, "doc", time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
