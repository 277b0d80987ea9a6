package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/adapters/redis"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Keys(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.PutDraft(ctx, &ports.Draft{ID: "d1", DocumentID: "doc", Canvas: domain.NewCanvas("doc", "")}))
	require.NoError(t, store.CreateVersion(ctx, &ports.Version{DocumentID: "doc", Number: 1, Definition: domain.NewRecorrido("doc")}))

	assert.True(t, mr.Exists("test:draft:doc"))
	assert.True(t, mr.Exists("test:draftid:d1"))
	assert.True(t, mr.Exists("test:version:doc:1"))
	assert.True(t, mr.Exists("test:versions:doc"))
}

func TestRedisStore_DraftTTL(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.PutDraft(ctx, &ports.Draft{ID: "d1", DocumentID: "doc", Canvas: domain.NewCanvas("doc", "")}))
	require.NoError(t, store.CreateVersion(ctx, &ports.Version{DocumentID: "doc", Number: 1, Definition: domain.NewRecorrido("doc")}))

	mr.FastForward(2 * time.Second)

	_, err := store.GetCurrentDraft(ctx, "doc")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	res, err := store.UpdateCanvas(ctx, ports.CanvasUpdate{DraftID: "d1", Canvas: domain.NewCanvas("doc", "")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RowCount)

	_, err = store.LatestVersion(ctx, "doc")
	assert.NoError(t, err, "versions do not expire")
}

func TestRedisStore_ReplacedDraftID(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.PutDraft(ctx, &ports.Draft{ID: "old", DocumentID: "doc", Canvas: domain.NewCanvas("doc", "")}))
	require.NoError(t, store.PutDraft(ctx, &ports.Draft{ID: "new", DocumentID: "doc", Canvas: domain.NewCanvas("doc", "")}))

	res, err := store.UpdateCanvas(ctx, ports.CanvasUpdate{DraftID: "old", Canvas: domain.NewCanvas("doc", "")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RowCount)

	res, err = store.UpdateCanvas(ctx, ports.CanvasUpdate{DraftID: "new", Canvas: domain.NewCanvas("doc", ""), ExpectedRevision: 2})
	require.NoError(t, err)
	assert.Equal(t, ports.UpdateResult{RowCount: 1, Revision: 3}, res)
}
