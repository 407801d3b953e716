package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, sessionID string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, sessionID, 24*time.Hour), mr
}

func TestStore_Load_Missing(t *testing.T) {
	store, _ := setupStore(t, "sess-1")

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_SaveThenLoad(t *testing.T) {
	store, mr := setupStore(t, "sess-1")

	snapshot := []byte(`[{"id":1,"name":"Nezuko Kamado","price":280,"image":"images/nezuko.png","quantity":2}]`)
	require.NoError(t, store.Save(context.Background(), snapshot))

	assert.True(t, mr.Exists("cart:sess-1"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestStore_Save_SetsTTL(t *testing.T) {
	store, mr := setupStore(t, "sess-1")

	require.NoError(t, store.Save(context.Background(), []byte("[]")))

	ttl := mr.TTL("cart:sess-1")
	assert.True(t, ttl > 23*time.Hour, "expected TTL > 23h, got %v", ttl)
	assert.True(t, ttl <= 24*time.Hour, "expected TTL <= 24h, got %v", ttl)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	a := NewStore(client, "sess-a", time.Hour)
	b := NewStore(client, "sess-b", time.Hour)

	require.NoError(t, a.Save(context.Background(), []byte(`[{"id":1}]`)))

	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Load_ServerGone(t *testing.T) {
	store, mr := setupStore(t, "sess-1")
	mr.Close()

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
