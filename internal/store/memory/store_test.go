package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Load_Missing(t *testing.T) {
	store := NewBackend().Store("sess-1")

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_SaveThenLoad_CopiesBytes(t *testing.T) {
	store := NewBackend().Store("sess-1")

	snapshot := []byte(`[{"id":1,"quantity":2}]`)
	require.NoError(t, store.Save(context.Background(), snapshot))

	// Mutating the caller's slice must not leak into the stored copy.
	snapshot[0] = 'X'

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1,"quantity":2}]`), got)
}

func TestBackend_SessionsAreIsolated(t *testing.T) {
	backend := NewBackend()

	require.NoError(t, backend.Store("a").Save(context.Background(), []byte("[]")))

	got, err := backend.Store("b").Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
