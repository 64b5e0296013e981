package storefront_test

import (
	"context"
	"fmt"
	"testing"

	storefront "github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memoryDSNSeq int

// memoryDSN returns a process-unique in-memory database so tests never
// share state through the sqlite shared cache.
func memoryDSN() string {
	memoryDSNSeq++
	return fmt.Sprintf("file:test%d?mode=memory&cache=shared", memoryDSNSeq)
}

func TestPersistenceLifecycle(t *testing.T) {
	ctx := context.Background()
	p := storefront.NewPersistence(memoryDSN(), nil)

	assert.Equal(t, storefront.StateDisconnected, p.State())
	assert.Nil(t, p.DB())

	require.NoError(t, p.Connect(ctx))
	assert.Equal(t, storefront.StateConnected, p.State())
	assert.NotNil(t, p.DB())

	// Second connect is a no-op
	require.NoError(t, p.Connect(ctx))
	assert.Equal(t, storefront.StateConnected, p.State())

	require.NoError(t, p.Close())
	assert.Equal(t, storefront.StateDisconnected, p.State())
	assert.Nil(t, p.DB())
}

func TestPersistenceEnsureSchema(t *testing.T) {
	ctx := context.Background()
	p := storefront.NewPersistence(memoryDSN(), nil)

	t.Run("fails before connect", func(t *testing.T) {
		assert.Error(t, p.EnsureSchema(ctx))
	})

	require.NoError(t, p.Connect(ctx))
	defer p.Close()

	t.Run("creates tables", func(t *testing.T) {
		require.NoError(t, p.EnsureSchema(ctx))
		// Re-running must be safe
		require.NoError(t, p.EnsureSchema(ctx))

		for _, table := range []string{"users", "products", "categories", "subcategories"} {
			exists, err := p.DB().NewSelect().
				Table("sqlite_master").
				Where("type = 'table'").
				Where("name = ?", table).
				Exists(ctx)
			require.NoError(t, err)
			assert.True(t, exists, table)
		}
	})
}

func TestConnStateString(t *testing.T) {
	assert.Equal(t, "disconnected", storefront.StateDisconnected.String())
	assert.Equal(t, "connecting", storefront.StateConnecting.String())
	assert.Equal(t, "connected", storefront.StateConnected.String())
}
