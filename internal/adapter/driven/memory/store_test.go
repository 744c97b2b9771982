package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/memory"
	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

func TestStore_GetReturnsCopy(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, model.NamespaceConfig, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, model.NamespaceConfig, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := store.Get(ctx, model.NamespaceConfig, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_ClearAndDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, model.NamespaceHistory, "a", []byte("1")))
	require.NoError(t, store.Set(ctx, model.NamespaceProfiles, "a", []byte("2")))
	require.NoError(t, store.Delete(ctx, model.NamespaceConfig, "missing"))
	require.NoError(t, store.Clear(ctx, model.NamespaceHistory))

	got, err := store.Get(ctx, model.NamespaceHistory, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(ctx, model.NamespaceProfiles, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)
	for range goroutines {
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Set(ctx, model.NamespaceTourFlags, "flag", []byte("true")))
		}()
		go func() {
			defer wg.Done()
			_, err := store.Get(ctx, model.NamespaceTourFlags, "flag")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, model.NamespaceTourFlags, "flag")
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}
