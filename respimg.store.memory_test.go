package respimg

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_SavedValueIsCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := newTestAttachment("hero")
	require.NoError(t, store.Save(ctx, a))
	a.Variants["w700"] = "mutated after save"

	got, err := store.Get(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/hero-700.jpg", got.Variants["w700"])
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		name := fmt.Sprintf("img-%02d", i)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, newTestAttachment(name)))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, name)
			_, _ = store.List(ctx, nil)
		}()
	}
	wg.Wait()

	all, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
