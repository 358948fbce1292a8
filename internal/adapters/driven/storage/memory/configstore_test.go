package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("models.llm", "saul-instruct"))

	val, ok := store.Get("models.llm")
	assert.True(t, ok)
	assert.Equal(t, "saul-instruct", val)
	assert.Equal(t, "saul-instruct", store.GetString("models.llm"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetInt_Conversions(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", 500))
	require.NoError(t, store.Set("b", int64(50)))
	require.NoError(t, store.Set("c", float64(5)))
	require.NoError(t, store.Set("d", "five"))

	assert.Equal(t, 500, store.GetInt("a"))
	assert.Equal(t, 50, store.GetInt("b"))
	assert.Equal(t, 5, store.GetInt("c"))
	assert.Zero(t, store.GetInt("d"))
}

func TestConfigStore_GetFloat_Conversions(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("rate", 2.5))
	require.NoError(t, store.Set("whole", 3))
	require.NoError(t, store.Set("big", int64(7)))

	assert.InDelta(t, 2.5, store.GetFloat("rate"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("whole"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("big"), 1e-9)
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("flag", true))
	require.NoError(t, store.Set("text", "true"))

	assert.True(t, store.GetBool("flag"))
	assert.False(t, store.GetBool("text"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("chunking.size", 800))

	require.NoError(t, store.Delete("chunking.size"))
	require.NoError(t, store.Delete("chunking.size"))

	_, ok := store.Get("chunking.size")
	assert.False(t, ok)
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}

func TestOverlay_ReadsThroughWritesStayLocal(t *testing.T) {
	base := NewConfigStore()
	require.NoError(t, base.Set("models.llm", "saul-instruct"))
	require.NoError(t, base.Set("retrieval.top_k", 4))

	overlay := NewOverlay(base, nil)
	require.NoError(t, overlay.Set("retrieval.top_k", 8))
	require.NoError(t, overlay.Delete("models.llm"))

	assert.Equal(t, 8, overlay.GetInt("retrieval.top_k"))
	_, ok := overlay.Get("models.llm")
	assert.False(t, ok)

	assert.Equal(t, 4, base.GetInt("retrieval.top_k"))
	assert.Equal(t, "saul-instruct", base.GetString("models.llm"))
	assert.Equal(t, ":memory:", overlay.Path())
}

func TestOverlay_SetAfterDelete(t *testing.T) {
	base := NewConfigStore()
	require.NoError(t, base.Set("chunking.size", 500))
	overlay := NewOverlay(base, nil)

	require.NoError(t, overlay.Delete("chunking.size"))
	require.NoError(t, overlay.Set("chunking.size", 900))

	assert.Equal(t, 900, overlay.GetInt("chunking.size"))
}

func TestOverlay_InactivePassesThrough(t *testing.T) {
	base := NewConfigStore()
	on := false
	overlay := NewOverlay(base, func() bool { return on })

	require.NoError(t, overlay.Set("retrieval.top_k", 6))
	assert.Equal(t, 6, base.GetInt("retrieval.top_k"))

	on = true
	require.NoError(t, overlay.Set("retrieval.top_k", 2))
	assert.Equal(t, 2, overlay.GetInt("retrieval.top_k"))
	assert.Equal(t, 6, base.GetInt("retrieval.top_k"))

	on = false
	assert.Equal(t, 6, overlay.GetInt("retrieval.top_k"))
}
