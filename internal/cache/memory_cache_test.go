package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "page:index?page=1:auth", Key("index?page=1", true))
	assert.Equal(t, "page:index?page=1:anon", Key("index?page=1", false))
	assert.NotEqual(t, Key("index?page=1", true), Key("index?page=2", true))
}

func TestMemoryPageCache_GetSet(t *testing.T) {
	c := NewMemoryPageCache(0)
	defer c.Stop()

	_, hit := c.Get("missing")
	assert.False(t, hit)

	c.Set("k", []byte("v1"), time.Minute)
	body, hit := c.Get("k")
	require.True(t, hit)
	assert.Equal(t, []byte("v1"), body)

	t.Run("last write wins", func(t *testing.T) {
		c.Set("k", []byte("v2"), time.Minute)
		body, hit := c.Get("k")
		require.True(t, hit)
		assert.Equal(t, []byte("v2"), body)
	})
}

func TestMemoryPageCache_AuthSlotsIsolated(t *testing.T) {
	c := NewMemoryPageCache(0)
	defer c.Stop()

	c.Set(Key("index?page=1", true), []byte("auth view"), time.Minute)
	c.Set(Key("index?page=1", false), []byte("anon view"), time.Minute)

	body, hit := c.Get(Key("index?page=1", true))
	require.True(t, hit)
	assert.Equal(t, []byte("auth view"), body)

	body, hit = c.Get(Key("index?page=1", false))
	require.True(t, hit)
	assert.Equal(t, []byte("anon view"), body)
}

func TestMemoryPageCache_TTLExpiry(t *testing.T) {
	c := NewMemoryPageCache(0)
	defer c.Stop()

	c.Set("short", []byte("v"), 20*time.Millisecond)

	_, hit := c.Get("short")
	assert.True(t, hit)

	time.Sleep(40 * time.Millisecond)
	_, hit = c.Get("short")
	assert.False(t, hit)

	t.Run("expired entry can be re-set", func(t *testing.T) {
		c.Set("short", []byte("fresh"), time.Minute)
		body, hit := c.Get("short")
		require.True(t, hit)
		assert.Equal(t, []byte("fresh"), body)
	})
}

func TestMemoryPageCache_InvalidateAll(t *testing.T) {
	c := NewMemoryPageCache(0)
	defer c.Stop()

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.InvalidateAll()

	_, hit := c.Get("a")
	assert.False(t, hit)
	_, hit = c.Get("b")
	assert.False(t, hit)
}

func TestMemoryPageCache_JanitorSweeps(t *testing.T) {
	c := NewMemoryPageCache(10 * time.Millisecond)
	defer c.Stop()

	c.Set("gone", []byte("v"), 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	c.mu.RLock()
	_, present := c.entries["gone"]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestMemoryPageCache_Concurrent(t *testing.T) {
	c := NewMemoryPageCache(time.Millisecond)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%10)
				c.Set(key, []byte("v"), time.Duration(j%3)*time.Millisecond)
				c.Get(key)
				if j%50 == 0 {
					c.InvalidateAll()
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryPageCache_StopIdempotent(t *testing.T) {
	c := NewMemoryPageCache(time.Millisecond)
	c.Stop()
	c.Stop()

	c = NewMemoryPageCache(0)
	c.Stop()
	c.Stop()
}
