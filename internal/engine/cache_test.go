package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, CacheKey("page", "https://www.youtube.com/@a/about"), CacheKey("page", "https://www.youtube.com/@a/about"))
	})

	t.Run("different inputs differ", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("page", "https://www.youtube.com/@a/about"), CacheKey("page", "https://www.youtube.com/@a/videos"))
	})

	t.Run("has prefix", func(t *testing.T) {
		assert.Equal(t, "yti:", CacheKey("test")[:4])
	})
}

func TestCacheGetSetPage(t *testing.T) {
	InitCache("", time.Minute, 100, 5*time.Minute)
	t.Cleanup(func() { InitCache("", 0, 0, 0) })

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	_, ok := CacheGetPage(ctx, key)
	assert.False(t, ok, "miss on empty cache")

	CacheSetPage(ctx, key, "<html>hello</html>")
	got, ok := CacheGetPage(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "<html>hello</html>", got)
}

func TestCacheDisabled(t *testing.T) {
	InitCache("", 0, 100, time.Minute)
	ctx := context.Background()
	CacheSetPage(ctx, "k", "v")
	_, ok := CacheGetPage(ctx, "k")
	assert.False(t, ok)
}

func TestCacheExpiration(t *testing.T) {
	InitCache("", time.Millisecond, 100, 5*time.Minute)
	t.Cleanup(func() { InitCache("", 0, 0, 0) })

	ctx := context.Background()
	key := CacheKey("test", "expiry")
	CacheSetPage(ctx, key, "temp")
	time.Sleep(5 * time.Millisecond)

	_, ok := CacheGetPage(ctx, key)
	assert.False(t, ok, "miss after TTL expiry")
}

func TestCacheEviction(t *testing.T) {
	InitCache("", time.Minute, 3, 5*time.Minute)
	t.Cleanup(func() { InitCache("", 0, 0, 0) })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		CacheSetPage(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), fmt.Sprintf("v%d", i))
	}

	count := 0
	pageCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.LessOrEqual(t, count, 3)

	got, ok := CacheGetPage(ctx, CacheKey("evict", "item-4"))
	require.True(t, ok, "newest entry survives eviction")
	assert.Equal(t, "v4", got)
}

func TestCacheStats(t *testing.T) {
	InitCache("", time.Minute, 100, 5*time.Minute)
	t.Cleanup(func() { InitCache("", 0, 0, 0) })
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGetPage(ctx, key)
	_, misses := CacheStats()
	assert.Equal(t, int64(1), misses)

	CacheSetPage(ctx, key, "x")
	CacheGetPage(ctx, key)

	hits, misses := CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
