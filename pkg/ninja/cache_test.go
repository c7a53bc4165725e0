package ninja_test

import (
	"context"
	"testing"
	"time"

	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)
	ctx := context.Background()

	entry := &ninja.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)
	ctx := context.Background()

	entry := &ninja.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry expired")
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)
	ctx := context.Background()

	entry := &ninja.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)
	assert.True(t, cache.Has(ctx, "key1"))

	err = cache.Delete(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, cache.Has(ctx, "key1"))
}

func TestMemoryCache_MaxSize(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &ninja.CacheEntry{
			Data:      []byte("test data"),
			ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		}
		_ = cache.Set(ctx, string(rune('a'+i)), entry)
	}

	has := 0

	for i := 0; i < 3; i++ {
		if cache.Has(ctx, string(rune('a'+i))) {
			has++
		}
	}

	assert.LessOrEqual(t, has, 2)
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)
	ctx := context.Background()

	_ = cache.Set(ctx, "expired", &ninja.CacheEntry{
		Data:      []byte("expired"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})
	_ = cache.Set(ctx, "valid", &ninja.CacheEntry{
		Data:      []byte("valid"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})

	cache.Cleanup()

	assert.True(t, cache.Has(ctx, "valid"))
	assert.False(t, cache.Has(ctx, "expired"))
}

func TestCacheManager_GetCacheKey(t *testing.T) {
	t.Parallel()

	manager := ninja.NewCacheManager(nil, nil)

	key1 := manager.GetCacheKey("GET", "/v2/devices", nil)
	assert.Equal(t, "GET:/v2/devices", key1)

	params := map[string]string{"pageSize": "100", "after": "42"}
	key2 := manager.GetCacheKey("GET", "/v2/devices", params)
	assert.Equal(t, "GET:/v2/devices:after=42&pageSize=100", key2)
}

func TestCacheManager_SetAndGet(t *testing.T) {
	t.Parallel()

	manager := ninja.NewCacheManager(ninja.NewMemoryCache(10), nil)
	ctx := context.Background()

	data := []byte("test data")

	err := manager.Set(ctx, "test-key", data, 1*time.Hour)
	require.NoError(t, err)

	retrieved, err := manager.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, data, retrieved)

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestCacheManager_Miss(t *testing.T) {
	t.Parallel()

	manager := ninja.NewCacheManager(ninja.NewMemoryCache(10), nil)

	_, err := manager.Get(context.Background(), "nonexistent")
	require.Error(t, err)

	stats := manager.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCacheManager_MinimumTTL(t *testing.T) {
	t.Parallel()

	cache := ninja.NewMemoryCache(10)
	manager := ninja.NewCacheManager(cache, nil)
	ctx := context.Background()

	err := manager.Set(ctx, "short-lived", []byte("data"), 1*time.Second)
	require.NoError(t, err)

	entry, err := cache.Get(ctx, "short-lived")
	require.NoError(t, err)
	assert.True(t, entry.ExpiresAt.After(time.Now().Add(25*time.Second)))
}

func TestCacheManager_ShouldCache(t *testing.T) {
	t.Parallel()
	t.Run("default policy", func(t *testing.T) {
		t.Parallel()

		manager := ninja.NewCacheManager(ninja.NewMemoryCache(10), nil)

		assert.True(t, manager.ShouldCache("GET", "/v2/organizations", 200))
		assert.False(t, manager.ShouldCache("GET", "/v2/alerts", 200))
		assert.False(t, manager.ShouldCache("GET", "/v2/activities", 200))
		assert.False(t, manager.ShouldCache("POST", "/v2/organizations", 201))
		assert.False(t, manager.ShouldCache("GET", "/v2/organizations", 404))
	})

	t.Run("explicit policy", func(t *testing.T) {
		t.Parallel()

		manager := ninja.NewCacheManagerWithPolicy(ninja.NewMemoryCache(10), nil, &ninja.CachingPolicy{
			CacheGET:     true,
			IncludePaths: []string{"/v2/devices"},
		})

		assert.True(t, manager.ShouldCache("GET", "/v2/devices", 200))
		assert.False(t, manager.ShouldCache("GET", "/v2/organizations", 200))
	})
}

func TestCacheStats_GetHitRate(t *testing.T) {
	t.Parallel()

	stats := &ninja.CacheStats{
		Hits:   75,
		Misses: 25,
	}

	assert.InDelta(t, 0.75, stats.GetHitRate(), 0.0001)

	emptyStats := &ninja.CacheStats{}
	assert.InDelta(t, 0.0, emptyStats.GetHitRate(), 0.0001)
}

func TestCachingPolicy_ShouldCache(t *testing.T) {
	t.Parallel()

	policy := ninja.DefaultCachingPolicy()

	assert.True(t, policy.ShouldCache("GET", "/v2/devices", 200))
	assert.False(t, policy.ShouldCache("POST", "/v2/organizations", 201))
	assert.False(t, policy.ShouldCache("GET", "/v2/devices", 404))
	assert.False(t, policy.ShouldCache("GET", "/v2/alerts", 200))

	customPolicy := &ninja.CachingPolicy{
		CacheGET:     true,
		CachePOST:    true,
		CacheErrors:  true,
		IncludePaths: []string{"/v2/devices"},
	}

	assert.True(t, customPolicy.ShouldCache("GET", "/v2/devices", 200))
	assert.False(t, customPolicy.ShouldCache("GET", "/v2/organizations", 200))
	assert.True(t, customPolicy.ShouldCache("POST", "/v2/devices", 201))
	assert.True(t, customPolicy.ShouldCache("GET", "/v2/devices", 404))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()
	t.Run("nil config defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := ninja.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &ninja.MemoryCache{}, cache)
	})

	t.Run("none type returns no-op cache", func(t *testing.T) {
		t.Parallel()

		cache, err := ninja.NewCacheFromConfig(&ninja.CacheConfig{Type: ninja.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &ninja.NoOpCache{}, cache)

		assert.False(t, cache.Has(context.Background(), "any"))
	})

	t.Run("nats type requires config", func(t *testing.T) {
		t.Parallel()

		_, err := ninja.NewCacheFromConfig(&ninja.CacheConfig{Type: ninja.CacheTypeNATS})
		require.ErrorIs(t, err, ninja.ErrNATSConfigRequired)
	})

	t.Run("chained type requires nats config", func(t *testing.T) {
		t.Parallel()

		_, err := ninja.NewCacheFromConfig(&ninja.CacheConfig{Type: ninja.CacheTypeChained})
		require.ErrorIs(t, err, ninja.ErrNATSConfigRequired)
	})

	t.Run("unknown type fails", func(t *testing.T) {
		t.Parallel()

		_, err := ninja.NewCacheFromConfig(&ninja.CacheConfig{Type: "bogus"})
		require.ErrorIs(t, err, ninja.ErrUnsupportedCacheType)
	})
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := ninja.NewMemoryCache(10)
	l2 := ninja.NewMemoryCache(10)
	chain := ninja.NewCacheChain(l1, l2)

	entry := &ninja.CacheEntry{
		Data:      []byte("chained"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	// Hit in L2 populates L1.
	err := l2.Set(ctx, "key", entry)
	require.NoError(t, err)

	retrieved, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.True(t, l1.Has(ctx, "key"))

	_, err = chain.Get(ctx, "missing")
	require.ErrorIs(t, err, ninja.ErrKeyNotFoundInAnyCache)
}
