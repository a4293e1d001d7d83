package question

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheMissReturnsNil(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), SetRequest{Content: "doc", Count: 3, Difficulty: DifficultyEasy})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	req := SetRequest{Content: "lecture notes", Count: 2, Difficulty: DifficultyMedium, Topic: "biology"}
	set := []Question{validQuestion(), validQuestion()}

	require.NoError(t, cache.Set(context.Background(), req, set))

	got, err := cache.Get(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, set, got)
}

func TestCacheKeyDiscriminatesRequests(t *testing.T) {
	cache, _ := newTestCache(t)
	base := SetRequest{Content: "doc", Count: 2, Difficulty: DifficultyMedium}
	require.NoError(t, cache.Set(context.Background(), base, []Question{validQuestion()}))

	for _, other := range []SetRequest{
		{Content: "different doc", Count: 2, Difficulty: DifficultyMedium},
		{Content: "doc", Count: 3, Difficulty: DifficultyMedium},
		{Content: "doc", Count: 2, Difficulty: DifficultyHard},
		{Content: "doc", Count: 2, Difficulty: DifficultyMedium, Topic: "math"},
	} {
		got, err := cache.Get(context.Background(), other)
		require.NoError(t, err)
		assert.Nil(t, got, "request %+v must not share a cache entry", other)
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	req := SetRequest{Content: "doc", Count: 1, Difficulty: DifficultyEasy}
	require.NoError(t, cache.Set(context.Background(), req, []Question{validQuestion()}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, got)
}
