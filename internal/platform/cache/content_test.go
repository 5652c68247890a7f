package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/hospeda-sub009/internal/platform/cache"
)

func newContent(t *testing.T) *cache.Content {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewContent(client, time.Minute)
}

func TestVersionInitialisesToOne(t *testing.T) {
	content := newContent(t)

	ver, err := content.Version(context.Background(), "destination")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	// A second read sees the stored value, not a re-initialisation.
	ver, err = content.Version(context.Background(), "destination")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestBumpAdvancesVersion(t *testing.T) {
	content := newContent(t)
	ctx := context.Background()

	_, err := content.Version(ctx, "event")
	require.NoError(t, err)
	require.NoError(t, content.Bump(ctx, "event"))

	ver, err := content.Version(ctx, "event")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	content := newContent(t)
	ctx := context.Background()

	type payload struct {
		Names []string `json:"names"`
	}
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Names: []string{"colon", "federacion"}}, nil
	}

	var first payload
	require.NoError(t, content.FetchJSON(ctx, "destination", "home", &first, loader))
	var second payload
	require.NoError(t, content.FetchJSON(ctx, "destination", "home", &second, loader))

	assert.Equal(t, 1, calls, "second fetch must be served from cache")
	assert.Equal(t, first, second)
}

func TestBumpInvalidatesFetchJSON(t *testing.T) {
	content := newContent(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"total": calls}, nil
	}

	var out map[string]int
	require.NoError(t, content.FetchJSON(ctx, "event", "upcoming", &out, loader))
	require.NoError(t, content.Bump(ctx, "event"))
	require.NoError(t, content.FetchJSON(ctx, "event", "upcoming", &out, loader))

	assert.Equal(t, 2, calls, "bump must route the next fetch to the loader")
	assert.Equal(t, 2, out["total"])
}

func TestFetchJSONWithoutRedisFallsThrough(t *testing.T) {
	var content *cache.Content
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	var out []string
	require.NoError(t, content.FetchJSON(context.Background(), "destination", "home", &out, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"a", "b"}, out)
}
