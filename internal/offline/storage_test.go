package offline

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, storage Storage) {
	ctx := context.Background()
	static := "receipts-static-" + gofakeit.LetterN(6)
	dynamic := "receipts-dynamic-" + gofakeit.LetterN(6)

	_, err := storage.Get(ctx, static, "/")
	assert.ErrorIs(t, err, ErrCacheMiss)

	entry := &CachedResponse{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       []byte("<html></html>"),
		StoredAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, storage.Put(ctx, static, "http://backend/", entry))
	require.NoError(t, storage.Put(ctx, dynamic, "http://backend/api/x", entry))

	got, err := storage.Get(ctx, static, "http://backend/")
	require.NoError(t, err)
	assert.Equal(t, entry.Body, got.Body)
	assert.Equal(t, "text/html", got.Header.Get("Content-Type"))

	names, err := storage.CacheNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, static)
	assert.Contains(t, names, dynamic)

	require.NoError(t, storage.DeleteCache(ctx, static))
	_, err = storage.Get(ctx, static, "http://backend/")
	assert.ErrorIs(t, err, ErrCacheMiss)

	names, err = storage.CacheNames(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, static)

	require.NoError(t, storage.DeleteCache(ctx, dynamic))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set")
	}

	client, err := ConnectRedis(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStorage(t, NewRedisStorage(client, "test-"+gofakeit.LetterN(8), time.Minute))
}
