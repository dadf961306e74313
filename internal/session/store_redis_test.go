package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := ConnectRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedisStore(rdb)
	s := New()
	s.SetState("state-1")
	require.NoError(t, store.Save(ctx, s, time.Minute))

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "state-1", got.State)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConnectRedisRejectsBadURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "not a url")
	require.Error(t, err)
}
