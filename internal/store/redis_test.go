// internal/store/redis_test.go
package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreFromClient(client), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	st, _ := newRedisStore(t)
	ctx := context.Background()

	_, err := st.Get(ctx, KeyProspects)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, KeyProspects, []byte(`[{"id":"p1"}]`)))

	raw, err := st.Get(ctx, KeyProspects)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(raw))
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	st, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyProfile, []byte(`{}`)))

	assert.True(t, mr.Exists("prospector:"+KeyProfile))
	assert.False(t, mr.Exists(KeyProfile))
}

func TestRedisStore_Del(t *testing.T) {
	st, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyEmails, []byte(`[]`)))
	require.NoError(t, st.Set(ctx, KeyCalls, []byte(`[]`)))

	require.NoError(t, st.Del(ctx, KeyEmails, KeyCalls))

	_, err := st.Get(ctx, KeyEmails)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, KeyCalls)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_PingAfterServerStop(t *testing.T) {
	st, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, st.Ping(ctx))

	mr.Close()
	assert.Error(t, st.Ping(ctx))
}
