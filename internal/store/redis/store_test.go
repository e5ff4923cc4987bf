package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := setupTestRedis(t, time.Hour)

	_, err := s.Get(context.Background(), "session:x:sansli-cart")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_SetGet(t *testing.T) {
	s, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session:x:sansli-cart", []byte(`[{"quantity":1}]`)))

	raw, err := mr.Get("session:x:sansli-cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":1}]`, raw)

	got, err := s.Get(ctx, "session:x:sansli-cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":1}]`, string(got))
}

func TestStore_TTLRefreshedOnWrite(t *testing.T) {
	s, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()
	key := "session:x:sansli-wishlist"

	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(50 * time.Minute)
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ZeroTTLPersists(t *testing.T) {
	s, mr := setupTestRedis(t, 0)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestStore_Delete(t *testing.T) {
	s, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_Unavailable(t *testing.T) {
	s, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	mr.Close()

	assert.Error(t, s.Ping(ctx))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.ErrorIs(t, s.Set(ctx, "k", nil), apperrors.ErrServiceUnavail)
	assert.ErrorIs(t, s.Delete(ctx, "k"), apperrors.ErrServiceUnavail)
}
