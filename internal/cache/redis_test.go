package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisFromClient(db, "propres:")
	ctx := context.Background()

	t.Run("cache hit returns value", func(t *testing.T) {
		mock.ExpectGet("propres:k1").SetVal(`{"address":"x"}`)

		v, ok, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"address":"x"}`, string(v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss returns not found", func(t *testing.T) {
		mock.ExpectGet("propres:missing").RedisNil()

		v, ok, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error returns error", func(t *testing.T) {
		mock.ExpectGet("propres:broken").SetErr(redis.TxFailedErr)

		_, _, err := c.Get(ctx, "broken")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_SetDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisFromClient(db, "propres:")
	ctx := context.Background()

	mock.ExpectSet("propres:k1", []byte("v"), 10*time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, "k1", []byte("v"), 10*time.Minute))

	mock.ExpectDel("propres:k1").SetVal(1)
	require.NoError(t, c.Delete(ctx, "k1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
