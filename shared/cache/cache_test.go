package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"spacebook/infras/otel/mocks"
	"spacebook/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spaceEntry struct {
	ID       string `json:"id"`
	Timezone string `json:"timezone"`
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, mocks.NewOtel())
	ctx := context.Background()

	mock.ExpectSet("space:get:s1", []byte(`{"id":"s1","timezone":"Europe/Madrid"}`), time.Minute).SetVal("OK")
	require.NoError(t, c.Save(ctx, "space:get:s1", spaceEntry{ID: "s1", Timezone: "Europe/Madrid"}, time.Minute))

	mock.ExpectGet("space:get:s1").SetVal(`{"id":"s1","timezone":"Europe/Madrid"}`)

	var got spaceEntry
	require.NoError(t, c.Get(ctx, "space:get:s1", &got))
	assert.Equal(t, spaceEntry{ID: "s1", Timezone: "Europe/Madrid"}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetString(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectGet("limiter:1.2.3.4").SetVal("3")

	var got string
	require.NoError(t, c.Get(context.Background(), "limiter:1.2.3.4", &got))
	assert.Equal(t, "3", got)
}

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectGet("space:get:missing").RedisNil()

	var got spaceEntry
	err := c.Get(context.Background(), "space:get:missing", &got)

	require.Error(t, err)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectDel("space:get:s1").SetErr(errors.New("connection reset"))

	assert.Error(t, c.Delete(context.Background(), "space:get:s1"))
}

func TestRedisCache_Incr(t *testing.T) {
	t.Run("first hit starts the window", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectIncr("limiter:read:10.0.0.1:curl").SetVal(1)
		mock.ExpectExpire("limiter:read:10.0.0.1:curl", time.Minute).SetVal(true)

		count, err := c.Incr(context.Background(), "limiter:read:10.0.0.1:curl", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later hits keep the ttl", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectIncr("limiter:read:10.0.0.1:curl").SetVal(5)

		count, err := c.Incr(context.Background(), "limiter:read:10.0.0.1:curl", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, mocks.NewOtel())

		mock.ExpectIncr("k").SetErr(errors.New("connection refused"))

		_, err := c.Incr(context.Background(), "k", time.Minute)
		assert.Error(t, err)
	})
}
