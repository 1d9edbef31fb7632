package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newTestRedisStore(t, 0)
	ctx := context.Background()

	conv, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	conv.ApplyDatabaseSelection("elcd", "initial")
	manual := "m-traci"
	conv.ApplyMethodSelection(&manual, "user choice")
	conv.ApplyMode(ModeInteractive)
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage("hi")
	conv.AddActionResult(`[Action Results: {"type": "search_processes"}]`)
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.GetOrCreate(ctx, conv.ID)
	require.NoError(t, err)

	assert.Equal(t, conv.ID, loaded.ID)
	assert.Equal(t, "elcd", loaded.DatabaseID)
	require.NotNil(t, loaded.MethodID)
	assert.Equal(t, "m-traci", *loaded.MethodID)
	assert.Equal(t, SelectionManual, loaded.MethodSelectionMode)
	assert.Equal(t, ModeInteractive, loaded.Mode)

	require.Len(t, loaded.Messages, 3)
	// the action-result flag must survive the round trip even though
	// API payloads hide it
	assert.True(t, loaded.Messages[2].IsActionResult)
	assert.False(t, loaded.Messages[0].IsActionResult)
}

func TestRedisStore_UnknownIDCreatesFresh(t *testing.T) {
	store := newTestRedisStore(t, 0)

	conv, err := store.GetOrCreate(context.Background(), "conv_missing")
	require.NoError(t, err)
	assert.NotEqual(t, "conv_missing", conv.ID)
}

func TestRedisStore_TTLApplied(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	conv, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, conv))

	mr.FastForward(2 * time.Minute)

	reloaded, err := store.GetOrCreate(ctx, conv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, reloaded.ID)
}
