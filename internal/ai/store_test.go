package ai

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHistoryStore exercises the HistoryStore contract against any implementation
func testHistoryStore(t *testing.T, store HistoryStore) {
	ctx := context.Background()

	turns, err := store.Get(ctx, "session")
	require.NoError(t, err)
	assert.Nil(t, turns)

	require.NoError(t, store.Append(ctx, "session", UserTurn("hi"), AssistantTurn("hello")))
	require.NoError(t, store.Append(ctx, "session", UserTurn("again")))

	turns, err = store.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []Turn{UserTurn("hi"), AssistantTurn("hello"), UserTurn("again")}, turns)

	require.NoError(t, store.Clear(ctx, "session"))
	turns, err = store.Get(ctx, "session")
	require.NoError(t, err)
	assert.Empty(t, turns)

	other, err := store.Get(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemoryHistoryStore(t *testing.T) {
	testHistoryStore(t, NewMemoryHistoryStore())
}

func TestMemoryHistoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryHistoryStore()
	require.NoError(t, store.Append(ctx, "s", UserTurn("hi")))

	turns, err := store.Get(ctx, "s")
	require.NoError(t, err)
	turns[0].Text = "changed"

	turns, err = store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "hi", turns[0].Text)
}

func TestFileSystemHistoryStore(t *testing.T) {
	store, err := NewFileSystemHistoryStore(t.TempDir())
	require.NoError(t, err)

	testHistoryStore(t, store)
}

func TestFileSystemHistoryStore_ClearLeavesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSystemHistoryStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "s", UserTurn("hi")))
	require.NoError(t, store.Clear(ctx, "s"))

	b, err := os.ReadFile(filepath.Join(dir, "s.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestFileSystemHistoryStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileSystemHistoryStore(t.TempDir())
	require.NoError(t, err)

	err = store.Append(context.Background(), "../escape", UserTurn("hi"))
	assert.ErrorContains(t, err, "invalid history key")
}

func TestFileSystemHistoryStore_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSystemHistoryStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{oops"), 0o644))

	_, err = store.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "failed to unmarshal conversation history")
}

func newTestRedisHistoryStore(t *testing.T, ttl time.Duration) (*RedisHistoryStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	store := NewRedisHistoryStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisHistoryStore(t *testing.T) {
	store, _ := newTestRedisHistoryStore(t, time.Hour)
	testHistoryStore(t, store)
}

func TestRedisHistoryStore_AppendSetsTTL(t *testing.T) {
	store, mr := newTestRedisHistoryStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s", UserTurn("hi"), AssistantTurn("hello")))

	assert.Equal(t, time.Hour, mr.TTL(historyKeyPrefix+"s"))
	items, err := mr.List(historyKeyPrefix + "s")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRedisHistoryStore_GetRefreshesTTL(t *testing.T) {
	store, mr := newTestRedisHistoryStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "s", UserTurn("hi")))

	mr.FastForward(45 * time.Minute)
	_, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(historyKeyPrefix+"s"))

	mr.FastForward(45 * time.Minute)
	turns, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []Turn{UserTurn("hi")}, turns)
}

func TestRedisHistoryStore_Expires(t *testing.T) {
	store, mr := newTestRedisHistoryStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "s", UserTurn("hi")))

	mr.FastForward(2 * time.Minute)

	turns, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, turns)
}

func TestRedisHistoryStore_DefaultTTL(t *testing.T) {
	store, _ := newTestRedisHistoryStore(t, 0)
	assert.Equal(t, defaultHistoryTTL, store.ttl)
}

func TestRedisHistoryStore_CorruptEntry(t *testing.T) {
	store, mr := newTestRedisHistoryStore(t, time.Hour)
	_, err := mr.Push(historyKeyPrefix+"s", "not json")
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "s")
	assert.ErrorContains(t, err, "failed to unmarshal conversation turn")
}
