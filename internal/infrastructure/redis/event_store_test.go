package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-fetcher/internal/config"
	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	if err := Ping(context.Background(), client); err != nil {
		client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// newTestStore はテストごとに別のキーを使うストアを作成する
func newTestStore(t *testing.T) *EventStore {
	t.Helper()
	client := setupTestRedis(t)
	prefix := "test:events:" + uuid.NewString()
	store := NewEventStore(client, prefix)
	t.Cleanup(func() {
		client.Del(context.Background(), store.dataKey, store.indexKey)
	})
	return store
}

func TestEncodeDecodeEvent(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	e := event.Event{
		ID:      "abc",
		Title:   "打ち合わせ",
		StartAt: time.Date(2025, 4, 1, 10, 0, 0, 0, jst),
		EndAt:   time.Date(2025, 4, 1, 11, 0, 0, 0, jst),
	}

	data, err := encodeEvent(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_at":"2025-04-01T10:00:00+09:00"`)

	decoded, err := decodeEvent(data)
	require.NoError(t, err)
	assert.True(t, e.Equal(decoded))
}

func TestDecodeEvent_Invalid(t *testing.T) {
	_, err := decodeEvent([]byte("{broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "イベントのデコードに失敗")
}

func TestNewEventStore_Keys(t *testing.T) {
	store := NewEventStore(nil, "calendar")
	assert.Equal(t, "calendar:data", store.dataKey)
	assert.Equal(t, "calendar:index", store.indexKey)
}

func TestEventStore_Connect(t *testing.T) {
	t.Run("接続できないアドレスではfalse", func(t *testing.T) {
		client := NewClient(&config.RedisConfig{Host: "127.0.0.1", Port: "1"})
		defer client.Close()
		store := NewEventStore(client, "test")

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.False(t, store.Connect(ctx))
	})

	t.Run("接続できればtrue", func(t *testing.T) {
		store := newTestStore(t)
		assert.True(t, store.Connect(context.Background()))
	})
}

func TestEventStore_Events(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("空の場合は空のスライス", func(t *testing.T) {
		events, err := store.Events(ctx, base, base)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("開始時刻順に返す", func(t *testing.T) {
		_, err := store.Add(ctx, event.Event{ID: "late", StartAt: base.Add(2 * time.Hour), EndAt: base.Add(3 * time.Hour)})
		require.NoError(t, err)
		early, err := store.Add(ctx, event.NewEvent("朝会", base, base.Add(15*time.Minute)))
		require.NoError(t, err)

		events, err := store.Events(ctx, base, base)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, early.ID, events[0].ID)
		assert.Equal(t, "late", events[1].ID)
	})
}

func TestEventStore_RemoveAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	added, err := store.Add(ctx, event.Event{ID: "x", Title: "レビュー", StartAt: base, EndAt: base.Add(time.Hour)})
	require.NoError(t, err)

	t.Run("IDで取得できる", func(t *testing.T) {
		got, err := store.EventByID(ctx, "x")
		require.NoError(t, err)
		assert.True(t, added.Equal(*got))
	})

	t.Run("削除後は見つからない", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, event.Event{ID: "x"}))

		_, err := store.EventByID(ctx, "x")
		assert.ErrorIs(t, err, event.ErrEventNotFound)

		events, err := store.Events(ctx, event.DistantPast, event.DistantFuture)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("存在しないIDの削除はErrEventNotFound", func(t *testing.T) {
		err := store.Remove(ctx, event.Event{ID: "x"})
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})
}
